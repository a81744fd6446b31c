package repository

import (
	"time"

	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	Create(db *gorm.DB, slot *entity.TimeSlot) error
	FindByID(db *gorm.DB, id int) (*entity.TimeSlot, error)
	FindAll(db *gorm.DB, filter *entity.TimeSlotFilter) ([]entity.TimeSlot, error)
	FindByCalendarID(db *gorm.DB, calendarID int, from time.Time) ([]entity.TimeSlot, error)
	// HasOverlap reports whether any slot of the calendar, other than excludeID, intersects [start, end).
	HasOverlap(db *gorm.DB, calendarID int, start, end time.Time, excludeID int) (bool, error)
	Update(db *gorm.DB, slot *entity.TimeSlot) error
	Delete(db *gorm.DB, id int) (int64, error)
	// Claim flips is_available to false only if it is still true. Returns affected rows.
	Claim(db *gorm.DB, id int) (int64, error)
	Release(db *gorm.DB, id int) error
}
