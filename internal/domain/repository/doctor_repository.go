package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id int) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID int) (*entity.Doctor, error)
	FindAll(db *gorm.DB) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id int) (int64, error)
}

type CalendarRepository interface {
	Create(db *gorm.DB, calendar *entity.DoctorCalendar) error
	FindByID(db *gorm.DB, id int) (*entity.DoctorCalendar, error)
	FindByDoctorID(db *gorm.DB, doctorID int) (*entity.DoctorCalendar, error)
	UpdateAvailability(db *gorm.DB, id int, availability bool) error
}
