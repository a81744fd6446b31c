package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error)
	UpdateFields(db *gorm.DB, id int, fields map[string]interface{}) error
	CountBySlot(db *gorm.DB, slotID int, activeOnly bool) (int64, error)
}
