package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByID(db *gorm.DB, id int) (*entity.MedicalRecord, error)
	FindAll(db *gorm.DB, filter *entity.MedicalRecordFilter) ([]entity.MedicalRecord, error)
	Update(db *gorm.DB, record *entity.MedicalRecord) error
	Delete(db *gorm.DB, id int) (int64, error)
}

type InsuranceRepository interface {
	Create(db *gorm.DB, insurance *entity.Insurance) error
	FindByID(db *gorm.DB, id int) (*entity.Insurance, error)
	FindAll(db *gorm.DB) ([]entity.Insurance, error)
	Update(db *gorm.DB, insurance *entity.Insurance) error
	Delete(db *gorm.DB, id int) (int64, error)
}
