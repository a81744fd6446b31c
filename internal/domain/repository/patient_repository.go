package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id int) (*entity.Patient, error)
	FindByUserID(db *gorm.DB, userID int) (*entity.Patient, error)
	FindAll(db *gorm.DB) ([]entity.Patient, error)
	Update(db *gorm.DB, patient *entity.Patient) error
	Delete(db *gorm.DB, id int) (int64, error)
}

type PatientAllergyRepository interface {
	Create(db *gorm.DB, allergy *entity.PatientAllergy) error
	FindByPatientID(db *gorm.DB, patientID int) ([]entity.PatientAllergy, error)
	Delete(db *gorm.DB, patientID, id int) (int64, error)
}

type PatientMedicationRepository interface {
	Create(db *gorm.DB, medication *entity.PatientMedication) error
	FindByPatientID(db *gorm.DB, patientID int) ([]entity.PatientMedication, error)
}
