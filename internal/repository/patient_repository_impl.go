package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit(clause.Associations).Create(patient).Error
}

func (r *patientRepository) FindByID(db *gorm.DB, id int) (*entity.Patient, error) {
	return r.findOne(db.Where("id = ?", id))
}

func (r *patientRepository) FindByUserID(db *gorm.DB, userID int) (*entity.Patient, error) {
	return r.findOne(db.Where("user_id = ?", userID))
}

func (r *patientRepository) findOne(query *gorm.DB) (*entity.Patient, error) {
	var patient entity.Patient
	err := query.Preload("User").Preload("Insurance").First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) FindAll(db *gorm.DB) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.Preload("User").Preload("Insurance").Order("id ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(db *gorm.DB, patient *entity.Patient) error {
	return db.Omit(clause.Associations).Save(patient).Error
}

func (r *patientRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Patient{})
	return result.RowsAffected, result.Error
}

// Allergies

type patientAllergyRepository struct{}

func NewPatientAllergyRepository() domainRepo.PatientAllergyRepository {
	return &patientAllergyRepository{}
}

func (r *patientAllergyRepository) Create(db *gorm.DB, allergy *entity.PatientAllergy) error {
	return db.Create(allergy).Error
}

func (r *patientAllergyRepository) FindByPatientID(db *gorm.DB, patientID int) ([]entity.PatientAllergy, error) {
	var allergies []entity.PatientAllergy
	err := db.Where("patient_id = ?", patientID).Order("created_at DESC").Find(&allergies).Error
	if err != nil {
		return nil, err
	}
	return allergies, nil
}

func (r *patientAllergyRepository) Delete(db *gorm.DB, patientID, id int) (int64, error) {
	result := db.Where("id = ? AND patient_id = ?", id, patientID).Delete(&entity.PatientAllergy{})
	return result.RowsAffected, result.Error
}

// Medications

type patientMedicationRepository struct{}

func NewPatientMedicationRepository() domainRepo.PatientMedicationRepository {
	return &patientMedicationRepository{}
}

func (r *patientMedicationRepository) Create(db *gorm.DB, medication *entity.PatientMedication) error {
	return db.Create(medication).Error
}

func (r *patientMedicationRepository) FindByPatientID(db *gorm.DB, patientID int) ([]entity.PatientMedication, error) {
	var medications []entity.PatientMedication
	err := db.Where("patient_id = ?", patientID).Order("created_at DESC").Find(&medications).Error
	if err != nil {
		return nil, err
	}
	return medications, nil
}
