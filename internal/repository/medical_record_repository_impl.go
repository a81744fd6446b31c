package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type medicalRecordRepository struct{}

func NewMedicalRecordRepository() domainRepo.MedicalRecordRepository {
	return &medicalRecordRepository{}
}

func (r *medicalRecordRepository) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Omit(clause.Associations).Create(record).Error
}

func (r *medicalRecordRepository) FindByID(db *gorm.DB, id int) (*entity.MedicalRecord, error) {
	var record entity.MedicalRecord
	err := db.Preload("Patient.User").Preload("Doctor.User").Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *medicalRecordRepository) FindAll(db *gorm.DB, filter *entity.MedicalRecordFilter) ([]entity.MedicalRecord, error) {
	var records []entity.MedicalRecord
	query := db.Model(&entity.MedicalRecord{})
	if filter != nil {
		if filter.PatientID != 0 {
			query = query.Where("patient_id = ?", filter.PatientID)
		}
		if filter.DoctorID != 0 {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
	}
	err := query.Preload("Patient.User").Preload("Doctor.User").Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *medicalRecordRepository) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	return db.Omit(clause.Associations).Save(record).Error
}

func (r *medicalRecordRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.MedicalRecord{})
	return result.RowsAffected, result.Error
}

// Insurance

type insuranceRepository struct{}

func NewInsuranceRepository() domainRepo.InsuranceRepository {
	return &insuranceRepository{}
}

func (r *insuranceRepository) Create(db *gorm.DB, insurance *entity.Insurance) error {
	return db.Create(insurance).Error
}

func (r *insuranceRepository) FindByID(db *gorm.DB, id int) (*entity.Insurance, error) {
	var insurance entity.Insurance
	err := db.Where("id = ?", id).First(&insurance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &insurance, nil
}

func (r *insuranceRepository) FindAll(db *gorm.DB) ([]entity.Insurance, error) {
	var policies []entity.Insurance
	if err := db.Order("provider ASC, policy_number ASC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *insuranceRepository) Update(db *gorm.DB, insurance *entity.Insurance) error {
	return db.Save(insurance).Error
}

func (r *insuranceRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Insurance{})
	return result.RowsAffected, result.Error
}
