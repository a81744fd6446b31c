package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Slot").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := db.Model(&entity.Appointment{})

	if filter != nil {
		if filter.PatientID != 0 {
			query = query.Where("patient_id = ?", filter.PatientID)
		}
		if filter.DoctorID != 0 {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
	}

	err := query.
		Preload("Patient.User").
		Preload("Doctor.User").
		Preload("Slot").
		Order("appointment_date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateFields(db *gorm.DB, id int, fields map[string]interface{}) error {
	return db.Model(&entity.Appointment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *appointmentRepository) CountBySlot(db *gorm.DB, slotID int, activeOnly bool) (int64, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).Where("slot_id = ?", slotID)
	if activeOnly {
		query = query.Where("status <> ?", entity.AppointmentStatusCancelled)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
