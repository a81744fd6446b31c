package usecase

import (
	"context"
	"errors"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMedicalRecordNotFound = errors.New("medical record not found")
	ErrDoctorRequired        = errors.New("doctor_id is required")
	ErrAppointmentMismatch   = errors.New("appointment does not belong to this patient")
)

type MedicalRecordUsecase interface {
	CreateMedicalRecord(ctx context.Context, actor entity.Actor, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetMedicalRecords(ctx context.Context, actor entity.Actor, filter *entity.MedicalRecordFilter) (*dto.MedicalRecordListResponse, error)
	GetMedicalRecord(ctx context.Context, actor entity.Actor, id int) (*dto.MedicalRecordResponse, error)
	UpdateMedicalRecord(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	DeleteMedicalRecord(ctx context.Context, actor entity.Actor, id int) error
}

type medicalRecordUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	recordRepo      repository.MedicalRecordRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	policy          *service.AccessPolicy
	auditService    service.AuditService
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	recordRepo repository.MedicalRecordRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:              db,
		log:             log,
		recordRepo:      recordRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		auditService:    auditService,
	}
}

// CreateMedicalRecord: a doctor always writes under their own id, an admin names the doctor.
func (u *medicalRecordUsecase) CreateMedicalRecord(ctx context.Context, actor entity.Actor, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctorID, err := u.resolveAuthor(tx, actor, req.DoctorID)
	if err != nil {
		return nil, err
	}

	patient, err := u.patientRepo.FindByID(tx, req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if req.AppointmentID != nil {
		appointment, err := u.appointmentRepo.FindByID(tx, *req.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %d: %+v", *req.AppointmentID, err)
			return nil, err
		}
		if appointment == nil {
			return nil, ErrAppointmentNotFound
		}
		if appointment.PatientID != patient.ID {
			return nil, ErrAppointmentMismatch
		}
	}

	record := &entity.MedicalRecord{
		PatientID:     patient.ID,
		DoctorID:      doctorID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Prescriptions: req.Prescriptions,
		LabResults:    req.LabResults,
	}
	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	created, err := u.recordRepo.FindByID(tx, record.ID)
	if err != nil {
		u.log.Warnf("Failed to reload medical record %d: %+v", record.ID, err)
		return nil, err
	}
	response := converter.MedicalRecordToResponse(created)

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventMedicalRecordWrite, "medical_record", record.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

// GetMedicalRecords scopes the listing: admins see everything (optionally
// filtered), a doctor the records they wrote, a patient their own history.
func (u *medicalRecordUsecase) GetMedicalRecords(ctx context.Context, actor entity.Actor, filter *entity.MedicalRecordFilter) (*dto.MedicalRecordListResponse, error) {
	db := u.db.WithContext(ctx)
	if filter == nil {
		filter = &entity.MedicalRecordFilter{}
	}
	empty := &dto.MedicalRecordListResponse{Records: []dto.MedicalRecordResponse{}}

	switch {
	case u.policy.CanManageAny(actor.Role, service.ResourceMedicalRecord):
	case actor.IsDoctor():
		doctor, err := u.doctorRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by user: %+v", err)
			return nil, err
		}
		if doctor == nil {
			return empty, nil
		}
		filter.DoctorID = doctor.ID
	case actor.IsPatient():
		patient, err := u.patientRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find patient by user: %+v", err)
			return nil, err
		}
		if patient == nil {
			return empty, nil
		}
		filter.PatientID = patient.ID
		filter.DoctorID = 0
	default:
		return nil, ErrForbidden
	}

	records, err := u.recordRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to find medical records: %+v", err)
		return nil, err
	}

	return &dto.MedicalRecordListResponse{
		Records: converter.MedicalRecordsToResponses(records),
		Total:   len(records),
	}, nil
}

func (u *medicalRecordUsecase) GetMedicalRecord(ctx context.Context, actor entity.Actor, id int) (*dto.MedicalRecordResponse, error) {
	record, err := u.findRecord(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !u.canRead(actor, record) {
		return nil, ErrForbidden
	}
	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) UpdateMedicalRecord(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findRecord(tx, id)
	if err != nil {
		return nil, err
	}
	if !u.isAuthor(actor, record) {
		return nil, ErrForbidden
	}
	oldValue := converter.MedicalRecordToResponse(record)

	if req.Diagnosis != nil {
		record.Diagnosis = *req.Diagnosis
	}
	if req.Prescriptions != nil {
		record.Prescriptions = *req.Prescriptions
	}
	if req.LabResults != nil {
		record.LabResults = *req.LabResults
	}

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	response := converter.MedicalRecordToResponse(record)
	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventMedicalRecordWrite, "medical_record", record.ID, oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

func (u *medicalRecordUsecase) DeleteMedicalRecord(ctx context.Context, actor entity.Actor, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.findRecord(tx, id)
	if err != nil {
		return err
	}

	if _, err := u.recordRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete medical record: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventMedicalRecordDelete, "medical_record", id, converter.MedicalRecordToResponse(record)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *medicalRecordUsecase) resolveAuthor(tx *gorm.DB, actor entity.Actor, requested int) (int, error) {
	if actor.IsDoctor() {
		doctor, err := u.doctorRepo.FindByUserID(tx, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by user: %+v", err)
			return 0, err
		}
		if doctor == nil {
			return 0, ErrDoctorNotFound
		}
		if requested != 0 && requested != doctor.ID {
			return 0, ErrForbidden
		}
		return doctor.ID, nil
	}

	if !u.policy.CanManageAny(actor.Role, service.ResourceMedicalRecord) {
		return 0, ErrForbidden
	}
	if requested == 0 {
		return 0, ErrDoctorRequired
	}
	doctor, err := u.doctorRepo.FindByID(tx, requested)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", requested, err)
		return 0, err
	}
	if doctor == nil {
		return 0, ErrDoctorNotFound
	}
	return doctor.ID, nil
}

func (u *medicalRecordUsecase) findRecord(db *gorm.DB, id int) (*entity.MedicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find medical record %d: %+v", id, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrMedicalRecordNotFound
	}
	return record, nil
}

func (u *medicalRecordUsecase) isAuthor(actor entity.Actor, record *entity.MedicalRecord) bool {
	if u.policy.CanManageAny(actor.Role, service.ResourceMedicalRecord) {
		return true
	}
	return actor.IsDoctor() && record.Doctor != nil && record.Doctor.UserID == actor.UserID
}

func (u *medicalRecordUsecase) canRead(actor entity.Actor, record *entity.MedicalRecord) bool {
	if u.isAuthor(actor, record) {
		return true
	}
	return actor.IsPatient() && record.Patient != nil && record.Patient.UserID == actor.UserID
}
