package usecase

import (
	"context"
	"errors"
	"fmt"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrAllergyNotFound = errors.New("allergy not found")
)

type PatientUsecase interface {
	CreatePatient(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetPatient(ctx context.Context, actor entity.Actor, id int) (*dto.PatientResponse, error)
	GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error)
	UpdatePatient(ctx context.Context, actor entity.Actor, id int, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	DeletePatient(ctx context.Context, actor entity.Actor, id int) error

	GetAllergies(ctx context.Context, actor entity.Actor, patientID int) ([]dto.AllergyResponse, error)
	AddAllergy(ctx context.Context, actor entity.Actor, patientID int, req *dto.AllergyRequest) (*dto.AllergyResponse, error)
	DeleteAllergy(ctx context.Context, actor entity.Actor, patientID, allergyID int) error

	GetMedications(ctx context.Context, actor entity.Actor, patientID int) ([]dto.MedicationResponse, error)
	AddMedication(ctx context.Context, actor entity.Actor, patientID int, req *dto.MedicationRequest) (*dto.MedicationResponse, error)
}

type patientUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	patientRepo         repository.PatientRepository
	allergyRepo         repository.PatientAllergyRepository
	medicationRepo      repository.PatientMedicationRepository
	insuranceRepo       repository.InsuranceRepository
	policy              *service.AccessPolicy
	auditService        service.AuditService
	notificationService *service.NotificationService
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	allergyRepo repository.PatientAllergyRepository,
	medicationRepo repository.PatientMedicationRepository,
	insuranceRepo repository.InsuranceRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
	notificationService *service.NotificationService,
) PatientUsecase {
	return &patientUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		patientRepo:         patientRepo,
		allergyRepo:         allergyRepo,
		medicationRepo:      medicationRepo,
		insuranceRepo:       insuranceRepo,
		policy:              policy,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// CreatePatient creates the user account (role patient) and the patient row together.
func (u *patientUsecase) CreatePatient(ctx context.Context, actor entity.Actor, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if req.InsuranceID != nil {
		if err := u.ensureInsurance(tx, *req.InsuranceID); err != nil {
			return nil, err
		}
	}

	user, err := createUserAccount(tx, u.log, u.userRepo, &entity.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    entity.RoleIDPatient,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		UserID:      user.ID,
		DateOfBirth: dob,
		Gender:      req.Gender,
		BloodType:   req.BloodType,
		InsuranceID: req.InsuranceID,
	}
	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	created, err := u.patientRepo.FindByID(tx, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to reload patient %d: %+v", patient.ID, err)
		return nil, err
	}
	response := converter.PatientToResponse(created)

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventPatientCreate, "patient", patient.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Patient created: id=%d, user=%d", patient.ID, user.ID)
	return response, nil
}

func (u *patientUsecase) GetPatient(ctx context.Context, actor entity.Actor, id int) (*dto.PatientResponse, error) {
	patient, err := u.findReadable(u.db.WithContext(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) GetAllPatients(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

// UpdatePatient is open to admins and to the patient themself.
func (u *patientUsecase) UpdatePatient(ctx context.Context, actor entity.Actor, id int, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, id)
	if err != nil {
		return nil, err
	}
	if !u.policy.CanManageAny(actor.Role, service.ResourcePatient) && !isSelf(actor, patient) {
		return nil, ErrForbidden
	}
	oldValue := converter.PatientToResponse(patient)

	if user := patient.User; user != nil && (req.FirstName != nil || req.LastName != nil || req.Phone != nil) {
		if req.FirstName != nil {
			user.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			user.LastName = *req.LastName
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if err := u.userRepo.Update(tx, user); err != nil {
			u.log.Warnf("Failed to update patient user: %+v", err)
			return nil, err
		}
	}

	if req.DateOfBirth != nil {
		dob, err := parseOptionalDate(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}
	if req.InsuranceID != nil {
		if *req.InsuranceID == 0 {
			patient.InsuranceID = nil
		} else {
			if err := u.ensureInsurance(tx, *req.InsuranceID); err != nil {
				return nil, err
			}
			insuranceID := *req.InsuranceID
			patient.InsuranceID = &insuranceID
		}
		patient.Insurance = nil
	}

	if err := u.patientRepo.Update(tx, patient); err != nil {
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	updated, err := u.patientRepo.FindByID(tx, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to reload patient %d: %+v", patient.ID, err)
		return nil, err
	}
	response := converter.PatientToResponse(updated)

	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventPatientUpdate, "patient", patient.ID, oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

func (u *patientUsecase) DeletePatient(ctx context.Context, actor entity.Actor, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, id)
	if err != nil {
		return err
	}

	if _, err := u.patientRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete patient: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventPatientDelete, "patient", id, converter.PatientToResponse(patient)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *patientUsecase) GetAllergies(ctx context.Context, actor entity.Actor, patientID int) ([]dto.AllergyResponse, error) {
	db := u.db.WithContext(ctx)
	if _, err := u.findReadable(db, actor, patientID); err != nil {
		return nil, err
	}

	allergies, err := u.allergyRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find allergies of patient %d: %+v", patientID, err)
		return nil, err
	}
	return converter.AllergiesToResponses(allergies), nil
}

func (u *patientUsecase) AddAllergy(ctx context.Context, actor entity.Actor, patientID int, req *dto.AllergyRequest) (*dto.AllergyResponse, error) {
	diagnosed, err := parseOptionalDate(req.DiagnosedDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, patientID)
	if err != nil {
		return nil, err
	}
	if !u.canWriteAllergy(actor, patient) {
		return nil, ErrForbidden
	}

	allergy := &entity.PatientAllergy{
		PatientID:     patient.ID,
		AllergyName:   req.AllergyName,
		Severity:      req.Severity,
		Reaction:      req.Reaction,
		DiagnosedDate: diagnosed,
		CreatedBy:     actor.UserID,
	}
	if err := u.allergyRepo.Create(tx, allergy); err != nil {
		u.log.Warnf("Failed to create allergy: %+v", err)
		return nil, err
	}

	response := converter.AllergyToResponse(allergy)
	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventAllergyCreate, "patient_allergy", allergy.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

func (u *patientUsecase) DeleteAllergy(ctx context.Context, actor entity.Actor, patientID, allergyID int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, patientID)
	if err != nil {
		return err
	}
	if !u.canWriteAllergy(actor, patient) {
		return ErrForbidden
	}

	affected, err := u.allergyRepo.Delete(tx, patientID, allergyID)
	if err != nil {
		u.log.Warnf("Failed to delete allergy: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrAllergyNotFound
	}

	if err := u.auditService.Log(tx, actor.UserID, entity.AuditEventAllergyDelete, "patient_allergy", allergyID, entity.JSON{
		"patient_id": patientID,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *patientUsecase) GetMedications(ctx context.Context, actor entity.Actor, patientID int) ([]dto.MedicationResponse, error) {
	db := u.db.WithContext(ctx)
	if _, err := u.findReadable(db, actor, patientID); err != nil {
		return nil, err
	}

	medications, err := u.medicationRepo.FindByPatientID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find medications of patient %d: %+v", patientID, err)
		return nil, err
	}
	return converter.MedicationsToResponses(medications), nil
}

// AddMedication stores the prescription and a MEDICATION notification for the
// patient in one transaction, then pushes the notification after commit.
func (u *patientUsecase) AddMedication(ctx context.Context, actor entity.Actor, patientID int, req *dto.MedicationRequest) (*dto.MedicationResponse, error) {
	if !u.policy.Can(actor.Role, service.ResourceMedication, service.ActionCreate) {
		return nil, ErrForbidden
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, ErrInvalidDateRange
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.findPatient(tx, patientID)
	if err != nil {
		return nil, err
	}

	medication := &entity.PatientMedication{
		PatientID:      patient.ID,
		MedicationName: req.MedicationName,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		StartDate:      startDate,
		EndDate:        endDate,
		PrescribedBy:   actor.UserID,
	}
	if err := u.medicationRepo.Create(tx, medication); err != nil {
		u.log.Warnf("Failed to create medication: %+v", err)
		return nil, err
	}

	response := converter.MedicationToResponse(medication)
	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventMedicationCreate, "patient_medication", medication.ID, response); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("New medication prescribed: %s", medication.MedicationName)
	if medication.Dosage != "" {
		content += ", " + medication.Dosage
	}
	if medication.Frequency != "" {
		content += ", " + medication.Frequency
	}
	notification, err := u.notificationService.Create(tx, patient.UserID, entity.NotificationTypeMedication, content)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notificationService.Deliver(ctx, notification)
	return response, nil
}

func (u *patientUsecase) findPatient(db *gorm.DB, id int) (*entity.Patient, error) {
	patient, err := u.patientRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", id, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

// findReadable: admins and doctors read any patient, a patient only themself.
func (u *patientUsecase) findReadable(db *gorm.DB, actor entity.Actor, id int) (*entity.Patient, error) {
	patient, err := u.findPatient(db, id)
	if err != nil {
		return nil, err
	}
	if !u.policy.Can(actor.Role, service.ResourcePatient, service.ActionRead) && !isSelf(actor, patient) {
		return nil, ErrForbidden
	}
	return patient, nil
}

func (u *patientUsecase) canWriteAllergy(actor entity.Actor, patient *entity.Patient) bool {
	if !u.policy.Can(actor.Role, service.ResourceAllergy, service.ActionCreate) {
		return false
	}
	return !actor.IsPatient() || isSelf(actor, patient)
}

func (u *patientUsecase) ensureInsurance(tx *gorm.DB, id int) error {
	insurance, err := u.insuranceRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find insurance %d: %+v", id, err)
		return err
	}
	if insurance == nil {
		return ErrInsuranceNotFound
	}
	return nil
}

func isSelf(actor entity.Actor, patient *entity.Patient) bool {
	return actor.IsPatient() && patient.UserID == actor.UserID
}
