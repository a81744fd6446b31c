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
	ErrInsuranceNotFound     = errors.New("insurance not found")
	ErrPolicyNumberExists    = errors.New("policy number already exists")
	ErrNegativeCoverageLimit = errors.New("coverage_limit must not be negative")
)

type InsuranceUsecase interface {
	CreateInsurance(ctx context.Context, actor entity.Actor, req *dto.InsuranceRequest) (*dto.InsuranceResponse, error)
	GetInsurance(ctx context.Context, actor entity.Actor, id int) (*dto.InsuranceResponse, error)
	GetAllInsurance(ctx context.Context) ([]dto.InsuranceResponse, error)
	UpdateInsurance(ctx context.Context, actor entity.Actor, id int, req *dto.InsuranceRequest) (*dto.InsuranceResponse, error)
	DeleteInsurance(ctx context.Context, actor entity.Actor, id int) error
}

type insuranceUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	insuranceRepo repository.InsuranceRepository
	patientRepo   repository.PatientRepository
	policy        *service.AccessPolicy
	auditService  service.AuditService
}

func NewInsuranceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	insuranceRepo repository.InsuranceRepository,
	patientRepo repository.PatientRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
) InsuranceUsecase {
	return &insuranceUsecase{
		db:            db,
		log:           log,
		insuranceRepo: insuranceRepo,
		patientRepo:   patientRepo,
		policy:        policy,
		auditService:  auditService,
	}
}

func (u *insuranceUsecase) CreateInsurance(ctx context.Context, actor entity.Actor, req *dto.InsuranceRequest) (*dto.InsuranceResponse, error) {
	insurance := &entity.Insurance{}
	if err := applyInsurance(insurance, req); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.insuranceRepo.Create(tx, insurance); err != nil {
		if isDuplicateKeyError(err, "policy_number") {
			return nil, ErrPolicyNumberExists
		}
		u.log.Warnf("Failed to create insurance: %+v", err)
		return nil, err
	}

	response := converter.InsuranceToResponse(insurance)
	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventInsuranceCreate, "insurance", insurance.ID, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

// GetInsurance is open to admins and to patients whose row references the policy.
func (u *insuranceUsecase) GetInsurance(ctx context.Context, actor entity.Actor, id int) (*dto.InsuranceResponse, error) {
	db := u.db.WithContext(ctx)

	insurance, err := u.findInsurance(db, id)
	if err != nil {
		return nil, err
	}

	if !u.policy.CanManageAny(actor.Role, service.ResourceInsurance) {
		if !actor.IsPatient() {
			return nil, ErrForbidden
		}
		patient, err := u.patientRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find patient by user: %+v", err)
			return nil, err
		}
		if patient == nil || patient.InsuranceID == nil || *patient.InsuranceID != insurance.ID {
			return nil, ErrForbidden
		}
	}

	return converter.InsuranceToResponse(insurance), nil
}

func (u *insuranceUsecase) GetAllInsurance(ctx context.Context) ([]dto.InsuranceResponse, error) {
	policies, err := u.insuranceRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find insurance: %+v", err)
		return nil, err
	}
	return converter.InsurancesToResponses(policies), nil
}

func (u *insuranceUsecase) UpdateInsurance(ctx context.Context, actor entity.Actor, id int, req *dto.InsuranceRequest) (*dto.InsuranceResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	insurance, err := u.findInsurance(tx, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.InsuranceToResponse(insurance)

	if err := applyInsurance(insurance, req); err != nil {
		return nil, err
	}

	if err := u.insuranceRepo.Update(tx, insurance); err != nil {
		if isDuplicateKeyError(err, "policy_number") {
			return nil, ErrPolicyNumberExists
		}
		u.log.Warnf("Failed to update insurance: %+v", err)
		return nil, err
	}

	response := converter.InsuranceToResponse(insurance)
	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventInsuranceUpdate, "insurance", insurance.ID, oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return response, nil
}

// DeleteInsurance detaches the policy from patients through ON DELETE SET NULL.
func (u *insuranceUsecase) DeleteInsurance(ctx context.Context, actor entity.Actor, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	insurance, err := u.findInsurance(tx, id)
	if err != nil {
		return err
	}

	if _, err := u.insuranceRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete insurance: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventInsuranceDelete, "insurance", id, converter.InsuranceToResponse(insurance)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *insuranceUsecase) findInsurance(db *gorm.DB, id int) (*entity.Insurance, error) {
	insurance, err := u.insuranceRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find insurance %d: %+v", id, err)
		return nil, err
	}
	if insurance == nil {
		return nil, ErrInsuranceNotFound
	}
	return insurance, nil
}

func applyInsurance(insurance *entity.Insurance, req *dto.InsuranceRequest) error {
	if req.CoverageLimit.IsNegative() {
		return ErrNegativeCoverageLimit
	}
	validUntil, err := parseOptionalDate(req.ValidUntil)
	if err != nil {
		return err
	}

	insurance.Provider = req.Provider
	insurance.PolicyNumber = req.PolicyNumber
	insurance.CoverageDetails = req.CoverageDetails
	insurance.CoverageLimit = req.CoverageLimit
	insurance.ValidUntil = validUntil
	return nil
}
