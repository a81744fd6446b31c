package usecase

import (
	"context"
	"errors"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrCalendarNotFound = errors.New("calendar not found")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID int, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actor entity.Actor, doctorID int) error
	UpsertCalendar(ctx context.Context, actor entity.Actor, doctorID int, req *dto.CalendarRequest) (*dto.CalendarResponse, error)
}

type doctorUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorRepo         repository.DoctorRepository
	calendarRepo       repository.CalendarRepository
	timeSlotRepo       repository.TimeSlotRepository
	departmentRepo     repository.DepartmentRepository
	specializationRepo repository.SpecializationRepository
	policy             *service.AccessPolicy
	auditService       service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	calendarRepo repository.CalendarRepository,
	timeSlotRepo repository.TimeSlotRepository,
	departmentRepo repository.DepartmentRepository,
	specializationRepo repository.SpecializationRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorRepo:         doctorRepo,
		calendarRepo:       calendarRepo,
		timeSlotRepo:       timeSlotRepo,
		departmentRepo:     departmentRepo,
		specializationRepo: specializationRepo,
		policy:             policy,
		auditService:       auditService,
	}
}

// CreateDoctor creates the user account and doctor row in one transaction.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureReferences(tx, req.SpecID, req.DepartmentID); err != nil {
		return nil, err
	}

	user, err := createUserAccount(tx, u.log, u.userRepo, &entity.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    entity.RoleIDDoctor,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		UserID:       user.ID,
		SpecID:       req.SpecID,
		DepartmentID: req.DepartmentID,
		YearsOfExp:   req.YearsOfExp,
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventDoctorCreate, "doctor", doctor.ID, doctor); err != nil {
		return nil, err
	}

	created, err := u.doctorRepo.FindByID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to reload doctor %d: %+v", doctor.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Doctor created: id=%d, user=%d", doctor.ID, user.ID)
	return converter.DoctorToResponse(created), nil
}

// GetDoctor includes the calendar and the upcoming available slots.
func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := converter.DoctorToResponse(doctor)

	now := time.Now().UTC()
	slots, err := u.timeSlotRepo.FindAll(db, &entity.TimeSlotFilter{
		DoctorID:      doctor.ID,
		DateFrom:      &now,
		AvailableOnly: true,
	})
	if err != nil {
		u.log.Warnf("Failed to find upcoming slots of doctor %d: %+v", doctor.ID, err)
		return nil, err
	}
	response.UpcomingSlots = converter.TimeSlotsToResponses(slots)

	return response, nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// UpdateDoctor is allowed for admins and for the doctor themself.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actor entity.Actor, doctorID int, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !u.ownsDoctor(actor, doctor) {
		return nil, ErrForbidden
	}
	oldValue := converter.DoctorToResponse(doctor)

	specID, departmentID := doctor.SpecID, doctor.DepartmentID
	if req.SpecID != nil {
		specID = *req.SpecID
	}
	if req.DepartmentID != nil {
		departmentID = *req.DepartmentID
	}
	if err := u.ensureReferences(tx, specID, departmentID); err != nil {
		return nil, err
	}
	doctor.SpecID = specID
	doctor.DepartmentID = departmentID
	if req.YearsOfExp != nil {
		doctor.YearsOfExp = *req.YearsOfExp
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	if user := doctor.User; user != nil && (req.FirstName != nil || req.LastName != nil || req.Phone != nil) {
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
			u.log.Warnf("Failed to update doctor user: %+v", err)
			return nil, err
		}
	}

	updated, err := u.doctorRepo.FindByID(tx, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to reload doctor %d: %+v", doctor.ID, err)
		return nil, err
	}
	response := converter.DoctorToResponse(updated)

	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventDoctorUpdate, "doctor", doctor.ID, oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, actor entity.Actor, doctorID int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorRepo.Delete(tx, doctorID); err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventDoctorDelete, "doctor", doctorID, converter.DoctorToResponse(doctor)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// UpsertCalendar creates the doctor's calendar or flips its availability.
func (u *doctorUsecase) UpsertCalendar(ctx context.Context, actor entity.Actor, doctorID int, req *dto.CalendarRequest) (*dto.CalendarResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !u.ownsDoctor(actor, doctor) {
		return nil, ErrForbidden
	}

	calendar, err := u.calendarRepo.FindByDoctorID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find calendar: %+v", err)
		return nil, err
	}
	if calendar == nil {
		calendar = &entity.DoctorCalendar{DoctorID: doctorID, Availability: *req.Availability}
		if err := u.calendarRepo.Create(tx, calendar); err != nil {
			u.log.Warnf("Failed to create calendar: %+v", err)
			return nil, err
		}
	} else {
		if err := u.calendarRepo.UpdateAvailability(tx, calendar.ID, *req.Availability); err != nil {
			u.log.Warnf("Failed to update calendar: %+v", err)
			return nil, err
		}
		calendar.Availability = *req.Availability
	}

	response := converter.CalendarToResponse(calendar)
	if err := u.auditService.Log(tx, actor.UserID, entity.AuditEventCalendarUpsert, "calendar", calendar.ID, entity.JSON{"new_value": response}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *doctorUsecase) ownsDoctor(actor entity.Actor, doctor *entity.Doctor) bool {
	if u.policy.CanManageAny(actor.Role, service.ResourceDoctor) {
		return true
	}
	return actor.IsDoctor() && doctor.UserID == actor.UserID
}

func (u *doctorUsecase) ensureReferences(tx *gorm.DB, specID, departmentID int) error {
	spec, err := u.specializationRepo.FindByID(tx, specID)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return err
	}
	if spec == nil {
		return ErrSpecializationNotFound
	}

	department, err := u.departmentRepo.FindByID(tx, departmentID)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return err
	}
	if department == nil {
		return ErrDepartmentNotFound
	}
	return nil
}
