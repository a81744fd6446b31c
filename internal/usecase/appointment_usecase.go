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
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotUnavailable     = errors.New("time slot is not available")
	ErrCalendarClosed      = errors.New("doctor is not accepting bookings")
	ErrPatientRequired     = errors.New("patient_id is required")
)

const slotTimeLayout = "2006-01-02 15:04 MST"

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointments(ctx context.Context, actor entity.Actor, status string) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, id int) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, actor entity.Actor, id int) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	appointmentRepo     repository.AppointmentRepository
	timeSlotRepo        repository.TimeSlotRepository
	patientRepo         repository.PatientRepository
	doctorRepo          repository.DoctorRepository
	policy              *service.AccessPolicy
	auditService        service.AuditService
	notificationService *service.NotificationService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	timeSlotRepo repository.TimeSlotRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
	notificationService *service.NotificationService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                  db,
		log:                 log,
		appointmentRepo:     appointmentRepo,
		timeSlotRepo:        timeSlotRepo,
		patientRepo:         patientRepo,
		doctorRepo:          doctorRepo,
		policy:              policy,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// BookAppointment claims the slot and inserts the appointment in one transaction.
//
// Flow:
// 1. Resolve the patient (patients always book for themselves)
// 2. Load the slot and its calendar
// 3. Conditional claim: is_available true -> false, zero rows means Conflict
// 4. Insert the appointment with status Scheduled
// 5. Audit and notify the other party, then commit and push
func (u *appointmentUsecase) BookAppointment(ctx context.Context, actor entity.Actor, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.resolvePatient(tx, actor, req.PatientID)
	if err != nil {
		return nil, err
	}

	slot, err := u.timeSlotRepo.FindByID(tx, req.SlotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %d: %+v", req.SlotID, err)
		return nil, err
	}
	if slot == nil || slot.Calendar == nil {
		return nil, ErrTimeSlotNotFound
	}
	if !slot.Calendar.Availability {
		return nil, ErrCalendarClosed
	}

	claimed, err := u.timeSlotRepo.Claim(tx, slot.ID)
	if err != nil {
		u.log.Warnf("Failed to claim slot %d: %+v", slot.ID, err)
		return nil, err
	}
	if claimed == 0 {
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		PatientID:       patient.ID,
		DoctorID:        slot.Calendar.DoctorID,
		SlotID:          slot.ID,
		AppointmentDate: slot.StartTime.UTC(),
		Status:          entity.AppointmentStatusScheduled,
		Notes:           req.Notes,
		PriorityFlag:    req.PriorityFlag,
	}
	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventAppointmentBook, "appointment", appointment.ID, converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	doctorUserID := 0
	if slot.Calendar.Doctor != nil {
		doctorUserID = slot.Calendar.Doctor.UserID
	}
	pending, err := u.notifyParties(tx, actor, patient.UserID, doctorUserID,
		fmt.Sprintf("Appointment #%d booked for %s", appointment.ID, appointment.AppointmentDate.Format(slotTimeLayout)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment booked: id=%d, slot=%d, patient=%d, doctor=%d", appointment.ID, slot.ID, patient.ID, appointment.DoctorID)
	u.notificationService.Deliver(ctx, pending...)

	return u.reload(ctx, appointment)
}

func (u *appointmentUsecase) GetAppointments(ctx context.Context, actor entity.Actor, status string) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)
	filter := &entity.AppointmentFilter{Status: status}

	switch {
	case u.policy.CanManageAny(actor.Role, service.ResourceAppointment):
	case actor.IsDoctor():
		doctor, err := u.doctorRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find doctor by user: %+v", err)
			return nil, err
		}
		if doctor == nil {
			return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
		}
		filter.DoctorID = doctor.ID
	case actor.IsPatient():
		patient, err := u.patientRepo.FindByUserID(db, actor.UserID)
		if err != nil {
			u.log.Warnf("Failed to find patient by user: %+v", err)
			return nil, err
		}
		if patient == nil {
			return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}}, nil
		}
		filter.PatientID = patient.ID
	default:
		return nil, ErrForbidden
	}

	appointments, err := u.appointmentRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id int) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAuthorized(u.db.WithContext(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateAppointment applies a partial update. A slot swap releases the old
// slot and claims the new one with the same conditional update as booking;
// if the claim fails nothing is written.
func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAuthorized(tx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Status == nil && req.Notes == nil && req.PriorityFlag == nil && req.SlotID == nil {
		return converter.AppointmentToResponse(appointment), nil
	}
	oldValue := converter.AppointmentToResponse(appointment)

	newStatus := appointment.Status
	if req.Status != nil {
		newStatus = entity.AppointmentStatus(*req.Status)
	}
	wasActive := appointment.IsActive()
	willBeActive := newStatus != entity.AppointmentStatusCancelled

	fields := map[string]interface{}{}
	if req.Status != nil {
		fields["status"] = newStatus
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.PriorityFlag != nil {
		fields["priority_flag"] = *req.PriorityFlag
	}

	if req.SlotID != nil && *req.SlotID != appointment.SlotID {
		newSlot, err := u.timeSlotRepo.FindByID(tx, *req.SlotID)
		if err != nil {
			u.log.Warnf("Failed to find slot %d: %+v", *req.SlotID, err)
			return nil, err
		}
		if newSlot == nil || newSlot.Calendar == nil {
			return nil, ErrTimeSlotNotFound
		}
		if willBeActive {
			if !newSlot.Calendar.Availability {
				return nil, ErrCalendarClosed
			}
			if err := u.claim(tx, newSlot.ID); err != nil {
				return nil, err
			}
		}
		if wasActive {
			if err := u.release(tx, appointment.SlotID); err != nil {
				return nil, err
			}
		}
		fields["slot_id"] = newSlot.ID
		fields["doctor_id"] = newSlot.Calendar.DoctorID
		fields["appointment_date"] = newSlot.StartTime.UTC()
	} else if wasActive && !willBeActive {
		if err := u.release(tx, appointment.SlotID); err != nil {
			return nil, err
		}
	} else if !wasActive && willBeActive {
		// reactivating needs the slot back
		if err := u.claim(tx, appointment.SlotID); err != nil {
			return nil, err
		}
	}

	if err := u.appointmentRepo.UpdateFields(tx, appointment.ID, fields); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to update appointment: %+v", err)
		return nil, err
	}

	updated, err := u.appointmentRepo.FindByID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		return nil, err
	}
	response := converter.AppointmentToResponse(updated)

	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventAppointmentUpdate, "appointment", appointment.ID, oldValue, response); err != nil {
		return nil, err
	}

	var pending []*entity.Notification
	if newStatus != appointment.Status || fields["slot_id"] != nil {
		pending, err = u.notifyParties(tx, actor, patientUserID(updated), doctorUserID(updated),
			fmt.Sprintf("Appointment #%d is now %s at %s", updated.ID, updated.Status, updated.AppointmentDate.UTC().Format(slotTimeLayout)))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.notificationService.Deliver(ctx, pending...)
	return response, nil
}

// CancelAppointment sets status Cancelled and frees the slot whatever the
// prior status was, unless another active appointment now holds that slot.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, actor entity.Actor, id int) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.findAuthorized(tx, actor, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.AppointmentToResponse(appointment)

	if err := u.appointmentRepo.UpdateFields(tx, appointment.ID, map[string]interface{}{
		"status": entity.AppointmentStatusCancelled,
	}); err != nil {
		u.log.Warnf("Failed to cancel appointment: %+v", err)
		return nil, err
	}

	holders, err := u.appointmentRepo.CountBySlot(tx, appointment.SlotID, true)
	if err != nil {
		u.log.Warnf("Failed to count appointments of slot %d: %+v", appointment.SlotID, err)
		return nil, err
	}
	if holders == 0 {
		if err := u.release(tx, appointment.SlotID); err != nil {
			return nil, err
		}
	} else {
		u.log.Warnf("Slot %d kept unavailable: held by another active appointment", appointment.SlotID)
	}

	appointment.Cancel()
	response := converter.AppointmentToResponse(appointment)
	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventAppointmentCancel, "appointment", appointment.ID, oldValue, response); err != nil {
		return nil, err
	}

	pending, err := u.notifyParties(tx, actor, patientUserID(appointment), doctorUserID(appointment),
		fmt.Sprintf("Appointment #%d on %s was cancelled", appointment.ID, appointment.AppointmentDate.UTC().Format(slotTimeLayout)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Appointment cancelled: id=%d, slot=%d freed=%t", appointment.ID, appointment.SlotID, holders == 0)
	u.notificationService.Deliver(ctx, pending...)
	return response, nil
}

// resolvePatient: a patient actor books for themself; others must name the patient.
func (u *appointmentUsecase) resolvePatient(tx *gorm.DB, actor entity.Actor, patientID int) (*entity.Patient, error) {
	var (
		patient *entity.Patient
		err     error
	)
	if actor.IsPatient() {
		patient, err = u.patientRepo.FindByUserID(tx, actor.UserID)
	} else {
		if patientID == 0 {
			return nil, ErrPatientRequired
		}
		patient, err = u.patientRepo.FindByID(tx, patientID)
	}
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (u *appointmentUsecase) findAuthorized(db *gorm.DB, actor entity.Actor, id int) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !u.canAccess(actor, appointment) {
		return nil, ErrForbidden
	}
	return appointment, nil
}

// canAccess: admin, or the bound patient, or the bound doctor.
func (u *appointmentUsecase) canAccess(actor entity.Actor, appointment *entity.Appointment) bool {
	if u.policy.CanManageAny(actor.Role, service.ResourceAppointment) {
		return true
	}
	switch {
	case actor.IsPatient():
		return patientUserID(appointment) == actor.UserID
	case actor.IsDoctor():
		return doctorUserID(appointment) == actor.UserID
	}
	return false
}

func (u *appointmentUsecase) claim(tx *gorm.DB, slotID int) error {
	claimed, err := u.timeSlotRepo.Claim(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to claim slot %d: %+v", slotID, err)
		return err
	}
	if claimed == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (u *appointmentUsecase) release(tx *gorm.DB, slotID int) error {
	if err := u.timeSlotRepo.Release(tx, slotID); err != nil {
		u.log.Warnf("Failed to release slot %d: %+v", slotID, err)
		return err
	}
	return nil
}

// notifyParties stores an APPOINTMENT notification for each party other than the actor.
func (u *appointmentUsecase) notifyParties(tx *gorm.DB, actor entity.Actor, patientUserID, doctorUserID int, content string) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, userID := range []int{patientUserID, doctorUserID} {
		if userID == 0 || userID == actor.UserID {
			continue
		}
		n, err := u.notificationService.Create(tx, userID, entity.NotificationTypeAppointment, content)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) (*dto.AppointmentResponse, error) {
	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

func patientUserID(a *entity.Appointment) int {
	if a.Patient == nil {
		return 0
	}
	return a.Patient.UserID
}

func doctorUserID(a *entity.Appointment) int {
	if a.Doctor == nil {
		return 0
	}
	return a.Doctor.UserID
}
