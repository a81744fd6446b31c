package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrTimeSlotNotFound    = errors.New("time slot not found")
	ErrInvalidSlotDuration = errors.New("slot duration must be a positive number of minutes")
	ErrInvalidTimeRange    = errors.New("end time must be after start time")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrDateRangeTooLong    = errors.New("date range must not exceed 366 days")
	ErrSlotOverlap         = errors.New("time slot overlaps an existing slot")
	ErrSlotBooked          = errors.New("time slot has an active appointment")
	ErrSlotReferenced      = errors.New("time slot is referenced by appointments")
)

const maxGenerationDays = 366

type TimeSlotUsecase interface {
	GenerateDaySlots(ctx context.Context, actor entity.Actor, doctorID int, req *dto.GenerateDaySlotsRequest) (*dto.GenerateSlotsResponse, error)
	BulkGenerateSlots(ctx context.Context, actor entity.Actor, doctorID int, req *dto.BulkGenerateSlotsRequest) (*dto.GenerateSlotsResponse, error)
	BulkGenerateForCalendar(ctx context.Context, actor entity.Actor, req *dto.BulkGenerateSlotsRequest) (*dto.GenerateSlotsResponse, error)
	GetTimeSlots(ctx context.Context, filter *entity.TimeSlotFilter) (*dto.TimeSlotListResponse, error)
	GetTimeSlot(ctx context.Context, id int) (*dto.TimeSlotResponse, error)
	CreateTimeSlot(ctx context.Context, actor entity.Actor, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	UpdateTimeSlot(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	DeleteTimeSlot(ctx context.Context, actor entity.Actor, id int) error
}

type timeSlotUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	timeSlotRepo    repository.TimeSlotRepository
	calendarRepo    repository.CalendarRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	policy          *service.AccessPolicy
	auditService    service.AuditService
}

func NewTimeSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	timeSlotRepo repository.TimeSlotRepository,
	calendarRepo repository.CalendarRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	policy *service.AccessPolicy,
	auditService service.AuditService,
) TimeSlotUsecase {
	return &timeSlotUsecase{
		db:              db,
		log:             log,
		timeSlotRepo:    timeSlotRepo,
		calendarRepo:    calendarRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		policy:          policy,
		auditService:    auditService,
	}
}

// slotInterval is a candidate [Start, End) in UTC.
type slotInterval struct {
	Start time.Time
	End   time.Time
}

// slotPlan describes a generation request after parsing.
type slotPlan struct {
	StartDate time.Time
	EndDate   time.Time
	DayStart  time.Duration // offset from midnight
	DayEnd    time.Duration
	Duration  time.Duration
	// Weekdays uses 0 = Monday. Empty means every day.
	Weekdays map[int]bool
	Excluded map[string]bool
}

func (p slotPlan) validate() error {
	if p.Duration <= 0 {
		return ErrInvalidSlotDuration
	}
	if p.DayEnd <= p.DayStart {
		return ErrInvalidTimeRange
	}
	if p.EndDate.Before(p.StartDate) {
		return ErrInvalidDateRange
	}
	if p.EndDate.Sub(p.StartDate) > maxGenerationDays*24*time.Hour {
		return ErrDateRangeTooLong
	}
	return nil
}

// candidates partitions each selected day's window into full-length slots.
// A trailing remainder shorter than Duration is dropped.
func (p slotPlan) candidates() []slotInterval {
	var out []slotInterval
	for day := p.StartDate; !day.After(p.EndDate); day = day.AddDate(0, 0, 1) {
		if len(p.Weekdays) > 0 && !p.Weekdays[mondayIndex(day)] {
			continue
		}
		if p.Excluded[day.Format(dateLayout)] {
			continue
		}
		for offset := p.DayStart; offset+p.Duration <= p.DayEnd; offset += p.Duration {
			start := day.Add(offset)
			out = append(out, slotInterval{Start: start, End: start.Add(p.Duration)})
		}
	}
	return out
}

// mondayIndex maps time.Weekday onto 0 = Monday ... 6 = Sunday.
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func (u *timeSlotUsecase) GenerateDaySlots(ctx context.Context, actor entity.Actor, doctorID int, req *dto.GenerateDaySlotsRequest) (*dto.GenerateSlotsResponse, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	dayStart, err := parseClock(req.StartHour)
	if err != nil {
		return nil, err
	}
	dayEnd, err := parseClock(req.EndHour)
	if err != nil {
		return nil, err
	}

	plan := slotPlan{
		StartDate: day,
		EndDate:   day,
		DayStart:  dayStart,
		DayEnd:    dayEnd,
		Duration:  time.Duration(req.DurationMinutes) * time.Minute,
	}
	if err := plan.validate(); err != nil {
		return nil, err
	}

	return u.generate(ctx, actor, doctorID, plan, false)
}

func (u *timeSlotUsecase) BulkGenerateSlots(ctx context.Context, actor entity.Actor, doctorID int, req *dto.BulkGenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	plan, err := bulkPlan(req)
	if err != nil {
		return nil, err
	}
	return u.generate(ctx, actor, doctorID, plan, true)
}

// BulkGenerateForCalendar is the bulk generator addressed by calendar id.
func (u *timeSlotUsecase) BulkGenerateForCalendar(ctx context.Context, actor entity.Actor, req *dto.BulkGenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	plan, err := bulkPlan(req)
	if err != nil {
		return nil, err
	}

	calendar, err := u.calendarRepo.FindByID(u.db.WithContext(ctx), req.CalendarID)
	if err != nil {
		u.log.Warnf("Failed to find calendar: %+v", err)
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}

	return u.generate(ctx, actor, calendar.DoctorID, plan, true)
}

func bulkPlan(req *dto.BulkGenerateSlotsRequest) (slotPlan, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return slotPlan{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return slotPlan{}, err
	}
	dayStart, err := parseClock(req.StartTime)
	if err != nil {
		return slotPlan{}, err
	}
	dayEnd, err := parseClock(req.EndTime)
	if err != nil {
		return slotPlan{}, err
	}

	plan := slotPlan{
		StartDate: startDate,
		EndDate:   endDate,
		DayStart:  dayStart,
		DayEnd:    dayEnd,
		Duration:  time.Duration(req.SlotDurationMinutes) * time.Minute,
		Weekdays:  make(map[int]bool, len(req.Weekdays)),
		Excluded:  make(map[string]bool, len(req.ExcludeDates)),
	}
	for _, wd := range req.Weekdays {
		plan.Weekdays[wd] = true
	}
	for _, raw := range req.ExcludeDates {
		d, err := parseDate(raw)
		if err != nil {
			return slotPlan{}, err
		}
		plan.Excluded[d.Format(dateLayout)] = true
	}

	return plan, plan.validate()
}

// generate inserts every candidate that does not overlap an existing slot.
// In tolerant mode a failed insert is rolled back to a savepoint, logged and
// skipped; otherwise it aborts the whole batch.
func (u *timeSlotUsecase) generate(ctx context.Context, actor entity.Actor, doctorID int, plan slotPlan, tolerant bool) (*dto.GenerateSlotsResponse, error) {
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

	calendar, err := u.ensureCalendar(tx, doctorID)
	if err != nil {
		return nil, err
	}

	var created []entity.TimeSlot
	skipped := 0
	for i, candidate := range plan.candidates() {
		overlap, err := u.timeSlotRepo.HasOverlap(tx, calendar.ID, candidate.Start, candidate.End, 0)
		if err != nil {
			u.log.Warnf("Failed to check slot overlap: %+v", err)
			return nil, err
		}
		if overlap {
			skipped++
			continue
		}

		slot := entity.TimeSlot{
			CalendarID:  calendar.ID,
			StartTime:   candidate.Start,
			EndTime:     candidate.End,
			IsAvailable: true,
		}

		if !tolerant {
			if err := u.timeSlotRepo.Create(tx, &slot); err != nil {
				u.log.Warnf("Failed to create slot %s: %+v", candidate.Start.Format(time.RFC3339), err)
				return nil, err
			}
			created = append(created, slot)
			continue
		}

		savepoint := fmt.Sprintf("slot_%d", i)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			u.log.Warnf("Failed to set savepoint: %+v", err)
			return nil, err
		}
		if err := u.timeSlotRepo.Create(tx, &slot); err != nil {
			u.log.Warnf("Skipping slot %s after insert failure: %+v", candidate.Start.Format(time.RFC3339), err)
			if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
				u.log.Warnf("Failed to roll back to savepoint: %+v", rbErr)
				return nil, rbErr
			}
			skipped++
			continue
		}
		created = append(created, slot)
	}

	if err := u.auditService.Log(tx, actor.UserID, entity.AuditEventTimeSlotGenerate, "calendar", calendar.ID, entity.JSON{
		"created_count": len(created),
		"skipped_count": skipped,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Infof("Slots generated: calendar=%d, created=%d, skipped=%d", calendar.ID, len(created), skipped)
	return &dto.GenerateSlotsResponse{
		CalendarID:   calendar.ID,
		CreatedCount: len(created),
		SkippedCount: skipped,
		Slots:        converter.TimeSlotsToResponses(created),
	}, nil
}

// ensureCalendar returns the doctor's calendar, creating an available one if missing.
func (u *timeSlotUsecase) ensureCalendar(tx *gorm.DB, doctorID int) (*entity.DoctorCalendar, error) {
	calendar, err := u.calendarRepo.FindByDoctorID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find calendar: %+v", err)
		return nil, err
	}
	if calendar != nil {
		return calendar, nil
	}

	calendar = &entity.DoctorCalendar{DoctorID: doctorID, Availability: true}
	if err := u.calendarRepo.Create(tx, calendar); err != nil {
		u.log.Warnf("Failed to create calendar: %+v", err)
		return nil, err
	}
	u.log.Infof("Calendar created for doctor %d", doctorID)
	return calendar, nil
}

func (u *timeSlotUsecase) GetTimeSlots(ctx context.Context, filter *entity.TimeSlotFilter) (*dto.TimeSlotListResponse, error) {
	slots, err := u.timeSlotRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find time slots: %+v", err)
		return nil, err
	}
	return &dto.TimeSlotListResponse{
		Slots: converter.TimeSlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

func (u *timeSlotUsecase) GetTimeSlot(ctx context.Context, id int) (*dto.TimeSlotResponse, error) {
	slot, err := u.timeSlotRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}
	return converter.TimeSlotToResponse(slot), nil
}

func (u *timeSlotUsecase) CreateTimeSlot(ctx context.Context, actor entity.Actor, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	if !end.After(start) {
		return nil, ErrInvalidTimeRange
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	calendar, err := u.calendarRepo.FindByID(tx, req.CalendarID)
	if err != nil {
		u.log.Warnf("Failed to find calendar: %+v", err)
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}
	if !u.ownsDoctor(actor, calendar.Doctor) {
		return nil, ErrForbidden
	}

	overlap, err := u.timeSlotRepo.HasOverlap(tx, calendar.ID, start, end, 0)
	if err != nil {
		u.log.Warnf("Failed to check slot overlap: %+v", err)
		return nil, err
	}
	if overlap {
		return nil, ErrSlotOverlap
	}

	slot := &entity.TimeSlot{
		CalendarID:  calendar.ID,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
	}
	if err := u.timeSlotRepo.Create(tx, slot); err != nil {
		u.log.Warnf("Failed to create time slot: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventTimeSlotCreate, "timeslot", slot.ID, converter.TimeSlotToResponse(slot)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.TimeSlotToResponse(slot), nil
}

// UpdateTimeSlot re-runs the overlap check when times change. A slot held by
// an active appointment can neither move nor be reopened.
func (u *timeSlotUsecase) UpdateTimeSlot(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.findOwnedSlot(tx, actor, id)
	if err != nil {
		return nil, err
	}
	oldValue := converter.TimeSlotToResponse(slot)

	start, end := slot.StartTime.UTC(), slot.EndTime.UTC()
	if req.StartTime != nil {
		start = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		end = req.EndTime.UTC()
	}
	timesChanged := !start.Equal(slot.StartTime) || !end.Equal(slot.EndTime)
	reopening := req.IsAvailable != nil && *req.IsAvailable && !slot.IsAvailable

	if timesChanged || reopening {
		active, err := u.appointmentRepo.CountBySlot(tx, slot.ID, true)
		if err != nil {
			u.log.Warnf("Failed to count appointments of slot %d: %+v", slot.ID, err)
			return nil, err
		}
		if active > 0 {
			return nil, ErrSlotBooked
		}
	}

	if timesChanged {
		if !end.After(start) {
			return nil, ErrInvalidTimeRange
		}
		overlap, err := u.timeSlotRepo.HasOverlap(tx, slot.CalendarID, start, end, slot.ID)
		if err != nil {
			u.log.Warnf("Failed to check slot overlap: %+v", err)
			return nil, err
		}
		if overlap {
			return nil, ErrSlotOverlap
		}
		slot.StartTime = start
		slot.EndTime = end
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := u.timeSlotRepo.Update(tx, slot); err != nil {
		u.log.Warnf("Failed to update time slot: %+v", err)
		return nil, err
	}

	response := converter.TimeSlotToResponse(slot)
	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventTimeSlotUpdate, "timeslot", slot.ID, oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

// DeleteTimeSlot refuses while any appointment, cancelled or not, references the slot.
func (u *timeSlotUsecase) DeleteTimeSlot(ctx context.Context, actor entity.Actor, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.findOwnedSlot(tx, actor, id)
	if err != nil {
		return err
	}

	referenced, err := u.appointmentRepo.CountBySlot(tx, slot.ID, false)
	if err != nil {
		u.log.Warnf("Failed to count appointments of slot %d: %+v", slot.ID, err)
		return err
	}
	if referenced > 0 {
		return ErrSlotReferenced
	}

	if _, err := u.timeSlotRepo.Delete(tx, slot.ID); err != nil {
		if isForeignKeyError(err, "") {
			return ErrSlotReferenced
		}
		u.log.Warnf("Failed to delete time slot: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventTimeSlotDelete, "timeslot", slot.ID, converter.TimeSlotToResponse(slot)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *timeSlotUsecase) findOwnedSlot(tx *gorm.DB, actor entity.Actor, id int) (*entity.TimeSlot, error) {
	slot, err := u.timeSlotRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find time slot: %+v", err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrTimeSlotNotFound
	}
	var doctor *entity.Doctor
	if slot.Calendar != nil {
		doctor = slot.Calendar.Doctor
	}
	if !u.ownsDoctor(actor, doctor) {
		return nil, ErrForbidden
	}
	return slot, nil
}

func (u *timeSlotUsecase) ownsDoctor(actor entity.Actor, doctor *entity.Doctor) bool {
	if u.policy.CanManageAny(actor.Role, service.ResourceTimeSlot) {
		return true
	}
	return doctor != nil && actor.IsDoctor() && doctor.UserID == actor.UserID
}
