package usecase

import (
	"context"
	"testing"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, mondayIndex(utcDate(2024, 1, 1))) // Monday
	assert.Equal(t, 5, mondayIndex(utcDate(2024, 1, 6)))
	assert.Equal(t, 6, mondayIndex(utcDate(2024, 1, 7)))
}

func TestSlotPlanCandidates(t *testing.T) {
	tests := []struct {
		name   string
		plan   slotPlan
		starts []string
	}{
		{
			name: "mondays only",
			plan: slotPlan{
				StartDate: utcDate(2024, 1, 1),
				EndDate:   utcDate(2024, 1, 7),
				DayStart:  9 * time.Hour,
				DayEnd:    10 * time.Hour,
				Duration:  30 * time.Minute,
				Weekdays:  map[int]bool{0: true},
			},
			starts: []string{"2024-01-01T09:00:00Z", "2024-01-01T09:30:00Z"},
		},
		{
			name: "trailing remainder dropped",
			plan: slotPlan{
				StartDate: utcDate(2024, 1, 2),
				EndDate:   utcDate(2024, 1, 2),
				DayStart:  9 * time.Hour,
				DayEnd:    10*time.Hour + 45*time.Minute,
				Duration:  30 * time.Minute,
			},
			starts: []string{"2024-01-02T09:00:00Z", "2024-01-02T09:30:00Z", "2024-01-02T10:00:00Z"},
		},
		{
			name: "empty weekdays means every day, excluded dates skipped",
			plan: slotPlan{
				StartDate: utcDate(2024, 1, 1),
				EndDate:   utcDate(2024, 1, 3),
				DayStart:  8 * time.Hour,
				DayEnd:    9 * time.Hour,
				Duration:  time.Hour,
				Excluded:  map[string]bool{"2024-01-02": true},
			},
			starts: []string{"2024-01-01T08:00:00Z", "2024-01-03T08:00:00Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.plan.candidates()
			require.Len(t, got, len(tt.starts))
			for i, c := range got {
				assert.Equal(t, tt.starts[i], c.Start.Format(time.RFC3339))
				assert.Equal(t, tt.plan.Duration, c.End.Sub(c.Start))
			}
		})
	}
}

func TestSlotPlanValidate(t *testing.T) {
	base := slotPlan{
		StartDate: utcDate(2024, 1, 1),
		EndDate:   utcDate(2024, 1, 1),
		DayStart:  9 * time.Hour,
		DayEnd:    10 * time.Hour,
		Duration:  30 * time.Minute,
	}
	assert.NoError(t, base.validate())

	zero := base
	zero.Duration = 0
	assert.ErrorIs(t, zero.validate(), ErrInvalidSlotDuration)

	inverted := base
	inverted.DayEnd = inverted.DayStart
	assert.ErrorIs(t, inverted.validate(), ErrInvalidTimeRange)

	backwards := base
	backwards.EndDate = utcDate(2023, 12, 31)
	assert.ErrorIs(t, backwards.validate(), ErrInvalidDateRange)

	tooLong := base
	tooLong.EndDate = utcDate(2025, 6, 1)
	assert.ErrorIs(t, tooLong.validate(), ErrDateRangeTooLong)
}

func TestBulkGenerateSlotsSkipsExisting(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	doctorActor, doctor := f.createDoctor(t)
	ctx := context.Background()

	req := &dto.BulkGenerateSlotsRequest{
		StartDate:           "2024-01-01",
		EndDate:             "2024-01-07",
		StartTime:           "09:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 30,
		Weekdays:            []int{0},
	}

	first, err := uc.BulkGenerateSlots(ctx, doctorActor, doctor.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.CreatedCount)
	assert.Equal(t, 0, first.SkippedCount)
	require.Len(t, first.Slots, 2)
	assert.True(t, first.Slots[0].StartTime.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)))

	second, err := uc.BulkGenerateSlots(ctx, doctorActor, doctor.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Equal(t, 2, second.SkippedCount)
	assert.Equal(t, first.CalendarID, second.CalendarID)

	assert.Equal(t, int64(2), f.countAudit(t, entity.AuditEventTimeSlotGenerate))
}

func TestGenerateDaySlotsValidation(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	doctorActor, doctor := f.createDoctor(t)
	ctx := context.Background()

	_, err := uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2024-01-01", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidSlotDuration)

	_, err = uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2024-01-01", StartHour: "10:00", EndHour: "09:00", DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "01/01/2024", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)

	res, err := uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2024-01-01", StartHour: "09:00", EndHour: "12:00", DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.CreatedCount)
}

func TestGenerateSlotsOwnership(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	_, doctor := f.createDoctor(t)
	otherActor, _ := f.createDoctor(t)
	patientActor, _ := f.createPatient(t)
	ctx := context.Background()

	req := &dto.GenerateDaySlotsRequest{Date: "2024-01-01", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 30}

	_, err := uc.GenerateDaySlots(ctx, otherActor, doctor.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.GenerateDaySlots(ctx, patientActor, doctor.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := uc.GenerateDaySlots(ctx, f.admin, doctor.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CreatedCount)

	_, err = uc.GenerateDaySlots(ctx, f.admin, 9999, req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateTimeSlotRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	doctorActor, doctor := f.createDoctor(t)
	ctx := context.Background()

	res, err := uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2024-01-01", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 60,
	})
	require.NoError(t, err)

	_, err = uc.CreateTimeSlot(ctx, doctorActor, &dto.CreateTimeSlotRequest{
		CalendarID: res.CalendarID,
		StartTime:  time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrSlotOverlap)

	created, err := uc.CreateTimeSlot(ctx, doctorActor, &dto.CreateTimeSlotRequest{
		CalendarID: res.CalendarID,
		StartTime:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)
}

func TestDeleteTimeSlotReferencedByAppointment(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	doctorActor, doctor := f.createDoctor(t)
	patientActor, _ := f.createPatient(t)
	ctx := context.Background()

	res, err := uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2030-01-01", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 30,
	})
	require.NoError(t, err)
	booked, free := res.Slots[0].ID, res.Slots[1].ID

	_, err = f.appointmentUsecase().BookAppointment(ctx, patientActor, &dto.BookAppointmentRequest{SlotID: booked})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.DeleteTimeSlot(ctx, doctorActor, booked), ErrSlotReferenced)
	assert.NoError(t, uc.DeleteTimeSlot(ctx, doctorActor, free))

	_, err = uc.GetTimeSlot(ctx, free)
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)

	reopen := true
	_, err = uc.UpdateTimeSlot(ctx, doctorActor, booked, &dto.UpdateTimeSlotRequest{IsAvailable: &reopen})
	assert.ErrorIs(t, err, ErrSlotBooked)
}

func TestGetTimeSlotsListsAvailableOnly(t *testing.T) {
	f := newFixture(t)
	uc := f.timeSlotUsecase()
	doctorActor, doctor := f.createDoctor(t)
	patientActor, _ := f.createPatient(t)
	ctx := context.Background()

	res, err := uc.GenerateDaySlots(ctx, doctorActor, doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2030-01-01", StartHour: "09:00", EndHour: "11:00", DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Equal(t, 4, res.CreatedCount)

	_, err = f.appointmentUsecase().BookAppointment(ctx, patientActor, &dto.BookAppointmentRequest{SlotID: res.Slots[0].ID})
	require.NoError(t, err)

	list, err := uc.GetTimeSlots(ctx, &entity.TimeSlotFilter{DoctorID: doctor.ID, AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	for _, s := range list.Slots {
		assert.True(t, s.IsAvailable)
		assert.Equal(t, doctor.ID, s.DoctorID)
		assert.Equal(t, "Cardiology", s.Department)
	}
}
