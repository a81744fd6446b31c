package usecase

import (
	"context"
	"sync"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookingFixture prepares a doctor with two future slots and two patients.
type bookingFixture struct {
	*fixture
	doctorActor  entity.Actor
	doctor       *entity.Doctor
	patientActor entity.Actor
	patient      *entity.Patient
	otherActor   entity.Actor
	slotA, slotB int
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	f := newFixture(t)
	b := &bookingFixture{fixture: f}
	b.doctorActor, b.doctor = f.createDoctor(t)
	b.patientActor, b.patient = f.createPatient(t)
	b.otherActor, _ = f.createPatient(t)

	res, err := f.timeSlotUsecase().GenerateDaySlots(context.Background(), b.doctorActor, b.doctor.ID, &dto.GenerateDaySlotsRequest{
		Date: "2030-03-04", StartHour: "09:00", EndHour: "10:00", DurationMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, res.Slots, 2)
	b.slotA, b.slotB = res.Slots[0].ID, res.Slots[1].ID
	return b
}

func TestBookAppointment(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA, Notes: "first visit"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusScheduled), appt.Status)
	assert.Equal(t, b.patient.ID, appt.PatientID)
	assert.Equal(t, b.doctor.ID, appt.DoctorID)
	assert.True(t, appt.AppointmentDate.Equal(b.slot(t, b.slotA).StartTime))
	assert.False(t, b.slot(t, b.slotA).IsAvailable)

	t.Run("second booking of the same slot conflicts", func(t *testing.T) {
		_, err := uc.BookAppointment(ctx, b.otherActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("unknown slot", func(t *testing.T) {
		_, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: 4242})
		assert.ErrorIs(t, err, ErrTimeSlotNotFound)
	})

	t.Run("doctor must name the patient", func(t *testing.T) {
		_, err := uc.BookAppointment(ctx, b.doctorActor, &dto.BookAppointmentRequest{SlotID: b.slotB})
		assert.ErrorIs(t, err, ErrPatientRequired)
	})

	t.Run("booking is audited and notifies the doctor", func(t *testing.T) {
		assert.Equal(t, int64(1), b.countAudit(t, entity.AuditEventAppointmentBook))

		var notifications []entity.Notification
		require.NoError(t, b.db.Where("user_id = ?", b.doctorActor.UserID).Find(&notifications).Error)
		require.Len(t, notifications, 1)
		assert.Equal(t, entity.NotificationTypeAppointment, notifications[0].NotificationType)
		assert.False(t, notifications[0].SentStatus)
	})
}

func TestBookAppointmentConcurrentClaims(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	actors := []entity.Actor{b.patientActor, b.otherActor}
	errs := make([]error, len(actors))
	var wg sync.WaitGroup
	for i, actor := range actors {
		wg.Add(1)
		go func(i int, actor entity.Actor) {
			defer wg.Done()
			_, errs[i] = uc.BookAppointment(ctx, actor, &dto.BookAppointmentRequest{SlotID: b.slotA})
		}(i, actor)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded)

	var active int64
	require.NoError(t, b.db.Model(&entity.Appointment{}).
		Where("slot_id = ? AND status <> ?", b.slotA, entity.AppointmentStatusCancelled).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}

func TestBookAppointmentClosedCalendar(t *testing.T) {
	b := newBookingFixture(t)
	require.NoError(t, b.db.Model(&entity.DoctorCalendar{}).
		Where("doctor_id = ?", b.doctor.ID).
		Update("availability", false).Error)

	_, err := b.appointmentUsecase().BookAppointment(context.Background(), b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	assert.ErrorIs(t, err, ErrCalendarClosed)
	assert.True(t, b.slot(t, b.slotA).IsAvailable)
}

func TestCancelAppointmentFreesSlot(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	_, err = uc.CancelAppointment(ctx, b.otherActor, appt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := uc.CancelAppointment(ctx, b.patientActor, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), cancelled.Status)
	assert.True(t, b.slot(t, b.slotA).IsAvailable)

	// the freed slot can be booked again
	_, err = uc.BookAppointment(ctx, b.otherActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	// cancelling the old appointment again must not free the rebooked slot
	_, err = uc.CancelAppointment(ctx, b.patientActor, appt.ID)
	require.NoError(t, err)
	assert.False(t, b.slot(t, b.slotA).IsAvailable)
}

func TestCancelCompletedAppointmentFreesSlot(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	completed := string(entity.AppointmentStatusCompleted)
	_, err = uc.UpdateAppointment(ctx, b.doctorActor, appt.ID, &dto.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)
	assert.False(t, b.slot(t, b.slotA).IsAvailable)

	cancelled, err := uc.CancelAppointment(ctx, b.admin, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusCancelled), cancelled.Status)
	assert.True(t, b.slot(t, b.slotA).IsAvailable)
}

func TestUpdateAppointmentSlotSwap(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	updated, err := uc.UpdateAppointment(ctx, b.patientActor, appt.ID, &dto.UpdateAppointmentRequest{SlotID: &b.slotB})
	require.NoError(t, err)
	assert.Equal(t, b.slotB, updated.SlotID)
	assert.True(t, updated.AppointmentDate.Equal(b.slot(t, b.slotB).StartTime))
	assert.True(t, b.slot(t, b.slotA).IsAvailable)
	assert.False(t, b.slot(t, b.slotB).IsAvailable)
}

func TestUpdateAppointmentSwapToTakenSlotChangesNothing(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	mine, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)
	_, err = uc.BookAppointment(ctx, b.otherActor, &dto.BookAppointmentRequest{SlotID: b.slotB})
	require.NoError(t, err)

	notes := "moved"
	_, err = uc.UpdateAppointment(ctx, b.patientActor, mine.ID, &dto.UpdateAppointmentRequest{SlotID: &b.slotB, Notes: &notes})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	after, err := uc.GetAppointment(ctx, b.patientActor, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, b.slotA, after.SlotID)
	assert.Empty(t, after.Notes)
	assert.False(t, b.slot(t, b.slotA).IsAvailable)
	assert.False(t, b.slot(t, b.slotB).IsAvailable)
}

func TestAppointmentScoping(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	_, err = uc.GetAppointment(ctx, b.otherActor, appt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	otherDoctor, _ := b.createDoctor(t)
	_, err = uc.GetAppointment(ctx, otherDoctor, appt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.GetAppointment(ctx, b.doctorActor, appt.ID)
	assert.NoError(t, err)

	_, err = uc.GetAppointment(ctx, b.patientActor, 777)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	mine, err := uc.GetAppointments(ctx, b.patientActor, "")
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	theirs, err := uc.GetAppointments(ctx, b.otherActor, "")
	require.NoError(t, err)
	assert.Equal(t, 0, theirs.Total)

	forDoctor, err := uc.GetAppointments(ctx, b.doctorActor, string(entity.AppointmentStatusScheduled))
	require.NoError(t, err)
	assert.Equal(t, 1, forDoctor.Total)

	all, err := uc.GetAppointments(ctx, b.admin, string(entity.AppointmentStatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, 0, all.Total)
}

func TestUpdateAppointmentAuthorization(t *testing.T) {
	completed := string(entity.AppointmentStatusCompleted)
	scheduled := string(entity.AppointmentStatusScheduled)

	tests := []struct {
		name      string
		actor     func(t *testing.T, b *bookingFixture) entity.Actor
		status    *string
		updateErr error
		cancelErr error
	}{
		{
			name:      "other patient",
			actor:     func(t *testing.T, b *bookingFixture) entity.Actor { return b.otherActor },
			status:    &completed,
			updateErr: ErrForbidden,
			cancelErr: ErrForbidden,
		},
		{
			name: "other doctor",
			actor: func(t *testing.T, b *bookingFixture) entity.Actor {
				other, _ := b.createDoctor(t)
				return other
			},
			status:    &completed,
			updateErr: ErrForbidden,
			cancelErr: ErrForbidden,
		},
		{
			name:   "bound doctor",
			actor:  func(t *testing.T, b *bookingFixture) entity.Actor { return b.doctorActor },
			status: &completed,
		},
		{
			name:   "admin",
			actor:  func(t *testing.T, b *bookingFixture) entity.Actor { return b.admin },
			status: &scheduled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBookingFixture(t)
			uc := b.appointmentUsecase()
			ctx := context.Background()

			appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
			require.NoError(t, err)
			actor := tt.actor(t, b)

			updated, err := uc.UpdateAppointment(ctx, actor, appt.ID, &dto.UpdateAppointmentRequest{Status: tt.status})
			if tt.updateErr != nil {
				assert.ErrorIs(t, err, tt.updateErr)
				after, err := uc.GetAppointment(ctx, b.patientActor, appt.ID)
				require.NoError(t, err)
				assert.Equal(t, string(entity.AppointmentStatusScheduled), after.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, *tt.status, updated.Status)
			}

			cancelled, err := uc.CancelAppointment(ctx, actor, appt.ID)
			if tt.cancelErr != nil {
				assert.ErrorIs(t, err, tt.cancelErr)
				assert.False(t, b.slot(t, b.slotA).IsAvailable)
			} else {
				require.NoError(t, err)
				assert.Equal(t, string(entity.AppointmentStatusCancelled), cancelled.Status)
				assert.True(t, b.slot(t, b.slotA).IsAvailable)
			}
		})
	}
}

func TestUpdateAppointmentSwapIntoClosedCalendar(t *testing.T) {
	b := newBookingFixture(t)
	uc := b.appointmentUsecase()
	ctx := context.Background()

	appt, err := uc.BookAppointment(ctx, b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)

	require.NoError(t, b.db.Model(&entity.DoctorCalendar{}).
		Where("doctor_id = ?", b.doctor.ID).
		Update("availability", false).Error)

	_, err = uc.UpdateAppointment(ctx, b.patientActor, appt.ID, &dto.UpdateAppointmentRequest{SlotID: &b.slotB})
	assert.ErrorIs(t, err, ErrCalendarClosed)

	after, err := uc.GetAppointment(ctx, b.patientActor, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, b.slotA, after.SlotID)
	assert.False(t, b.slot(t, b.slotA).IsAvailable)
	assert.True(t, b.slot(t, b.slotB).IsAvailable)

	// cancelling on a closed calendar still works and frees the held slot
	_, err = uc.CancelAppointment(ctx, b.patientActor, appt.ID)
	require.NoError(t, err)
	assert.True(t, b.slot(t, b.slotA).IsAvailable)
}

func TestActiveSlotIndexRejectsSecondHolder(t *testing.T) {
	b := newBookingFixture(t)

	_, err := b.appointmentUsecase().BookAppointment(context.Background(), b.patientActor, &dto.BookAppointmentRequest{SlotID: b.slotA})
	require.NoError(t, err)
	slot := b.slot(t, b.slotA)

	duplicate := &entity.Appointment{
		PatientID:       b.patient.ID,
		DoctorID:        b.doctor.ID,
		SlotID:          b.slotA,
		AppointmentDate: slot.StartTime,
		Status:          entity.AppointmentStatusScheduled,
	}
	assert.Error(t, b.db.Create(duplicate).Error)

	history := &entity.Appointment{
		PatientID:       b.patient.ID,
		DoctorID:        b.doctor.ID,
		SlotID:          b.slotA,
		AppointmentDate: slot.StartTime,
		Status:          entity.AppointmentStatusCancelled,
	}
	require.NoError(t, b.db.Create(history).Error)

	var active int64
	require.NoError(t, b.db.Model(&entity.Appointment{}).
		Where("slot_id = ? AND status <> ?", b.slotA, entity.AppointmentStatusCancelled).
		Count(&active).Error)
	assert.Equal(t, int64(1), active)
}
