package usecase

import (
	"context"
	"testing"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	gormrepo "medcare-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAuditTrail(t *testing.T, f *fixture) (doctorUserID int) {
	t.Helper()
	doctor, _ := f.createDoctor(t)

	require.NoError(t, f.audit.LogCreate(f.db, doctor.UserID, entity.AuditEventTimeSlotCreate, "timeslot", 1, map[string]int{"id": 1}))
	require.NoError(t, f.audit.LogCreate(f.db, doctor.UserID, entity.AuditEventTimeSlotCreate, "timeslot", 2, map[string]int{"id": 2}))
	require.NoError(t, f.audit.LogCreate(f.db, f.admin.UserID, entity.AuditEventAppointmentBook, "appointment", 1, nil))
	return doctor.UserID
}

func TestGetAllAuditLogsFilters(t *testing.T) {
	f := newFixture(t)
	doctorUserID := seedAuditTrail(t, f)
	uc := NewAuditLogUsecase(f.db, f.log, gormrepo.NewAuditLogRepository())
	ctx := context.Background()

	all, err := uc.GetAllAuditLogs(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	assert.Equal(t, defaultAuditLogLimit, all.Limit)

	byUser, err := uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{UserID: doctorUserID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byUser.Total)
	for _, entry := range byUser.Logs {
		require.NotNil(t, entry.UserID)
		assert.Equal(t, doctorUserID, *entry.UserID)
	}

	byType, err := uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{ReferenceType: "appointment"})
	require.NoError(t, err)
	require.Len(t, byType.Logs, 1)
	assert.Equal(t, entity.AuditEventAppointmentBook, byType.Logs[0].EventType)

	page, err := uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{EventType: entity.AuditEventTimeSlotCreate, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Logs, 1)
	assert.EqualValues(t, 2, page.Total)
}

func TestGetAllAuditLogsDateWindow(t *testing.T) {
	f := newFixture(t)
	seedAuditTrail(t, f)
	uc := NewAuditLogUsecase(f.db, f.log, gormrepo.NewAuditLogRepository())
	ctx := context.Background()

	today := time.Now().UTC()
	around, err := uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{
		StartDate: today.AddDate(0, 0, -1).Format(dateLayout),
		EndDate:   today.AddDate(0, 0, 1).Format(dateLayout),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, around.Total)

	past, err := uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{StartDate: "2000-01-01", EndDate: "2000-01-02"})
	require.NoError(t, err)
	assert.Empty(t, past.Logs)

	_, err = uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{StartDate: "2024-02-10", EndDate: "2024-02-01"})
	assert.ErrorIs(t, err, ErrInvalidAuditWindow)

	_, err = uc.GetAllAuditLogs(ctx, &dto.AuditLogQuery{StartDate: "10/02/2024"})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestGetAuditLogNotFound(t *testing.T) {
	f := newFixture(t)
	uc := NewAuditLogUsecase(f.db, f.log, gormrepo.NewAuditLogRepository())

	_, err := uc.GetAuditLog(context.Background(), 424242)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
