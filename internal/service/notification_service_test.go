package service

import (
	"context"
	"encoding/json"
	"testing"

	"medcare-api/internal/domain/entity"
	"medcare-api/internal/infrastructure/database"
	"medcare-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLiteConnection("", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestNotificationServiceDeliverMarksSentOnlyWhenOnline(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewNotificationRepository()
	registry := NewConnectionRegistry("notifications", quietLogger())
	svc := NewNotificationService(db, quietLogger(), repo, registry)

	conn, err := registry.Register(1)
	require.NoError(t, err)

	online, err := svc.Create(db, 1, entity.NotificationTypeAppointment, "Appointment booked")
	require.NoError(t, err)
	offline, err := svc.Create(db, 2, entity.NotificationTypeGeneral, "Hello")
	require.NoError(t, err)

	sent := svc.Deliver(context.Background(), online, offline)
	assert.Equal(t, 1, sent)

	var frame NotificationEvent
	require.NoError(t, json.Unmarshal(<-conn.Send, &frame))
	assert.Equal(t, "notification", frame.Type)
	assert.Equal(t, online.ID, frame.Data.ID)

	stored, err := repo.FindByID(db, online.ID)
	require.NoError(t, err)
	assert.True(t, stored.SentStatus)

	stored, err = repo.FindByID(db, offline.ID)
	require.NoError(t, err)
	assert.False(t, stored.SentStatus)
}

func TestNotificationDispatcherSweepsPendingForReconnectedUser(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewNotificationRepository()
	registry := NewConnectionRegistry("notifications", quietLogger())
	svc := NewNotificationService(db, quietLogger(), repo, registry)
	dispatcher := NewNotificationDispatcher(quietLogger(), svc, "")

	pending, err := svc.Create(db, 7, entity.NotificationTypeMedication, "New medication")
	require.NoError(t, err)

	// nobody is connected yet
	dispatcher.RunOnce(context.Background())
	stored, err := repo.FindByID(db, pending.ID)
	require.NoError(t, err)
	assert.False(t, stored.SentStatus)

	conn, err := registry.Register(7)
	require.NoError(t, err)

	dispatcher.RunOnce(context.Background())
	assert.Len(t, conn.Send, 1)

	stored, err = repo.FindByID(db, pending.ID)
	require.NoError(t, err)
	assert.True(t, stored.SentStatus)

	// already delivered rows are not pushed again
	dispatcher.RunOnce(context.Background())
	assert.Len(t, conn.Send, 1)
}

func TestNotificationDispatcherStartStop(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, quietLogger(), repository.NewNotificationRepository(), NewConnectionRegistry("notifications", quietLogger()))
	dispatcher := NewNotificationDispatcher(quietLogger(), svc, "not a cron spec")

	require.NoError(t, dispatcher.Start(context.Background()))
	dispatcher.Stop()
	dispatcher.Stop()
}
