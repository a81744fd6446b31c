package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampNotificationLimit(t *testing.T) {
	assert.Equal(t, 50, clampNotificationLimit(0))
	assert.Equal(t, 50, clampNotificationLimit(-3))
	assert.Equal(t, 10, clampNotificationLimit(10))
	assert.Equal(t, 200, clampNotificationLimit(5000))
}

func TestCreateNotification(t *testing.T) {
	f := newFixture(t)
	uc := f.notificationUsecase()
	doctorActor, _ := f.createDoctor(t)
	patientActor, _ := f.createPatient(t)
	ctx := context.Background()

	t.Run("patients cannot create", func(t *testing.T) {
		_, err := uc.CreateNotification(ctx, patientActor, &dto.CreateNotificationRequest{UserID: doctorActor.UserID, Content: "hi"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := uc.CreateNotification(ctx, doctorActor, &dto.CreateNotificationRequest{UserID: 9999, Content: "hi"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("offline recipient stays unsent", func(t *testing.T) {
		res, err := uc.CreateNotification(ctx, doctorActor, &dto.CreateNotificationRequest{UserID: patientActor.UserID, Content: "Bring your lab results"})
		require.NoError(t, err)
		assert.Equal(t, entity.NotificationTypeGeneral, res.NotificationType)
		assert.False(t, res.SentStatus)
	})

	t.Run("online recipient receives the push", func(t *testing.T) {
		conn, err := f.registry.Register(patientActor.UserID)
		require.NoError(t, err)
		defer f.registry.Unregister(conn)

		res, err := uc.CreateNotification(ctx, f.admin, &dto.CreateNotificationRequest{
			UserID: patientActor.UserID, NotificationType: entity.NotificationTypeAppointment, Content: "Clinic closes early",
		})
		require.NoError(t, err)
		assert.True(t, res.SentStatus)

		var frame struct {
			Type string              `json:"type"`
			Data entity.Notification `json:"data"`
		}
		require.NoError(t, json.Unmarshal(<-conn.Send, &frame))
		assert.Equal(t, "notification", frame.Type)
		assert.Equal(t, res.ID, frame.Data.ID)
	})
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t)
	uc := f.notificationUsecase()
	ownerActor, _ := f.createPatient(t)
	strangerActor, _ := f.createPatient(t)
	ctx := context.Background()

	var ids []int
	for _, content := range []string{"one", "two", "three"} {
		res, err := uc.CreateNotification(ctx, f.admin, &dto.CreateNotificationRequest{UserID: ownerActor.UserID, Content: content})
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}

	assert.ErrorIs(t, uc.MarkRead(ctx, strangerActor, ids[0]), ErrForbidden)
	assert.ErrorIs(t, uc.DeleteNotification(ctx, strangerActor, ids[0]), ErrForbidden)
	assert.ErrorIs(t, uc.MarkRead(ctx, ownerActor, 4242), ErrNotificationNotFound)

	require.NoError(t, uc.MarkRead(ctx, ownerActor, ids[0]))

	unread, err := uc.GetNotifications(ctx, ownerActor, true, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Total)

	limited, err := uc.GetNotifications(ctx, ownerActor, false, 1)
	require.NoError(t, err)
	require.Equal(t, 1, limited.Total)
	assert.Equal(t, ids[2], limited.Notifications[0].ID)

	affected, err := uc.MarkAllRead(ctx, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	require.NoError(t, uc.DeleteNotification(ctx, ownerActor, ids[1]))
	all, err := uc.GetNotifications(ctx, ownerActor, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	others, err := uc.GetNotifications(ctx, strangerActor, false, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, others.Total)
}
