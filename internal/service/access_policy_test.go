package service

import (
	"io"
	"testing"

	"medcare-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAccessPolicy(t *testing.T) {
	policy, err := NewAccessPolicy(quietLogger())
	require.NoError(t, err)

	t.Run("admin holds every capability", func(t *testing.T) {
		assert.True(t, policy.Can(entity.RoleAdmin, ResourceTimeSlot, ActionCreate))
		assert.True(t, policy.Can(entity.RoleAdmin, ResourceAuditLog, ActionRead))
		assert.True(t, policy.CanManageAny(entity.RoleAdmin, ResourceAppointment))
	})

	t.Run("doctor capabilities", func(t *testing.T) {
		assert.True(t, policy.Can(entity.RoleDoctor, ResourceTimeSlot, ActionCreate))
		assert.True(t, policy.Can(entity.RoleDoctor, ResourceMedication, ActionCreate))
		assert.False(t, policy.Can(entity.RoleDoctor, ResourceUser, ActionCreate))
		assert.False(t, policy.CanManageAny(entity.RoleDoctor, ResourceAppointment))
	})

	t.Run("patient capabilities", func(t *testing.T) {
		assert.True(t, policy.Can(entity.RolePatient, ResourceAppointment, ActionCreate))
		assert.False(t, policy.Can(entity.RolePatient, ResourceTimeSlot, ActionCreate))
		assert.False(t, policy.Can(entity.RolePatient, ResourceAuditLog, ActionRead))
		assert.False(t, policy.CanManageAny(entity.RolePatient, ResourceAppointment))
	})

	t.Run("unknown role holds nothing", func(t *testing.T) {
		assert.False(t, policy.Can("nurse", ResourceAppointment, ActionRead))
		assert.False(t, policy.Can("", ResourceAppointment, ActionRead))
	})
}
