package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Day   string `json:"day" validate:"required,date"`
	Start string `json:"start" validate:"required,clock"`
	Size  int    `json:"size" validate:"gt=0"`
}

func TestValidatePassesWellFormedInput(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&sample{Email: "a@b.io", Day: "2024-01-01", Start: "09:30", Size: 30})
	assert.NoError(t, err)

	err = v.Validate(&sample{Email: "a@b.io", Day: "2024-01-01", Start: "09:30:00", Size: 30})
	assert.NoError(t, err)
}

func TestFormatValidationErrors(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&sample{Email: "nope", Day: "01/01/2024", Start: "9am", Size: 0})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "Email must be a valid email address", msgs["Email"])
	assert.Equal(t, "Day must be a date in YYYY-MM-DD format", msgs["Day"])
	assert.Equal(t, "Start must be a time in HH:MM or HH:MM:SS format", msgs["Start"])
	assert.Equal(t, "Size must be greater than 0", msgs["Size"])
}
