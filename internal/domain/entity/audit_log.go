package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType     string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	UserID        *int      `gorm:"index" json:"user_id,omitempty"`
	ReferenceType string    `gorm:"type:varchar(50)" json:"reference_type,omitempty"`
	ReferenceID   *int      `json:"reference_id,omitempty"`
	Details       JSON      `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}

	result := map[string]interface{}{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// Audit event types
const (
	AuditEventUserLogin           = "user.login"
	AuditEventUserRegister        = "user.register"
	AuditEventUserCreate          = "user.create"
	AuditEventUserUpdate          = "user.update"
	AuditEventUserDelete          = "user.delete"
	AuditEventDoctorCreate        = "doctor.create"
	AuditEventDoctorUpdate        = "doctor.update"
	AuditEventDoctorDelete        = "doctor.delete"
	AuditEventCalendarUpsert      = "calendar.upsert"
	AuditEventTimeSlotGenerate    = "timeslot.generate"
	AuditEventTimeSlotCreate      = "timeslot.create"
	AuditEventTimeSlotUpdate      = "timeslot.update"
	AuditEventTimeSlotDelete      = "timeslot.delete"
	AuditEventAppointmentBook     = "appointment.book"
	AuditEventAppointmentUpdate   = "appointment.update"
	AuditEventAppointmentCancel   = "appointment.cancel"
	AuditEventPatientCreate       = "patient.create"
	AuditEventPatientUpdate       = "patient.update"
	AuditEventPatientDelete       = "patient.delete"
	AuditEventAllergyCreate       = "allergy.create"
	AuditEventAllergyDelete       = "allergy.delete"
	AuditEventMedicationCreate    = "medication.create"
	AuditEventMedicalRecordWrite  = "medical_record.write"
	AuditEventMedicalRecordDelete = "medical_record.delete"
	AuditEventInsuranceCreate     = "insurance.create"
	AuditEventInsuranceUpdate     = "insurance.update"
	AuditEventInsuranceDelete     = "insurance.delete"
)
