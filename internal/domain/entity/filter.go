package entity

import "time"

// TimeSlotFilter is a domain-level filter for listing slots.
// Used by repository layer to avoid coupling with delivery DTOs.
type TimeSlotFilter struct {
	DoctorID      int
	DateFrom      *time.Time
	DateTo        *time.Time
	AvailableOnly bool
}

// AppointmentFilter scopes an appointment listing. Zero ids mean "any".
type AppointmentFilter struct {
	PatientID int
	DoctorID  int
	Status    string
}

type MedicalRecordFilter struct {
	PatientID int
	DoctorID  int
}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

// AuditLogFilter narrows the admin audit trail. CreatedFrom is inclusive,
// CreatedBefore exclusive.
type AuditLogFilter struct {
	EventType     string
	UserID        int
	ReferenceType string
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
	Limit         int
}
