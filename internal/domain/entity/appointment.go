package entity

import "time"

// AppointmentStatus is free text in storage; these are the values the system writes.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment binds one patient and one doctor to exactly one time slot
type Appointment struct {
	ID              int               `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       int               `gorm:"not null;index" json:"patient_id"`
	DoctorID        int               `gorm:"not null;index" json:"doctor_id"`
	SlotID          int               `gorm:"not null;index" json:"slot_id"`
	AppointmentDate time.Time         `gorm:"not null;index" json:"appointment_date"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	PriorityFlag    bool              `gorm:"not null" json:"priority_flag"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient  `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Slot    *TimeSlot `gorm:"foreignKey:SlotID" json:"slot,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still holds its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}

func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}
