package dto

import "time"

// Request DTOs

// BookAppointmentRequest books a slot. PatientID is ignored for patients,
// who always book for themselves, and required for doctors and admins.
type BookAppointmentRequest struct {
	SlotID       int    `json:"slot_id" validate:"required,gt=0"`
	PatientID    int    `json:"patient_id" validate:"omitempty,gt=0"`
	Notes        string `json:"notes"`
	PriorityFlag bool   `json:"priority_flag"`
}

// UpdateAppointmentRequest is a partial update; absent fields stay unchanged.
type UpdateAppointmentRequest struct {
	Status       *string `json:"status" validate:"omitempty,max=20"`
	Notes        *string `json:"notes"`
	PriorityFlag *bool   `json:"priority_flag"`
	SlotID       *int    `json:"slot_id" validate:"omitempty,gt=0"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              int        `json:"id"`
	PatientID       int        `json:"patient_id"`
	PatientName     string     `json:"patient_name,omitempty"`
	DoctorID        int        `json:"doctor_id"`
	DoctorName      string     `json:"doctor_name,omitempty"`
	SlotID          int        `json:"slot_id"`
	AppointmentDate time.Time  `json:"appointment_date"`
	SlotEnd         *time.Time `json:"slot_end,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	PriorityFlag    bool       `json:"priority_flag"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
