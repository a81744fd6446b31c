package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateMedicalRecordRequest: doctors write under their own id, admins must name DoctorID.
type CreateMedicalRecordRequest struct {
	PatientID     int    `json:"patient_id" validate:"required,gt=0"`
	DoctorID      int    `json:"doctor_id" validate:"omitempty,gt=0"`
	AppointmentID *int   `json:"appointment_id" validate:"omitempty,gt=0"`
	Diagnosis     string `json:"diagnosis" validate:"required"`
	Prescriptions string `json:"prescriptions"`
	LabResults    string `json:"lab_results"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis     *string `json:"diagnosis" validate:"omitempty,min=1"`
	Prescriptions *string `json:"prescriptions"`
	LabResults    *string `json:"lab_results"`
}

type InsuranceRequest struct {
	Provider        string          `json:"provider" validate:"required,max=100"`
	PolicyNumber    string          `json:"policy_number" validate:"required,max=50"`
	CoverageDetails string          `json:"coverage_details"`
	CoverageLimit   decimal.Decimal `json:"coverage_limit"`
	ValidUntil      string          `json:"valid_until" validate:"omitempty,date"`
}

// Response DTOs

type MedicalRecordResponse struct {
	ID            int       `json:"id"`
	PatientID     int       `json:"patient_id"`
	PatientName   string    `json:"patient_name,omitempty"`
	DoctorID      int       `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	AppointmentID *int      `json:"appointment_id,omitempty"`
	Diagnosis     string    `json:"diagnosis"`
	Prescriptions string    `json:"prescriptions,omitempty"`
	LabResults    string    `json:"lab_results,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MedicalRecordListResponse struct {
	Records []MedicalRecordResponse `json:"records"`
	Total   int                     `json:"total"`
}

type InsuranceResponse struct {
	ID              int             `json:"id"`
	Provider        string          `json:"provider"`
	PolicyNumber    string          `json:"policy_number"`
	CoverageDetails string          `json:"coverage_details,omitempty"`
	CoverageLimit   decimal.Decimal `json:"coverage_limit"`
	ValidUntil      string          `json:"valid_until,omitempty"`
	Expired         bool            `json:"expired"`
}
