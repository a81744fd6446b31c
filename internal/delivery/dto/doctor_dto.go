package dto

import "time"

// Request DTOs

// CreateDoctorRequest creates the user account and the doctor profile together.
type CreateDoctorRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"omitempty,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	SpecID       int    `json:"spec_id" validate:"required,gt=0"`
	DepartmentID int    `json:"department_id" validate:"required,gt=0"`
	YearsOfExp   int    `json:"years_of_exp" validate:"gte=0"`
}

type UpdateDoctorRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	SpecID       *int    `json:"spec_id" validate:"omitempty,gt=0"`
	DepartmentID *int    `json:"department_id" validate:"omitempty,gt=0"`
	YearsOfExp   *int    `json:"years_of_exp" validate:"omitempty,gte=0"`
}

type CalendarRequest struct {
	Availability *bool `json:"availability" validate:"required"`
}

// Response DTOs

type DoctorResponse struct {
	ID             int                `json:"id"`
	UserID         int                `json:"user_id"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone,omitempty"`
	SpecID         int                `json:"spec_id"`
	Specialization string             `json:"specialization,omitempty"`
	DepartmentID   int                `json:"department_id"`
	Department     string             `json:"department,omitempty"`
	YearsOfExp     int                `json:"years_of_exp"`
	Calendar       *CalendarResponse  `json:"calendar,omitempty"`
	UpcomingSlots  []TimeSlotResponse `json:"upcoming_slots,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type CalendarResponse struct {
	ID           int  `json:"id"`
	DoctorID     int  `json:"doctor_id"`
	Availability bool `json:"availability"`
}
