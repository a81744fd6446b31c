package dto

import "time"

// Request DTOs

// GenerateDaySlotsRequest partitions one day into equal slots.
type GenerateDaySlotsRequest struct {
	Date            string `json:"date" validate:"required,date"`        // YYYY-MM-DD
	StartHour       string `json:"start_hour" validate:"required,clock"` // HH:MM
	EndHour         string `json:"end_hour" validate:"required,clock"`   // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
}

// BulkGenerateSlotsRequest repeats a daily window over a date range.
// Weekdays use 0 = Monday through 6 = Sunday.
type BulkGenerateSlotsRequest struct {
	CalendarID          int      `json:"calendar_id,omitempty"`
	StartDate           string   `json:"start_date" validate:"required,date"`
	EndDate             string   `json:"end_date" validate:"required,date"`
	StartTime           string   `json:"start_time" validate:"required,clock"`
	EndTime             string   `json:"end_time" validate:"required,clock"`
	SlotDurationMinutes int      `json:"slot_duration_minutes"`
	Weekdays            []int    `json:"weekdays" validate:"omitempty,dive,gte=0,lte=6"`
	ExcludeDates        []string `json:"exclude_dates" validate:"omitempty,dive,date"`
}

type CreateTimeSlotRequest struct {
	CalendarID  int       `json:"calendar_id" validate:"required,gt=0"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	IsAvailable *bool     `json:"is_available"`
}

type UpdateTimeSlotRequest struct {
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	IsAvailable *bool      `json:"is_available"`
}

// Response DTOs

type TimeSlotResponse struct {
	ID          int       `json:"id"`
	CalendarID  int       `json:"calendar_id"`
	DoctorID    int       `json:"doctor_id,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Department  string    `json:"department,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
}

type TimeSlotListResponse struct {
	Slots []TimeSlotResponse `json:"slots"`
	Total int                `json:"total"`
}

type GenerateSlotsResponse struct {
	CalendarID   int                `json:"calendar_id"`
	CreatedCount int                `json:"created_count"`
	SkippedCount int                `json:"skipped_count"`
	Slots        []TimeSlotResponse `json:"slots"`
}
