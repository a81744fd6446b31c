package dto

import (
	"time"

	"medcare-api/internal/domain/entity"
)

// Request DTOs

// AuditLogQuery mirrors the query string of GET /admin/audit-logs.
// Dates are YYYY-MM-DD and both bounds are inclusive.
type AuditLogQuery struct {
	EventType     string
	UserID        int
	ReferenceType string
	StartDate     string
	EndDate       string
	Limit         int
}

// Response DTOs

type AuditLogResponse struct {
	ID            int64       `json:"id"`
	EventType     string      `json:"event_type"`
	UserID        *int        `json:"user_id,omitempty"`
	UserEmail     string      `json:"user_email,omitempty"`
	ReferenceType string      `json:"reference_type,omitempty"`
	ReferenceID   *int        `json:"reference_id,omitempty"`
	Details       entity.JSON `json:"details,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// AuditLogListResponse carries one page; Total counts every matching row.
type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Limit int                `json:"limit"`
	Total int64              `json:"total"`
}
