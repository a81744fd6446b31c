package dto

import "time"

// Request DTOs

type CreateNotificationRequest struct {
	UserID           int    `json:"user_id" validate:"required,gt=0"`
	NotificationType string `json:"notification_type" validate:"omitempty,oneof=GENERAL APPOINTMENT MEDICATION"`
	Content          string `json:"content" validate:"required"`
}

// Response DTOs

type NotificationResponse struct {
	ID               int       `json:"id"`
	UserID           int       `json:"user_id"`
	NotificationType string    `json:"notification_type"`
	Content          string    `json:"content"`
	SentStatus       bool      `json:"sent_status"`
	ReadStatus       bool      `json:"read_status"`
	DeliveryTime     time.Time `json:"delivery_time"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
}
