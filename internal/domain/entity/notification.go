package entity

import "time"

const (
	NotificationTypeGeneral     = "GENERAL"
	NotificationTypeAppointment = "APPOINTMENT"
	NotificationTypeMedication  = "MEDICATION"
)

type Notification struct {
	ID               int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int       `gorm:"not null;index" json:"user_id"`
	NotificationType string    `gorm:"type:varchar(30);not null" json:"notification_type"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	SentStatus       bool      `gorm:"not null;index" json:"sent_status"`
	ReadStatus       bool      `gorm:"not null" json:"read_status"`
	DeliveryTime     time.Time `gorm:"not null;index" json:"delivery_time"`
}

func (Notification) TableName() string {
	return "notifications"
}

type ChatbotLog struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	PatientID *int      `gorm:"index" json:"patient_id,omitempty"`
	Symptoms  string    `gorm:"type:text;not null" json:"symptoms"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (ChatbotLog) TableName() string {
	return "chatbot_logs"
}
