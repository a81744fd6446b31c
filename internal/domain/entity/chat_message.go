package entity

import "time"

const MessageTypeText = "Text"

type ChatMessage struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    int       `gorm:"not null;index:idx_chat_pair" json:"sender_id"`
	ReceiverID  int       `gorm:"not null;index:idx_chat_pair;index" json:"receiver_id"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	SentAt      time.Time `gorm:"not null;index" json:"sent_at"`
	IsUrgent    bool      `gorm:"not null" json:"is_urgent"`
	ReadStatus  bool      `gorm:"not null" json:"read_status"`
	MessageType string    `gorm:"type:varchar(20);not null" json:"message_type"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// ChatContact summarizes a conversation partner
type ChatContact struct {
	UserID      int
	FirstName   string
	LastName    string
	Email       string
	RoleName    string
	LastMessage *ChatMessage
	UnreadCount int64
}
