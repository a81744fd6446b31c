package dto

import "time"

// Request DTOs

type SendMessageRequest struct {
	ReceiverID  int    `json:"receiver_id" validate:"required,gt=0"`
	Message     string `json:"message" validate:"required"`
	IsUrgent    bool   `json:"is_urgent"`
	MessageType string `json:"message_type" validate:"omitempty,max=20"`
}

// SocketFrame is an inbound WebSocket message.
type SocketFrame struct {
	Type        string `json:"type"`
	ReceiverID  int    `json:"receiver_id,omitempty"`
	Message     string `json:"message,omitempty"`
	IsUrgent    bool   `json:"is_urgent,omitempty"`
	MessageType string `json:"message_type,omitempty"`
}

type ChatbotQueryRequest struct {
	Query string `json:"query" validate:"required,max=1000"`
}

// Response DTOs

type ChatMessageResponse struct {
	ID          int       `json:"id"`
	SenderID    int       `json:"sender_id"`
	ReceiverID  int       `json:"receiver_id"`
	Message     string    `json:"message"`
	SentAt      time.Time `json:"sent_at"`
	IsUrgent    bool      `json:"is_urgent"`
	ReadStatus  bool      `json:"read_status"`
	MessageType string    `json:"message_type"`
}

type ChatContactResponse struct {
	UserID      int                  `json:"user_id"`
	FirstName   string               `json:"first_name"`
	LastName    string               `json:"last_name"`
	Email       string               `json:"email"`
	Role        string               `json:"role,omitempty"`
	LastMessage *ChatMessageResponse `json:"last_message,omitempty"`
	UnreadCount int64                `json:"unread_count"`
}

// SocketEvent is an outbound WebSocket frame.
type SocketEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type ChatbotResponse struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
