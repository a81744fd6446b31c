package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(db *gorm.DB, message *entity.ChatMessage) error
	FindByID(db *gorm.DB, id int) (*entity.ChatMessage, error)
	FindConversation(db *gorm.DB, userID, contactID int) ([]entity.ChatMessage, error)
	FindContacts(db *gorm.DB, userID int) ([]entity.ChatContact, error)
	MarkRead(db *gorm.DB, id int) error
	// MarkConversationRead marks every message from senderID to receiverID as read.
	MarkConversationRead(db *gorm.DB, receiverID, senderID int) (int64, error)
}

type ChatbotLogRepository interface {
	Create(db *gorm.DB, log *entity.ChatbotLog) error
	FindByUserID(db *gorm.DB, userID, limit int) ([]entity.ChatbotLog, error)
}
