package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
)

type chatRepository struct{}

func NewChatRepository() domainRepo.ChatRepository {
	return &chatRepository{}
}

func (r *chatRepository) Create(db *gorm.DB, message *entity.ChatMessage) error {
	return db.Create(message).Error
}

func (r *chatRepository) FindByID(db *gorm.DB, id int) (*entity.ChatMessage, error) {
	var message entity.ChatMessage
	err := db.Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *chatRepository) FindConversation(db *gorm.DB, userID, contactID int) ([]entity.ChatMessage, error) {
	var messages []entity.ChatMessage
	err := db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, contactID, contactID, userID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// FindContacts returns every user userID has exchanged messages with,
// most recent conversation first.
func (r *chatRepository) FindContacts(db *gorm.DB, userID int) ([]entity.ChatContact, error) {
	var contactIDs []int
	err := db.Raw(`
		SELECT contact_id FROM (
			SELECT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS contact_id, sent_at
			FROM chat_messages
			WHERE sender_id = ? OR receiver_id = ?
		) AS conversations
		GROUP BY contact_id
		ORDER BY MAX(sent_at) DESC`, userID, userID, userID).
		Scan(&contactIDs).Error
	if err != nil {
		return nil, err
	}
	if len(contactIDs) == 0 {
		return []entity.ChatContact{}, nil
	}

	var users []entity.User
	if err := db.Preload("Role").Where("id IN ?", contactIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	byID := make(map[int]entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	contacts := make([]entity.ChatContact, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		user, ok := byID[contactID]
		if !ok {
			continue
		}

		var last entity.ChatMessage
		err := db.
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, contactID, contactID, userID).
			Order("sent_at DESC, id DESC").
			Limit(1).
			Find(&last).Error
		if err != nil {
			return nil, err
		}

		var unread int64
		err = db.Model(&entity.ChatMessage{}).
			Where("sender_id = ? AND receiver_id = ? AND read_status = ?", contactID, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		contact := entity.ChatContact{
			UserID:      user.ID,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Email:       user.Email,
			UnreadCount: unread,
		}
		if user.Role != nil {
			contact.RoleName = user.Role.RoleName
		}
		if last.ID != 0 {
			contact.LastMessage = &last
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (r *chatRepository) MarkRead(db *gorm.DB, id int) error {
	return db.Model(&entity.ChatMessage{}).Where("id = ?", id).Update("read_status", true).Error
}

func (r *chatRepository) MarkConversationRead(db *gorm.DB, receiverID, senderID int) (int64, error) {
	result := db.Model(&entity.ChatMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND read_status = ?", receiverID, senderID, false).
		Update("read_status", true)
	return result.RowsAffected, result.Error
}

// Chatbot logs

type chatbotLogRepository struct{}

func NewChatbotLogRepository() domainRepo.ChatbotLogRepository {
	return &chatbotLogRepository{}
}

func (r *chatbotLogRepository) Create(db *gorm.DB, log *entity.ChatbotLog) error {
	return db.Create(log).Error
}

func (r *chatbotLogRepository) FindByUserID(db *gorm.DB, userID, limit int) ([]entity.ChatbotLog, error) {
	var logs []entity.ChatbotLog
	err := db.Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
