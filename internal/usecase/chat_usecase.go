package usecase

import (
	"context"
	"errors"
	"time"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrMessageToSelf    = errors.New("cannot send a message to yourself")
	ErrEmptyMessage     = errors.New("message must not be empty")
)

const eventChatMessage = "chat_message"

type ChatUsecase interface {
	GetContacts(ctx context.Context, actor entity.Actor) ([]dto.ChatContactResponse, error)
	GetMessages(ctx context.Context, actor entity.Actor, contactID int) ([]dto.ChatMessageResponse, error)
	SendMessage(ctx context.Context, actor entity.Actor, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error)
	MarkRead(ctx context.Context, actor entity.Actor, messageID int) error
	MarkAllRead(ctx context.Context, actor entity.Actor, senderID int) (int64, error)
}

type chatUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	registry *service.ConnectionRegistry
	now      func() time.Time
}

func NewChatUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	registry *service.ConnectionRegistry,
) ChatUsecase {
	return &chatUsecase{
		db:       db,
		log:      log,
		chatRepo: chatRepo,
		userRepo: userRepo,
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *chatUsecase) GetContacts(ctx context.Context, actor entity.Actor) ([]dto.ChatContactResponse, error) {
	contacts, err := u.chatRepo.FindContacts(u.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find chat contacts: %+v", err)
		return nil, err
	}
	return converter.ChatContactsToResponses(contacts), nil
}

// GetMessages returns the conversation oldest first and marks what the
// contact sent to the actor as read.
func (u *chatUsecase) GetMessages(ctx context.Context, actor entity.Actor, contactID int) ([]dto.ChatMessageResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if _, err := u.chatRepo.MarkConversationRead(tx, actor.UserID, contactID); err != nil {
		u.log.Warnf("Failed to mark conversation read: %+v", err)
		return nil, err
	}

	messages, err := u.chatRepo.FindConversation(tx, actor.UserID, contactID)
	if err != nil {
		u.log.Warnf("Failed to find conversation: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	return converter.ChatMessagesToResponses(messages), nil
}

// SendMessage stores the message, then pushes it to every live socket of the receiver.
func (u *chatUsecase) SendMessage(ctx context.Context, actor entity.Actor, req *dto.SendMessageRequest) (*dto.ChatMessageResponse, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	if req.ReceiverID == actor.UserID {
		return nil, ErrMessageToSelf
	}

	db := u.db.WithContext(ctx)
	receiver, err := u.userRepo.FindByID(db, req.ReceiverID)
	if err != nil {
		u.log.Warnf("Failed to find receiver %d: %+v", req.ReceiverID, err)
		return nil, err
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	message := &entity.ChatMessage{
		SenderID:    actor.UserID,
		ReceiverID:  receiver.ID,
		Message:     req.Message,
		SentAt:      u.now(),
		IsUrgent:    req.IsUrgent,
		MessageType: messageType,
	}
	if err := u.chatRepo.Create(db, message); err != nil {
		u.log.Warnf("Failed to create chat message: %+v", err)
		return nil, err
	}

	response := converter.ChatMessageToResponse(message)
	delivered, err := u.registry.SendJSON(receiver.ID, dto.SocketEvent{Type: eventChatMessage, Data: response})
	if err != nil {
		u.log.Warnf("Failed to encode chat message %d: %+v", message.ID, err)
	}
	u.log.Debugf("Chat message %d pushed to %d connection(s)", message.ID, delivered)

	return response, nil
}

func (u *chatUsecase) MarkRead(ctx context.Context, actor entity.Actor, messageID int) error {
	db := u.db.WithContext(ctx)

	message, err := u.chatRepo.FindByID(db, messageID)
	if err != nil {
		u.log.Warnf("Failed to find chat message %d: %+v", messageID, err)
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.ReceiverID != actor.UserID {
		return ErrForbidden
	}

	if err := u.chatRepo.MarkRead(db, messageID); err != nil {
		u.log.Warnf("Failed to mark chat message read: %+v", err)
		return err
	}
	return nil
}

func (u *chatUsecase) MarkAllRead(ctx context.Context, actor entity.Actor, senderID int) (int64, error) {
	affected, err := u.chatRepo.MarkConversationRead(u.db.WithContext(ctx), actor.UserID, senderID)
	if err != nil {
		u.log.Warnf("Failed to mark conversation read: %+v", err)
		return 0, err
	}
	return affected, nil
}
