package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

func ChatMessageToResponse(message *entity.ChatMessage) *dto.ChatMessageResponse {
	if message == nil {
		return nil
	}
	return &dto.ChatMessageResponse{
		ID:          message.ID,
		SenderID:    message.SenderID,
		ReceiverID:  message.ReceiverID,
		Message:     message.Message,
		SentAt:      message.SentAt.UTC(),
		IsUrgent:    message.IsUrgent,
		ReadStatus:  message.ReadStatus,
		MessageType: message.MessageType,
	}
}

func ChatMessagesToResponses(messages []entity.ChatMessage) []dto.ChatMessageResponse {
	responses := make([]dto.ChatMessageResponse, len(messages))
	for i := range messages {
		responses[i] = *ChatMessageToResponse(&messages[i])
	}
	return responses
}

func ChatContactsToResponses(contacts []entity.ChatContact) []dto.ChatContactResponse {
	responses := make([]dto.ChatContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = dto.ChatContactResponse{
			UserID:      contact.UserID,
			FirstName:   contact.FirstName,
			LastName:    contact.LastName,
			Email:       contact.Email,
			Role:        contact.RoleName,
			LastMessage: ChatMessageToResponse(contact.LastMessage),
			UnreadCount: contact.UnreadCount,
		}
	}
	return responses
}

func NotificationToResponse(notification *entity.Notification) *dto.NotificationResponse {
	if notification == nil {
		return nil
	}
	return &dto.NotificationResponse{
		ID:               notification.ID,
		UserID:           notification.UserID,
		NotificationType: notification.NotificationType,
		Content:          notification.Content,
		SentStatus:       notification.SentStatus,
		ReadStatus:       notification.ReadStatus,
		DeliveryTime:     notification.DeliveryTime.UTC(),
	}
}

func NotificationsToResponses(notifications []entity.Notification) []dto.NotificationResponse {
	responses := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = *NotificationToResponse(&notifications[i])
	}
	return responses
}

func ChatbotLogsToResponses(logs []entity.ChatbotLog) []dto.ChatbotResponse {
	responses := make([]dto.ChatbotResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.ChatbotResponse{
			Query:     log.Symptoms,
			Response:  log.Response,
			Timestamp: log.Timestamp.UTC(),
		}
	}
	return responses
}
