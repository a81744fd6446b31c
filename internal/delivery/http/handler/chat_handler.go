package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	contacts, err := h.chatUsecase.GetContacts(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to get contacts")
		return
	}

	response.Success(w, http.StatusOK, "Contacts retrieved successfully", contacts)
}

// GetMessages returns the conversation with contact_id, oldest first.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	contactID, ok := queryInt(r, "contact_id")
	if !ok || contactID <= 0 {
		response.BadRequest(w, "contact_id is required")
		return
	}

	messages, err := h.chatUsecase.GetMessages(r.Context(), actor, contactID)
	if err != nil {
		response.InternalServerError(w, "Failed to get messages")
		return
	}

	response.Success(w, http.StatusOK, "Messages retrieved successfully", messages)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	message, err := h.chatUsecase.SendMessage(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to send message")
		return
	}

	response.Success(w, http.StatusCreated, "Message sent successfully", message)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	messageID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	if err := h.chatUsecase.MarkRead(r.Context(), actor, messageID); err != nil {
		h.writeError(w, err, "Failed to mark message as read")
		return
	}

	response.Success(w, http.StatusOK, "Message marked as read", nil)
}

func (h *ChatHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	senderID, ok := queryInt(r, "sender_id")
	if !ok || senderID <= 0 {
		response.BadRequest(w, "sender_id is required")
		return
	}

	updated, err := h.chatUsecase.MarkAllRead(r.Context(), actor, senderID)
	if err != nil {
		h.writeError(w, err, "Failed to mark messages as read")
		return
	}

	response.Success(w, http.StatusOK, "Messages marked as read", map[string]int64{"updated": updated})
}

func (h *ChatHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrMessageNotFound:
		response.NotFound(w, "Message not found")
	case usecase.ErrReceiverNotFound:
		response.NotFound(w, "Receiver not found")
	case usecase.ErrMessageToSelf, usecase.ErrEmptyMessage:
		response.BadRequest(w, err.Error())
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
