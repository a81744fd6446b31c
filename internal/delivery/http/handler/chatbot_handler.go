package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type ChatbotHandler struct {
	chatbotUsecase usecase.ChatbotUsecase
	validator      *validator.CustomValidator
}

func NewChatbotHandler(chatbotUsecase usecase.ChatbotUsecase, validator *validator.CustomValidator) *ChatbotHandler {
	return &ChatbotHandler{
		chatbotUsecase: chatbotUsecase,
		validator:      validator,
	}
}

func (h *ChatbotHandler) Query(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.ChatbotQueryRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reply, err := h.chatbotUsecase.Query(r.Context(), actor, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to answer query")
		return
	}

	response.Success(w, http.StatusOK, "Query answered", reply)
}

func (h *ChatbotHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	history, err := h.chatbotUsecase.GetHistory(r.Context(), actor)
	if err != nil {
		response.InternalServerError(w, "Failed to get chatbot history")
		return
	}

	response.Success(w, http.StatusOK, "Chatbot history retrieved successfully", history)
}
