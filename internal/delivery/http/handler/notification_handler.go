package handler

import (
	"net/http"
	"strconv"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUsecase
	validator           *validator.CustomValidator
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUsecase, validator *validator.CustomValidator) *NotificationHandler {
	return &NotificationHandler{
		notificationUsecase: notificationUsecase,
		validator:           validator,
	}
}

func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateNotificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	notification, err := h.notificationUsecase.CreateNotification(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create notification")
		return
	}

	response.Success(w, http.StatusCreated, "Notification created successfully", notification)
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	unreadOnly := false
	if raw := r.URL.Query().Get("unread_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid unread_only")
			return
		}
		unreadOnly = v
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		response.BadRequest(w, "Invalid limit")
		return
	}

	notifications, err := h.notificationUsecase.GetNotifications(r.Context(), actor, unreadOnly, limit)
	if err != nil {
		h.writeError(w, err, "Failed to get notifications")
		return
	}

	response.Success(w, http.StatusOK, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	notificationID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	if err := h.notificationUsecase.MarkRead(r.Context(), actor, notificationID); err != nil {
		h.writeError(w, err, "Failed to mark notification as read")
		return
	}

	response.Success(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	updated, err := h.notificationUsecase.MarkAllRead(r.Context(), actor)
	if err != nil {
		h.writeError(w, err, "Failed to mark notifications as read")
		return
	}

	response.Success(w, http.StatusOK, "Notifications marked as read", map[string]int64{"updated": updated})
}

func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	notificationID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	if err := h.notificationUsecase.DeleteNotification(r.Context(), actor, notificationID); err != nil {
		h.writeError(w, err, "Failed to delete notification")
		return
	}

	response.Success(w, http.StatusOK, "Notification deleted successfully", nil)
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrNotificationNotFound:
		response.NotFound(w, "Notification not found")
	case usecase.ErrUserNotFound:
		response.NotFound(w, "User not found")
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
