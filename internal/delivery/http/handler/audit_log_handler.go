package handler

import (
	"net/http"
	"strconv"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetAuditLog handles GET /admin/audit-logs/{id}
func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	// audit ids are bigserial, so pathID does not fit
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || auditLogID <= 0 {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if err == usecase.ErrAuditLogNotFound {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs handles GET /admin/audit-logs with optional event_type,
// user_id, reference_type, start_date, end_date and limit filters.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		response.BadRequest(w, "Invalid limit")
		return
	}
	userID, ok := queryInt(r, "user_id")
	if !ok || userID < 0 {
		response.BadRequest(w, "Invalid user_id")
		return
	}

	q := r.URL.Query()
	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), &dto.AuditLogQuery{
		EventType:     q.Get("event_type"),
		UserID:        userID,
		ReferenceType: q.Get("reference_type"),
		StartDate:     q.Get("start_date"),
		EndDate:       q.Get("end_date"),
		Limit:         limit,
	})
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrInvalidAuditWindow:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to get audit logs")
		}
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
