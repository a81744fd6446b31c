package handler

import (
	"net/http"
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type TimeSlotHandler struct {
	timeSlotUsecase usecase.TimeSlotUsecase
	validator       *validator.CustomValidator
}

func NewTimeSlotHandler(timeSlotUsecase usecase.TimeSlotUsecase, validator *validator.CustomValidator) *TimeSlotHandler {
	return &TimeSlotHandler{
		timeSlotUsecase: timeSlotUsecase,
		validator:       validator,
	}
}

// GetTimeSlots lists available slots. date_to is inclusive.
func (h *TimeSlotHandler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	filter := &entity.TimeSlotFilter{AvailableOnly: true}

	doctorID, ok := queryInt(r, "doctor_id")
	if !ok {
		response.BadRequest(w, "Invalid doctor_id")
		return
	}
	filter.DoctorID = doctorID

	if raw := r.URL.Query().Get("date_from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.BadRequest(w, usecase.ErrInvalidDateFormat.Error())
			return
		}
		filter.DateFrom = &from
	}
	if raw := r.URL.Query().Get("date_to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			response.BadRequest(w, usecase.ErrInvalidDateFormat.Error())
			return
		}
		to = to.AddDate(0, 0, 1)
		filter.DateTo = &to
	}

	slots, err := h.timeSlotUsecase.GetTimeSlots(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get time slots")
		return
	}

	response.Success(w, http.StatusOK, "Time slots retrieved successfully", slots)
}

func (h *TimeSlotHandler) GetTimeSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	slot, err := h.timeSlotUsecase.GetTimeSlot(r.Context(), slotID)
	if err != nil {
		if err == usecase.ErrTimeSlotNotFound {
			response.NotFound(w, "Time slot not found")
			return
		}
		response.InternalServerError(w, "Failed to get time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot retrieved successfully", slot)
}

func (h *TimeSlotHandler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateTimeSlotRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slot, err := h.timeSlotUsecase.CreateTimeSlot(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create time slot")
		return
	}

	response.Success(w, http.StatusCreated, "Time slot created successfully", slot)
}

func (h *TimeSlotHandler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	slotID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	var req dto.UpdateTimeSlotRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	slot, err := h.timeSlotUsecase.UpdateTimeSlot(r.Context(), actor, slotID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot updated successfully", slot)
}

func (h *TimeSlotHandler) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	slotID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid time slot ID")
		return
	}

	if err := h.timeSlotUsecase.DeleteTimeSlot(r.Context(), actor, slotID); err != nil {
		h.writeError(w, err, "Failed to delete time slot")
		return
	}

	response.Success(w, http.StatusOK, "Time slot deleted successfully", nil)
}

// BulkGenerate runs the bulk generator for the calendar named in the body.
func (h *TimeSlotHandler) BulkGenerate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.BulkGenerateSlotsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	if req.CalendarID <= 0 {
		response.ValidationError(w, map[string]string{"calendar_id": "calendar_id is required"})
		return
	}

	result, err := h.timeSlotUsecase.BulkGenerateForCalendar(r.Context(), actor, &req)
	if err != nil {
		writeGeneratorError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Time slots generated successfully", result)
}

func (h *TimeSlotHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrTimeSlotNotFound:
		response.NotFound(w, "Time slot not found")
	case usecase.ErrCalendarNotFound:
		response.NotFound(w, "Calendar not found")
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	case usecase.ErrInvalidTimeRange:
		response.BadRequest(w, err.Error())
	case usecase.ErrSlotOverlap, usecase.ErrSlotBooked, usecase.ErrSlotReferenced:
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
