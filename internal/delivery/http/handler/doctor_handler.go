package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase   usecase.DoctorUsecase
	timeSlotUsecase usecase.TimeSlotUsecase
	validator       *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, timeSlotUsecase usecase.TimeSlotUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase:   doctorUsecase,
		timeSlotUsecase: timeSlotUsecase,
		validator:       validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), actor, &req)
	if err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			response.Conflict(w, "Email already exists")
		case usecase.ErrSpecializationNotFound:
			response.BadRequest(w, "Specialization not found")
		case usecase.ErrDepartmentNotFound:
			response.BadRequest(w, "Department not found")
		case usecase.ErrRoleNotFound:
			response.BadRequest(w, "Role not found")
		default:
			response.InternalServerError(w, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.UpdateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.UpdateDoctor(r.Context(), actor, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, err.Error())
		case usecase.ErrSpecializationNotFound:
			response.BadRequest(w, "Specialization not found")
		case usecase.ErrDepartmentNotFound:
			response.BadRequest(w, "Department not found")
		default:
			response.InternalServerError(w, "Failed to update doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), actor, doctorID); err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, err.Error())
		case usecase.ErrResourceInUse:
			response.Conflict(w, "Doctor still has appointments or records")
		default:
			response.InternalServerError(w, "Failed to delete doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}

func (h *DoctorHandler) UpsertCalendar(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.CalendarRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	calendar, err := h.doctorUsecase.UpsertCalendar(r.Context(), actor, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to save calendar")
		}
		return
	}

	response.Success(w, http.StatusOK, "Calendar saved successfully", calendar)
}

func (h *DoctorHandler) GenerateDaySlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.GenerateDaySlotsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.timeSlotUsecase.GenerateDaySlots(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeGeneratorError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Time slots generated successfully", result)
}

func (h *DoctorHandler) BulkGenerateSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	doctorID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	var req dto.BulkGenerateSlotsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	result, err := h.timeSlotUsecase.BulkGenerateSlots(r.Context(), actor, doctorID, &req)
	if err != nil {
		writeGeneratorError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Time slots generated successfully", result)
}

// writeGeneratorError maps the errors shared by both slot generators.
func writeGeneratorError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrCalendarNotFound:
		response.NotFound(w, "Calendar not found")
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	case usecase.ErrInvalidSlotDuration,
		usecase.ErrInvalidTimeRange,
		usecase.ErrInvalidDateRange,
		usecase.ErrDateRangeTooLong,
		usecase.ErrInvalidDateFormat,
		usecase.ErrInvalidTimeFormat:
		response.BadRequest(w, err.Error())
	case usecase.ErrSlotOverlap:
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, "Failed to generate time slots")
	}
}
