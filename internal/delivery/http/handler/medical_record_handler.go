package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *MedicalRecordHandler) CreateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateMedicalRecordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.CreateMedicalRecord(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

// GetMedicalRecords lists records visible to the actor. patient_id and
// doctor_id narrow the admin view.
func (h *MedicalRecordHandler) GetMedicalRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := queryInt(r, "patient_id")
	if !ok {
		response.BadRequest(w, "Invalid patient_id")
		return
	}
	doctorID, ok := queryInt(r, "doctor_id")
	if !ok {
		response.BadRequest(w, "Invalid doctor_id")
		return
	}

	records, err := h.recordUsecase.GetMedicalRecords(r.Context(), actor, &entity.MedicalRecordFilter{
		PatientID: patientID,
		DoctorID:  doctorID,
	})
	if err != nil {
		h.writeError(w, err, "Failed to get medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

func (h *MedicalRecordHandler) GetMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	recordID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid medical record ID")
		return
	}

	record, err := h.recordUsecase.GetMedicalRecord(r.Context(), actor, recordID)
	if err != nil {
		h.writeError(w, err, "Failed to get medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", record)
}

func (h *MedicalRecordHandler) UpdateMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	recordID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid medical record ID")
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.UpdateMedicalRecord(r.Context(), actor, recordID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated successfully", record)
}

func (h *MedicalRecordHandler) DeleteMedicalRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	recordID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid medical record ID")
		return
	}

	if err := h.recordUsecase.DeleteMedicalRecord(r.Context(), actor, recordID); err != nil {
		h.writeError(w, err, "Failed to delete medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record deleted successfully", nil)
}

func (h *MedicalRecordHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrMedicalRecordNotFound:
		response.NotFound(w, "Medical record not found")
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrAppointmentNotFound:
		response.NotFound(w, "Appointment not found")
	case usecase.ErrDoctorRequired, usecase.ErrAppointmentMismatch:
		response.BadRequest(w, err.Error())
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
