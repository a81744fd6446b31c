package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type PatientHandler struct {
	patientUsecase usecase.PatientUsecase
	validator      *validator.CustomValidator
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientUsecase: patientUsecase,
		validator:      validator,
	}
}

func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.CreatePatient(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient created successfully", patient)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	patient, err := h.patientUsecase.GetPatient(r.Context(), actor, patientID)
	if err != nil {
		h.writeError(w, err, "Failed to get patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient retrieved successfully", patient)
}

func (h *PatientHandler) GetAllPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.GetAllPatients(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.UpdatePatientRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	patient, err := h.patientUsecase.UpdatePatient(r.Context(), actor, patientID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	if err := h.patientUsecase.DeletePatient(r.Context(), actor, patientID); err != nil {
		h.writeError(w, err, "Failed to delete patient")
		return
	}

	response.Success(w, http.StatusOK, "Patient deleted successfully", nil)
}

// Allergies

func (h *PatientHandler) GetAllergies(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	allergies, err := h.patientUsecase.GetAllergies(r.Context(), actor, patientID)
	if err != nil {
		h.writeError(w, err, "Failed to get allergies")
		return
	}

	response.Success(w, http.StatusOK, "Allergies retrieved successfully", allergies)
}

func (h *PatientHandler) AddAllergy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.AllergyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	allergy, err := h.patientUsecase.AddAllergy(r.Context(), actor, patientID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add allergy")
		return
	}

	response.Success(w, http.StatusCreated, "Allergy added successfully", allergy)
}

func (h *PatientHandler) DeleteAllergy(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}
	allergyID, ok := pathID(r, "allergy_id")
	if !ok {
		response.BadRequest(w, "Invalid allergy ID")
		return
	}

	if err := h.patientUsecase.DeleteAllergy(r.Context(), actor, patientID, allergyID); err != nil {
		h.writeError(w, err, "Failed to delete allergy")
		return
	}

	response.Success(w, http.StatusOK, "Allergy deleted successfully", nil)
}

// Medications

func (h *PatientHandler) GetMedications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	medications, err := h.patientUsecase.GetMedications(r.Context(), actor, patientID)
	if err != nil {
		h.writeError(w, err, "Failed to get medications")
		return
	}

	response.Success(w, http.StatusOK, "Medications retrieved successfully", medications)
}

func (h *PatientHandler) AddMedication(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	patientID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid patient ID")
		return
	}

	var req dto.MedicationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	medication, err := h.patientUsecase.AddMedication(r.Context(), actor, patientID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to add medication")
		return
	}

	response.Success(w, http.StatusCreated, "Medication added successfully", medication)
}

func (h *PatientHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	case usecase.ErrAllergyNotFound:
		response.NotFound(w, "Allergy not found")
	case usecase.ErrInsuranceNotFound:
		response.BadRequest(w, "Insurance not found")
	case usecase.ErrEmailAlreadyExists:
		response.Conflict(w, "Email already exists")
	case usecase.ErrResourceInUse:
		response.Conflict(w, "Patient is still referenced by other records")
	case usecase.ErrInvalidDateRange, usecase.ErrInvalidDateFormat:
		response.BadRequest(w, err.Error())
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
