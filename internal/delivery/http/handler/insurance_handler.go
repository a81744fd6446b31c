package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

type InsuranceHandler struct {
	insuranceUsecase usecase.InsuranceUsecase
	validator        *validator.CustomValidator
}

func NewInsuranceHandler(insuranceUsecase usecase.InsuranceUsecase, validator *validator.CustomValidator) *InsuranceHandler {
	return &InsuranceHandler{
		insuranceUsecase: insuranceUsecase,
		validator:        validator,
	}
}

func (h *InsuranceHandler) CreateInsurance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.InsuranceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	insurance, err := h.insuranceUsecase.CreateInsurance(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create insurance")
		return
	}

	response.Success(w, http.StatusCreated, "Insurance created successfully", insurance)
}

func (h *InsuranceHandler) GetInsurance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	insuranceID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid insurance ID")
		return
	}

	insurance, err := h.insuranceUsecase.GetInsurance(r.Context(), actor, insuranceID)
	if err != nil {
		h.writeError(w, err, "Failed to get insurance")
		return
	}

	response.Success(w, http.StatusOK, "Insurance retrieved successfully", insurance)
}

func (h *InsuranceHandler) GetAllInsurance(w http.ResponseWriter, r *http.Request) {
	policies, err := h.insuranceUsecase.GetAllInsurance(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get insurance")
		return
	}

	response.Success(w, http.StatusOK, "Insurance retrieved successfully", policies)
}

func (h *InsuranceHandler) UpdateInsurance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	insuranceID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid insurance ID")
		return
	}

	var req dto.InsuranceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	insurance, err := h.insuranceUsecase.UpdateInsurance(r.Context(), actor, insuranceID, &req)
	if err != nil {
		h.writeError(w, err, "Failed to update insurance")
		return
	}

	response.Success(w, http.StatusOK, "Insurance updated successfully", insurance)
}

func (h *InsuranceHandler) DeleteInsurance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	insuranceID, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid insurance ID")
		return
	}

	if err := h.insuranceUsecase.DeleteInsurance(r.Context(), actor, insuranceID); err != nil {
		h.writeError(w, err, "Failed to delete insurance")
		return
	}

	response.Success(w, http.StatusOK, "Insurance deleted successfully", nil)
}

func (h *InsuranceHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInsuranceNotFound:
		response.NotFound(w, "Insurance not found")
	case usecase.ErrPolicyNumberExists:
		response.Conflict(w, "Policy number already exists")
	case usecase.ErrResourceInUse:
		response.Conflict(w, "Insurance is still referenced by patients")
	case usecase.ErrNegativeCoverageLimit, usecase.ErrInvalidDateFormat:
		response.BadRequest(w, err.Error())
	case usecase.ErrForbidden:
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
