package handler

import (
	"net/http"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/response"
	"medcare-api/pkg/validator"
)

// ReferenceHandler serves roles, departments and specializations.
type ReferenceHandler struct {
	referenceUsecase usecase.ReferenceUsecase
	validator        *validator.CustomValidator
}

func NewReferenceHandler(referenceUsecase usecase.ReferenceUsecase, validator *validator.CustomValidator) *ReferenceHandler {
	return &ReferenceHandler{
		referenceUsecase: referenceUsecase,
		validator:        validator,
	}
}

// Roles

func (h *ReferenceHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req dto.RoleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	role, err := h.referenceUsecase.CreateRole(r.Context(), &req)
	if err != nil {
		h.writeRoleError(w, err, "Failed to create role")
		return
	}

	response.Success(w, http.StatusCreated, "Role created successfully", role)
}

func (h *ReferenceHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	role, err := h.referenceUsecase.GetRole(r.Context(), id)
	if err != nil {
		h.writeRoleError(w, err, "Failed to get role")
		return
	}

	response.Success(w, http.StatusOK, "Role retrieved successfully", role)
}

func (h *ReferenceHandler) GetAllRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.referenceUsecase.GetAllRoles(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get roles")
		return
	}

	response.Success(w, http.StatusOK, "Roles retrieved successfully", roles)
}

func (h *ReferenceHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	var req dto.RoleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	role, err := h.referenceUsecase.UpdateRole(r.Context(), id, &req)
	if err != nil {
		h.writeRoleError(w, err, "Failed to update role")
		return
	}

	response.Success(w, http.StatusOK, "Role updated successfully", role)
}

func (h *ReferenceHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid role ID")
		return
	}

	if err := h.referenceUsecase.DeleteRole(r.Context(), id); err != nil {
		h.writeRoleError(w, err, "Failed to delete role")
		return
	}

	response.Success(w, http.StatusOK, "Role deleted successfully", nil)
}

func (h *ReferenceHandler) writeRoleError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrRoleNotFound:
		response.NotFound(w, "Role not found")
	case usecase.ErrRoleNameExists:
		response.Conflict(w, "Role name already exists")
	case usecase.ErrFixedRole:
		response.Conflict(w, err.Error())
	case usecase.ErrResourceInUse:
		response.Conflict(w, "Role is still assigned to users")
	default:
		response.InternalServerError(w, fallback)
	}
}

// Departments

func (h *ReferenceHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req dto.DepartmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	department, err := h.referenceUsecase.CreateDepartment(r.Context(), &req)
	if err != nil {
		h.writeDepartmentError(w, err, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}

func (h *ReferenceHandler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	department, err := h.referenceUsecase.GetDepartment(r.Context(), id)
	if err != nil {
		h.writeDepartmentError(w, err, "Failed to get department")
		return
	}

	response.Success(w, http.StatusOK, "Department retrieved successfully", department)
}

func (h *ReferenceHandler) GetAllDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.referenceUsecase.GetAllDepartments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *ReferenceHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	var req dto.DepartmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	department, err := h.referenceUsecase.UpdateDepartment(r.Context(), id, &req)
	if err != nil {
		h.writeDepartmentError(w, err, "Failed to update department")
		return
	}

	response.Success(w, http.StatusOK, "Department updated successfully", department)
}

func (h *ReferenceHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid department ID")
		return
	}

	if err := h.referenceUsecase.DeleteDepartment(r.Context(), id); err != nil {
		h.writeDepartmentError(w, err, "Failed to delete department")
		return
	}

	response.Success(w, http.StatusOK, "Department deleted successfully", nil)
}

func (h *ReferenceHandler) writeDepartmentError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrDepartmentNotFound:
		response.NotFound(w, "Department not found")
	case usecase.ErrDepartmentNameExists:
		response.Conflict(w, "Department name already exists")
	case usecase.ErrResourceInUse:
		response.Conflict(w, "Department is still referenced by doctors")
	default:
		response.InternalServerError(w, fallback)
	}
}

// Specializations

func (h *ReferenceHandler) CreateSpecialization(w http.ResponseWriter, r *http.Request) {
	var req dto.SpecializationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	spec, err := h.referenceUsecase.CreateSpecialization(r.Context(), &req)
	if err != nil {
		h.writeSpecializationError(w, err, "Failed to create specialization")
		return
	}

	response.Success(w, http.StatusCreated, "Specialization created successfully", spec)
}

func (h *ReferenceHandler) GetSpecialization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid specialization ID")
		return
	}

	spec, err := h.referenceUsecase.GetSpecialization(r.Context(), id)
	if err != nil {
		h.writeSpecializationError(w, err, "Failed to get specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization retrieved successfully", spec)
}

func (h *ReferenceHandler) GetAllSpecializations(w http.ResponseWriter, r *http.Request) {
	specs, err := h.referenceUsecase.GetAllSpecializations(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specs)
}

func (h *ReferenceHandler) UpdateSpecialization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid specialization ID")
		return
	}

	var req dto.SpecializationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	spec, err := h.referenceUsecase.UpdateSpecialization(r.Context(), id, &req)
	if err != nil {
		h.writeSpecializationError(w, err, "Failed to update specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization updated successfully", spec)
}

func (h *ReferenceHandler) DeleteSpecialization(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid specialization ID")
		return
	}

	if err := h.referenceUsecase.DeleteSpecialization(r.Context(), id); err != nil {
		h.writeSpecializationError(w, err, "Failed to delete specialization")
		return
	}

	response.Success(w, http.StatusOK, "Specialization deleted successfully", nil)
}

func (h *ReferenceHandler) writeSpecializationError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrSpecializationNotFound:
		response.NotFound(w, "Specialization not found")
	case usecase.ErrSpecializationNameExists:
		response.Conflict(w, "Specialization name already exists")
	case usecase.ErrResourceInUse:
		response.Conflict(w, "Specialization is still referenced by doctors")
	default:
		response.InternalServerError(w, fallback)
	}
}
