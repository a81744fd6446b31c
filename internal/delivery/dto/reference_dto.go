package dto

// Request DTOs

type RoleRequest struct {
	RoleName    string `json:"role_name" validate:"required,max=50"`
	Description string `json:"description"`
}

type DepartmentRequest struct {
	DepartmentName string `json:"department_name" validate:"required,max=100"`
	Description    string `json:"description"`
}

type SpecializationRequest struct {
	SpecName    string `json:"spec_name" validate:"required,max=100"`
	Description string `json:"description"`
}

// Response DTOs

type RoleResponse struct {
	ID          int    `json:"id"`
	RoleName    string `json:"role_name"`
	Description string `json:"description,omitempty"`
}

type DepartmentResponse struct {
	ID             int    `json:"id"`
	DepartmentName string `json:"department_name"`
	Description    string `json:"description,omitempty"`
}

type SpecializationResponse struct {
	ID          int    `json:"id"`
	SpecName    string `json:"spec_name"`
	Description string `json:"description,omitempty"`
}
