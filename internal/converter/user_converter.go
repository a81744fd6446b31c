package converter

import (
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// UserToResponse converts a User entity to UserResponse DTO.
// The role name is filled when Role is preloaded, otherwise derived from the seeded ids.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		RoleID:    user.RoleID,
		Role:      string(entity.RoleFromID(user.RoleID)),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Role != nil {
		response.Role = user.Role.RoleName
	}

	return response
}

func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

func RoleToResponse(role *entity.Role) *dto.RoleResponse {
	if role == nil {
		return nil
	}
	return &dto.RoleResponse{ID: role.ID, RoleName: role.RoleName, Description: role.Description}
}

func RolesToResponses(roles []entity.Role) []dto.RoleResponse {
	responses := make([]dto.RoleResponse, len(roles))
	for i := range roles {
		responses[i] = *RoleToResponse(&roles[i])
	}
	return responses
}

func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}
	return &dto.DepartmentResponse{
		ID:             department.ID,
		DepartmentName: department.DepartmentName,
		Description:    department.Description,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = *DepartmentToResponse(&departments[i])
	}
	return responses
}

func SpecializationToResponse(spec *entity.Specialization) *dto.SpecializationResponse {
	if spec == nil {
		return nil
	}
	return &dto.SpecializationResponse{ID: spec.ID, SpecName: spec.SpecName, Description: spec.Description}
}

func SpecializationsToResponses(specs []entity.Specialization) []dto.SpecializationResponse {
	responses := make([]dto.SpecializationResponse, len(specs))
	for i := range specs {
		responses[i] = *SpecializationToResponse(&specs[i])
	}
	return responses
}
