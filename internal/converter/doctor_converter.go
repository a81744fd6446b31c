package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

// DoctorToResponse flattens the doctor with whatever associations were preloaded.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:           doctor.ID,
		UserID:       doctor.UserID,
		SpecID:       doctor.SpecID,
		DepartmentID: doctor.DepartmentID,
		YearsOfExp:   doctor.YearsOfExp,
		CreatedAt:    doctor.CreatedAt,
		UpdatedAt:    doctor.UpdatedAt,
	}

	if doctor.User != nil {
		response.FirstName = doctor.User.FirstName
		response.LastName = doctor.User.LastName
		response.Email = doctor.User.Email
		response.Phone = doctor.User.Phone
	}
	if doctor.Specialization != nil {
		response.Specialization = doctor.Specialization.SpecName
	}
	if doctor.Department != nil {
		response.Department = doctor.Department.DepartmentName
	}
	if doctor.Calendar != nil {
		response.Calendar = CalendarToResponse(doctor.Calendar)
	}

	return response
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}

func CalendarToResponse(calendar *entity.DoctorCalendar) *dto.CalendarResponse {
	if calendar == nil {
		return nil
	}
	return &dto.CalendarResponse{
		ID:           calendar.ID,
		DoctorID:     calendar.DoctorID,
		Availability: calendar.Availability,
	}
}
