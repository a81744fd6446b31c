package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

// TimeSlotToResponse converts a TimeSlot entity to TimeSlotResponse DTO.
// Doctor name and department are filled when the calendar chain is preloaded.
func TimeSlotToResponse(slot *entity.TimeSlot) *dto.TimeSlotResponse {
	if slot == nil {
		return nil
	}

	response := &dto.TimeSlotResponse{
		ID:          slot.ID,
		CalendarID:  slot.CalendarID,
		StartTime:   slot.StartTime.UTC(),
		EndTime:     slot.EndTime.UTC(),
		IsAvailable: slot.IsAvailable,
	}

	if slot.Calendar != nil {
		response.DoctorID = slot.Calendar.DoctorID
		if doctor := slot.Calendar.Doctor; doctor != nil {
			if doctor.User != nil {
				response.DoctorName = doctor.User.FullName()
			}
			if doctor.Department != nil {
				response.Department = doctor.Department.DepartmentName
			}
		}
	}

	return response
}

func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *TimeSlotToResponse(&slots[i])
	}
	return responses
}
