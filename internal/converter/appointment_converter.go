package converter

import (
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		PatientID:       appointment.PatientID,
		DoctorID:        appointment.DoctorID,
		SlotID:          appointment.SlotID,
		AppointmentDate: appointment.AppointmentDate.UTC(),
		Status:          string(appointment.Status),
		Notes:           appointment.Notes,
		PriorityFlag:    appointment.PriorityFlag,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Patient != nil && appointment.Patient.User != nil {
		response.PatientName = appointment.Patient.User.FullName()
	}
	if appointment.Doctor != nil && appointment.Doctor.User != nil {
		response.DoctorName = appointment.Doctor.User.FullName()
	}
	if appointment.Slot != nil {
		end := appointment.Slot.EndTime.UTC()
		response.SlotEnd = &end
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
