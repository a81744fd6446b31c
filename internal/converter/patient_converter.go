package converter

import (
	"time"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:          patient.ID,
		UserID:      patient.UserID,
		DateOfBirth: formatDate(patient.DateOfBirth),
		Gender:      patient.Gender,
		BloodType:   patient.BloodType,
		InsuranceID: patient.InsuranceID,
		CreatedAt:   patient.CreatedAt,
		UpdatedAt:   patient.UpdatedAt,
	}

	if patient.User != nil {
		response.FirstName = patient.User.FirstName
		response.LastName = patient.User.LastName
		response.Email = patient.User.Email
		response.Phone = patient.User.Phone
	}
	if patient.Insurance != nil {
		response.Insurance = InsuranceToResponse(patient.Insurance)
	}

	return response
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}

func AllergyToResponse(allergy *entity.PatientAllergy) *dto.AllergyResponse {
	if allergy == nil {
		return nil
	}
	return &dto.AllergyResponse{
		ID:            allergy.ID,
		PatientID:     allergy.PatientID,
		AllergyName:   allergy.AllergyName,
		Severity:      allergy.Severity,
		Reaction:      allergy.Reaction,
		DiagnosedDate: formatDate(allergy.DiagnosedDate),
		CreatedBy:     allergy.CreatedBy,
		CreatedAt:     allergy.CreatedAt,
	}
}

func AllergiesToResponses(allergies []entity.PatientAllergy) []dto.AllergyResponse {
	responses := make([]dto.AllergyResponse, len(allergies))
	for i := range allergies {
		responses[i] = *AllergyToResponse(&allergies[i])
	}
	return responses
}

func MedicationToResponse(medication *entity.PatientMedication) *dto.MedicationResponse {
	if medication == nil {
		return nil
	}
	return &dto.MedicationResponse{
		ID:             medication.ID,
		PatientID:      medication.PatientID,
		MedicationName: medication.MedicationName,
		Dosage:         medication.Dosage,
		Frequency:      medication.Frequency,
		StartDate:      formatDate(medication.StartDate),
		EndDate:        formatDate(medication.EndDate),
		PrescribedBy:   medication.PrescribedBy,
		CreatedAt:      medication.CreatedAt,
	}
}

func MedicationsToResponses(medications []entity.PatientMedication) []dto.MedicationResponse {
	responses := make([]dto.MedicationResponse, len(medications))
	for i := range medications {
		responses[i] = *MedicationToResponse(&medications[i])
	}
	return responses
}

func InsuranceToResponse(insurance *entity.Insurance) *dto.InsuranceResponse {
	if insurance == nil {
		return nil
	}
	return &dto.InsuranceResponse{
		ID:              insurance.ID,
		Provider:        insurance.Provider,
		PolicyNumber:    insurance.PolicyNumber,
		CoverageDetails: insurance.CoverageDetails,
		CoverageLimit:   insurance.CoverageLimit,
		ValidUntil:      formatDate(insurance.ValidUntil),
		Expired:         insurance.IsExpired(time.Now().UTC()),
	}
}

func InsurancesToResponses(insurances []entity.Insurance) []dto.InsuranceResponse {
	responses := make([]dto.InsuranceResponse, len(insurances))
	for i := range insurances {
		responses[i] = *InsuranceToResponse(&insurances[i])
	}
	return responses
}

func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	response := &dto.MedicalRecordResponse{
		ID:            record.ID,
		PatientID:     record.PatientID,
		DoctorID:      record.DoctorID,
		AppointmentID: record.AppointmentID,
		Diagnosis:     record.Diagnosis,
		Prescriptions: record.Prescriptions,
		LabResults:    record.LabResults,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	if record.Patient != nil && record.Patient.User != nil {
		response.PatientName = record.Patient.User.FullName()
	}
	if record.Doctor != nil && record.Doctor.User != nil {
		response.DoctorName = record.Doctor.User.FullName()
	}
	return response
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}
