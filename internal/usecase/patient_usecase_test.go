package usecase

import (
	"context"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientAccess(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	selfActor, self := f.createPatient(t)
	otherActor, _ := f.createPatient(t)
	doctorActor, _ := f.createDoctor(t)
	ctx := context.Background()

	_, err := uc.GetPatient(ctx, selfActor, self.ID)
	assert.NoError(t, err)
	_, err = uc.GetPatient(ctx, doctorActor, self.ID)
	assert.NoError(t, err)
	_, err = uc.GetPatient(ctx, otherActor, self.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.GetPatient(ctx, f.admin, 999)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	blood := "O+"
	updated, err := uc.UpdatePatient(ctx, selfActor, self.ID, &dto.UpdatePatientRequest{BloodType: &blood})
	require.NoError(t, err)
	assert.Equal(t, "O+", updated.BloodType)

	_, err = uc.UpdatePatient(ctx, doctorActor, self.ID, &dto.UpdatePatientRequest{BloodType: &blood})
	assert.ErrorIs(t, err, ErrForbidden)

	badDate := "31-12-1990"
	_, err = uc.UpdatePatient(ctx, selfActor, self.ID, &dto.UpdatePatientRequest{DateOfBirth: &badDate})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestCreatePatientRejectsUnknownInsurance(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	missing := 12

	_, err := uc.CreatePatient(context.Background(), f.admin, &dto.CreatePatientRequest{
		Email: "new@example.com", Password: "secret1", FirstName: "New", InsuranceID: &missing,
	})
	assert.ErrorIs(t, err, ErrInsuranceNotFound)

	created, err := uc.CreatePatient(context.Background(), f.admin, &dto.CreatePatientRequest{
		Email: "new@example.com", Password: "secret1", FirstName: "New", DateOfBirth: "1990-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "1990-05-01", created.DateOfBirth)
	assert.Equal(t, "new@example.com", created.Email)

	_, err = uc.CreatePatient(context.Background(), f.admin, &dto.CreatePatientRequest{
		Email: "new@example.com", Password: "secret1", FirstName: "Again",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAllergies(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	selfActor, self := f.createPatient(t)
	otherActor, _ := f.createPatient(t)
	ctx := context.Background()

	_, err := uc.AddAllergy(ctx, otherActor, self.ID, &dto.AllergyRequest{AllergyName: "Peanuts"})
	assert.ErrorIs(t, err, ErrForbidden)

	allergy, err := uc.AddAllergy(ctx, selfActor, self.ID, &dto.AllergyRequest{AllergyName: "Peanuts", Severity: "High"})
	require.NoError(t, err)
	assert.Equal(t, selfActor.UserID, allergy.CreatedBy)

	list, err := uc.GetAllergies(ctx, selfActor, self.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, uc.DeleteAllergy(ctx, selfActor, self.ID, 999), ErrAllergyNotFound)
	require.NoError(t, uc.DeleteAllergy(ctx, selfActor, self.ID, allergy.ID))

	list, err = uc.GetAllergies(ctx, selfActor, self.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddMedicationNotifiesPatient(t *testing.T) {
	f := newFixture(t)
	uc := f.patientUsecase()
	patientActor, patient := f.createPatient(t)
	doctorActor, _ := f.createDoctor(t)
	ctx := context.Background()

	_, err := uc.AddMedication(ctx, patientActor, patient.ID, &dto.MedicationRequest{MedicationName: "Ibuprofen"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.AddMedication(ctx, doctorActor, patient.ID, &dto.MedicationRequest{
		MedicationName: "Ibuprofen", StartDate: "2024-02-10", EndDate: "2024-02-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	conn, err := f.registry.Register(patientActor.UserID)
	require.NoError(t, err)
	defer f.registry.Unregister(conn)

	med, err := uc.AddMedication(ctx, doctorActor, patient.ID, &dto.MedicationRequest{
		MedicationName: "Ibuprofen", Dosage: "200mg", Frequency: "twice daily",
	})
	require.NoError(t, err)
	assert.Equal(t, doctorActor.UserID, med.PrescribedBy)

	var notifications []entity.Notification
	require.NoError(t, f.db.Where("user_id = ?", patientActor.UserID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationTypeMedication, notifications[0].NotificationType)
	assert.Contains(t, notifications[0].Content, "Ibuprofen")
	assert.True(t, notifications[0].SentStatus)
	assert.Len(t, conn.Send, 1)

	meds, err := uc.GetMedications(ctx, patientActor, patient.ID)
	require.NoError(t, err)
	assert.Len(t, meds, 1)
}
