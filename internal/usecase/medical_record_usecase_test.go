package usecase

import (
	"context"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicalRecordAuthorship(t *testing.T) {
	f := newFixture(t)
	uc := f.medicalRecordUsecase()
	ctx := context.Background()

	author, doctor := f.createDoctor(t)
	otherDoctor, _ := f.createDoctor(t)
	patientActor, patient := f.createPatient(t)
	otherPatient, _ := f.createPatient(t)

	record, err := uc.CreateMedicalRecord(ctx, author, &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Hypertension",
	})
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, record.DoctorID)

	diagnosis := "Stage 1 hypertension"
	tests := []struct {
		name    string
		actor   entity.Actor
		wantErr error
	}{
		{"authoring doctor", author, nil},
		{"other doctor", otherDoctor, ErrForbidden},
		{"record's patient", patientActor, ErrForbidden},
		{"admin", f.admin, nil},
	}
	for _, tt := range tests {
		t.Run("update by "+tt.name, func(t *testing.T) {
			updated, err := uc.UpdateMedicalRecord(ctx, tt.actor, record.ID, &dto.UpdateMedicalRecordRequest{Diagnosis: &diagnosis})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, diagnosis, updated.Diagnosis)
		})
	}

	t.Run("other doctor cannot write under the author's id", func(t *testing.T) {
		_, err := uc.CreateMedicalRecord(ctx, otherDoctor, &dto.CreateMedicalRecordRequest{
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Diagnosis: "Forged",
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("reads", func(t *testing.T) {
		_, err := uc.GetMedicalRecord(ctx, patientActor, record.ID)
		assert.NoError(t, err)
		_, err = uc.GetMedicalRecord(ctx, author, record.ID)
		assert.NoError(t, err)

		_, err = uc.GetMedicalRecord(ctx, otherPatient, record.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = uc.GetMedicalRecord(ctx, otherDoctor, record.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("listings are scoped to the author", func(t *testing.T) {
		mine, err := uc.GetMedicalRecords(ctx, author, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, mine.Total)

		theirs, err := uc.GetMedicalRecords(ctx, otherDoctor, &entity.MedicalRecordFilter{PatientID: patient.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, theirs.Total)
	})
}

func TestCreateMedicalRecordByAdminNeedsDoctor(t *testing.T) {
	f := newFixture(t)
	uc := f.medicalRecordUsecase()
	_, patient := f.createPatient(t)

	_, err := uc.CreateMedicalRecord(context.Background(), f.admin, &dto.CreateMedicalRecordRequest{
		PatientID: patient.ID,
		Diagnosis: "Asthma",
	})
	assert.ErrorIs(t, err, ErrDoctorRequired)
}
