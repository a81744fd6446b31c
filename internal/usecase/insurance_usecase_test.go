package usecase

import (
	"context"
	"testing"

	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInsuranceVisibility(t *testing.T) {
	f := newFixture(t)
	uc := f.insuranceUsecase()
	ctx := context.Background()

	policy, err := uc.CreateInsurance(ctx, f.admin, &dto.InsuranceRequest{
		Provider:      "Acme Health",
		PolicyNumber:  "ACME-001",
		CoverageLimit: decimal.NewFromInt(5000),
		ValidUntil:    "2031-12-31",
	})
	require.NoError(t, err)
	other, err := uc.CreateInsurance(ctx, f.admin, &dto.InsuranceRequest{Provider: "Other Mutual", PolicyNumber: "OM-9"})
	require.NoError(t, err)

	holder, holderRow := f.createPatient(t)
	require.NoError(t, f.db.Model(&entity.Patient{}).Where("id = ?", holderRow.ID).Update("insurance_id", policy.ID).Error)
	elsewhere, elsewhereRow := f.createPatient(t)
	require.NoError(t, f.db.Model(&entity.Patient{}).Where("id = ?", elsewhereRow.ID).Update("insurance_id", other.ID).Error)
	uninsured, _ := f.createPatient(t)
	doctor, _ := f.createDoctor(t)

	tests := []struct {
		name    string
		actor   entity.Actor
		wantErr error
	}{
		{"admin", f.admin, nil},
		{"policy holder", holder, nil},
		{"patient on another policy", elsewhere, ErrForbidden},
		{"uninsured patient", uninsured, ErrForbidden},
		{"doctor", doctor, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.GetInsurance(ctx, tt.actor, policy.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ACME-001", got.PolicyNumber)
			assert.False(t, got.Expired)
		})
	}

	_, err = uc.GetInsurance(ctx, f.admin, 9999)
	assert.ErrorIs(t, err, ErrInsuranceNotFound)
}

func TestCreateInsuranceRejectsNegativeLimit(t *testing.T) {
	f := newFixture(t)
	uc := f.insuranceUsecase()
	ctx := context.Background()

	_, err := uc.CreateInsurance(ctx, f.admin, &dto.InsuranceRequest{Provider: "Acme", PolicyNumber: "P-1", CoverageLimit: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeCoverageLimit)

	_, err = uc.CreateInsurance(ctx, f.admin, &dto.InsuranceRequest{Provider: "Acme", PolicyNumber: "P-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), f.countAudit(t, entity.AuditEventInsuranceCreate))
}
