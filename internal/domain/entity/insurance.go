package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Insurance struct {
	ID              int             `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider        string          `gorm:"type:varchar(100);not null" json:"provider"`
	PolicyNumber    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"policy_number"`
	CoverageDetails string          `gorm:"type:text" json:"coverage_details,omitempty"`
	CoverageLimit   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"coverage_limit"`
	ValidUntil      *time.Time      `gorm:"type:date" json:"valid_until,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Insurance) TableName() string {
	return "insurance"
}

// IsExpired reports whether the policy lapsed before at.
func (i *Insurance) IsExpired(at time.Time) bool {
	return i.ValidUntil != nil && i.ValidUntil.Before(at)
}
