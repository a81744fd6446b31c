package entity

import "time"

// Patient is the patient-specific profile of a user
type Patient struct {
	ID          int        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int        `gorm:"uniqueIndex;not null" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(10)" json:"gender,omitempty"`
	BloodType   string     `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	InsuranceID *int       `gorm:"index" json:"insurance_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Insurance *Insurance `gorm:"foreignKey:InsuranceID" json:"insurance,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

type PatientAllergy struct {
	ID            int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID     int        `gorm:"not null;index" json:"patient_id"`
	AllergyName   string     `gorm:"type:varchar(100);not null" json:"allergy_name"`
	Severity      string     `gorm:"type:varchar(20)" json:"severity,omitempty"`
	Reaction      string     `gorm:"type:text" json:"reaction,omitempty"`
	DiagnosedDate *time.Time `gorm:"type:date" json:"diagnosed_date,omitempty"`
	CreatedBy     int        `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PatientAllergy) TableName() string {
	return "patient_allergies"
}

type PatientMedication struct {
	ID             int        `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID      int        `gorm:"not null;index" json:"patient_id"`
	MedicationName string     `gorm:"type:varchar(100);not null" json:"medication_name"`
	Dosage         string     `gorm:"type:varchar(50)" json:"dosage,omitempty"`
	Frequency      string     `gorm:"type:varchar(50)" json:"frequency,omitempty"`
	StartDate      *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate        *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	PrescribedBy   int        `gorm:"not null" json:"prescribed_by"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (PatientMedication) TableName() string {
	return "patient_medications"
}
