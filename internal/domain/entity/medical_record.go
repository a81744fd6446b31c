package entity

import "time"

type MedicalRecord struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID     int       `gorm:"not null;index" json:"patient_id"`
	DoctorID      int       `gorm:"not null;index" json:"doctor_id"`
	AppointmentID *int      `gorm:"index" json:"appointment_id,omitempty"`
	Diagnosis     string    `gorm:"type:text;not null" json:"diagnosis"`
	Prescriptions string    `gorm:"type:text" json:"prescriptions,omitempty"`
	LabResults    string    `gorm:"type:text" json:"lab_results,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
