package entity

import "time"

// Doctor is the doctor-specific profile of a user
type Doctor struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int       `gorm:"uniqueIndex;not null" json:"user_id"`
	SpecID       int       `gorm:"not null;index" json:"spec_id"`
	DepartmentID int       `gorm:"not null;index" json:"department_id"`
	YearsOfExp   int       `gorm:"not null;default:0" json:"years_of_exp"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User           *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Specialization *Specialization `gorm:"foreignKey:SpecID" json:"specialization,omitempty"`
	Department     *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Calendar       *DoctorCalendar `gorm:"foreignKey:DoctorID" json:"calendar,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// DoctorCalendar holds a doctor's slots and the global "accepting bookings" toggle
type DoctorCalendar struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID     int       `gorm:"uniqueIndex;not null" json:"doctor_id"`
	Availability bool      `gorm:"not null" json:"availability"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (DoctorCalendar) TableName() string {
	return "doctor_calendars"
}
