package entity

import "time"

type Department struct {
	ID             int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DepartmentName string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"department_name"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Specialization struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	SpecName    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"spec_name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Specialization) TableName() string {
	return "specializations"
}
