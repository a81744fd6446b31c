package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(db *gorm.DB, role *entity.Role) error
	FindByID(db *gorm.DB, id int) (*entity.Role, error)
	FindAll(db *gorm.DB) ([]entity.Role, error)
	Update(db *gorm.DB, role *entity.Role) error
	Delete(db *gorm.DB, id int) (int64, error)
}

type DepartmentRepository interface {
	Create(db *gorm.DB, department *entity.Department) error
	FindByID(db *gorm.DB, id int) (*entity.Department, error)
	FindAll(db *gorm.DB) ([]entity.Department, error)
	Update(db *gorm.DB, department *entity.Department) error
	Delete(db *gorm.DB, id int) (int64, error)
}

type SpecializationRepository interface {
	Create(db *gorm.DB, specialization *entity.Specialization) error
	FindByID(db *gorm.DB, id int) (*entity.Specialization, error)
	FindAll(db *gorm.DB) ([]entity.Specialization, error)
	Update(db *gorm.DB, specialization *entity.Specialization) error
	Delete(db *gorm.DB, id int) (int64, error)
}
