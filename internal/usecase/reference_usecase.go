package usecase

import (
	"context"
	"errors"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRoleNameExists           = errors.New("role name already exists")
	ErrFixedRole                = errors.New("built-in roles cannot be renamed or deleted")
	ErrDepartmentNotFound       = errors.New("department not found")
	ErrDepartmentNameExists     = errors.New("department name already exists")
	ErrSpecializationNotFound   = errors.New("specialization not found")
	ErrSpecializationNameExists = errors.New("specialization name already exists")
)

// ReferenceUsecase manages roles, departments and specializations.
type ReferenceUsecase interface {
	CreateRole(ctx context.Context, req *dto.RoleRequest) (*dto.RoleResponse, error)
	GetRole(ctx context.Context, id int) (*dto.RoleResponse, error)
	GetAllRoles(ctx context.Context) ([]dto.RoleResponse, error)
	UpdateRole(ctx context.Context, id int, req *dto.RoleRequest) (*dto.RoleResponse, error)
	DeleteRole(ctx context.Context, id int) error

	CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	GetDepartment(ctx context.Context, id int) (*dto.DepartmentResponse, error)
	GetAllDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, id int, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id int) error

	CreateSpecialization(ctx context.Context, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error)
	GetSpecialization(ctx context.Context, id int) (*dto.SpecializationResponse, error)
	GetAllSpecializations(ctx context.Context) ([]dto.SpecializationResponse, error)
	UpdateSpecialization(ctx context.Context, id int, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error)
	DeleteSpecialization(ctx context.Context, id int) error
}

type referenceUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	roleRepo           repository.RoleRepository
	departmentRepo     repository.DepartmentRepository
	specializationRepo repository.SpecializationRepository
}

func NewReferenceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	roleRepo repository.RoleRepository,
	departmentRepo repository.DepartmentRepository,
	specializationRepo repository.SpecializationRepository,
) ReferenceUsecase {
	return &referenceUsecase{
		db:                 db,
		log:                log,
		roleRepo:           roleRepo,
		departmentRepo:     departmentRepo,
		specializationRepo: specializationRepo,
	}
}

// Roles

func (u *referenceUsecase) CreateRole(ctx context.Context, req *dto.RoleRequest) (*dto.RoleResponse, error) {
	role := &entity.Role{RoleName: req.RoleName, Description: req.Description}
	if err := u.roleRepo.Create(u.db.WithContext(ctx), role); err != nil {
		if isDuplicateKeyError(err, "role_name") {
			return nil, ErrRoleNameExists
		}
		u.log.Warnf("Failed to create role: %+v", err)
		return nil, err
	}
	return converter.RoleToResponse(role), nil
}

func (u *referenceUsecase) GetRole(ctx context.Context, id int) (*dto.RoleResponse, error) {
	role, err := u.roleRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	return converter.RoleToResponse(role), nil
}

func (u *referenceUsecase) GetAllRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := u.roleRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all roles: %+v", err)
		return nil, err
	}
	return converter.RolesToResponses(roles), nil
}

func (u *referenceUsecase) UpdateRole(ctx context.Context, id int, req *dto.RoleRequest) (*dto.RoleResponse, error) {
	db := u.db.WithContext(ctx)
	role, err := u.roleRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	// the access policy keys on the seeded names
	if entity.RoleFromID(role.ID) != "" && req.RoleName != role.RoleName {
		return nil, ErrFixedRole
	}

	role.RoleName = req.RoleName
	role.Description = req.Description
	if err := u.roleRepo.Update(db, role); err != nil {
		if isDuplicateKeyError(err, "role_name") {
			return nil, ErrRoleNameExists
		}
		u.log.Warnf("Failed to update role: %+v", err)
		return nil, err
	}
	return converter.RoleToResponse(role), nil
}

func (u *referenceUsecase) DeleteRole(ctx context.Context, id int) error {
	if entity.RoleFromID(id) != "" {
		return ErrFixedRole
	}
	rows, err := u.roleRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete role: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// Departments

func (u *referenceUsecase) CreateDepartment(ctx context.Context, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	department := &entity.Department{DepartmentName: req.DepartmentName, Description: req.Description}
	if err := u.departmentRepo.Create(u.db.WithContext(ctx), department); err != nil {
		if isDuplicateKeyError(err, "department_name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *referenceUsecase) GetDepartment(ctx context.Context, id int) (*dto.DepartmentResponse, error) {
	department, err := u.departmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *referenceUsecase) GetAllDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	departments, err := u.departmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all departments: %+v", err)
		return nil, err
	}
	return converter.DepartmentsToResponses(departments), nil
}

func (u *referenceUsecase) UpdateDepartment(ctx context.Context, id int, req *dto.DepartmentRequest) (*dto.DepartmentResponse, error) {
	db := u.db.WithContext(ctx)
	department, err := u.departmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find department: %+v", err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	department.DepartmentName = req.DepartmentName
	department.Description = req.Description
	if err := u.departmentRepo.Update(db, department); err != nil {
		if isDuplicateKeyError(err, "department_name") {
			return nil, ErrDepartmentNameExists
		}
		u.log.Warnf("Failed to update department: %+v", err)
		return nil, err
	}
	return converter.DepartmentToResponse(department), nil
}

func (u *referenceUsecase) DeleteDepartment(ctx context.Context, id int) error {
	rows, err := u.departmentRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete department: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

// Specializations

func (u *referenceUsecase) CreateSpecialization(ctx context.Context, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error) {
	spec := &entity.Specialization{SpecName: req.SpecName, Description: req.Description}
	if err := u.specializationRepo.Create(u.db.WithContext(ctx), spec); err != nil {
		if isDuplicateKeyError(err, "spec_name") {
			return nil, ErrSpecializationNameExists
		}
		u.log.Warnf("Failed to create specialization: %+v", err)
		return nil, err
	}
	return converter.SpecializationToResponse(spec), nil
}

func (u *referenceUsecase) GetSpecialization(ctx context.Context, id int) (*dto.SpecializationResponse, error) {
	spec, err := u.specializationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return nil, err
	}
	if spec == nil {
		return nil, ErrSpecializationNotFound
	}
	return converter.SpecializationToResponse(spec), nil
}

func (u *referenceUsecase) GetAllSpecializations(ctx context.Context) ([]dto.SpecializationResponse, error) {
	specs, err := u.specializationRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all specializations: %+v", err)
		return nil, err
	}
	return converter.SpecializationsToResponses(specs), nil
}

func (u *referenceUsecase) UpdateSpecialization(ctx context.Context, id int, req *dto.SpecializationRequest) (*dto.SpecializationResponse, error) {
	db := u.db.WithContext(ctx)
	spec, err := u.specializationRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find specialization: %+v", err)
		return nil, err
	}
	if spec == nil {
		return nil, ErrSpecializationNotFound
	}

	spec.SpecName = req.SpecName
	spec.Description = req.Description
	if err := u.specializationRepo.Update(db, spec); err != nil {
		if isDuplicateKeyError(err, "spec_name") {
			return nil, ErrSpecializationNameExists
		}
		u.log.Warnf("Failed to update specialization: %+v", err)
		return nil, err
	}
	return converter.SpecializationToResponse(spec), nil
}

func (u *referenceUsecase) DeleteSpecialization(ctx context.Context, id int) error {
	rows, err := u.specializationRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete specialization: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrSpecializationNotFound
	}
	return nil
}
