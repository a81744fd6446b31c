package usecase

import (
	"context"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserUsecase interface {
	CreateUser(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id int) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) (*dto.UserListResponse, error)
	UpdateUser(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, actor entity.Actor, id int) error
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	tokenStore   service.TokenStore
	auditService service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenStore service.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *userUsecase) CreateUser(ctx context.Context, actor entity.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureRole(tx, req.RoleID); err != nil {
		return nil, err
	}

	user, err := createUserAccount(tx, u.log, u.userRepo, &entity.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
	}, req.Password)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, actor.UserID, entity.AuditEventUserCreate, "user", user.ID, converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetUser(ctx context.Context, id int) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) GetAllUsers(ctx context.Context) (*dto.UserListResponse, error) {
	users, err := u.userRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all users: %+v", err)
		return nil, err
	}
	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: len(users),
	}, nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, actor entity.Actor, id int, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	oldValue := converter.UserToResponse(user)

	if req.Email != nil && *req.Email != user.Email {
		existing, err := u.userRepo.FindByEmail(tx, *req.Email)
		if err != nil {
			u.log.Warnf("Failed to find user by email: %+v", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.RoleID != nil && *req.RoleID != user.RoleID {
		if err := u.ensureRole(tx, *req.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = *req.RoleID
		user.Role = nil
	}
	passwordChanged := false
	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
		passwordChanged = true
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(tx, actor.UserID, entity.AuditEventUserUpdate, "user", user.ID, oldValue, converter.UserToResponse(user)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if passwordChanged || oldValue.RoleID != user.RoleID {
		if err := u.tokenStore.RevokeAll(ctx, user.ID); err != nil {
			u.log.Warnf("Failed to revoke tokens of user %d: %+v", user.ID, err)
		}
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actor entity.Actor, id int) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if _, err := u.userRepo.Delete(tx, id); err != nil {
		if isForeignKeyError(err, "") {
			return ErrResourceInUse
		}
		u.log.Warnf("Failed to delete user: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actor.UserID, entity.AuditEventUserDelete, "user", id, converter.UserToResponse(user)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %d: %+v", id, err)
	}
	return nil
}

func (u *userUsecase) ensureRole(tx *gorm.DB, roleID int) error {
	role, err := u.roleRepo.FindByID(tx, roleID)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return err
	}
	if role == nil {
		return ErrRoleNotFound
	}
	return nil
}
