package usecase

import (
	"context"
	"errors"

	"medcare-api/internal/converter"
	"medcare-api/internal/delivery/dto"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotificationUsecase interface {
	CreateNotification(ctx context.Context, actor entity.Actor, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetNotifications(ctx context.Context, actor entity.Actor, unreadOnly bool, limit int) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, actor entity.Actor, id int) error
	MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error)
	DeleteNotification(ctx context.Context, actor entity.Actor, id int) error
}

type notificationUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	notificationRepo    repository.NotificationRepository
	userRepo            repository.UserRepository
	policy              *service.AccessPolicy
	notificationService *service.NotificationService
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	policy *service.AccessPolicy,
	notificationService *service.NotificationService,
) NotificationUsecase {
	return &notificationUsecase{
		db:                  db,
		log:                 log,
		notificationRepo:    notificationRepo,
		userRepo:            userRepo,
		policy:              policy,
		notificationService: notificationService,
	}
}

// CreateNotification stores the row and tries an immediate push. sent_status
// only turns true when a live socket accepted the frame.
func (u *notificationUsecase) CreateNotification(ctx context.Context, actor entity.Actor, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if !u.policy.Can(actor.Role, service.ResourceNotification, service.ActionCreate) {
		return nil, ErrForbidden
	}

	db := u.db.WithContext(ctx)
	user, err := u.userRepo.FindByID(db, req.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %d: %+v", req.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	notificationType := req.NotificationType
	if notificationType == "" {
		notificationType = entity.NotificationTypeGeneral
	}

	notification, err := u.notificationService.Create(db, user.ID, notificationType, req.Content)
	if err != nil {
		return nil, err
	}
	u.notificationService.Deliver(ctx, notification)

	return converter.NotificationToResponse(notification), nil
}

func (u *notificationUsecase) GetNotifications(ctx context.Context, actor entity.Actor, unreadOnly bool, limit int) (*dto.NotificationListResponse, error) {
	notifications, err := u.notificationRepo.FindByUserID(u.db.WithContext(ctx), actor.UserID, &entity.NotificationFilter{
		UnreadOnly: unreadOnly,
		Limit:      clampNotificationLimit(limit),
	})
	if err != nil {
		u.log.Warnf("Failed to find notifications: %+v", err)
		return nil, err
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
	}, nil
}

func (u *notificationUsecase) MarkRead(ctx context.Context, actor entity.Actor, id int) error {
	db := u.db.WithContext(ctx)
	if _, err := u.findOwned(db, actor, id); err != nil {
		return err
	}

	if err := u.notificationRepo.MarkRead(db, id); err != nil {
		u.log.Warnf("Failed to mark notification read: %+v", err)
		return err
	}
	return nil
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, actor entity.Actor) (int64, error) {
	affected, err := u.notificationRepo.MarkAllRead(u.db.WithContext(ctx), actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications read: %+v", err)
		return 0, err
	}
	return affected, nil
}

func (u *notificationUsecase) DeleteNotification(ctx context.Context, actor entity.Actor, id int) error {
	db := u.db.WithContext(ctx)
	if _, err := u.findOwned(db, actor, id); err != nil {
		return err
	}

	if _, err := u.notificationRepo.Delete(db, id); err != nil {
		u.log.Warnf("Failed to delete notification: %+v", err)
		return err
	}
	return nil
}

func (u *notificationUsecase) findOwned(db *gorm.DB, actor entity.Actor, id int) (*entity.Notification, error) {
	notification, err := u.notificationRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find notification %d: %+v", id, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}
	if notification.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return notification, nil
}

func clampNotificationLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultNotificationLimit
	case limit > maxNotificationLimit:
		return maxNotificationLimit
	default:
		return limit
	}
}
