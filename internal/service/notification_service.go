package service

import (
	"context"
	"time"

	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// pendingBatchSize caps how many undelivered rows one sweep pushes.
const pendingBatchSize = 500

// NotificationEvent is the frame pushed on the notification socket.
type NotificationEvent struct {
	Type string               `json:"type"`
	Data *entity.Notification `json:"data"`
}

// NotificationService persists notifications and pushes them to connected users.
type NotificationService struct {
	db       *gorm.DB
	log      *logrus.Logger
	repo     repository.NotificationRepository
	registry *ConnectionRegistry
	now      func() time.Time
}

func NewNotificationService(db *gorm.DB, log *logrus.Logger, repo repository.NotificationRepository, registry *ConnectionRegistry) *NotificationService {
	return &NotificationService{
		db:       db,
		log:      log,
		repo:     repo,
		registry: registry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores an unsent notification using the caller's handle, usually a transaction.
func (s *NotificationService) Create(tx *gorm.DB, userID int, notificationType, content string) (*entity.Notification, error) {
	notification := &entity.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Content:          content,
		DeliveryTime:     s.now(),
	}
	if err := s.repo.Create(tx, notification); err != nil {
		s.log.Warnf("Failed to create notification: %+v", err)
		return nil, err
	}
	return notification, nil
}

// Deliver pushes committed notifications to their owners. Rows that reach at
// least one live socket are marked sent; the rest wait for the next sweep.
func (s *NotificationService) Deliver(ctx context.Context, notifications ...*entity.Notification) int {
	var sent []int
	for _, n := range notifications {
		if n == nil {
			continue
		}
		delivered, err := s.registry.SendJSON(n.UserID, NotificationEvent{Type: "notification", Data: n})
		if err != nil {
			s.log.Warnf("Failed to encode notification %d: %+v", n.ID, err)
			continue
		}
		if delivered > 0 {
			n.SentStatus = true
			sent = append(sent, n.ID)
		}
	}

	if err := s.repo.MarkSent(s.db.WithContext(ctx), sent); err != nil {
		s.log.Warnf("Failed to mark notifications sent: %+v", err)
	}
	return len(sent)
}

// DeliverPending retries undelivered notifications of every connected user.
func (s *NotificationService) DeliverPending(ctx context.Context) (int, error) {
	users := s.registry.OnlineUsers()
	if len(users) == 0 {
		return 0, nil
	}

	pending, err := s.repo.FindUnsent(s.db.WithContext(ctx), users, pendingBatchSize)
	if err != nil {
		s.log.Warnf("Failed to load pending notifications: %+v", err)
		return 0, err
	}

	batch := make([]*entity.Notification, len(pending))
	for i := range pending {
		batch[i] = &pending[i]
	}
	return s.Deliver(ctx, batch...), nil
}
