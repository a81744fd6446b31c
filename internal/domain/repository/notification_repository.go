package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(db *gorm.DB, notification *entity.Notification) error
	FindByID(db *gorm.DB, id int) (*entity.Notification, error)
	FindByUserID(db *gorm.DB, userID int, filter *entity.NotificationFilter) ([]entity.Notification, error)
	FindUnsent(db *gorm.DB, userIDs []int, limit int) ([]entity.Notification, error)
	MarkSent(db *gorm.DB, ids []int) error
	MarkRead(db *gorm.DB, id int) error
	MarkAllRead(db *gorm.DB, userID int) (int64, error)
	Delete(db *gorm.DB, id int) (int64, error)
}
