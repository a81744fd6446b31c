package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *entity.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) FindByID(db *gorm.DB, id int) (*entity.Notification, error) {
	var notification entity.Notification
	err := db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUserID(db *gorm.DB, userID int, filter *entity.NotificationFilter) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := db.Where("user_id = ?", userID)
	if filter != nil {
		if filter.UnreadOnly {
			query = query.Where("read_status = ?", false)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}
	err := query.Order("delivery_time DESC, id DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindUnsent returns undelivered notifications for the given users, oldest first.
func (r *notificationRepository) FindUnsent(db *gorm.DB, userIDs []int, limit int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	if len(userIDs) == 0 {
		return notifications, nil
	}
	err := db.
		Where("user_id IN ? AND sent_status = ?", userIDs, false).
		Order("delivery_time ASC, id ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkSent(db *gorm.DB, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&entity.Notification{}).Where("id IN ?", ids).Update("sent_status", true).Error
}

func (r *notificationRepository) MarkRead(db *gorm.DB, id int) error {
	return db.Model(&entity.Notification{}).Where("id = ?", id).Update("read_status", true).Error
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, userID int) (int64, error) {
	result := db.Model(&entity.Notification{}).
		Where("user_id = ? AND read_status = ?", userID, false).
		Update("read_status", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Notification{})
	return result.RowsAffected, result.Error
}
