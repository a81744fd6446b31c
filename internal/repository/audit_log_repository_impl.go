package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

// Create never cascades into the user association; the row only points at it.
func (r *auditLogRepository) Create(db *gorm.DB, entry *entity.AuditLog) error {
	return db.Omit("User").Create(entry).Error
}

func (r *auditLogRepository) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var entries []entity.AuditLog
	query := applyAuditLogFilter(db.Preload("User.Role"), filter)
	if filter != nil && filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditLogRepository) Count(db *gorm.DB, filter *entity.AuditLogFilter) (int64, error) {
	var total int64
	err := applyAuditLogFilter(db.Model(&entity.AuditLog{}), filter).Count(&total).Error
	return total, err
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	var entry entity.AuditLog
	err := db.Preload("User.Role").Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func applyAuditLogFilter(query *gorm.DB, filter *entity.AuditLogFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ReferenceType != "" {
		query = query.Where("reference_type = ?", filter.ReferenceType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}
