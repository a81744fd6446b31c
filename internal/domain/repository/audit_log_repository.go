package repository

import (
	"medcare-api/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository is append-only: rows are written inside the
// transaction of the change they describe and never updated.
type AuditLogRepository interface {
	Create(db *gorm.DB, entry *entity.AuditLog) error
	FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, error)
	// Count ignores filter.Limit.
	Count(db *gorm.DB, filter *entity.AuditLogFilter) (int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
