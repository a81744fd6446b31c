package service

import (
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes audit rows inside the caller's transaction so the
// trail commits or rolls back together with the change it describes.
type AuditService interface {
	Log(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, details entity.JSON) error
	LogCreate(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, newValue interface{}) error
	LogUpdate(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, oldValue, newValue interface{}) error
	LogDelete(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Log(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, details entity.JSON) error {
	auditLog := &entity.AuditLog{
		EventType:     event,
		ReferenceType: referenceType,
		Details:       details,
	}
	if actorID != 0 {
		auditLog.UserID = &actorID
	}
	if referenceID != 0 {
		auditLog.ReferenceID = &referenceID
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}

func (s *auditService) LogCreate(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, newValue interface{}) error {
	return s.Log(tx, actorID, event, referenceType, referenceID, entity.JSON{
		"old_value": nil,
		"new_value": newValue,
	})
}

func (s *auditService) LogUpdate(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, oldValue, newValue interface{}) error {
	return s.Log(tx, actorID, event, referenceType, referenceID, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

func (s *auditService) LogDelete(tx *gorm.DB, actorID int, event, referenceType string, referenceID int, oldValue interface{}) error {
	return s.Log(tx, actorID, event, referenceType, referenceID, entity.JSON{
		"old_value": oldValue,
		"new_value": nil,
	})
}
