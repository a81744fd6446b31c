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
	ErrAuditLogNotFound   = errors.New("audit log not found")
	ErrInvalidAuditWindow = errors.New("start_date must not be after end_date")
)

const (
	defaultAuditLogLimit = 100
	maxAuditLogLimit     = 1000
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	filter, err := auditLogFilter(query)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	entries, err := u.auditLogRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}
	total, err := u.auditLogRepo.Count(db, filter)
	if err != nil {
		u.log.Warnf("Failed to count audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(entries),
		Limit: filter.Limit,
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	entry, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(entry), nil
}

// auditLogFilter turns the inclusive date bounds into [from, endDate+1day).
func auditLogFilter(query *dto.AuditLogQuery) (*entity.AuditLogFilter, error) {
	if query == nil {
		query = &dto.AuditLogQuery{}
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultAuditLogLimit
	} else if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}

	from, err := parseOptionalDate(query.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(query.EndDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, ErrInvalidAuditWindow
	}

	filter := &entity.AuditLogFilter{
		EventType:     query.EventType,
		UserID:        query.UserID,
		ReferenceType: query.ReferenceType,
		CreatedFrom:   from,
		Limit:         limit,
	}
	if to != nil {
		before := to.AddDate(0, 0, 1)
		filter.CreatedBefore = &before
	}
	return filter, nil
}
