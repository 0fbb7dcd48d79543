package usecase

import (
	"context"
	"errors"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditDisabled = errors.New("audit trail is not configured")
)

const (
	defaultAuditPageSize = 20
	maxAuditPageSize     = 100
)

type AuditLogUsecase interface {
	ListAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, *entity.Page, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

// NewAuditLogUsecase accepts a nil db; listing then fails with ErrAuditDisabled.
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

func (u *auditLogUsecase) ListAuditLogs(ctx context.Context, req *dto.AuditLogListRequest) (*dto.AuditLogListResponse, *entity.Page, error) {
	if u.db == nil {
		return nil, nil, ErrAuditDisabled
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	filter := entity.AuditLogFilter{Action: req.Action, ActorUsername: req.Actor}
	logs, total, err := u.auditLogRepo.FindPage(u.db.WithContext(ctx), filter, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &dto.AuditLogListResponse{
			Logs:  converter.AuditLogsToResponses(logs),
			Total: total,
		}, &entity.Page{
			Number:     page,
			Size:       limit,
			Total:      int(total),
			TotalPages: totalPages,
		}, nil
}
