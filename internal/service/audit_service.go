package service

import (
	"context"

	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditService interface {
	// Record stores one action taken by the session's account. It is a
	// no-op when no audit database is configured.
	Record(ctx context.Context, session *entity.Session, action string, metadata entity.JSON) error
	Enabled() bool
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

// NewAuditService accepts a nil db, which disables the trail.
func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Enabled() bool {
	return s.db != nil
}

func (s *auditService) Record(ctx context.Context, session *entity.Session, action string, metadata entity.JSON) error {
	if s.db == nil {
		return nil
	}

	auditLog := &entity.AuditLog{
		Action:   action,
		Metadata: metadata,
	}
	if session != nil && !session.IsGuest() {
		id := session.ID
		auditLog.SessionID = &id
		if session.User != nil {
			auditLog.ActorID = session.User.ID
			auditLog.ActorUsername = session.User.Username
		}
	}

	if err := s.auditRepo.Create(s.db.WithContext(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
