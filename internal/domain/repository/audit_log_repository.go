package repository

import (
	"lab-appointment-web/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindPage(db *gorm.DB, filter entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error)
}
