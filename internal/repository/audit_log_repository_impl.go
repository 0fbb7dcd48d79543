package repository

import (
	"lab-appointment-web/internal/domain/entity"
	domainRepo "lab-appointment-web/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

func (r *auditLogRepository) FindPage(db *gorm.DB, filter entity.AuditLogFilter, limit, offset int) ([]entity.AuditLog, int64, error) {
	query := db.Model(&entity.AuditLog{})
	if filter.Action != "" {
		query = query.Where("action LIKE ?", escapeLike(filter.Action)+"%")
	}
	if filter.ActorUsername != "" {
		query = query.Where("actor_username = ?", filter.ActorUsername)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []entity.AuditLog
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
