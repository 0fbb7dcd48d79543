package converter

import (
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
)

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = dto.AuditLogResponse{
			ID:            log.ID,
			SessionID:     log.SessionID,
			ActorID:       log.ActorID,
			ActorUsername: log.ActorUsername,
			Action:        log.Action,
			Metadata:      log.Metadata,
			CreatedAt:     log.CreatedAt,
		}
	}
	return responses
}
