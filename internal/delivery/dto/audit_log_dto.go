package dto

import (
	"time"

	"lab-appointment-web/internal/domain/entity"

	"github.com/google/uuid"
)

// Request DTOs

type AuditLogListRequest struct {
	Action string `json:"action" validate:"max=100"`
	Actor  string `json:"actor" validate:"max=100"`
	Page   int    `json:"page" validate:"gte=0"`
	Limit  int    `json:"limit" validate:"gte=0,lte=100"`
}

// Response DTOs

type AuditLogResponse struct {
	ID            int64       `json:"id"`
	SessionID     *uuid.UUID  `json:"session_id,omitempty"`
	ActorID       int64       `json:"actor_id"`
	ActorUsername string      `json:"actor_username"`
	Action        string      `json:"action"`
	Metadata      entity.JSON `json:"metadata"`
	CreatedAt     time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
