package repository

import (
	"context"
	"time"

	"lab-appointment-web/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionRepository keeps sessions server-side. Find returns nil, nil for
// an unknown or expired session.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	Find(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingDraftRepository keeps one wizard draft per session.
type BookingDraftRepository interface {
	Save(ctx context.Context, sessionID uuid.UUID, draft *entity.BookingDraft, ttl time.Duration) error
	Find(ctx context.Context, sessionID uuid.UUID) (*entity.BookingDraft, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// ListStateRepository remembers the filter of a list view per session.
type ListStateRepository interface {
	Save(ctx context.Context, sessionID uuid.UUID, view string, state *entity.ListState, ttl time.Duration) error
	Find(ctx context.Context, sessionID uuid.UUID, view string) (*entity.ListState, error)
}
