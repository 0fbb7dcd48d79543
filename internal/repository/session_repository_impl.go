package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lab-appointment-web/internal/domain/entity"
	domainRepo "lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/cache"

	"github.com/google/uuid"
)

const (
	sessionKeyPrefix = "session:"
	draftKeyPrefix   = "booking_draft:"
)

type sessionRepository struct {
	store cache.Store
}

func NewSessionRepository(store cache.Store) domainRepo.SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	return saveJSON(ctx, r.store, sessionKeyPrefix+session.ID.String(), session, ttl)
}

func (r *sessionRepository) Find(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	var session entity.Session
	found, err := loadJSON(ctx, r.store, sessionKeyPrefix+id.String(), &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, sessionKeyPrefix+id.String())
}

type bookingDraftRepository struct {
	store cache.Store
}

func NewBookingDraftRepository(store cache.Store) domainRepo.BookingDraftRepository {
	return &bookingDraftRepository{store: store}
}

func (r *bookingDraftRepository) Save(ctx context.Context, sessionID uuid.UUID, draft *entity.BookingDraft, ttl time.Duration) error {
	return saveJSON(ctx, r.store, draftKeyPrefix+sessionID.String(), draft, ttl)
}

func (r *bookingDraftRepository) Find(ctx context.Context, sessionID uuid.UUID) (*entity.BookingDraft, error) {
	var draft entity.BookingDraft
	found, err := loadJSON(ctx, r.store, draftKeyPrefix+sessionID.String(), &draft)
	if err != nil || !found {
		return nil, err
	}
	return &draft, nil
}

func (r *bookingDraftRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return r.store.Delete(ctx, draftKeyPrefix+sessionID.String())
}

func saveJSON(ctx context.Context, store cache.Store, key string, v interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return store.Set(ctx, key, payload, ttl)
}

func loadJSON(ctx context.Context, store cache.Store, key string, out interface{}) (bool, error) {
	payload, err := store.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

const listStateKeyPrefix = "list_state:"

type listStateRepository struct {
	store cache.Store
}

func NewListStateRepository(store cache.Store) domainRepo.ListStateRepository {
	return &listStateRepository{store: store}
}

func listStateKey(sessionID uuid.UUID, view string) string {
	return listStateKeyPrefix + sessionID.String() + ":" + view
}

func (r *listStateRepository) Save(ctx context.Context, sessionID uuid.UUID, view string, state *entity.ListState, ttl time.Duration) error {
	return saveJSON(ctx, r.store, listStateKey(sessionID, view), state, ttl)
}

func (r *listStateRepository) Find(ctx context.Context, sessionID uuid.UUID, view string) (*entity.ListState, error) {
	var state entity.ListState
	found, err := loadJSON(ctx, r.store, listStateKey(sessionID, view), &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}
