package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
	"lab-appointment-web/internal/service"
)

var (
	ErrSessionExpired = errors.New("session expired")
	ErrForbidden      = errors.New("not allowed for this role")
)

// tokenOf returns the API token of the session, empty for guests.
func tokenOf(session *entity.Session) string {
	if session == nil {
		return ""
	}
	return session.APIToken
}

// upstream maps an expired API token to ErrSessionExpired and wraps the rest.
func upstream(op string, err error) error {
	if labapi.IsStatus(err, http.StatusUnauthorized) {
		return ErrSessionExpired
	}
	return fmt.Errorf("%s: %w", op, err)
}

// loadProfile reads the session's account through the profile cache.
func loadProfile(ctx context.Context, cache *service.QueryCache, userRepo repository.UserRepository, session *entity.Session, ttl time.Duration) (*entity.User, error) {
	var user entity.User
	err := cache.Fetch(ctx, service.ProfileKey(session.ID), ttl, func(ctx context.Context) (interface{}, error) {
		return userRepo.Me(ctx, session.APIToken)
	}, &user)
	if err != nil {
		return nil, upstream("load profile", err)
	}
	return &user, nil
}

// loadTests reads the test list through the collection cache.
func loadTests(ctx context.Context, cache *service.QueryCache, testRepo repository.LabTestRepository, session *entity.Session, ttl time.Duration) ([]entity.LabTest, error) {
	var tests []entity.LabTest
	err := cache.Fetch(ctx, service.KeyTests, ttl, func(ctx context.Context) (interface{}, error) {
		return testRepo.FindAll(ctx, tokenOf(session))
	}, &tests)
	if err != nil {
		return nil, upstream("load tests", err)
	}
	return tests, nil
}
