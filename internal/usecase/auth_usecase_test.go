package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/infrastructure/labapi"
	"lab-appointment-web/internal/repository"

	"github.com/google/uuid"
)

func (h *harness) authUsecase(authRepo *fakeAuthRepo) AuthUsecase {
	return NewAuthUsecase(h.log, authRepo, h.users, repository.NewSessionRepository(h.store),
		repository.NewBookingDraftRepository(h.store), h.cache, h.audit, time.Hour)
}

func TestAuthUsecase_LoginErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "rejected credentials", err: &labapi.APIError{StatusCode: http.StatusUnauthorized}, wantErr: ErrInvalidCredentials},
		{name: "bad request", err: &labapi.APIError{StatusCode: http.StatusBadRequest}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			uc := h.authUsecase(&fakeAuthRepo{err: tt.err})
			_, err := uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "secret"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("server error is not a credential error", func(t *testing.T) {
		h := newHarness(t)
		uc := h.authUsecase(&fakeAuthRepo{err: &labapi.APIError{StatusCode: http.StatusBadGateway}})
		_, err := uc.Login(context.Background(), &dto.LoginRequest{Username: "asha", Password: "secret"})
		if err == nil || errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected wrapped upstream error, got %v", err)
		}
	})
}

func TestAuthUsecase_RegisterTaken(t *testing.T) {
	h := newHarness(t)
	uc := h.authUsecase(&fakeAuthRepo{err: &labapi.APIError{StatusCode: http.StatusBadRequest, Message: "exists"}})
	if _, err := uc.Register(context.Background(), &dto.RegisterRequest{Username: "asha", Password: "secret"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected username taken, got %v", err)
	}
}

func TestAuthUsecase_SessionLifecycle(t *testing.T) {
	h := newHarness(t)
	uc := h.authUsecase(&fakeAuthRepo{token: "tok"})
	ctx := context.Background()

	session, err := uc.Login(ctx, &dto.LoginRequest{Username: "asha", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Role != entity.RolePatient || session.APIToken != "tok" {
		t.Errorf("unexpected session %+v", session)
	}

	resolved, err := uc.Resolve(ctx, session.ID)
	if err != nil || resolved.User.Username != "asha" {
		t.Fatalf("resolve: %+v, %v", resolved, err)
	}

	if err := uc.Logout(ctx, resolved); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := uc.Resolve(ctx, session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected expired after logout, got %v", err)
	}
	if _, err := uc.Resolve(ctx, uuid.New()); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected expired for unknown id, got %v", err)
	}
}

func TestAuthUsecase_RefreshIdentityFailureLogsOut(t *testing.T) {
	h := newHarness(t)
	uc := h.authUsecase(&fakeAuthRepo{token: "tok"})
	ctx := context.Background()

	session, err := uc.Login(ctx, &dto.LoginRequest{Username: "asha", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	h.users.meErr = &labapi.APIError{StatusCode: http.StatusUnauthorized}
	if _, err := uc.RefreshIdentity(ctx, session); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected session expired, got %v", err)
	}
	if _, err := uc.Resolve(ctx, session.ID); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected session destroyed, got %v", err)
	}
}

func TestAuthUsecase_RefreshIdentityForGuest(t *testing.T) {
	h := newHarness(t)
	uc := h.authUsecase(&fakeAuthRepo{})
	session, err := uc.RefreshIdentity(context.Background(), nil)
	if err != nil || !session.IsGuest() {
		t.Errorf("expected guest, got %+v, %v", session, err)
	}
}
