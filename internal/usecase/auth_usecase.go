package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
	"lab-appointment-web/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*entity.Session, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*entity.Session, error)
	Logout(ctx context.Context, session *entity.Session) error
	// Resolve loads a stored session; an unknown ID yields ErrSessionExpired.
	Resolve(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	// RefreshIdentity refetches the account. Any failure destroys the
	// session and yields ErrSessionExpired.
	RefreshIdentity(ctx context.Context, session *entity.Session) (*entity.Session, error)
}

type authUsecase struct {
	log         *logrus.Logger
	authRepo    repository.AuthRepository
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	draftRepo   repository.BookingDraftRepository
	cache       *service.QueryCache
	audit       service.AuditService
	sessionTTL  time.Duration
}

func NewAuthUsecase(
	log *logrus.Logger,
	authRepo repository.AuthRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	draftRepo repository.BookingDraftRepository,
	cache *service.QueryCache,
	audit service.AuditService,
	sessionTTL time.Duration,
) AuthUsecase {
	return &authUsecase{
		log:         log,
		authRepo:    authRepo,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		draftRepo:   draftRepo,
		cache:       cache,
		audit:       audit,
		sessionTTL:  sessionTTL,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*entity.Session, error) {
	token, err := u.authRepo.Login(ctx, req.Username, req.Password)
	if err != nil {
		if isClientError(err) {
			return nil, ErrInvalidCredentials
		}
		u.log.Warnf("Failed to login %s: %+v", req.Username, err)
		return nil, fmt.Errorf("login: %w", err)
	}

	return u.establish(ctx, token, entity.AuditActionLogin)
}

func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*entity.Session, error) {
	token, err := u.authRepo.Register(ctx, req.Username, req.Password)
	if err != nil {
		if isClientError(err) {
			return nil, ErrUsernameTaken
		}
		u.log.Warnf("Failed to register %s: %+v", req.Username, err)
		return nil, fmt.Errorf("register: %w", err)
	}

	return u.establish(ctx, token, entity.AuditActionRegister)
}

// establish fetches the identity behind a fresh token and stores the session.
func (u *authUsecase) establish(ctx context.Context, token, action string) (*entity.Session, error) {
	user, err := u.userRepo.Me(ctx, token)
	if err != nil {
		u.log.Warnf("Failed to fetch identity after %s: %+v", action, err)
		return nil, fmt.Errorf("fetch identity: %w", err)
	}

	session := entity.NewSession(token, user)
	if err := u.sessionRepo.Save(ctx, session, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save session: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(ctx, session, action, entity.JSON{"role": session.Role.String()}); err != nil {
		u.log.Warnf("Failed to audit %s: %+v", action, err)
	}

	u.log.WithFields(logrus.Fields{
		"session": session.ID.String(),
		"role":    session.Role.String(),
	}).Info("Session established")

	return session, nil
}

func (u *authUsecase) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil || session.IsGuest() {
		return nil
	}

	if err := u.audit.Record(ctx, session, entity.AuditActionLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout: %+v", err)
	}

	return u.destroy(ctx, session)
}

func (u *authUsecase) destroy(ctx context.Context, session *entity.Session) error {
	if err := u.sessionRepo.Delete(ctx, session.ID); err != nil {
		u.log.Warnf("Failed to delete session %s: %+v", session.ID, err)
		return err
	}
	if err := u.draftRepo.Delete(ctx, session.ID); err != nil {
		u.log.Warnf("Failed to delete booking draft of %s: %+v", session.ID, err)
	}
	for _, key := range []string{service.ProfileKey(session.ID), service.MineKey(session.ID)} {
		if err := u.cache.Invalidate(ctx, key); err != nil {
			u.log.Warnf("Failed to invalidate %s: %+v", key, err)
		}
	}
	return nil
}

func (u *authUsecase) Resolve(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	session, err := u.sessionRepo.Find(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to load session %s: %+v", id, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (u *authUsecase) RefreshIdentity(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	if session == nil || session.IsGuest() {
		return entity.GuestSession(), nil
	}

	user, err := u.userRepo.Me(ctx, session.APIToken)
	if err != nil {
		u.log.Warnf("Failed to refetch identity of session %s, logging out: %+v", session.ID, err)
		if derr := u.destroy(ctx, session); derr != nil {
			return nil, derr
		}
		return nil, ErrSessionExpired
	}

	session.User = user
	session.Role = entity.RoleFromUser(user)
	if err := u.sessionRepo.Save(ctx, session, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save session: %+v", err)
		return nil, err
	}
	if err := u.cache.Invalidate(ctx, service.ProfileKey(session.ID)); err != nil {
		u.log.Warnf("Failed to invalidate profile: %+v", err)
	}
	return session, nil
}

// isClientError reports a 4xx answer from the API, which for the auth
// endpoints means the credentials or username were rejected.
func isClientError(err error) bool {
	status := labapi.StatusCode(err)
	return status >= http.StatusBadRequest && status < http.StatusInternalServerError
}
