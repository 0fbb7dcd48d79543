package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserNotFound = errors.New("User not found")
)

type AdminUserUsecase interface {
	ListUsers(ctx context.Context, session *entity.Session) (*dto.UserListResponse, error)
	FindUser(ctx context.Context, session *entity.Session, username string) (*dto.UserResponse, error)
}

type adminUserUsecase struct {
	log           *logrus.Logger
	userRepo      repository.UserRepository
	cache         *service.QueryCache
	collectionTTL time.Duration
}

func NewAdminUserUsecase(log *logrus.Logger, userRepo repository.UserRepository, cache *service.QueryCache, collectionTTL time.Duration) AdminUserUsecase {
	return &adminUserUsecase{
		log:           log,
		userRepo:      userRepo,
		cache:         cache,
		collectionTTL: collectionTTL,
	}
}

func (u *adminUserUsecase) ListUsers(ctx context.Context, session *entity.Session) (*dto.UserListResponse, error) {
	var users []entity.User
	err := u.cache.Fetch(ctx, service.KeyUsers, u.collectionTTL, func(ctx context.Context) (interface{}, error) {
		return u.userRepo.FindAll(ctx, session.APIToken)
	}, &users)
	if err != nil {
		u.log.Warnf("Failed to load users: %+v", err)
		return nil, upstream("load users", err)
	}

	return &dto.UserListResponse{
		Users:        converter.UsersToResponses(users),
		Total:        len(users),
		PatientCount: countPatients(users),
	}, nil
}

func (u *adminUserUsecase) FindUser(ctx context.Context, session *entity.Session, username string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}

	user, err := u.userRepo.FindByUsername(ctx, session.APIToken, username)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", username, err)
		return nil, upstream("find user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}
