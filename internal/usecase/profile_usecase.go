package usecase

import (
	"context"
	"time"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/service"

	"github.com/sirupsen/logrus"
)

type ProfileUsecase interface {
	GetProfile(ctx context.Context, session *entity.Session) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, session *entity.Session, req *dto.ProfileUpdateRequest) (*dto.UserResponse, error)
}

type profileUsecase struct {
	log         *logrus.Logger
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cache       *service.QueryCache
	audit       service.AuditService
	profileTTL  time.Duration
	sessionTTL  time.Duration
}

func NewProfileUsecase(
	log *logrus.Logger,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	cache *service.QueryCache,
	audit service.AuditService,
	profileTTL time.Duration,
	sessionTTL time.Duration,
) ProfileUsecase {
	return &profileUsecase{
		log:         log,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		audit:       audit,
		profileTTL:  profileTTL,
		sessionTTL:  sessionTTL,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, session *entity.Session) (*dto.UserResponse, error) {
	user, err := loadProfile(ctx, u.cache, u.userRepo, session, u.profileTTL)
	if err != nil {
		u.log.Warnf("Failed to load profile: %+v", err)
		return nil, err
	}
	return converter.UserToResponse(user), nil
}

// UpdateProfile saves the changes, then refreshes the cached profile and the
// identity kept in the session so later prefills see the new values.
func (u *profileUsecase) UpdateProfile(ctx context.Context, session *entity.Session, req *dto.ProfileUpdateRequest) (*dto.UserResponse, error) {
	update := converter.ProfileUpdateFromRequest(req)
	user, err := u.userRepo.UpdateMe(ctx, session.APIToken, update)
	if err != nil {
		u.log.Warnf("Failed to update profile: %+v", err)
		return nil, upstream("update profile", err)
	}

	if err := u.cache.Invalidate(ctx, service.ProfileKey(session.ID)); err != nil {
		u.log.Warnf("Failed to invalidate profile: %+v", err)
	}

	user.Roles = mergeRoles(user.Roles, session.User)
	session.User = user
	if err := u.sessionRepo.Save(ctx, session, u.sessionTTL); err != nil {
		u.log.Warnf("Failed to save session after profile update: %+v", err)
	}

	if err := u.audit.Record(ctx, session, entity.AuditActionProfileUpdate, entity.JSON{"fields": changedFields(update)}); err != nil {
		u.log.Warnf("Failed to audit profile update: %+v", err)
	}

	return converter.UserToResponse(user), nil
}

// mergeRoles keeps the known role tags when the update response omits them.
func mergeRoles(roles entity.RoleTags, previous *entity.User) entity.RoleTags {
	if len(roles) == 0 && previous != nil {
		return previous.Roles
	}
	return roles
}

func changedFields(update *entity.ProfileUpdate) []string {
	var fields []string
	if update.FullName != nil {
		fields = append(fields, "fullName")
	}
	if update.Age != nil {
		fields = append(fields, "age")
	}
	if update.Gender != nil {
		fields = append(fields, "gender")
	}
	if update.Address != nil {
		fields = append(fields, "address")
	}
	if update.PhoneNumber != nil {
		fields = append(fields, "phoneNumber")
	}
	return fields
}
