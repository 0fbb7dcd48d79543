package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/service"

	"github.com/sirupsen/logrus"
)

var ErrUnknownEventKey = errors.New("unknown event key")

// Event keys accepted from clients
const (
	EventAppointments      = "appointments"
	EventMyAppointments    = "appointments/mine"
	EventAdminAppointments = "appointments/admin"
	EventProfile           = "profile"
	EventTests             = "tests"
	EventUsers             = "users"
)

type EventUsecase interface {
	// Wait long-polls until the key group changes or the poll timeout ends.
	Wait(ctx context.Context, session *entity.Session, key string) (*dto.EventResponse, error)
}

type eventUsecase struct {
	log     *logrus.Logger
	cache   *service.QueryCache
	timeout time.Duration
}

func NewEventUsecase(log *logrus.Logger, cache *service.QueryCache, timeout time.Duration) EventUsecase {
	return &eventUsecase{
		log:     log,
		cache:   cache,
		timeout: timeout,
	}
}

func (u *eventUsecase) Wait(ctx context.Context, session *entity.Session, key string) (*dto.EventResponse, error) {
	cacheKey, err := resolveEventKey(session, key)
	if err != nil {
		return nil, err
	}

	changed, err := u.cache.Wait(ctx, cacheKey, u.timeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		u.log.Warnf("Failed to wait for %s: %+v", cacheKey, err)
		return nil, err
	}

	return &dto.EventResponse{Key: key, Changed: changed}, nil
}

// resolveEventKey maps a client key to the cache key group the session may
// observe. Admin-only groups are refused for patients.
func resolveEventKey(session *entity.Session, key string) (string, error) {
	switch session.Role {
	case entity.RoleGuest:
		return "", ErrForbidden
	case entity.RolePatient:
		return patientEventKey(session, key)
	case entity.RoleAdmin:
		return adminEventKey(session, key)
	default:
		panic(fmt.Sprintf("usecase: unknown role %d", int(session.Role)))
	}
}

func patientEventKey(session *entity.Session, key string) (string, error) {
	switch key {
	case EventAppointments, EventMyAppointments:
		return service.MineKey(session.ID), nil
	case EventProfile:
		return service.ProfileKey(session.ID), nil
	case EventTests:
		return service.KeyTests, nil
	case EventAdminAppointments, EventUsers:
		return "", ErrForbidden
	default:
		return "", ErrUnknownEventKey
	}
}

func adminEventKey(session *entity.Session, key string) (string, error) {
	switch key {
	case EventAppointments:
		return service.KeyAppointments, nil
	case EventMyAppointments:
		return service.MineKey(session.ID), nil
	case EventAdminAppointments:
		return service.KeyAdminAppointments, nil
	case EventProfile:
		return service.ProfileKey(session.ID), nil
	case EventTests:
		return service.KeyTests, nil
	case EventUsers:
		return service.KeyUsers, nil
	default:
		return "", ErrUnknownEventKey
	}
}
