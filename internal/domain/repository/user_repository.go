package repository

import (
	"context"

	"lab-appointment-web/internal/domain/entity"
)

// UserRepository reads and updates accounts. Lookups return nil, nil when
// the account does not exist.
type UserRepository interface {
	Me(ctx context.Context, token string) (*entity.User, error)
	UpdateMe(ctx context.Context, token string, update *entity.ProfileUpdate) (*entity.User, error)
	FindAll(ctx context.Context, token string) ([]entity.User, error)
	FindByUsername(ctx context.Context, token, username string) (*entity.User, error)
}
