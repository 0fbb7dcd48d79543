package repository

import "context"

// AuthRepository exchanges credentials for an API bearer token
type AuthRepository interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) (string, error)
}
