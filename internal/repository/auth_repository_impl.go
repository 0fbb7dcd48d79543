package repository

import (
	"context"
	"errors"
	"net/http"

	domainRepo "lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
)

// ErrEmptyToken is returned when the API accepts credentials but sends no token
var ErrEmptyToken = errors.New("lab api returned no token")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type authRepository struct {
	client *labapi.Client
}

func NewAuthRepository(client *labapi.Client) domainRepo.AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Login(ctx context.Context, username, password string) (string, error) {
	return r.exchange(ctx, "/auth/login", username, password)
}

func (r *authRepository) Register(ctx context.Context, username, password string) (string, error) {
	return r.exchange(ctx, "/auth/register", username, password)
}

func (r *authRepository) exchange(ctx context.Context, path, username, password string) (string, error) {
	var resp tokenResponse
	if err := r.client.Do(ctx, http.MethodPost, path, "", credentials{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}
