package repository

import (
	"context"
	"net/http"
	"net/url"

	"lab-appointment-web/internal/domain/entity"
	domainRepo "lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
)

type userRepository struct {
	client *labapi.Client
}

func NewUserRepository(client *labapi.Client) domainRepo.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) Me(ctx context.Context, token string) (*entity.User, error) {
	var user entity.User
	if err := r.client.Do(ctx, http.MethodGet, "/user/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateMe(ctx context.Context, token string, update *entity.ProfileUpdate) (*entity.User, error) {
	var user entity.User
	if err := r.client.Do(ctx, http.MethodPut, "/user/me", token, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, token string) ([]entity.User, error) {
	var users []entity.User
	if err := r.client.Do(ctx, http.MethodGet, "/admin/users", token, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, token, username string) (*entity.User, error) {
	var user entity.User
	err := r.client.Do(ctx, http.MethodGet, "/admin/users/by-username/"+url.PathEscape(username), token, nil, &user)
	if err != nil {
		if labapi.IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
