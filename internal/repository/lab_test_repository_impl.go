package repository

import (
	"context"
	"net/http"

	"lab-appointment-web/internal/domain/entity"
	domainRepo "lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
)

type labTestRepository struct {
	client *labapi.Client
}

func NewLabTestRepository(client *labapi.Client) domainRepo.LabTestRepository {
	return &labTestRepository{client: client}
}

func (r *labTestRepository) FindAll(ctx context.Context, token string) ([]entity.LabTest, error) {
	var tests []entity.LabTest
	if err := r.client.Do(ctx, http.MethodGet, "/tests", token, nil, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}
