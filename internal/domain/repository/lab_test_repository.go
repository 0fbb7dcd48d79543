package repository

import (
	"context"

	"lab-appointment-web/internal/domain/entity"
)

type LabTestRepository interface {
	FindAll(ctx context.Context, token string) ([]entity.LabTest, error)
}
