package repository

import (
	"context"

	"lab-appointment-web/internal/domain/entity"
)

type AppointmentRepository interface {
	Book(ctx context.Context, token string, req *entity.BookAppointmentRequest) (*entity.Appointment, error)
	FindMine(ctx context.Context, token string) ([]entity.Appointment, error)
	FindAll(ctx context.Context, token string) ([]entity.Appointment, error)
	UpdateStatus(ctx context.Context, token string, id int64, status entity.AppointmentStatus, reportURL *string) (*entity.Appointment, error)
}
