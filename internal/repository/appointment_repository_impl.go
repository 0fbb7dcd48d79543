package repository

import (
	"context"
	"fmt"
	"net/http"

	"lab-appointment-web/internal/domain/entity"
	domainRepo "lab-appointment-web/internal/domain/repository"
	"lab-appointment-web/internal/infrastructure/labapi"
)

type statusUpdate struct {
	Status    entity.AppointmentStatus `json:"status"`
	ReportURL *string                  `json:"reportUrl"`
}

type appointmentRepository struct {
	client *labapi.Client
}

func NewAppointmentRepository(client *labapi.Client) domainRepo.AppointmentRepository {
	return &appointmentRepository{client: client}
}

func (r *appointmentRepository) Book(ctx context.Context, token string, req *entity.BookAppointmentRequest) (*entity.Appointment, error) {
	var appointment entity.Appointment
	if err := r.client.Do(ctx, http.MethodPost, "/appointments/book", token, req, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindMine(ctx context.Context, token string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	if err := r.client.Do(ctx, http.MethodGet, "/appointments/my-history", token, nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindAll(ctx context.Context, token string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	if err := r.client.Do(ctx, http.MethodGet, "/admin/appointments", token, nil, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, token string, id int64, status entity.AppointmentStatus, reportURL *string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	path := fmt.Sprintf("/admin/appointments/%d/status", id)
	if err := r.client.Do(ctx, http.MethodPut, path, token, statusUpdate{Status: status, ReportURL: reportURL}, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}
