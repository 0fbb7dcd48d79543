package handler

import (
	"errors"
	"net/http"
	"strconv"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
	"lab-appointment-web/pkg/validator"

	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetDashboard handles the patient dashboard
// @Summary Patient dashboard
// @Tags Patient
// @Produce json
// @Success 200 {object} response.Response
// @Router /dashboard [get]
func (h *AppointmentHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.appointmentUsecase.GetPatientDashboard(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// GetMyAppointments handles the patient's booking history
// @Summary Appointment history
// @Tags Patient
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	list, err := h.appointmentUsecase.GetMyAppointments(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", list)
}

// GetAdminDashboard handles the admin dashboard
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AppointmentHandler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.appointmentUsecase.GetAdminDashboard(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// GetAdminAppointments handles the filtered appointment queue
// @Summary All appointments
// @Tags Admin
// @Produce json
// @Param q query string false "Patient name or appointment ID"
// @Param status query string false "ALL or a status"
// @Param page query int false "Page"
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AppointmentHandler) GetAdminAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := dto.AppointmentListRequest{
		Query:  query.Get("q"),
		Status: query.Get("status"),
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid page", nil)
			return
		}
		req.Page = page
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	list, page, err := h.appointmentUsecase.GetAdminAppointments(r.Context(), middleware.GetSessionFromContext(r.Context()), &req)
	if err != nil {
		loadFailed(w, err, "appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", list, response.MetaFromPage(page))
}

// GetActions returns the allowed status changes of an appointment with
// their confirmation prompts.
func (h *AppointmentHandler) GetActions(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	actions, err := h.appointmentUsecase.GetActions(r.Context(), middleware.GetSessionFromContext(r.Context()), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAppointmentNotFound) {
			response.NotFound(w, "Appointment not found")
			return
		}
		loadFailed(w, err, "appointment")
		return
	}

	response.Success(w, http.StatusOK, "Actions retrieved successfully", actions)
}

// UpdateStatus handles an admin status change
// @Summary Update appointment status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /admin/appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := appointmentID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), middleware.GetSessionFromContext(r.Context()), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrInvalidTransition):
			response.Error(w, http.StatusConflict, "This status change is not allowed", nil)
		case errors.Is(err, usecase.ErrSessionExpired):
			response.Unauthorized(w, sessionExpiredMessage)
		default:
			response.Error(w, http.StatusBadGateway, usecase.ErrStatusUpdateFailed.Error(), nil)
		}
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", appointment)
}

func appointmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return 0, false
	}
	return id, true
}
