package handler

import (
	"errors"
	"net/http"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
	"lab-appointment-web/pkg/validator"
)

type BookingHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewBookingHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *BookingHandler {
	return &BookingHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// GetDraft returns the booking wizard of the session
// @Summary Booking draft
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Response
// @Router /booking [get]
func (h *BookingHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.bookingUsecase.GetDraft(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking retrieved successfully", draft)
}

// Discard drops the draft
// @Summary Discard booking draft
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Response
// @Router /booking [delete]
func (h *BookingHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.bookingUsecase.Discard(r.Context(), middleware.GetSessionFromContext(r.Context())); err != nil {
		response.InternalServerError(w, "Failed to discard booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking discarded", nil)
}

// UpdatePatient handles the patient details step
// @Summary Booking patient step
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.PatientStepRequest true "Patient Step Request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /booking/patient [put]
func (h *BookingHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientStepRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	draft, err := h.bookingUsecase.UpdatePatient(r.Context(), middleware.GetSessionFromContext(r.Context()), &req)
	h.writeDraft(w, draft, err)
}

// UpdateTests handles the test selection step
// @Summary Booking test step
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.TestStepRequest true "Test Step Request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /booking/tests [put]
func (h *BookingHandler) UpdateTests(w http.ResponseWriter, r *http.Request) {
	var req dto.TestStepRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	draft, err := h.bookingUsecase.UpdateTests(r.Context(), middleware.GetSessionFromContext(r.Context()), &req)
	h.writeDraft(w, draft, err)
}

// UpdateVisit handles the visit details step
// @Summary Booking visit step
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.VisitStepRequest true "Visit Step Request"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /booking/visit [put]
func (h *BookingHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	var req dto.VisitStepRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	draft, err := h.bookingUsecase.UpdateVisit(r.Context(), middleware.GetSessionFromContext(r.Context()), &req)
	h.writeDraft(w, draft, err)
}

func (h *BookingHandler) Back(w http.ResponseWriter, r *http.Request) {
	draft, err := h.bookingUsecase.Back(r.Context(), middleware.GetSessionFromContext(r.Context()))
	h.writeDraft(w, draft, err)
}

// Submit books the draft
// @Summary Submit booking
// @Tags Booking
// @Produce json
// @Success 201 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /booking/submit [post]
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookingUsecase.Submit(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		switch {
		case usecase.IsDraftError(err):
			response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
		case errors.Is(err, usecase.ErrSessionExpired):
			response.Unauthorized(w, sessionExpiredMessage)
		case errors.Is(err, usecase.ErrBookingFailed):
			response.Error(w, http.StatusBadGateway, err.Error(), nil)
		default:
			response.InternalServerError(w, usecase.ErrBookingFailed.Error())
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", result)
}

func (h *BookingHandler) writeDraft(w http.ResponseWriter, draft *dto.BookingDraftResponse, err error) {
	if err != nil {
		if usecase.IsDraftError(err) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error(), nil)
			return
		}
		loadFailed(w, err, "booking")
		return
	}

	response.Success(w, http.StatusOK, "Booking updated successfully", draft)
}
