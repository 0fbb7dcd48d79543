package handler

import (
	"errors"
	"net/http"

	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
)

type EventHandler struct {
	eventUsecase usecase.EventUsecase
}

func NewEventHandler(eventUsecase usecase.EventUsecase) *EventHandler {
	return &EventHandler{eventUsecase: eventUsecase}
}

// Wait long-polls until the named key group is invalidated. Open views call
// it in a loop and refetch when changed is true.
// @Summary Wait for a data change
// @Tags Events
// @Produce json
// @Param key query string true "appointments, appointments/mine, appointments/admin, profile, tests or users"
// @Success 200 {object} response.Response
// @Router /events [get]
func (h *EventHandler) Wait(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.Error(w, http.StatusBadRequest, "key is required", nil)
		return
	}

	event, err := h.eventUsecase.Wait(r.Context(), middleware.GetSessionFromContext(r.Context()), key)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnknownEventKey):
			response.Error(w, http.StatusBadRequest, "Unknown event key", nil)
		case errors.Is(err, usecase.ErrForbidden):
			response.Forbidden(w, "")
		default:
			response.Error(w, http.StatusServiceUnavailable, "Event stream unavailable", nil)
		}
		return
	}

	response.Success(w, http.StatusOK, "Event received", event)
}
