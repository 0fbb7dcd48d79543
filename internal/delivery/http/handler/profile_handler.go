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

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
	validator      *validator.CustomValidator
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase, validator *validator.CustomValidator) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		validator:      validator,
	}
}

// GetProfile returns the account of the session
// @Summary Get profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileUsecase.GetProfile(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile changes the account of the session
// @Summary Update profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body dto.ProfileUpdateRequest true "Profile Update Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileUpdateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(r.Context(), middleware.GetSessionFromContext(r.Context()), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionExpired) {
			response.Unauthorized(w, sessionExpiredMessage)
			return
		}
		response.Error(w, http.StatusBadGateway, "Failed to update profile", nil)
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}
