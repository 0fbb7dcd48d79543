package handler

import (
	"errors"
	"net/http"

	"lab-appointment-web/internal/converter"
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
	"lab-appointment-web/pkg/validator"
)

type AuthHandler struct {
	authUsecase       usecase.AuthUsecase
	validator         *validator.CustomValidator
	sessionMiddleware *middleware.SessionMiddleware
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, sessionMiddleware *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{
		authUsecase:       authUsecase,
		validator:         validator,
		sessionMiddleware: sessionMiddleware,
	}
}

// Register handles account registration
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUsernameTaken):
			response.Error(w, http.StatusConflict, "Username already exists", nil)
		default:
			response.Error(w, http.StatusBadGateway, "Registration failed. Please try again.", nil)
		}
		return
	}

	h.startSession(w, http.StatusCreated, "Registration successful", session)
}

// Login handles account login
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	session, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.Error(w, http.StatusUnauthorized, "Invalid username or password", nil)
		default:
			response.Error(w, http.StatusBadGateway, "Login failed. Please try again.", nil)
		}
		return
	}

	h.startSession(w, http.StatusOK, "Login successful", session)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, message string, session *entity.Session) {
	token, err := h.sessionMiddleware.IssueCookie(w, session)
	if err != nil {
		response.InternalServerError(w, "Failed to start session")
		return
	}

	response.Success(w, status, message, dto.LoginResponse{
		Session:   converter.SessionToResponse(session),
		Token:     token,
		ExpiresIn: int64(h.sessionMiddleware.Expiry().Seconds()),
		Redirect:  session.Role.HomePath(),
	})
}

// Logout ends the session. Guests get the same answer.
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r.Context())

	if err := h.authUsecase.Logout(r.Context(), session); err != nil {
		response.InternalServerError(w, "Failed to logout")
		return
	}
	h.sessionMiddleware.ClearCookie(w)

	response.Success(w, http.StatusOK, "Logout successful", response.RedirectData{Redirect: middleware.LoginPath})
}

// Session refetches the identity behind the session. A failed refetch ends
// the session and answers as a guest.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.authUsecase.RefreshIdentity(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		if !errors.Is(err, usecase.ErrSessionExpired) {
			response.InternalServerError(w, "Failed to load session")
			return
		}
		h.sessionMiddleware.ClearCookie(w)
		session = entity.GuestSession()
	}

	response.Success(w, http.StatusOK, "Session retrieved successfully", converter.SessionToResponse(session))
}

// Navigation returns the menu for the caller's role. surface=mobile or
// surface=desktop keeps only the items shown there.
func (h *AuthHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	role := middleware.GetSessionFromContext(r.Context()).Role

	nav := converter.NavigationToResponse(role)
	switch r.URL.Query().Get("surface") {
	case "mobile":
		nav = converter.SurfaceNavigationToResponse(role, true)
	case "desktop":
		nav = converter.SurfaceNavigationToResponse(role, false)
	}

	response.Success(w, http.StatusOK, "Navigation retrieved successfully", nav)
}
