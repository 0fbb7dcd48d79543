package handler

import (
	"errors"
	"net/http"

	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"

	"github.com/gorilla/mux"
)

type AdminUserHandler struct {
	adminUserUsecase usecase.AdminUserUsecase
}

func NewAdminUserHandler(adminUserUsecase usecase.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{adminUserUsecase: adminUserUsecase}
}

// ListUsers returns every account with the patient count
// @Summary List users
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *AdminUserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminUserUsecase.ListUsers(r.Context(), middleware.GetSessionFromContext(r.Context()))
	if err != nil {
		loadFailed(w, err, "users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

// FindUser looks an account up by username
// @Summary Find user
// @Tags Admin
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{username} [get]
func (h *AdminUserHandler) FindUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.adminUserUsecase.FindUser(r.Context(), middleware.GetSessionFromContext(r.Context()), mux.Vars(r)["username"])
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			response.NotFound(w, usecase.ErrUserNotFound.Error())
			return
		}
		loadFailed(w, err, "user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}
