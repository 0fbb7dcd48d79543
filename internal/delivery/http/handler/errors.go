package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
	"lab-appointment-web/pkg/validator"
)

// Message shown when the lab API no longer accepts the session's token
const sessionExpiredMessage = "Your session has expired. Please log in again."

// loadFailed answers a failed read. An expired session is reported as such
// so the client can log in again instead of retrying.
func loadFailed(w http.ResponseWriter, err error, resource string) {
	if errors.Is(err, usecase.ErrSessionExpired) {
		response.Unauthorized(w, sessionExpiredMessage)
		return
	}
	response.LoadFailed(w, resource)
}

// decodeAndValidate reads a JSON body into req. It writes the error
// response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}
