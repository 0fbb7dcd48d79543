package response

import (
	"encoding/json"
	"net/http"

	"lab-appointment-web/internal/domain/entity"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// RetryError marks a failed read the client may retry.
type RetryError struct {
	Retry bool `json:"retry"`
}

// RedirectData tells the client where to navigate.
type RedirectData struct {
	Redirect string `json:"redirect"`
}

func MetaFromPage(page *entity.Page) *Meta {
	if page == nil {
		return nil
	}
	return &Meta{
		Page:       page.Number,
		Limit:      page.Size,
		Total:      int64(page.Total),
		TotalPages: page.TotalPages,
	}
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Error:   errors,
	})
}

// Redirect answers 303 with the target in both the Location header and the body.
func Redirect(w http.ResponseWriter, message, location string) {
	w.Header().Set("Location", location)
	JSON(w, http.StatusSeeOther, Response{
		Success: false,
		Message: message,
		Data:    RedirectData{Redirect: location},
	})
}

// LoadFailed answers a failed read from the lab API with a retry affordance.
func LoadFailed(w http.ResponseWriter, resource string) {
	Error(w, http.StatusBadGateway, "Failed to load "+resource, RetryError{Retry: true})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}
