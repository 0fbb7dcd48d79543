package dto

import "time"

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6,max=200"`
}

type ProfileUpdateRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=100"`
	Age         *int    `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

// Response DTOs

type UserResponse struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	DisplayName string   `json:"display_name"`
	Age         *int     `json:"age"`
	Gender      string   `json:"gender"`
	PhoneNumber string   `json:"phone_number"`
	Address     string   `json:"address"`
	Roles       []string `json:"roles"`
	Enabled     bool     `json:"enabled"`
	IsPatient   bool     `json:"is_patient"`
}

type NavItemResponse struct {
	Label   string `json:"label"`
	Path    string `json:"path"`
	Icon    string `json:"icon"`
	Mobile  bool   `json:"mobile"`
	Desktop bool   `json:"desktop"`
}

type NavigationResponse struct {
	Role     string            `json:"role"`
	HomePath string            `json:"home_path"`
	Items    []NavItemResponse `json:"items"`
}

type SessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	Role          string              `json:"role"`
	HomePath      string              `json:"home_path"`
	User          *UserResponse       `json:"user,omitempty"`
	Navigation    *NavigationResponse `json:"navigation"`
	CreatedAt     *time.Time          `json:"created_at,omitempty"`
}

// LoginResponse carries the signed session token for clients that cannot
// keep cookies; browsers use the cookie set alongside it.
type LoginResponse struct {
	Session   *SessionResponse `json:"session"`
	Token     string           `json:"token"`
	ExpiresIn int64            `json:"expires_in"`
	Redirect  string           `json:"redirect"`
}

type UserListResponse struct {
	Users        []UserResponse `json:"users"`
	Total        int            `json:"total"`
	PatientCount int            `json:"patient_count"`
}
