package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the identity context of one browser. It is created at login,
// populated after the identity fetch and destroyed on logout.
type Session struct {
	ID        uuid.UUID `json:"id"`
	APIToken  string    `json:"api_token"`
	User      *User     `json:"user,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestSession is the context of a request without a valid session.
func GuestSession() *Session {
	return &Session{Role: RoleGuest}
}

// NewSession binds an API token and the fetched identity to a fresh ID.
func NewSession(token string, user *User) *Session {
	return &Session{
		ID:        uuid.New(),
		APIToken:  token,
		User:      user,
		Role:      RoleFromUser(user),
		CreatedAt: time.Now().UTC(),
	}
}

// IsGuest reports whether the session has no authenticated account.
func (s *Session) IsGuest() bool {
	return s == nil || !s.Role.IsAuthenticated()
}
