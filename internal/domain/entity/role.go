package entity

import "fmt"

// Role is the access tier of the current session
type Role int

const (
	RoleGuest Role = iota
	RolePatient
	RoleAdmin
)

// Role names
const (
	RoleNameGuest   = "guest"
	RoleNamePatient = "patient"
	RoleNameAdmin   = "admin"
)

// RoleFromUser derives the role once from the account's role tags.
// An authenticated account without an admin tag is a patient.
func RoleFromUser(u *User) Role {
	if u == nil {
		return RoleGuest
	}
	if u.Roles.Has("ADMIN") {
		return RoleAdmin
	}
	return RolePatient
}

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return RoleNameGuest
	case RolePatient:
		return RoleNamePatient
	case RoleAdmin:
		return RoleNameAdmin
	default:
		panic(fmt.Sprintf("entity: unknown role %d", int(r)))
	}
}

// HomePath is where a session of this role lands after login or when it is
// turned away from a view it may not see.
func (r Role) HomePath() string {
	switch r {
	case RoleGuest:
		return "/"
	case RolePatient:
		return "/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	default:
		panic(fmt.Sprintf("entity: unknown role %d", int(r)))
	}
}

// IsAuthenticated reports whether the role belongs to a logged-in account.
func (r Role) IsAuthenticated() bool {
	switch r {
	case RoleGuest:
		return false
	case RolePatient, RoleAdmin:
		return true
	default:
		panic(fmt.Sprintf("entity: unknown role %d", int(r)))
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case RoleNameGuest:
		*r = RoleGuest
	case RoleNamePatient:
		*r = RolePatient
	case RoleNameAdmin:
		*r = RoleAdmin
	default:
		return fmt.Errorf("entity: unknown role %q", string(text))
	}
	return nil
}
