package entity

import (
	"encoding/json"
	"strings"
)

// Role tags as issued by the lab API
const (
	RoleTagUser  = "ROLE_USER"
	RoleTagAdmin = "ROLE_ADMIN"
)

// User is an account as returned by the lab API
type User struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"fullName"`
	Age         *int     `json:"age"`
	Gender      string   `json:"gender"`
	PhoneNumber string   `json:"phoneNumber"`
	Address     string   `json:"address"`
	Roles       RoleTags `json:"roles"`
	Enabled     bool     `json:"enabled"`
}

// RoleTags holds role names. The API sends either plain strings or
// {"id":..,"name":..} objects depending on the endpoint.
type RoleTags []string

func (r *RoleTags) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tags := make(RoleTags, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			tags = append(tags, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		tags = append(tags, obj.Name)
	}
	*r = tags
	return nil
}

// Has reports whether any tag contains needle, case-insensitively.
func (r RoleTags) Has(needle string) bool {
	needle = strings.ToUpper(needle)
	for _, tag := range r {
		if strings.Contains(strings.ToUpper(tag), needle) {
			return true
		}
	}
	return false
}

// DisplayName prefers the full name over the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if strings.TrimSpace(u.FullName) != "" {
		return u.FullName
	}
	return u.Username
}

// IsPatient reports whether the account carries the patient role.
func (u *User) IsPatient() bool {
	return u != nil && u.Roles.Has("USER")
}

// ProfileUpdate is the payload of PUT /user/me. Nil fields are left
// unchanged by the API.
type ProfileUpdate struct {
	FullName    *string `json:"fullName,omitempty"`
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Address     *string `json:"address,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}
