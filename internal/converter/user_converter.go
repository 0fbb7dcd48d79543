package converter

import (
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)

	return &dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		DisplayName: user.DisplayName(),
		Age:         user.Age,
		Gender:      user.Gender,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Roles:       roles,
		Enabled:     user.Enabled,
		IsPatient:   user.IsPatient(),
	}
}

// UsersToResponses converts a slice of User entities to UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

// ProfileUpdateFromRequest maps the request onto the API payload
func ProfileUpdateFromRequest(req *dto.ProfileUpdateRequest) *entity.ProfileUpdate {
	return &entity.ProfileUpdate{
		FullName:    req.FullName,
		Age:         req.Age,
		Gender:      req.Gender,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
}

// NavigationToResponse renders the navigation of a role
func NavigationToResponse(role entity.Role) *dto.NavigationResponse {
	return navigationResponse(role, entity.NavItemsFor(role))
}

// SurfaceNavigationToResponse keeps only the items shown on mobile or desktop.
func SurfaceNavigationToResponse(role entity.Role, mobile bool) *dto.NavigationResponse {
	return navigationResponse(role, entity.FilterNav(entity.NavItemsFor(role), mobile))
}

func navigationResponse(role entity.Role, items []entity.NavItem) *dto.NavigationResponse {
	response := &dto.NavigationResponse{
		Role:     role.String(),
		HomePath: role.HomePath(),
		Items:    make([]dto.NavItemResponse, len(items)),
	}
	for i, item := range items {
		response.Items[i] = dto.NavItemResponse{
			Label:   item.Label,
			Path:    item.Path,
			Icon:    item.Icon,
			Mobile:  item.Mobile,
			Desktop: item.Desktop,
		}
	}
	return response
}

// SessionToResponse describes the session to the UI
func SessionToResponse(session *entity.Session) *dto.SessionResponse {
	if session == nil {
		session = entity.GuestSession()
	}

	response := &dto.SessionResponse{
		Authenticated: !session.IsGuest(),
		Role:          session.Role.String(),
		HomePath:      session.Role.HomePath(),
		User:          UserToResponse(session.User),
		Navigation:    NavigationToResponse(session.Role),
	}
	if !session.CreatedAt.IsZero() {
		created := session.CreatedAt
		response.CreatedAt = &created
	}
	return response
}
