package middleware

import (
	"fmt"
	"net/http"

	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/pkg/response"
)

// LoginPath is where guests are sent when a view needs an account
const LoginPath = "/login"

// RequireRole lets through sessions of the allowed roles. Others are
// redirected: guests to the login page, accounts to their own landing path.
func RequireRole(allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSessionFromContext(r.Context())

			for _, role := range allowed {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			switch session.Role {
			case entity.RoleGuest:
				response.Redirect(w, "Please log in to continue", LoginPath)
			case entity.RolePatient, entity.RoleAdmin:
				response.Redirect(w, "You don't have permission to access this resource", session.Role.HomePath())
			default:
				panic(fmt.Sprintf("middleware: unknown role %d", int(session.Role)))
			}
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireAccount lets through any logged-in session
func RequireAccount(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient, entity.RoleAdmin)(next)
}
