package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"lab-appointment-web/config"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

// SessionResolver loads a stored session by ID.
type SessionResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*entity.Session, error)
}

type SessionMiddleware struct {
	jwtService *jwt.JWTService
	resolver   SessionResolver
	cfg        config.SessionConfig
	log        *logrus.Logger
}

func NewSessionMiddleware(jwtService *jwt.JWTService, resolver SessionResolver, cfg config.SessionConfig, log *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
		resolver:   resolver,
		cfg:        cfg,
		log:        log,
	}
}

// Attach puts the caller's session into the request context. A missing,
// invalid or expired token yields a guest session; it never rejects.
func (m *SessionMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := entity.GuestSession()

		if tokenString, fromCookie := m.tokenFromRequest(r); tokenString != "" {
			resolved, err := m.resolve(r.Context(), tokenString)
			switch {
			case err == nil:
				session = resolved
			case fromCookie:
				m.log.Debugf("Dropping session cookie: %v", err)
				m.ClearCookie(w)
			default:
				m.log.Debugf("Ignoring bearer session token: %v", err)
			}
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionMiddleware) resolve(ctx context.Context, tokenString string) (*entity.Session, error) {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	session, err := m.resolver.Resolve(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errors.New("session not found")
	}
	return session, nil
}

// tokenFromRequest prefers the session cookie over a bearer header.
func (m *SessionMiddleware) tokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1]), false
	}
	return "", false
}

// IssueCookie signs a token for the session and sets it as the session cookie.
func (m *SessionMiddleware) IssueCookie(w http.ResponseWriter, session *entity.Session) (string, error) {
	token, err := m.jwtService.GenerateSessionToken(session.ID)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.jwtService.GetExpiry()),
		MaxAge:   int(m.jwtService.GetExpiry().Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// Expiry is the lifetime of issued session cookies.
func (m *SessionMiddleware) Expiry() time.Duration {
	return m.jwtService.GetExpiry()
}

func (m *SessionMiddleware) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionFromContext returns the request's session, a guest when none was attached.
func GetSessionFromContext(ctx context.Context) *entity.Session {
	if session, ok := ctx.Value(SessionKey).(*entity.Session); ok && session != nil {
		return session
	}
	return entity.GuestSession()
}
