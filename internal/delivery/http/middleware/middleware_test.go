package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lab-appointment-web/config"
	"lab-appointment-web/internal/domain/entity"
	"lab-appointment-web/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type mapResolver map[uuid.UUID]*entity.Session

func (m mapResolver) Resolve(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	return m[id], nil
}

func newSessionMiddleware(t *testing.T, sessions mapResolver) (*SessionMiddleware, *jwt.JWTService) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.SessionConfig{Secret: "secret", TTL: time.Hour, CookieName: "labweb_session"}
	svc := jwt.NewJWTService(cfg)
	return NewSessionMiddleware(svc, sessions, cfg, log), svc
}

func roleEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, GetSessionFromContext(r.Context()).Role.String())
	})
}

func TestSessionMiddleware_Attach(t *testing.T) {
	patient := entity.NewSession("tok", &entity.User{Username: "asha", Roles: entity.RoleTags{entity.RoleTagUser}})
	m, svc := newSessionMiddleware(t, mapResolver{patient.ID: patient})

	valid, _ := svc.GenerateSessionToken(patient.ID)
	unknown, _ := svc.GenerateSessionToken(uuid.New())

	tests := []struct {
		name        string
		cookie      string
		bearer      string
		want        string
		wantCleared bool
	}{
		{name: "no credentials", want: "guest"},
		{name: "valid cookie", cookie: valid, want: "patient"},
		{name: "valid bearer", bearer: valid, want: "patient"},
		{name: "garbage cookie", cookie: "garbage", want: "guest", wantCleared: true},
		{name: "expired session", cookie: unknown, want: "guest", wantCleared: true},
		{name: "garbage bearer", bearer: "garbage", want: "guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/navigation", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "labweb_session", Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()

			m.Attach(roleEcho()).ServeHTTP(rec, req)

			if rec.Body.String() != tt.want {
				t.Errorf("expected role %s, got %s", tt.want, rec.Body.String())
			}
			cleared := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == "labweb_session" && c.MaxAge < 0 {
					cleared = true
				}
			}
			if cleared != tt.wantCleared {
				t.Errorf("expected cookie cleared=%v", tt.wantCleared)
			}
		})
	}
}

func TestRequireRole_Redirects(t *testing.T) {
	tests := []struct {
		name     string
		session  *entity.Session
		gate     func(http.Handler) http.Handler
		wantCode int
		wantLoc  string
	}{
		{name: "patient on admin route", session: &entity.Session{Role: entity.RolePatient}, gate: RequireAdmin, wantCode: http.StatusSeeOther, wantLoc: "/dashboard"},
		{name: "admin on patient route", session: &entity.Session{Role: entity.RoleAdmin}, gate: RequirePatient, wantCode: http.StatusSeeOther, wantLoc: "/admin/dashboard"},
		{name: "guest on account route", session: entity.GuestSession(), gate: RequireAccount, wantCode: http.StatusSeeOther, wantLoc: LoginPath},
		{name: "admin on admin route", session: &entity.Session{Role: entity.RoleAdmin}, gate: RequireAdmin, wantCode: http.StatusOK},
		{name: "guest on admin route", session: entity.GuestSession(), gate: RequireAdmin, wantCode: http.StatusSeeOther, wantLoc: LoginPath},
		{name: "guest on patient route", session: entity.GuestSession(), gate: RequirePatient, wantCode: http.StatusSeeOther, wantLoc: LoginPath},
		{name: "patient on account route", session: &entity.Session{Role: entity.RolePatient}, gate: RequireAccount, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), SessionKey, tt.session))
			rec := httptest.NewRecorder()

			tt.gate(roleEcho()).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantLoc == "" {
				return
			}
			if got := rec.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("expected Location %s, got %s", tt.wantLoc, got)
			}
			var body struct {
				Data struct {
					Redirect string `json:"redirect"`
				} `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Data.Redirect != tt.wantLoc {
				t.Errorf("expected redirect %s in body, got %+v, %v", tt.wantLoc, body, err)
			}
		})
	}
}

func TestRequireRole_UnknownRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an unknown role")
		}
	}()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), SessionKey, &entity.Session{Role: entity.Role(99)}))
	RequireAdmin(roleEcho()).ServeHTTP(httptest.NewRecorder(), req)
}

func TestCORSMiddleware(t *testing.T) {
	m := NewCORSMiddleware([]string{"http://app.local"})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://app.local")
	rec := httptest.NewRecorder()
	m.Handle(roleEcho()).ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://app.local" || rec.Body.Len() != 0 {
		t.Errorf("expected preflight answered for allowed origin")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.local")
	rec = httptest.NewRecorder()
	m.Handle(roleEcho()).ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("expected no CORS header for unknown origin")
	}
}
