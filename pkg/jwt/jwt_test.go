package jwt

import (
	"testing"
	"time"

	"lab-appointment-web/config"

	"github.com/google/uuid"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(config.SessionConfig{Secret: "secret", TTL: time.Hour})
	id := uuid.New()

	token, err := svc.GenerateSessionToken(id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != id {
		t.Errorf("expected %s, got %s", id, claims.SessionID)
	}
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(config.SessionConfig{Secret: "secret", TTL: time.Hour})
	other := NewJWTService(config.SessionConfig{Secret: "other", TTL: time.Hour})
	expired := NewJWTService(config.SessionConfig{Secret: "secret", TTL: -time.Minute})

	foreign, _ := other.GenerateSessionToken(uuid.New())
	stale, _ := expired.GenerateSessionToken(uuid.New())

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: stale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
