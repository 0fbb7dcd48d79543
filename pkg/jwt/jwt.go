package jwt

import (
	"errors"
	"time"

	"lab-appointment-web/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "lab-appointment-web"

type Claims struct {
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

type JWTService struct {
	config config.SessionConfig
}

func NewJWTService(cfg config.SessionConfig) *JWTService {
	return &JWTService{config: cfg}
}

// GenerateSessionToken signs a token naming the server-side session.
func (s *JWTService) GenerateSessionToken(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == uuid.Nil {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *JWTService) GetExpiry() time.Duration {
	return s.config.TTL
}
