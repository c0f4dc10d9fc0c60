package auth

import (
	"errors"
	"fmt"
	"time"

	"checkin-backend/internal/config"
	"checkin-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the org-scoped token payload. Every API request carries one;
// the org id in it scopes every query the request triggers.
type Claims struct {
	OrgID   int    `json:"org_id"`
	OrgSlug string `json:"org_slug"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    time.Duration(cfg.Auth.TokenTTLMin) * time.Minute,
	}
}

// Generate issues an org-scoped token
func (m *JWTManager) Generate(org *models.Organization) (string, error) {
	now := time.Now()
	claims := Claims{
		OrgID:   org.ID,
		OrgSlug: org.Slug,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   org.Slug,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses a token and returns its claims
func (m *JWTManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.OrgID <= 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
