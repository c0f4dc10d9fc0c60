package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/config"
	"checkin-backend/internal/models"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = secret
	cfg.Auth.TokenTTLMin = 60
	return NewJWTManager(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	m := testManager("test-secret")

	token, err := m.Generate(&models.Organization{ID: 7, Slug: "first-church"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.OrgID)
	assert.Equal(t, "first-church", claims.OrgSlug)
	assert.Equal(t, "first-church", claims.Subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := testManager("secret-a").Generate(&models.Organization{ID: 7, Slug: "x"})
	require.NoError(t, err)

	_, err = testManager("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := testManager("s").Validate("not.a.token")
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "s"
	cfg.Auth.TokenTTLMin = -1
	m := NewJWTManager(cfg)

	token, err := m.Generate(&models.Organization{ID: 7, Slug: "x"})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestValidate_MissingOrgID(t *testing.T) {
	m := testManager("s")
	token, err := m.Generate(&models.Organization{ID: 0, Slug: "x"})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}
