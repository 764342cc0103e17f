package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet-rental-backend/internal/domain"
)

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret", 15, 60)

	token, err := manager.GenerateAccessToken(7, "admin@fleet.test", domain.RoleAdmin)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "admin@fleet.test", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)
}

func TestTokenManager_RefreshTokenType(t *testing.T) {
	manager := NewTokenManager("test-secret", 15, 60)

	token, err := manager.GenerateRefreshToken(7, "admin@fleet.test")
	assert.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("test-secret", 15, 60)
	verifier := NewTokenManager("another-secret", 15, 60)

	token, err := issuer.GenerateAccessToken(7, "admin@fleet.test", domain.RoleAdmin)
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", -1, 60)

	token, err := manager.GenerateAccessToken(7, "admin@fleet.test", domain.RoleAdmin)
	assert.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", 15, 60)

	_, err := manager.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
