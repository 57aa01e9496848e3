package jwt

import (
	"testing"
	"time"

	"healthvault/config"
	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := testService()
	userID := uuid.New()

	token, tokenID, err := service.GenerateAccessToken(userID, "doc@clinic.test", entity.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "doc@clinic.test", claims.Email)
	require.Equal(t, entity.RoleDoctor, claims.Role)
	require.Equal(t, AccessToken, claims.TokenType)
	require.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	service := testService()

	token, _, err := service.GenerateRefreshToken(uuid.New(), "p@mail.test", entity.RolePatient)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := testService().GenerateAccessToken(uuid.New(), "x@mail.test", entity.RolePatient)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "different-secret", AccessExpiry: time.Minute})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: -time.Minute})

	token, _, err := service.GenerateAccessToken(uuid.New(), "x@mail.test", entity.RolePatient)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	require.Error(t, err)
}
