package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"projectms/internal/models"
)

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: 42}

	token, err := GenerateToken("secret", user, models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.True(t, claims.IsAdmin)
}

func TestParseToken_NonAdminRole(t *testing.T) {
	token, err := GenerateToken("secret", &models.User{ID: 7}, models.RoleUser, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	require.False(t, claims.IsAdmin)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", &models.User{ID: 7}, models.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("secret", &models.User{ID: 7}, models.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
