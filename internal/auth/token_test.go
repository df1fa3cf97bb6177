package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-jwt-secret", 3600)

	tokenString, err := tm.Issue("zhangsan1", domain.RoleSecondaryAdmin)
	require.NoError(t, err)

	claims, err := tm.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan1", claims.Subject)
	assert.Equal(t, string(domain.RoleSecondaryAdmin), claims.Role)
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-jwt-secret", -1)

	tokenString, err := tm.Issue("zhangsan1", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-jwt-secret", 3600)
	other := NewTokenManager("other-secret", 3600)

	tokenString, err := tm.Issue("zhangsan1", domain.RoleUser)
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager("test-jwt-secret", 3600)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "空字符串",
			token: "",
		},
		{
			name:  "不是 JWT",
			token: "not-a-token",
		},
		{
			name:  "被篡改的令牌",
			token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.tampered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
