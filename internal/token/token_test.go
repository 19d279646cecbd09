package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "github.com/Alturino/storefront/internal/common/errors"
)

const secret = "test-secret"

func TestVerify(t *testing.T) {
	now := time.Now()
	valid, err := Sign(secret, "user-1", "Ayşe", "ayse@example.com", now, time.Hour)
	require.NoError(t, err)
	expired, err := Sign(secret, "user-1", "Ayşe", "ayse@example.com", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		secret      string
		expectedSub string
		expectedErr error
	}{
		{
			name:        "given valid token should return claims",
			token:       valid,
			secret:      secret,
			expectedSub: "user-1",
		},
		{
			name:        "given wrong secret should return invalid token",
			token:       valid,
			secret:      "other",
			expectedErr: commonErrors.ErrTokenInvalid,
		},
		{
			name:        "given expired token should return invalid token",
			token:       expired,
			secret:      secret,
			expectedErr: commonErrors.ErrTokenInvalid,
		},
		{
			name:        "given garbage should return invalid token",
			token:       "not-a-token",
			secret:      secret,
			expectedErr: commonErrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Verify(context.Background(), tt.secret, tt.token)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSub, claims.Subject)
			assert.Equal(t, "Ayşe", claims.Name)
			assert.Equal(t, "ayse@example.com", claims.Email)
		})
	}
}

func TestDecode(t *testing.T) {
	now := time.Now()

	t.Run("given token signed with any key should decode claims", func(t *testing.T) {
		signed, err := Sign("server-only-secret", "user-2", "Mehmet", "m@example.com", now, time.Hour)
		require.NoError(t, err)

		claims, err := Decode(context.Background(), signed, now)

		require.NoError(t, err)
		assert.Equal(t, "user-2", claims.Subject)
		assert.Equal(t, "Mehmet", claims.Name)
	})

	t.Run("given expired token should return invalid token", func(t *testing.T) {
		signed, err := Sign(secret, "user-2", "Mehmet", "m@example.com", now.Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = Decode(context.Background(), signed, now)

		assert.ErrorIs(t, err, commonErrors.ErrTokenInvalid)
	})

	t.Run("given malformed token should return invalid token", func(t *testing.T) {
		_, err := Decode(context.Background(), "a.b.c", now)
		assert.ErrorIs(t, err, commonErrors.ErrTokenInvalid)
	})
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	c := AttachClaims(context.Background(), &Claims{Name: "x"})
	claims, ok := ClaimsFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, "x", claims.Name)
}
