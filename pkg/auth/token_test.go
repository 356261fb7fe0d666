package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	t.Run("Should round trip an access token", func(t *testing.T) {
		pair, err := m.Issue("u1", "ana@example.com", "candidate")
		require.NoError(t, err)

		claims, err := m.Parse(pair.AccessToken, KindAccess)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "candidate", claims.Role)
	})

	t.Run("Should reject a refresh token used as access token", func(t *testing.T) {
		pair, err := m.Issue("u1", "ana@example.com", "candidate")
		require.NoError(t, err)

		_, err = m.Parse(pair.RefreshToken, KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		pair, err := m.Issue("u1", "ana@example.com", "candidate")
		require.NoError(t, err)

		later := NewTokenManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Parse(pair.AccessToken, KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		other := NewTokenManager("other", time.Hour)
		pair, err := other.Issue("u1", "ana@example.com", "candidate")
		require.NoError(t, err)

		_, err = m.Parse(pair.AccessToken, KindAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should refuse to issue without a secret", func(t *testing.T) {
		_, err := NewTokenManager("", time.Hour).Issue("u1", "a@b.com", "candidate")
		assert.Error(t, err)
	})
}
