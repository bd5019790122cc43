package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("employee@test.tld", "Employee")
	require.NoError(t, err)

	session, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "employee@test.tld", session.Email)
	assert.Equal(t, "Employee", session.Type)
	assert.Equal(t, token, session.Token)
}

func TestTokenService_Parse(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		token, err := NewTokenService("other-secret", time.Hour).Issue("employee@test.tld", "Employee")
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		token, err := NewTokenService("test-secret", -time.Minute).Issue("employee@test.tld", "Employee")
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), &Session{Email: "employee@test.tld"})
	session, ok := SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "employee@test.tld", session.Email)
}
