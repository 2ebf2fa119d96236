package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "admin", "Admin", "short")
	assert.ErrorIs(t, err, ErrValidationFailed)

	op, err := env.auth.Register(ctx, " Admin ", "Admin", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Username)
	assert.Empty(t, op.PasswordHash)

	_, err = env.auth.Register(ctx, "admin", "Other", "supersecret")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = env.auth.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = env.auth.Login(ctx, "nobody", "supersecret")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, logged, err := env.auth.Login(ctx, "ADMIN", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, op.ID, logged.ID)

	id, err := env.auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, id)

	_, err = env.auth.Authenticate(token + "x")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOperatorTokenRejectedAsClientAndViceVersa(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.member(t, "100", "Ana")

	token, _, _, err := env.clients.Login(ctx, "100")
	require.NoError(t, err)
	_, err = env.auth.Authenticate(token)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
