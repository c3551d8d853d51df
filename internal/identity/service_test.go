package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Username: "alice", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.PasswordHash)

	authed, err := svc.Authenticate(ctx, Credentials{Username: "alice", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "s3creta"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, Credentials{Username: "alice", Password: "errada"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Authenticate(context.Background(), Credentials{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Username: "alice", Password: "um"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{Username: "alice", Password: "dois"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Username: "", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, Credentials{Username: "alice", Password: ""})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, Credentials{Username: "   ", Password: "x"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
