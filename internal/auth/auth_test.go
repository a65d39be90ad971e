package auth

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostmart/storefront-service/internal/kvstore"
)

func newTestAuth() *Service {
	return NewService(kvstore.NewMemory(), zerolog.Nop())
}

func TestRegisterOpensSession(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	session, err := svc.Register(ctx, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", session.Email)
	assert.Equal(t, "Ana", session.DisplayName)
	assert.NotEmpty(t, session.UID)

	current, found, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, session, current)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Ana@Example.com", "other", "Ana B")
	assert.ErrorIs(t, err, ErrEmailTaken, "email comparison must be case-insensitive")
}

func TestLogin(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "ana@example.com", password: "secret"},
		{name: "wrong password", email: "ana@example.com", password: "nope", wantErr: ErrWrongPassword},
		{name: "unknown email", email: "bob@example.com", password: "secret", wantErr: ErrUnknownEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, session.Email)
		})
	}
}

func TestLogout(t *testing.T) {
	svc := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ana@example.com", "secret", "Ana")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))

	_, found, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	// Logging out twice is harmless.
	require.NoError(t, svc.Logout(ctx))
}
