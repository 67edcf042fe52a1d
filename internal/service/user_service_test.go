package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"customer-api/internal/domain"
	"customer-api/internal/repository/memory"
)

func newTestUserService(secret string) UserService {
	svc := NewUserService(memory.NewUserRepository(), secret).(*userService)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestUserService("let-me-in")
	ctx := context.Background()

	user, err := svc.Register(ctx, " alice ", "correct horse", "let-me-in")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "another password", "let-me-in")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	got, err := svc.Authenticate(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	byID, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService("let-me-in")
	ctx := context.Background()

	var verr *ValidationError
	_, err := svc.Register(ctx, "", "correct horse", "let-me-in")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	_, err = svc.Register(ctx, "bob", "short", "let-me-in")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	_, err = svc.Register(ctx, "bob", "correct horse", "guess")
	assert.ErrorIs(t, err, ErrInvalidRegistrationPassword)
}

func TestRegisterDisabledWithoutSecret(t *testing.T) {
	svc := newTestUserService("")
	_, err := svc.Register(context.Background(), "bob", "correct horse", "")
	assert.ErrorIs(t, err, ErrRegistrationDisabled)
}
