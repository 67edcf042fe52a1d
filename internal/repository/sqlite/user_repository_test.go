package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-api/internal/domain"
)

func TestUserRepository(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	repo := NewUserRepository(db)
	require.NoError(t, repo.Init(ctx))

	user := &domain.User{Username: "alice", PasswordHash: "hash"}
	id, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))

	insert := `INSERT INTO users (username, password_hash, created_at, updated_at) VALUES (?, ?, datetime('now'), datetime('now'))`
	_, err = db.ExecContext(ctx, insert, "dave", "hash")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "dave", "hash")
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	// NOT NULL failures are constraint errors too, but not duplicates.
	_, err = db.ExecContext(ctx, insert, "erin", nil)
	require.Error(t, err)
	assert.False(t, isUniqueViolation(err))

	assert.False(t, isUniqueViolation(errors.New("UNIQUE constraint failed: users.username")))
}
