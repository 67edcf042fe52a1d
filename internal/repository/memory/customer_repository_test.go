package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-api/internal/domain"
)

func TestCustomerRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()

	c := &domain.Customer{ID: uuid.New(), FirstName: "Tom", LastName: "Read", DateOfBirth: domain.NewDate(2000, time.January, 1)}
	require.NoError(t, repo.Create(ctx, c))
	assert.Error(t, repo.Create(ctx, c))
	assert.Equal(t, 1, repo.Len())

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	got.FirstName = "mutated"
	again, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tom", again.FirstName, "Get must return a copy")

	require.NoError(t, repo.Update(ctx, &domain.Customer{ID: c.ID, FirstName: "Tim", LastName: "Reed"}))
	again, err = repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tim", again.FirstName)
	assert.True(t, again.DateOfBirth.IsZero())

	require.NoError(t, repo.Delete(ctx, c.ID))
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), domain.ErrCustomerNotFound)
	assert.ErrorIs(t, repo.Update(ctx, c), domain.ErrCustomerNotFound)
	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerRepositorySearchIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewCustomerRepository()
	require.NoError(t, repo.Create(ctx, &domain.Customer{ID: uuid.New(), FirstName: "Jane", LastName: "Doe"}))

	hits, err := repo.Search(ctx, "Doe")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = repo.Search(ctx, "doe")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}
