package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-api/internal/domain"
	"customer-api/internal/repository/memory"
)

var (
	janeID    = uuid.MustParse("10000000-0000-0000-0000-000000000000")
	johnID    = uuid.MustParse("20000000-0000-0000-0000-000000000000")
	joeID     = uuid.MustParse("30000000-0000-0000-0000-000000000000")
	unknownID = uuid.MustParse("55000000-0000-0000-0000-000000000000")
)

func seededStore(t *testing.T) *memory.CustomerRepository {
	t.Helper()
	repo := memory.NewCustomerRepository()
	for _, c := range []domain.Customer{
		{ID: janeID, FirstName: "Jane", LastName: "Doe", DateOfBirth: domain.NewDate(2000, time.January, 1)},
		{ID: johnID, FirstName: "John", LastName: "Doe", DateOfBirth: domain.NewDate(2001, time.January, 1)},
		{ID: joeID, FirstName: "Joe", LastName: "Bloggs", DateOfBirth: domain.NewDate(1985, time.October, 15)},
	} {
		c := c
		require.NoError(t, repo.Create(context.Background(), &c))
	}
	return repo
}

func TestSearch(t *testing.T) {
	svc := NewCustomerService(seededStore(t))

	tests := []struct {
		name string
		text string
		want []uuid.UUID
	}{
		{name: "empty returns all", text: "", want: []uuid.UUID{joeID, janeID, johnID}},
		{name: "no match", text: "41234132413414", want: nil},
		{name: "full first name", text: "John", want: []uuid.UUID{johnID}},
		{name: "partial first name", text: "Jo", want: []uuid.UUID{joeID, johnID}},
		{name: "partial last name", text: "Blog", want: []uuid.UUID{joeID}},
		{name: "last name", text: "Doe", want: []uuid.UUID{janeID, johnID}},
		{name: "case sensitive", text: "doe", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.text)
			require.NoError(t, err)
			require.NotNil(t, got)

			ids := make([]uuid.UUID, 0, len(got))
			for _, v := range got {
				ids = append(ids, v.ID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchProjectsAllFields(t *testing.T) {
	svc := NewCustomerService(seededStore(t))

	got, err := svc.Search(context.Background(), "Bloggs")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, CustomerView{
		ID:          joeID,
		FirstName:   "Joe",
		LastName:    "Bloggs",
		DateOfBirth: domain.NewDate(1985, time.October, 15),
	}, got[0])
}

func TestCreate(t *testing.T) {
	store := seededStore(t)
	svc := NewCustomerService(store)

	created, err := svc.Create(context.Background(), CustomerInput{
		FirstName:   "Tom",
		LastName:    "Read",
		DateOfBirth: domain.NewDate(2000, time.January, 1),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 4, store.Len())

	stored, err := store.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tom", stored.FirstName)
	assert.Equal(t, "Read", stored.LastName)
	assert.Equal(t, domain.NewDate(2000, time.January, 1), stored.DateOfBirth)
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	svc := NewCustomerService(memory.NewCustomerRepository())
	a, err := svc.Create(context.Background(), CustomerInput{FirstName: "A"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), CustomerInput{FirstName: "A"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEdit(t *testing.T) {
	store := seededStore(t)
	svc := NewCustomerService(store)

	err := svc.Edit(context.Background(), johnID, CustomerInput{
		FirstName:   "John edited",
		LastName:    "Doe edited",
		DateOfBirth: domain.NewDate(2000, time.January, 2),
	})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), johnID)
	require.NoError(t, err)
	assert.Equal(t, johnID, got.ID)
	assert.Equal(t, "John edited", got.FirstName)
	assert.Equal(t, "Doe edited", got.LastName)
	assert.Equal(t, domain.NewDate(2000, time.January, 2), got.DateOfBirth)
}

func TestEditUnknownID(t *testing.T) {
	store := seededStore(t)
	svc := NewCustomerService(store)
	before, err := svc.Search(context.Background(), "")
	require.NoError(t, err)

	err = svc.Edit(context.Background(), unknownID, CustomerInput{FirstName: "John edited"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	after, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete(t *testing.T) {
	store := seededStore(t)
	svc := NewCustomerService(store)

	require.NoError(t, svc.Delete(context.Background(), janeID))
	assert.Equal(t, 2, store.Len())

	_, err := svc.Get(context.Background(), janeID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeleteUnknownID(t *testing.T) {
	store := seededStore(t)
	svc := NewCustomerService(store)

	err := svc.Delete(context.Background(), unknownID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Equal(t, 3, store.Len())
}

func TestEditAfterDelete(t *testing.T) {
	svc := NewCustomerService(seededStore(t))
	require.NoError(t, svc.Delete(context.Background(), joeID))
	assert.ErrorIs(t, svc.Edit(context.Background(), joeID, CustomerInput{FirstName: "Joe"}), domain.ErrCustomerNotFound)
}
