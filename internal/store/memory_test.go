package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confettischool/backend/internal/models"
)

func TestMemoryStoreNotFoundIsDistinct(t *testing.T) {
	s := NewMemoryStore[models.Course]("title")
	ctx := context.Background()

	_, err := s.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateByID(ctx, uuid.New(), map[string]any{"title": "Baking"})
	assert.ErrorIs(t, err, ErrNotFound)

	// delete is idempotent, absent records are not an error
	assert.NoError(t, s.DeleteByID(ctx, uuid.New()))
}

func TestMemoryStoreEnforcesUniqueColumns(t *testing.T) {
	s := NewMemoryStore[models.Subscriber]("email")
	ctx := context.Background()

	first := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, s.Create(ctx, first))

	dup := &models.Subscriber{ID: uuid.New(), Name: "Ann Again", Email: "ann@x.com", ZipCode: 10000}
	err := s.Create(ctx, dup)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "email", validationErr.Field)

	// the first record is unaffected
	got, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestMemoryStoreUpdateReplacesOnlyGivenFields(t *testing.T) {
	s := NewMemoryStore[models.Subscriber]("email")
	ctx := context.Background()

	rec := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, s.Create(ctx, rec))

	require.NoError(t, s.UpdateByID(ctx, rec.ID, map[string]any{"zip_code": 10000}))

	got, err := s.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000, got.ZipCode)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "ann@x.com", got.Email)
}

func TestMemoryStoreEmptyUpdateOnlyChecksExistence(t *testing.T) {
	s := NewMemoryStore[models.Subscriber]("email")
	ctx := context.Background()

	rec := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, s.Create(ctx, rec))

	require.NoError(t, s.UpdateByID(ctx, rec.ID, map[string]any{}))
	assert.ErrorIs(t, s.UpdateByID(ctx, uuid.New(), map[string]any{}), ErrNotFound)

	got, err := s.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestMemoryStoreFindOneByField(t *testing.T) {
	s := NewMemoryStore[models.Subscriber]("email")
	ctx := context.Background()

	rec := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, s.Create(ctx, rec))

	got, err := s.FindOneByField(ctx, "email", "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	_, err = s.FindOneByField(ctx, "email", "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
