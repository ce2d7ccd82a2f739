package store

import (
	"context"

	"github.com/google/uuid"
)

// Gateway is the uniform persistence surface the controllers and the linker
// depend on. Implementations must report a missing identifier as ErrNotFound
// and constraint violations as *ValidationError; any other failure means the
// storage operation itself broke.
type Gateway[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	// FindOneByField looks up a single record by exact equality on one column.
	FindOneByField(ctx context.Context, column string, value any) (*T, error)
	Create(ctx context.Context, rec *T) error
	// UpdateByID replaces only the given columns, never the whole record.
	UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// DeleteByID is idempotent: deleting an absent identifier is a success.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
