package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Gateway. The gorm session must be opened
// with TranslateError so duplicate-key violations surface as
// gorm.ErrDuplicatedKey instead of raw driver errors.
type GormStore[T any] struct {
	db     *gorm.DB
	entity string
}

func NewGormStore[T any](db *gorm.DB, entity string) *GormStore[T] {
	return &GormStore[T]{db: db, entity: entity}
}

func (s *GormStore[T]) FindAll(ctx context.Context) ([]T, error) {
	var recs []T
	if err := s.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, s.wrap("find all", err)
	}
	return recs, nil
}

func (s *GormStore[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.wrap("find by id", err)
	}
	return &rec, nil
}

func (s *GormStore[T]) FindOneByField(ctx context.Context, column string, value any) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Where(column+" = ?", value).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.wrap("find by "+column, err)
	}
	return &rec, nil
}

func (s *GormStore[T]) Create(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Constraint: "must be unique"}
		}
		return s.wrap("create", err)
	}
	return nil
}

func (s *GormStore[T]) UpdateByID(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	// Updates with an empty map issues no statement and reports zero rows,
	// which would look like a missing record. Fall back to an existence check.
	if len(fields) == 0 {
		_, err := s.FindByID(ctx, id)
		return err
	}
	var rec T
	result := s.db.WithContext(ctx).Model(&rec).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return &ValidationError{Constraint: "must be unique"}
		}
		return s.wrap("update by id", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	var rec T
	if err := s.db.WithContext(ctx).Delete(&rec, "id = ?", id).Error; err != nil {
		return s.wrap("delete by id", err)
	}
	return nil
}

func (s *GormStore[T]) wrap(op string, err error) error {
	return fmt.Errorf("%s %s: %w", op, s.entity, err)
}
