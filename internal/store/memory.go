package store

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Gateway used by the test suite and for local
// development without Postgres. It honors the same contract as GormStore,
// including unique-column enforcement, so pipelines behave identically on it.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	records map[uuid.UUID]T
	order   []uuid.UUID
	unique  []string
}

// NewMemoryStore builds an empty store. Columns named in unique are enforced
// the way a database unique index would be.
func NewMemoryStore[T any](unique ...string) *MemoryStore[T] {
	return &MemoryStore[T]{records: make(map[uuid.UUID]T), unique: unique}
}

func (s *MemoryStore[T]) FindAll(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out, nil
}

func (s *MemoryStore[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore[T]) FindOneByField(_ context.Context, column string, value any) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		rec := s.records[id]
		if reflect.DeepEqual(columnValue(&rec, column), value) {
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore[T]) Create(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, col := range s.unique {
		want := columnValue(rec, col)
		for _, id := range s.order {
			existing := s.records[id]
			if reflect.DeepEqual(columnValue(&existing, col), want) {
				return &ValidationError{Field: col, Constraint: "must be unique"}
			}
		}
	}
	id := recordID(rec)
	if id == uuid.Nil {
		id = uuid.New()
		setColumn(rec, "id", id)
	}
	s.records[id] = *rec
	s.order = append(s.order, id)
	return nil
}

func (s *MemoryStore[T]) UpdateByID(_ context.Context, id uuid.UUID, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	for _, col := range s.unique {
		want, changed := fields[col]
		if !changed {
			continue
		}
		for _, other := range s.order {
			if other == id {
				continue
			}
			existing := s.records[other]
			if reflect.DeepEqual(columnValue(&existing, col), want) {
				return &ValidationError{Field: col, Constraint: "must be unique"}
			}
		}
	}
	for col, v := range fields {
		setColumn(&rec, col, v)
	}
	s.records[id] = rec
	return nil
}

func (s *MemoryStore[T]) DeleteByID(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// goFieldName maps a snake_case column to the struct field gorm would bind it
// to, e.g. "subscribed_account_id" -> "SubscribedAccountID".
func goFieldName(column string) string {
	parts := strings.Split(column, "_")
	for i, p := range parts {
		if p == "id" {
			parts[i] = "ID"
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func columnValue[T any](rec *T, column string) any {
	return reflect.ValueOf(rec).Elem().FieldByName(goFieldName(column)).Interface()
}

func setColumn[T any](rec *T, column string, value any) {
	fv := reflect.ValueOf(rec).Elem().FieldByName(goFieldName(column))
	fv.Set(reflect.ValueOf(value).Convert(fv.Type()))
}

func recordID[T any](rec *T) uuid.UUID {
	return columnValue(rec, "id").(uuid.UUID)
}
