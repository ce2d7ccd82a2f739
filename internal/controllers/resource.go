// Package controllers composes the seven canonical CRUD actions for each
// entity kind out of pipeline stages backed by a persistence gateway.
package controllers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/confettischool/backend/internal/pipeline"
	"github.com/confettischool/backend/internal/store"
)

// Resource wires one entity kind into CRUD pipelines. The shaping funcs are
// the only place inbound payloads become typed values: newRecord builds a
// complete record for create, updateFields picks the columns update replaces.
// The optional hooks run strictly before the corresponding write commits.
type Resource[T any] struct {
	entity       string // singular, e.g. "subscriber"
	basePath     string // collection path, e.g. "/api/subscribers"
	gateway      store.Gateway[T]
	newRecord    func(input map[string]string) (*T, error)
	updateFields func(input map[string]string) (map[string]any, error)
	beforeCreate func(ctx context.Context, rec *T) error
	beforeUpdate func(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

func (r *Resource[T]) Entity() string { return r.entity }

// CollectionPath is the redirect target for create and delete.
func (r *Resource[T]) CollectionPath() string { return r.basePath }

// RecordPath is the redirect target for update.
func (r *Resource[T]) RecordPath(id uuid.UUID) string {
	return r.basePath + "/" + id.String()
}

// Index fetches every record and renders the collection.
func (r *Resource[T]) Index() []pipeline.Stage {
	return []pipeline.Stage{
		func(ctx context.Context, ex *pipeline.Exchange) error {
			recs, err := r.gateway.FindAll(ctx)
			if err != nil {
				return err
			}
			ex.Collection = recs
			return nil
		},
		r.renderCollection("index"),
	}
}

// Show fetches one record by identifier; a missing record is a failure, never
// an empty render.
func (r *Resource[T]) Show() []pipeline.Stage {
	return []pipeline.Stage{r.fetchOne(), r.renderRecord("show")}
}

// New renders the empty form without touching storage.
func (r *Resource[T]) New() []pipeline.Stage {
	return []pipeline.Stage{
		func(_ context.Context, ex *pipeline.Exchange) error {
			ex.Render(r.view("new"), map[string]any{})
			return nil
		},
	}
}

// Create shapes the payload, persists the record, and redirects to the
// collection. The beforeCreate hook runs after shaping and before the write.
func (r *Resource[T]) Create() []pipeline.Stage {
	return []pipeline.Stage{
		func(ctx context.Context, ex *pipeline.Exchange) error {
			rec, err := r.newRecord(ex.Input)
			if err != nil {
				return err
			}
			if r.beforeCreate != nil {
				if err := r.beforeCreate(ctx, rec); err != nil {
					return err
				}
			}
			if err := r.gateway.Create(ctx, rec); err != nil {
				return err
			}
			ex.Record = rec
			ex.SetRedirect(r.CollectionPath())
			return nil
		},
		pipeline.RedirectView,
	}
}

// Edit fetches the record and renders the populated form; not found fails.
func (r *Resource[T]) Edit() []pipeline.Stage {
	return []pipeline.Stage{r.fetchOne(), r.renderRecord("edit")}
}

// Update shapes the payload into replacement columns, applies them, and
// redirects to the record's detail path.
func (r *Resource[T]) Update() []pipeline.Stage {
	return []pipeline.Stage{
		func(ctx context.Context, ex *pipeline.Exchange) error {
			id, err := r.parseID(ex.ID)
			if err != nil {
				return err
			}
			fields, err := r.updateFields(ex.Input)
			if err != nil {
				return err
			}
			if r.beforeUpdate != nil {
				if err := r.beforeUpdate(ctx, id, fields); err != nil {
					return err
				}
			}
			if err := r.gateway.UpdateByID(ctx, id, fields); err != nil {
				return err
			}
			ex.SetRedirect(r.RecordPath(id))
			return nil
		},
		pipeline.RedirectView,
	}
}

// Delete removes the record and redirects to the collection whether or not the
// record existed; only a storage error fails the action.
func (r *Resource[T]) Delete() []pipeline.Stage {
	return []pipeline.Stage{
		func(ctx context.Context, ex *pipeline.Exchange) error {
			// An unparseable identifier names nothing, which for an
			// idempotent delete is the same as already absent.
			if id, err := uuid.Parse(ex.ID); err == nil {
				if err := r.gateway.DeleteByID(ctx, id); err != nil {
					return err
				}
			}
			ex.SetRedirect(r.CollectionPath())
			return nil
		},
		pipeline.RedirectView,
	}
}

func (r *Resource[T]) fetchOne() pipeline.Stage {
	return func(ctx context.Context, ex *pipeline.Exchange) error {
		id, err := r.parseID(ex.ID)
		if err != nil {
			return err
		}
		rec, err := r.gateway.FindByID(ctx, id)
		if err != nil {
			return err
		}
		ex.Record = rec
		return nil
	}
}

func (r *Resource[T]) parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s id %q", store.ErrNotFound, r.entity, raw)
	}
	return id, nil
}

func (r *Resource[T]) renderCollection(name string) pipeline.Stage {
	return func(_ context.Context, ex *pipeline.Exchange) error {
		ex.Render(r.view(name), map[string]any{r.entity + "s": ex.Collection})
		return nil
	}
}

func (r *Resource[T]) renderRecord(name string) pipeline.Stage {
	return func(_ context.Context, ex *pipeline.Exchange) error {
		ex.Render(r.view(name), map[string]any{r.entity: ex.Record})
		return nil
	}
}

func (r *Resource[T]) view(name string) string {
	return r.entity + "s/" + name
}
