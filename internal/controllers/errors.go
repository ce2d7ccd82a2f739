package controllers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/confettischool/backend/internal/linker"
	"github.com/confettischool/backend/internal/pipeline"
	"github.com/confettischool/backend/internal/store"
)

// ReportError is the single shared error stage. It logs the failure with the
// context needed to diagnose it and settles the exchange with the failure
// kind; mapping kinds to HTTP statuses belongs to the presentation layer.
func ReportError(logger *slog.Logger) pipeline.ErrorStage {
	return func(_ context.Context, ex *pipeline.Exchange, err error) {
		kind := Classify(err)
		logger.Error("action failed",
			"entity", ex.Entity,
			"action", ex.Action,
			"record_id", ex.ID,
			"kind", string(kind),
			"error", err.Error(),
		)
		ex.Fail(kind, err)
	}
}

// Classify maps a stage error onto the closed set of failure kinds.
func Classify(err error) pipeline.FailKind {
	var lookupErr *linker.LookupError
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &lookupErr):
		return pipeline.FailLookup
	case errors.Is(err, store.ErrNotFound):
		return pipeline.FailNotFound
	case errors.As(err, &validationErr):
		return pipeline.FailValidation
	default:
		return pipeline.FailPersistence
	}
}
