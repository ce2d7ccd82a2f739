// Package linker implements the subscriber auto-association rule: a User being
// saved picks up the Subscriber account that shares its email address.
package linker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/confettischool/backend/internal/models"
	"github.com/confettischool/backend/internal/store"
)

// LookupError means the subscriber search itself failed, as opposed to simply
// finding nothing. A save gated by the linker must not proceed past one.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return "subscriber lookup failed: " + e.Err.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

type Linker struct {
	subscribers store.Gateway[models.Subscriber]
}

func New(subscribers store.Gateway[models.Subscriber]) *Linker {
	return &Linker{subscribers: subscribers}
}

// LinkSubscriber fills user.SubscribedAccountID from the subscriber sharing the
// user's email. It must run before the user row is written:
//   - an existing link is never overwritten, and costs zero lookups
//   - no matching subscriber is a normal outcome, the link stays unset
//   - a failed lookup aborts the save so the user is never committed with a
//     half-decided link
func (l *Linker) LinkSubscriber(ctx context.Context, user *models.User) error {
	if user.SubscribedAccountID != nil {
		return nil
	}
	sub, err := l.subscribers.FindOneByField(ctx, "email", user.Email)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("no subscriber account to link", "email", user.Email)
		return nil
	}
	if err != nil {
		return &LookupError{Err: err}
	}
	user.SubscribedAccountID = &sub.ID
	return nil
}
