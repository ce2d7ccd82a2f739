package controllers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confettischool/backend/internal/linker"
	"github.com/confettischool/backend/internal/models"
	"github.com/confettischool/backend/internal/pipeline"
	"github.com/confettischool/backend/internal/store"
)

func runStages(t *testing.T, ex *pipeline.Exchange, stages []pipeline.Stage) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipeline.Run(context.Background(), ex, ReportError(logger), stages...)
}

func subscriberResource() (*Resource[models.Subscriber], *store.MemoryStore[models.Subscriber]) {
	mem := store.NewMemoryStore[models.Subscriber]("email")
	return NewSubscribers(mem, "/api/subscribers"), mem
}

func TestSubscriberCreateRedirectsToCollection(t *testing.T) {
	res, mem := subscriberResource()

	ex := pipeline.NewExchange("subscriber", "create", "", map[string]string{
		"name": "Ann", "email": "ann@x.com", "zipCode": "30301",
	})
	runStages(t, ex, res.Create())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)
	assert.Equal(t, "/api/subscribers", ex.Terminal().Path)

	stored, err := mem.FindOneByField(context.Background(), "email", "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, 30301, stored.ZipCode)
}

func TestSubscriberCreateDuplicateEmail(t *testing.T) {
	res, mem := subscriberResource()
	ctx := context.Background()

	first := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, mem.Create(ctx, first))

	ex := pipeline.NewExchange("subscriber", "create", "", map[string]string{
		"name": "Imposter", "email": "ann@x.com", "zipCode": "10000",
	})
	runStages(t, ex, res.Create())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalFail, ex.Terminal().Kind)
	assert.Equal(t, pipeline.FailValidation, ex.Terminal().FailKind)

	// the first subscriber is unaffected
	stored, err := mem.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", stored.Name)
}

func TestSubscriberShowNotFound(t *testing.T) {
	res, _ := subscriberResource()

	ex := pipeline.NewExchange("subscriber", "show", uuid.NewString(), nil)
	runStages(t, ex, res.Show())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalFail, ex.Terminal().Kind)
	assert.Equal(t, pipeline.FailNotFound, ex.Terminal().FailKind)
}

func TestSubscriberUpdateRedirectsToRecord(t *testing.T) {
	res, mem := subscriberResource()
	ctx := context.Background()

	rec := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, mem.Create(ctx, rec))

	ex := pipeline.NewExchange("subscriber", "update", rec.ID.String(), map[string]string{
		"zipCode": "10000",
	})
	runStages(t, ex, res.Update())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)
	assert.Equal(t, "/api/subscribers/"+rec.ID.String(), ex.Terminal().Path)

	stored, err := mem.FindByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 10000, stored.ZipCode)
	assert.Equal(t, "Ann", stored.Name, "update replaces only the given fields")
}

func TestCourseDeleteIsIdempotent(t *testing.T) {
	mem := store.NewMemoryStore[models.Course]("title")
	res := NewCourses(mem, "/api/courses")

	ex := pipeline.NewExchange("course", "delete", uuid.NewString(), nil)
	runStages(t, ex, res.Delete())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)
	assert.Equal(t, "/api/courses", ex.Terminal().Path)
}

func TestIndexRendersCollection(t *testing.T) {
	res, mem := subscriberResource()
	ctx := context.Background()
	require.NoError(t, mem.Create(ctx, &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}))

	ex := pipeline.NewExchange("subscriber", "index", "", nil)
	runStages(t, ex, res.Index())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalRender, ex.Terminal().Kind)
	assert.Equal(t, "subscribers/index", ex.Terminal().View)

	data, ok := ex.Terminal().Data.(map[string]any)
	require.True(t, ok)
	subscribers, ok := data["subscribers"].([]models.Subscriber)
	require.True(t, ok)
	assert.Len(t, subscribers, 1)
}

// --- user flows through the linker ---

type failingLookup struct {
	store.Gateway[models.Subscriber]
}

func (failingLookup) FindOneByField(context.Context, string, any) (*models.Subscriber, error) {
	return nil, errors.New("connection refused")
}

func userFixture(subGw store.Gateway[models.Subscriber]) (*Resource[models.User], *store.MemoryStore[models.User]) {
	users := store.NewMemoryStore[models.User]("email", "username")
	return NewUsers(users, linker.New(subGw), "/api/users"), users
}

func TestUserCreateLinksMatchingSubscriber(t *testing.T) {
	ctx := context.Background()
	subs := store.NewMemoryStore[models.Subscriber]("email")
	ann := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, subs.Create(ctx, ann))

	res, users := userFixture(subs)

	ex := pipeline.NewExchange("user", "create", "", map[string]string{
		"email": "ann@x.com", "username": "ann1", "password": "p",
	})
	runStages(t, ex, res.Create())

	require.NotNil(t, ex.Terminal())
	require.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)

	stored, err := users.FindOneByField(ctx, "email", "ann@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored.SubscribedAccountID)
	assert.Equal(t, ann.ID, *stored.SubscribedAccountID)
}

func TestUserCreateWithoutSubscriberLeavesLinkUnset(t *testing.T) {
	res, users := userFixture(store.NewMemoryStore[models.Subscriber]("email"))

	ex := pipeline.NewExchange("user", "create", "", map[string]string{
		"email": "solo@x.com", "username": "solo", "password": "p",
	})
	runStages(t, ex, res.Create())

	require.NotNil(t, ex.Terminal())
	require.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)

	stored, err := users.FindOneByField(context.Background(), "email", "solo@x.com")
	require.NoError(t, err)
	assert.Nil(t, stored.SubscribedAccountID)
}

func TestUserCreateAbortsWhenLookupFails(t *testing.T) {
	res, users := userFixture(failingLookup{})

	ex := pipeline.NewExchange("user", "create", "", map[string]string{
		"email": "ann@x.com", "username": "ann1", "password": "p",
	})
	runStages(t, ex, res.Create())

	require.NotNil(t, ex.Terminal())
	assert.Equal(t, pipeline.TerminalFail, ex.Terminal().Kind)
	assert.Equal(t, pipeline.FailLookup, ex.Terminal().FailKind)

	// the write must not have happened
	all, err := users.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "user must not be committed after a failed lookup")
}

func TestUserUpdateKeepsExistingLink(t *testing.T) {
	ctx := context.Background()
	subs := store.NewMemoryStore[models.Subscriber]("email")
	other := &models.Subscriber{ID: uuid.New(), Name: "Other", Email: "ann@x.com", ZipCode: 10000}
	require.NoError(t, subs.Create(ctx, other))

	res, users := userFixture(subs)

	linked := uuid.New()
	user := &models.User{
		ID: uuid.New(), Email: "ann@x.com", Username: "ann1",
		PasswordHash: "x", SubscribedAccountID: &linked,
	}
	require.NoError(t, users.Create(ctx, user))

	ex := pipeline.NewExchange("user", "update", user.ID.String(), map[string]string{
		"phoneNumber": "555-0101",
	})
	runStages(t, ex, res.Update())

	require.NotNil(t, ex.Terminal())
	require.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubscribedAccountID)
	assert.Equal(t, linked, *stored.SubscribedAccountID, "saving again never changes an existing link")
	assert.Equal(t, "555-0101", stored.PhoneNumber)
}

func TestUserUpdateGainsLink(t *testing.T) {
	ctx := context.Background()
	subs := store.NewMemoryStore[models.Subscriber]("email")
	ann := &models.Subscriber{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", ZipCode: 30301}
	require.NoError(t, subs.Create(ctx, ann))

	res, users := userFixture(subs)

	user := &models.User{ID: uuid.New(), Email: "old@x.com", Username: "ann1", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, user))

	ex := pipeline.NewExchange("user", "update", user.ID.String(), map[string]string{
		"email": "ann@x.com",
	})
	runStages(t, ex, res.Update())

	require.NotNil(t, ex.Terminal())
	require.Equal(t, pipeline.TerminalRedirect, ex.Terminal().Kind)

	stored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubscribedAccountID)
	assert.Equal(t, ann.ID, *stored.SubscribedAccountID)
}
