package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/events"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
)

type fixture struct {
	repo     *Repository
	remember *storage.Store
	scoped   *storage.Store
	bus      *events.Bus
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	dir := t.TempDir()
	remember, err := storage.Open("remember", filepath.Join(dir, "home", "session.json"))
	require.NoError(t, err)
	scoped, err := storage.Open("session", filepath.Join(dir, "run", "session.json"))
	require.NoError(t, err)

	bus := events.NewBus()
	return fixture{
		repo:     NewRepository(remember, scoped, bus, nil),
		remember: remember,
		scoped:   scoped,
		bus:      bus,
	}
}

func TestCurrentWithEmptyStores(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, ok := f.repo.Current()
	assert.False(t, ok)
	assert.Equal(t, "", f.repo.UserID())
}

func TestPlaceholderIDsAreIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.remember.Set("userId", "undefined")
	f.scoped.Set("userId", "null")

	_, ok := f.repo.Current()
	assert.False(t, ok)
}

func TestRememberStoreTakesPrecedence(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.remember.Set("userId", "persistent")
	f.scoped.Set("userId", "scoped")
	f.scoped.Set("user", `{"id":"scoped","name":"Zara"}`)

	sess, ok := f.repo.Current()
	require.True(t, ok)
	assert.Equal(t, "persistent", sess.UserID)
	assert.Equal(t, "Zara", sess.CachedName, "cached user is read from either store")
}

func TestSignInWritesChosenStoreAndPublishes(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	changes, stop := f.bus.Subscribe(events.TopicAuthChange)
	defer stop()

	require.NoError(t, f.repo.SignIn(domain.Session{UserID: "7", CachedName: "Hina"}, false))

	_, inRemember := f.remember.Get("userId")
	assert.False(t, inRemember)
	id, inScoped := f.scoped.Get("userId")
	require.True(t, inScoped)
	assert.Equal(t, "7", id)
	assert.Len(t, changes, 1)

	require.NoError(t, f.repo.SignIn(domain.Session{UserID: "8"}, true))
	_, stillScoped := f.scoped.Get("userId")
	assert.False(t, stillScoped, "switching to a remembered sign-in clears the scoped one")
	assert.Equal(t, "8", f.repo.UserID())
}

func TestSignInRejectsPlaceholder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.Error(t, f.repo.SignIn(domain.Session{UserID: "null"}, true))
}

func TestUpdateCacheTargetsOwningStore(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	require.NoError(t, f.repo.SignIn(domain.Session{UserID: "9", CachedName: "Old"}, true))
	require.NoError(t, f.repo.UpdateCache("New", "https://cdn/x.png"))

	sess, ok := f.repo.Current()
	require.True(t, ok)
	assert.Equal(t, "New", sess.CachedName)
	assert.Equal(t, "https://cdn/x.png", sess.CachedImageURL)

	_, scopedUser := f.scoped.Get("user")
	assert.False(t, scopedUser)
}

func TestSignOutClearsBothStores(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.remember.Set("userId", "1")
	f.remember.Set("user", `{"id":"1"}`)
	f.scoped.Set("userId", "2")
	changes, stop := f.bus.Subscribe(events.TopicAuthChange)
	defer stop()

	require.NoError(t, f.repo.SignOut())

	_, ok := f.repo.Current()
	assert.False(t, ok)
	assert.Empty(t, f.remember.Snapshot())
	assert.Empty(t, f.scoped.Snapshot())
	assert.Len(t, changes, 1)

	require.NoError(t, f.remember.Load())
	assert.Empty(t, f.remember.Snapshot(), "sign-out is persisted")
}

func TestReloadPicksUpOtherProcessSignIn(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	other, err := storage.Open("remember", f.remember.Path())
	require.NoError(t, err)
	other.Set("userId", "55")
	require.NoError(t, other.Save())

	assert.Equal(t, "", f.repo.UserID())
	f.repo.Reload()
	assert.Equal(t, "55", f.repo.UserID())
}
