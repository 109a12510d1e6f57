package theme

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/libaas/internal/domain"
	"github.com/alexisbeaulieu97/libaas/internal/storage"
)

type fakeDocument struct {
	mu    sync.Mutex
	dark  bool
	calls int
}

func (d *fakeDocument) SetDark(dark bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dark = dark
	d.calls++
}

func (d *fakeDocument) Dark() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dark
}

type fakeSyncer struct {
	mu    sync.Mutex
	calls []domain.Theme
	users []string
	err   error
}

func (s *fakeSyncer) UpdateTheme(_ context.Context, userID string, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, theme)
	s.users = append(s.users, userID)
	return s.err
}

func (s *fakeSyncer) Calls() []domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Theme(nil), s.calls...)
}

type deadlineSyncer struct {
	mu      sync.Mutex
	bounded []bool
}

func (s *deadlineSyncer) UpdateTheme(ctx context.Context, _ string, _ domain.Theme) error {
	_, ok := ctx.Deadline()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounded = append(s.bounded, ok)
	return nil
}

type staticSessions string

func (s staticSessions) UserID() string { return string(s) }

func openPrefs(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open("prefs", filepath.Join(t.TempDir(), "preferences.json"))
	require.NoError(t, err)
	return store
}

func TestInitPrefersStoredValue(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	prefs.Set(PreferenceKey, "dark")
	doc := &fakeDocument{}

	c := New(Options{Prefs: prefs, Document: doc, SystemPrefersDark: func() bool { return false }})
	assert.False(t, c.Ready())

	assert.Equal(t, domain.ThemeDark, c.Init())
	assert.True(t, c.Ready())
	assert.True(t, doc.Dark())
}

func TestInitFallsBackToSystemPreference(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	prefs.Set(PreferenceKey, "neon")
	doc := &fakeDocument{}

	c := New(Options{Prefs: prefs, Document: doc, SystemPrefersDark: func() bool { return true }})
	assert.Equal(t, domain.ThemeDark, c.Init())

	light := New(Options{Prefs: openPrefs(t), Document: &fakeDocument{}})
	assert.Equal(t, domain.ThemeLight, light.Init())
}

func TestToggleTwiceRestoresState(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	doc := &fakeDocument{}
	c := New(Options{Prefs: prefs, Document: doc})
	c.Init()

	assert.Equal(t, domain.ThemeDark, c.Toggle())
	stored, _ := prefs.Get(PreferenceKey)
	assert.Equal(t, "dark", stored)
	assert.True(t, doc.Dark())

	assert.Equal(t, domain.ThemeLight, c.Toggle())
	stored, _ = prefs.Get(PreferenceKey)
	assert.Equal(t, "light", stored)
	assert.False(t, doc.Dark())

	require.NoError(t, prefs.Load())
	stored, _ = prefs.Get(PreferenceKey)
	assert.Equal(t, "light", stored, "preference is saved to disk")
}

func TestConcurrentTogglesPairUp(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	doc := &fakeDocument{}
	c := New(Options{Prefs: prefs, Document: doc})
	c.Init()

	var wg sync.WaitGroup
	results := make(chan domain.Theme, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- c.Toggle()
		}()
	}
	wg.Wait()
	close(results)

	dark := 0
	for theme := range results {
		if theme == domain.ThemeDark {
			dark++
		}
	}
	assert.Equal(t, 4, dark, "each toggle sees the previous one")
	assert.Equal(t, domain.ThemeLight, c.Theme())
	assert.False(t, doc.Dark())
	stored, _ := prefs.Get(PreferenceKey)
	assert.Equal(t, "light", stored)
}

func TestToggleSyncsWhenSignedIn(t *testing.T) {
	t.Parallel()

	syncer := &fakeSyncer{}
	c := New(Options{Prefs: openPrefs(t), Document: &fakeDocument{}, Syncer: syncer, Sessions: staticSessions("u1")})
	c.Init()

	c.Toggle()
	c.Wait()

	assert.Equal(t, []domain.Theme{domain.ThemeDark}, syncer.Calls())
	assert.Equal(t, []string{"u1"}, syncer.users)
}

func TestToggleSkipsSyncForPlaceholderUser(t *testing.T) {
	t.Parallel()

	syncer := &fakeSyncer{}
	for _, id := range []string{"", "null", "undefined"} {
		c := New(Options{Prefs: openPrefs(t), Document: &fakeDocument{}, Syncer: syncer, Sessions: staticSessions(id)})
		c.Init()
		c.Toggle()
		c.Wait()
	}
	assert.Empty(t, syncer.Calls())
}

func TestSyncFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	doc := &fakeDocument{}
	syncer := &fakeSyncer{err: errors.New("offline")}
	c := New(Options{Prefs: prefs, Document: doc, Syncer: syncer, Sessions: staticSessions("u1")})
	c.Init()

	c.Toggle()
	c.Wait()

	assert.Equal(t, domain.ThemeDark, c.Theme())
	assert.True(t, doc.Dark())
	stored, _ := prefs.Get(PreferenceKey)
	assert.Equal(t, "dark", stored)
}

func TestAdoptAppliesWithoutSyncOrWrite(t *testing.T) {
	t.Parallel()

	prefs := openPrefs(t)
	doc := &fakeDocument{}
	syncer := &fakeSyncer{}
	c := New(Options{Prefs: prefs, Document: doc, Syncer: syncer, Sessions: staticSessions("u1")})
	c.Init()

	assert.True(t, c.Adopt("dark"))
	c.Wait()

	assert.Equal(t, domain.ThemeDark, c.Theme())
	assert.True(t, doc.Dark())
	assert.Empty(t, syncer.Calls())
	_, written := prefs.Get(PreferenceKey)
	assert.False(t, written)

	assert.False(t, c.Adopt("mauve"))
	assert.Equal(t, domain.ThemeDark, c.Theme())
}

func TestWatchAdoptsChangesFromAnotherInstance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preferences.json")
	prefs, err := storage.Open("prefs", path)
	require.NoError(t, err)

	doc := &fakeDocument{}
	c := New(Options{Prefs: prefs, Document: doc})
	c.Init()
	updates := c.Subscribe()

	watcher, err := storage.Watch(path)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Watch(ctx, watcher.Changes())

	other, err := storage.Open("prefs", path)
	require.NoError(t, err)
	other.Set(PreferenceKey, "dark")
	require.NoError(t, other.Save())

	select {
	case got := <-updates:
		assert.Equal(t, domain.ThemeDark, got)
	case <-time.After(3 * time.Second):
		t.Fatal("theme change from another instance was not adopted")
	}
	assert.True(t, doc.Dark())
}

func TestWatchIgnoresOtherKeys(t *testing.T) {
	t.Parallel()

	c := New(Options{Document: &fakeDocument{}})
	c.Init()

	changes := make(chan storage.Change, 2)
	changes <- storage.Change{Key: "language", NewValue: "dark"}
	changes <- storage.Change{Key: PreferenceKey, Deleted: true}
	close(changes)

	c.Watch(context.Background(), changes)
	assert.Equal(t, domain.ThemeLight, c.Theme())
}

func TestSyncTimeoutOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	unbounded := &deadlineSyncer{}
	c := New(Options{Prefs: openPrefs(t), Sessions: staticSessions("7"), Syncer: unbounded})
	c.Init()
	c.Toggle()
	c.Wait()
	assert.Equal(t, []bool{false}, unbounded.bounded)

	bounded := &deadlineSyncer{}
	c = New(Options{Prefs: openPrefs(t), Sessions: staticSessions("7"), Syncer: bounded, SyncTimeout: time.Minute})
	c.Init()
	c.Toggle()
	c.Wait()
	assert.Equal(t, []bool{true}, bounded.bounded)
}
