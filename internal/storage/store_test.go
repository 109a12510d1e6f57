package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := Open("remember", path)
	require.NoError(t, err)

	_, ok := store.Get("userId")
	assert.False(t, ok)
	assert.Equal(t, "remember", store.Name())
	assert.DirExists(t, filepath.Dir(path))
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store, err := Open("remember", path)
	require.NoError(t, err)

	store.Set("userId", "42")
	store.Set("theme", "dark")
	require.NoError(t, store.Save())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")

	reopened, err := Open("remember", path)
	require.NoError(t, err)
	value, ok := reopened.Get("userId")
	require.True(t, ok)
	assert.Equal(t, "42", value)

	reopened.Delete("userId")
	require.NoError(t, reopened.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, map[string]string{"theme": "dark"}, store.Snapshot())
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open("prefs", path)
	require.Error(t, err)
}

func TestDiffReportsAddsUpdatesAndDeletes(t *testing.T) {
	t.Parallel()

	changes := diff(
		map[string]string{"theme": "light", "gone": "x"},
		map[string]string{"theme": "dark", "new": "y"},
	)

	require.Len(t, changes, 3)
	assert.Equal(t, Change{Key: "gone", OldValue: "x", Deleted: true}, changes[0])
	assert.Equal(t, Change{Key: "new", NewValue: "y"}, changes[1])
	assert.Equal(t, Change{Key: "theme", OldValue: "light", NewValue: "dark"}, changes[2])
}

func TestWatcherSeesWritesFromAnotherStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	mine, err := Open("prefs", path)
	require.NoError(t, err)
	mine.Set("theme", "light")
	require.NoError(t, mine.Save())

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	other, err := Open("prefs", path)
	require.NoError(t, err)
	other.Set("theme", "dark")
	require.NoError(t, other.Save())

	select {
	case change := <-w.Changes():
		assert.Equal(t, "theme", change.Key)
		assert.Equal(t, "light", change.OldValue)
		assert.Equal(t, "dark", change.NewValue)
	case <-time.After(3 * time.Second):
		t.Fatal("no change observed")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := Watch(filepath.Join(t.TempDir(), "preferences.json"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, open := <-w.Changes()
	assert.False(t, open)
}
