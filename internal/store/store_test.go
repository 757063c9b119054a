package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erguvanco/ecm-mrv-sub003/internal/store"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

// Every backend must satisfy the engine's persistence port and the CLI's
// Lister.
var (
	_ wizard.Store = (*store.FileStore)(nil)
	_ wizard.Store = (*store.SQLiteStore)(nil)
	_ wizard.Store = (*store.MemoryStore)(nil)

	_ store.Lister = (*store.FileStore)(nil)
	_ store.Lister = (*store.SQLiteStore)(nil)
	_ store.Lister = (*store.MemoryStore)(nil)
)

// backend bundles a Store+Lister for the shared conformance tests.
type backend interface {
	wizard.Store
	store.Lister
}

// openBackends constructs one of each backend rooted in temp storage.
func openBackends(t *testing.T) map[string]backend {
	t.Helper()

	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := store.OpenSQLite(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() }) //nolint:errcheck

	return map[string]backend{
		"file":   fileStore,
		"sqlite": sqliteStore,
		"memory": store.NewMemoryStore(),
	}
}

func TestBackends_GetSetDeleteRoundTrip(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			// Missing key.
			_, ok, err := b.Get("feedstock")
			require.NoError(t, err)
			assert.False(t, ok)

			// Write and read back.
			require.NoError(t, b.Set("feedstock", []byte(`{"x":1}`)))
			value, ok, err := b.Get("feedstock")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte(`{"x":1}`), value)

			// Overwrite.
			require.NoError(t, b.Set("feedstock", []byte(`{"x":2}`)))
			value, ok, err = b.Get("feedstock")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte(`{"x":2}`), value)

			// Delete, including a second delete of the now-missing key.
			require.NoError(t, b.Delete("feedstock"))
			_, ok, err = b.Get("feedstock")
			require.NoError(t, err)
			assert.False(t, ok)
			require.NoError(t, b.Delete("feedstock"))
		})
	}
}

func TestBackends_List(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			keys, err := b.List()
			require.NoError(t, err)
			assert.Empty(t, keys)

			require.NoError(t, b.Set("sequestration", []byte("s")))
			require.NoError(t, b.Set("feedstock", []byte("f")))
			require.NoError(t, b.Set("production", []byte("p")))

			keys, err = b.List()
			require.NoError(t, err)
			assert.Equal(t, []string{"feedstock", "production", "sequestration"}, keys)
		})
	}
}

func TestBackends_RejectInvalidKeys(t *testing.T) {
	for name, b := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "a/b", ".hidden", "sp ace"} {
				assert.ErrorIs(t, b.Set(key, []byte("v")), store.ErrInvalidKey, "key %q", key)
				_, _, err := b.Get(key)
				assert.ErrorIs(t, err, store.ErrInvalidKey, "key %q", key)
				assert.ErrorIs(t, b.Delete(key), store.ErrInvalidKey, "key %q", key)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"feedstock", "production-2026", "b.atch_01"} {
		assert.NoError(t, store.ValidateKey(key), "key %q", key)
	}
	for _, key := range []string{"", "-lead", ".lead", "a b", "a/b", "a\\b"} {
		assert.Error(t, store.ValidateKey(key), "key %q", key)
	}
}
