package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	classes := map[string]string{
		"Node":    "https://docs.godotengine.org/en/3.5/classes/class_node.html",
		"Vector2": "https://docs.godotengine.org/en/3.5/classes/class_vector2.html",
	}
	require.NoError(t, store.SaveClasses(ctx, "3.5", classes))

	loaded, err := store.LoadClasses(ctx, "3.5")
	require.NoError(t, err)
	assert.Equal(t, classes, loaded)
}

func TestStore_VersionsAreIsolated(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveClasses(ctx, "3.4", map[string]string{"Node": "a"}))
	require.NoError(t, store.SaveClasses(ctx, "3.5", map[string]string{"Node": "b"}))

	loaded, err := store.LoadClasses(ctx, "3.4")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Node": "a"}, loaded)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveClasses(ctx, "3.5", map[string]string{"Old": "x", "Node": "y"}))
	require.NoError(t, store.SaveClasses(ctx, "3.5", map[string]string{"Node": "z"}))

	loaded, err := store.LoadClasses(ctx, "3.5")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Node": "z"}, loaded)
}

func TestStore_LoadUnknownVersion(t *testing.T) {
	store := testStore(t)

	loaded, err := store.LoadClasses(context.Background(), "3.2")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
