package pypage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories builds each TemplateStore implementation for shared contract tests
func storeFactories(t *testing.T) map[string]func() TemplateStore {
	return map[string]func() TemplateStore{
		StoreDriverNameMemory: func() TemplateStore {
			return NewMemoryStore()
		},
		StoreDriverNameFilesystem: func() TemplateStore {
			store, err := NewFilesystemStore(t.TempDir())
			require.NoError(t, err)
			return store
		},
		"cached": func() TemplateStore {
			return NewCachedStore(NewMemoryStore(), DefaultCacheConfig())
		},
	}
}

func TestTemplateStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			_, err := store.Get(ctx, "missing.txt")
			assert.True(t, errors.Is(err, ErrTemplateNotFound))

			exists, err := store.Exists(ctx, "missing.txt")
			require.NoError(t, err)
			assert.False(t, exists)

			tmpl := &StoredTemplate{Name: "pages/index.txt", Source: "Hello {{ name }}"}
			require.NoError(t, store.Save(ctx, tmpl))
			assert.False(t, tmpl.UpdatedAt.IsZero())
			require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "a.txt", Source: "a"}))

			got, err := store.Get(ctx, "pages/index.txt")
			require.NoError(t, err)
			assert.Equal(t, "Hello {{ name }}", got.Source)
			assert.Equal(t, "pages/index.txt", got.Name)

			names, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.txt", "pages/index.txt"}, names)

			require.NoError(t, store.Delete(ctx, "a.txt"))
			assert.True(t, errors.Is(store.Delete(ctx, "a.txt"), ErrTemplateNotFound))

			require.NoError(t, store.Close())
			_, err = store.Get(ctx, "pages/index.txt")
			assert.True(t, errors.Is(err, ErrStoreClosed))
		})
	}
}

func TestTemplateStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()

			_, err := store.Get(ctx, "x")
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestMemoryStore_RejectsEmptyName(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.Save(context.Background(), &StoredTemplate{Source: "x"}))
	assert.Error(t, store.Save(context.Background(), nil))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, &StoredTemplate{Name: "t", Source: "original"}))

	got, err := store.Get(ctx, "t")
	require.NoError(t, err)
	got.Source = "mutated"

	again, err := store.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Source)
}

func TestFilesystemStore_Names(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystemStore(root)
	require.NoError(t, err)

	invalid := []string{"", "../escape.txt", "a/../../b", "/abs.txt", "bad:name", "a\\b"}
	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, name)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrTemplateNotFound))
		})
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "outside.txt"), []byte("x"), FilesystemFilePermissions))
	got, err := store.Get(ctx, "./outside.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", got.Source)
}

func TestFilesystemStore_DirectoryIsNotATemplate(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), FilesystemDirPermissions))

	store, err := NewFilesystemStore(root)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "dir")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}

func TestNewFilesystemStore_EmptyRoot(t *testing.T) {
	_, err := NewFilesystemStore("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgInvalidStoreRoot)
}

func TestOpenStore(t *testing.T) {
	assert.Contains(t, ListStoreDrivers(), StoreDriverNameMemory)
	assert.Contains(t, ListStoreDrivers(), StoreDriverNameFilesystem)

	store, err := OpenStore(StoreDriverNameMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = OpenStore(StoreDriverNameFilesystem, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStore{}, store)

	_, err = OpenStore("nope", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgStoreDriverNotFound)
}

func TestRegisterStoreDriver_Panics(t *testing.T) {
	assert.Panics(t, func() { RegisterStoreDriver("nil-driver", nil) })
	assert.Panics(t, func() { RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{}) })
}

// countingStore counts Get calls that reach the wrapped store
type countingStore struct {
	TemplateStore
	gets int
}

func (c *countingStore) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	c.gets++
	return c.TemplateStore.Get(ctx, name)
}

func TestCachedStore_Caching(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{TemplateStore: NewMemoryStore()}
	cached := NewCachedStore(backing, DefaultCacheConfig())

	require.NoError(t, cached.Save(ctx, &StoredTemplate{Name: "t", Source: "v1"}))

	for i := 0; i < 3; i++ {
		got, err := cached.Get(ctx, "t")
		require.NoError(t, err)
		assert.Equal(t, "v1", got.Source)
	}
	assert.Equal(t, 1, backing.gets)

	require.NoError(t, cached.Save(ctx, &StoredTemplate{Name: "t", Source: "v2"}))
	got, err := cached.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Source)
	assert.Equal(t, 2, backing.gets)

	_, err = cached.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	_, err = cached.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
	assert.Equal(t, 3, backing.gets)

	stats := cached.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 1, stats.NegativeEntries)

	cached.InvalidateAll()
	assert.Equal(t, 0, cached.Stats().Entries)
}

func TestCachedStore_TTLAndEviction(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{TemplateStore: NewMemoryStore()}
	cached := NewCachedStore(backing, CacheConfig{TTL: 10 * time.Millisecond, MaxEntries: 2})

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, backing.Save(ctx, &StoredTemplate{Name: name, Source: name}))
	}

	for _, name := range []string{"a", "b", "c"} {
		_, err := cached.Get(ctx, name)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cached.Stats().Entries)

	time.Sleep(20 * time.Millisecond)
	before := backing.gets
	_, err := cached.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, before+1, backing.gets)
}
