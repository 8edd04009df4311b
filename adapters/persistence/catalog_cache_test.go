package persistence

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/internal/domain/playlist"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

func newCachedPlaylists(t *testing.T) (*MemoryStore, *miniredis.Miniredis, *cachedCatalogRepo[*playlist.Playlist]) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := NewMemoryStore()
	repo := NewCachedCatalogRepo(NewPlaylistRepo(store), rdb, playlist.Kind, time.Minute, logger.NewNop())
	cached, ok := repo.(*cachedCatalogRepo[*playlist.Playlist])
	require.True(t, ok)
	return store, mr, cached
}

func mustPlaylist(t *testing.T, name string) *playlist.Playlist {
	t.Helper()
	p, err := playlist.Kind.New(document.Document{"name": name, "description": "d"})
	require.NoError(t, err)
	return p
}

func TestCachedCatalogRepo_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store, mr, repo := newCachedPlaylists(t)

	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "Morning focus")))
	assert.False(t, mr.Exists("catalog:playlists:1"))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, mr.Exists("catalog:playlists:1"))
	assert.Equal(t, time.Minute, mr.TTL("catalog:playlists:1"))

	// written behind the cache's back: a hit does not see it
	require.NoError(t, store.InsertOne(ctx, playlist.Collection, document.Document{"name": "Hidden", "description": "d"}))
	items, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCachedCatalogRepo_SaveInvalidates(t *testing.T) {
	ctx := context.Background()
	_, mr, repo := newCachedPlaylists(t)

	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "One")))
	_, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "Two")))
	gen, err := mr.Get("catalog:playlists:gen")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
	assert.False(t, mr.Exists("catalog:playlists:2"))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Two", items[1].Name)
}

func TestCachedCatalogRepo_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	_, mr, repo := newCachedPlaylists(t)
	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "One")))

	mr.Close()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "Two")))
}

func TestCachedCatalogRepo_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	_, mr, repo := newCachedPlaylists(t)
	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "One")))
	require.NoError(t, mr.Set("catalog:playlists:1", "{not json"))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNewCachedCatalogRepo_NilClient(t *testing.T) {
	inner := NewPlaylistRepo(NewMemoryStore())
	assert.Equal(t, inner, NewCachedCatalogRepo(inner, nil, playlist.Kind, time.Minute, logger.NewNop()))
}

// pausingRepo holds its first List after the store read until released.
type pausingRepo[T catalog.Entry] struct {
	catalog.Repository[T]
	armed   atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func (r *pausingRepo[T]) List(ctx context.Context) ([]T, error) {
	items, err := r.Repository.List(ctx)
	if r.armed.CompareAndSwap(true, false) {
		close(r.loaded)
		<-r.release
	}
	return items, err
}

func TestCachedCatalogRepo_SlowListDoesNotHideConcurrentSave(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &pausingRepo[*playlist.Playlist]{
		Repository: NewPlaylistRepo(NewMemoryStore()),
		loaded:     make(chan struct{}),
		release:    make(chan struct{}),
	}
	inner.armed.Store(true)
	repo := NewCachedCatalogRepo[*playlist.Playlist](inner, rdb, playlist.Kind, time.Minute, logger.NewNop())

	done := make(chan []*playlist.Playlist)
	go func() {
		items, _ := repo.List(ctx)
		done <- items
	}()

	<-inner.loaded
	require.NoError(t, repo.Save(ctx, mustPlaylist(t, "Late add")))
	close(inner.release)
	assert.Empty(t, <-done)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Late add", items[0].Name)
}
