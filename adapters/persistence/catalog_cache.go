package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/domain/catalog"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const catalogKeyPrefix = "catalog:"

// cachedCatalogRepo is a read-through cache in front of a catalog
// repository. Snapshots live under catalog:<collection>:<generation>; Save
// bumps catalog:<collection>:gen, so a List that loaded before the bump
// can only write a key nobody reads any more. Redis failures are logged
// and fall through to the store.
type cachedCatalogRepo[T catalog.Entry] struct {
	inner  catalog.Repository[T]
	rdb    *redis.Client
	kind   catalog.Kind[T]
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedCatalogRepo wraps inner; with a nil client it returns inner as is.
func NewCachedCatalogRepo[T catalog.Entry](inner catalog.Repository[T], rdb *redis.Client, kind catalog.Kind[T], ttl time.Duration, log logger.Logger) catalog.Repository[T] {
	if rdb == nil {
		return inner
	}
	return &cachedCatalogRepo[T]{inner: inner, rdb: rdb, kind: kind, ttl: ttl, logger: log}
}

func (r *cachedCatalogRepo[T]) genKey() string {
	return catalogKeyPrefix + r.kind.Collection + ":gen"
}

func (r *cachedCatalogRepo[T]) snapshotKey(gen int64) string {
	return fmt.Sprintf("%s%s:%d", catalogKeyPrefix, r.kind.Collection, gen)
}

func (r *cachedCatalogRepo[T]) generation(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, r.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *cachedCatalogRepo[T]) Save(ctx context.Context, item T) error {
	if err := r.inner.Save(ctx, item); err != nil {
		return err
	}
	if err := r.rdb.Incr(ctx, r.genKey()).Err(); err != nil {
		r.logger.Warn("Failed to invalidate catalog cache", zap.String("key", r.genKey()), zap.Error(err))
	}
	return nil
}

func (r *cachedCatalogRepo[T]) List(ctx context.Context) ([]T, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.Warn("Catalog cache read failed", zap.String("key", r.genKey()), zap.Error(err))
		return r.inner.List(ctx)
	}
	key := r.snapshotKey(gen)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var docs []document.Document
		if err := json.Unmarshal(raw, &docs); err == nil {
			items := make([]T, len(docs))
			for i, d := range docs {
				items[i] = r.kind.Decode(d)
			}
			return items, nil
		}
		r.logger.Warn("Discarding unreadable catalog cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	items, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]document.Document, len(items))
	for i, item := range items {
		docs[i] = item.Document()
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		r.logger.Warn("Failed to encode catalog cache entry", zap.String("key", key), zap.Error(err))
		return items, nil
	}
	if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}
