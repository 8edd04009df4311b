package persistence

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var (
	ErrNoDocument   = errors.New("no document matched the filter")
	ErrDuplicateKey = errors.New("duplicate key")
)

// UpdateResult mirrors the matched/modified counters document stores report.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// DocumentStore is the minimal surface the repositories need from a
// document database. Filters are top-level equality matches. Returned
// documents never carry the store's own record identifier.
type DocumentStore interface {
	InsertOne(ctx context.Context, collection string, doc document.Document) error
	FindOne(ctx context.Context, collection string, filter document.Document) (document.Document, error)
	FindAll(ctx context.Context, collection string) ([]document.Document, error)
	// UpdateOne applies set to the first match with merge semantics.
	UpdateOne(ctx context.Context, collection string, filter, set document.Document) (UpdateResult, error)
	EnsureUnique(ctx context.Context, collection, field string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// OpenStore connects the store selected by cfg.Store.Driver.
func OpenStore(ctx context.Context, cfg config.Config, log logger.Logger) (DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg, log)
	case config.DriverPostgres:
		pool, err := NewPostgresPool(cfg, log)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, log), nil
	case config.DriverMemory:
		log.Warn("Using in-memory document store, data is lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// EnsureIndexes creates the indexes the domain relies on.
func EnsureIndexes(ctx context.Context, store DocumentStore) error {
	if err := store.EnsureUnique(ctx, "users", "email"); err != nil {
		return errors.Wrap(err, "ensure unique users.email")
	}
	return nil
}
