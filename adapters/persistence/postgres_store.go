package persistence

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

const pgUniqueViolation = "23505"

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// postgresStore keeps each collection in its own table as JSONB rows:
// (id uuid, doc jsonb, created_at). Tables are created on first use.
type postgresStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
	tables sync.Map
}

func NewPostgresStore(db *pgxpool.Pool, log logger.Logger) DocumentStore {
	return &postgresStore{db: db, logger: log}
}

func (s *postgresStore) table(ctx context.Context, collection string) (string, error) {
	if !identifierPattern.MatchString(collection) {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	name := pgx.Identifier{collection}.Sanitize()
	if _, ok := s.tables.Load(collection); ok {
		return name, nil
	}

	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			doc JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, name)
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return "", errors.Wrapf(err, "create table %s", collection)
	}
	s.tables.Store(collection, struct{}{})
	s.logger.Debug("Ensured document table", zap.String("collection", collection))
	return name, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (s *postgresStore) InsertOne(ctx context.Context, collection string, doc document.Document) error {
	tbl, err := s.table(ctx, collection)
	if err != nil {
		return err
	}

	query, args, err := psql.Insert(tbl).
		Columns("id", "doc").
		Values(uuid.New(), map[string]any(doc)).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert query")
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return errors.Wrapf(err, "insert into %s", collection)
	}
	return nil
}

func (s *postgresStore) FindOne(ctx context.Context, collection string, filter document.Document) (document.Document, error) {
	tbl, err := s.table(ctx, collection)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("doc").
		From(tbl).
		Where("doc @> ?::jsonb", map[string]any(filter)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build find query")
	}

	var doc map[string]any
	if err := s.db.QueryRow(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, errors.Wrapf(err, "find one in %s", collection)
	}
	return document.Document(doc), nil
}

func (s *postgresStore) FindAll(ctx context.Context, collection string) ([]document.Document, error) {
	tbl, err := s.table(ctx, collection)
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select("doc").From(tbl).OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list query")
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", collection)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowTo[map[string]any])
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", collection)
	}

	docs := make([]document.Document, len(raw))
	for i, r := range raw {
		docs[i] = document.Document(r)
	}
	return docs, nil
}

// UpdateOne locks the first matching row and merges set into it only when
// the merge changes something, so both counters come from one round trip.
func (s *postgresStore) UpdateOne(ctx context.Context, collection string, filter, set document.Document) (UpdateResult, error) {
	tbl, err := s.table(ctx, collection)
	if err != nil {
		return UpdateResult{}, err
	}

	query := fmt.Sprintf(`
		WITH target AS (
			SELECT id, doc FROM %[1]s WHERE doc @> $1::jsonb LIMIT 1 FOR UPDATE
		), updated AS (
			UPDATE %[1]s AS t SET doc = t.doc || $2::jsonb
			FROM target
			WHERE t.id = target.id AND (target.doc || $2::jsonb) IS DISTINCT FROM target.doc
			RETURNING t.id
		)
		SELECT (SELECT count(*) FROM target), (SELECT count(*) FROM updated)
	`, tbl)

	var res UpdateResult
	err = s.db.QueryRow(ctx, query, map[string]any(filter), map[string]any(set)).Scan(&res.Matched, &res.Modified)
	if err != nil {
		if isUniqueViolation(err) {
			return UpdateResult{}, ErrDuplicateKey
		}
		return UpdateResult{}, errors.Wrapf(err, "update %s", collection)
	}
	return res, nil
}

func (s *postgresStore) EnsureUnique(ctx context.Context, collection, field string) error {
	tbl, err := s.table(ctx, collection)
	if err != nil {
		return err
	}
	if !identifierPattern.MatchString(field) {
		return fmt.Errorf("invalid field name %q", field)
	}

	index := pgx.Identifier{collection + "_" + field + "_key"}.Sanitize()
	ddl := fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>'%s'))`, index, tbl, field)
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return errors.Wrapf(err, "create unique index %s.%s", collection, field)
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *postgresStore) Close(_ context.Context) error {
	s.logger.Info("Closing PostgreSQL pool")
	s.db.Close()
	return nil
}
