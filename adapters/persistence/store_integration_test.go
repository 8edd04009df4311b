package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

// StoreContractSuite runs the same expectations against every DocumentStore.
type StoreContractSuite struct {
	suite.Suite
	open      func(ctx context.Context) (DocumentStore, func())
	store     DocumentStore
	terminate func()
}

func (s *StoreContractSuite) SetupSuite() {
	s.store, s.terminate = s.open(context.Background())
	s.Require().NoError(EnsureIndexes(context.Background(), s.store))
}

func (s *StoreContractSuite) TearDownSuite() {
	if s.store != nil {
		s.NoError(s.store.Close(context.Background()))
	}
	if s.terminate != nil {
		s.terminate()
	}
}

func requireIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration tests. Set INTEGRATION_TESTS=1 to run.")
	}
}

func TestMongoStoreContract(t *testing.T) {
	requireIntegration(t)
	suite.Run(t, &StoreContractSuite{open: func(ctx context.Context) (DocumentStore, func()) {
		ctr, err := mongodb.Run(ctx, "mongo:7")
		if err != nil {
			t.Fatalf("Failed to start mongo container: %s", err)
		}
		uri, err := ctr.ConnectionString(ctx)
		if err != nil {
			t.Fatalf("Failed to get connection string: %s", err)
		}

		var cfg config.Config
		cfg.Store.URI = uri
		cfg.Store.Database = "contract_test"
		store, err := NewMongoStore(ctx, cfg, logger.NewNop())
		if err != nil {
			t.Fatalf("Failed to connect mongo: %s", err)
		}
		return store, func() { _ = testcontainers.TerminateContainer(ctr) }
	}})
}

func TestPostgresStoreContract(t *testing.T) {
	requireIntegration(t)
	suite.Run(t, &StoreContractSuite{open: func(ctx context.Context) (DocumentStore, func()) {
		ctr, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).WithStartupTimeout(1*time.Minute),
			),
		)
		if err != nil {
			t.Fatalf("Failed to start postgres container: %s", err)
		}
		dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("Failed to get connection string: %s", err)
		}

		var cfg config.Config
		cfg.DB.DSN = dsn
		pool, err := NewPostgresPool(cfg, logger.NewNop())
		if err != nil {
			t.Fatalf("Failed to create pgxpool: %s", err)
		}
		return NewPostgresStore(pool, logger.NewNop()), func() { _ = testcontainers.TerminateContainer(ctr) }
	}})
}

func TestMemoryStoreContract(t *testing.T) {
	suite.Run(t, &StoreContractSuite{open: func(context.Context) (DocumentStore, func()) {
		return NewMemoryStore(), nil
	}})
}

func (s *StoreContractSuite) Test_InsertAndFindAll_StripsIdentifier() {
	ctx := context.Background()

	s.Require().NoError(s.store.InsertOne(ctx, "courses", document.Document{"title": "Algebra 1", "description": "Linear", "tags": []any{"math"}}))
	s.Require().NoError(s.store.InsertOne(ctx, "courses", document.Document{"title": "Geometry", "description": "Shapes"}))

	docs, err := s.store.FindAll(ctx, "courses")
	s.Require().NoError(err)
	s.Len(docs, 2)
	titles := []any{}
	for _, d := range docs {
		s.NotContains(d, "_id")
		s.NotContains(d, "id")
		titles = append(titles, d["title"])
	}
	s.ElementsMatch([]any{"Algebra 1", "Geometry"}, titles)
}

func (s *StoreContractSuite) Test_UniqueEmail() {
	ctx := context.Background()

	s.Require().NoError(s.store.InsertOne(ctx, "users", document.Document{"email": "dup@example.com", "password": "x"}))
	err := s.store.InsertOne(ctx, "users", document.Document{"email": "dup@example.com", "password": "y"})
	s.ErrorIs(err, ErrDuplicateKey)
}

func (s *StoreContractSuite) Test_FindOne() {
	ctx := context.Background()
	s.Require().NoError(s.store.InsertOne(ctx, "users", document.Document{"email": "find@example.com", "name": "Find"}))

	doc, err := s.store.FindOne(ctx, "users", document.Document{"email": "find@example.com"})
	s.Require().NoError(err)
	s.Equal("Find", doc["name"])
	s.NotContains(doc, "_id")

	_, err = s.store.FindOne(ctx, "users", document.Document{"email": "nobody@example.com"})
	s.ErrorIs(err, ErrNoDocument)
}

func (s *StoreContractSuite) Test_UpdateOneMerge() {
	ctx := context.Background()
	filter := document.Document{"email": "merge@example.com"}
	s.Require().NoError(s.store.InsertOne(ctx, "users", document.Document{"email": "merge@example.com", "password": "digest", "name": "Old"}))

	res, err := s.store.UpdateOne(ctx, "users", filter, document.Document{"name": "New"})
	s.Require().NoError(err)
	s.Equal(UpdateResult{Matched: 1, Modified: 1}, res)

	res, err = s.store.UpdateOne(ctx, "users", filter, document.Document{"name": "New"})
	s.Require().NoError(err)
	s.Equal(UpdateResult{Matched: 1, Modified: 0}, res)

	res, err = s.store.UpdateOne(ctx, "users", document.Document{"email": "ghost@example.com"}, document.Document{"name": "New"})
	s.Require().NoError(err)
	s.Equal(int64(0), res.Matched)

	doc, err := s.store.FindOne(ctx, "users", filter)
	s.Require().NoError(err)
	s.Equal("digest", doc["password"])
	s.Equal("New", doc["name"])
}

func (s *StoreContractSuite) Test_Ping() {
	s.NoError(s.store.Ping(context.Background()))
}
