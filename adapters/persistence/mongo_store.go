package persistence

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/internal/domain/document"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

var withoutID = bson.M{"_id": 0}

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger logger.Logger
}

func NewMongoStore(ctx context.Context, cfg config.Config, log logger.Logger) (DocumentStore, error) {
	opts := options.Client().
		ApplyURI(cfg.Store.URI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create mongo client")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo failed")
	}

	log.Info("Connect MongoDB successfully.", zap.String("database", cfg.Store.Database))
	return &mongoStore{client: client, db: client.Database(cfg.Store.Database), logger: log}, nil
}

func (s *mongoStore) InsertOne(ctx context.Context, collection string, doc document.Document) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return errors.Wrapf(err, "insert into %s", collection)
	}
	return nil
}

func (s *mongoStore) FindOne(ctx context.Context, collection string, filter document.Document) (document.Document, error) {
	var out bson.M
	err := s.db.Collection(collection).
		FindOne(ctx, bson.M(filter), options.FindOne().SetProjection(withoutID)).
		Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, errors.Wrapf(err, "find one in %s", collection)
	}
	return document.Document(out), nil
}

func (s *mongoStore) FindAll(ctx context.Context, collection string) ([]document.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, options.Find().SetProjection(withoutID))
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", collection)
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrapf(err, "decode %s", collection)
	}
	docs := make([]document.Document, len(rows))
	for i, r := range rows {
		docs[i] = document.Document(r)
	}
	return docs, nil
}

func (s *mongoStore) UpdateOne(ctx context.Context, collection string, filter, set document.Document) (UpdateResult, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M(filter), bson.M{"$set": bson.M(set)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return UpdateResult{}, ErrDuplicateKey
		}
		return UpdateResult{}, errors.Wrapf(err, "update %s", collection)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (s *mongoStore) EnsureUnique(ctx context.Context, collection, field string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrapf(err, "create unique index %s.%s", collection, field)
}

func (s *mongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	s.logger.Info("Closing MongoDB connection")
	return s.client.Disconnect(ctx)
}
