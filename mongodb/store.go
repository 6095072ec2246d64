package mongodb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/log"
)

// Store is a docstore.Store over one MongoDB database.
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
	logger       log.Logger
}

var _ docstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithTransactions commits batches inside a multi-document transaction.
// It requires a replica set or sharded cluster.
func WithTransactions(enabled bool) Option {
	return func(s *Store) { s.transactions = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore wraps a connected client. Close disconnects it.
func NewStore(client *mongo.Client, dbName string, opts ...Option) *Store {
	s := &Store{
		client: client,
		db:     client.Database(dbName),
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Database exposes the underlying database, for index management and tests.
func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, byID(id)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return &docstore.Document{ID: id, Raw: raw}, nil
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) ([]*docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	filter, err := buildFilter(q.Where)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var docs []*docstore.Document
	for cursor.Next(ctx) {
		raw := bson.Raw(bytes.Clone(cursor.Current))
		id, ok := raw.Lookup("_id").StringValueOK()
		if !ok {
			return nil, fmt.Errorf("query %s: document without string _id", collection)
		}
		docs = append(docs, &docstore.Document{ID: id, Raw: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	return docs, nil
}

func (s *Store) Add(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()

	doc, err := toDocument(id, data)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert %s/%s: %w", collection, id, err)
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data any, mode docstore.SetMode) error {
	coll := s.db.Collection(collection)

	switch mode {
	case docstore.Merge:
		update, err := mergeUpdate(id, data)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, id, err)
		}
		if _, err := coll.UpdateOne(ctx, byID(id), update, options.UpdateOne().SetUpsert(true)); err != nil {
			return fmt.Errorf("merge %s/%s: %w", collection, id, err)
		}
	default:
		doc, err := toDocument(id, data)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, id, err)
		}
		if _, err := coll.ReplaceOne(ctx, byID(id), doc, options.Replace().SetUpsert(true)); err != nil {
			return fmt.Errorf("replace %s/%s: %w", collection, id, err)
		}
	}
	return nil
}

func (s *Store) Batch(collection string) docstore.Batch {
	return docstore.NewBatch(collection, s.commit)
}

func (s *Store) commit(ctx context.Context, collection string, writes []docstore.Write) error {
	models := make([]mongo.WriteModel, 0, len(writes))
	for _, w := range writes {
		switch w.Kind {
		case docstore.WriteDelete:
			models = append(models, mongo.NewDeleteOneModel().SetFilter(byID(w.ID)))
		case docstore.WriteSet:
			if w.Mode == docstore.Merge {
				update, err := mergeUpdate(w.ID, w.Data)
				if err != nil {
					return fmt.Errorf("encode %s/%s: %w", collection, w.ID, err)
				}
				models = append(models, mongo.NewUpdateOneModel().SetFilter(byID(w.ID)).SetUpdate(update).SetUpsert(true))
				continue
			}
			doc, err := toDocument(w.ID, w.Data)
			if err != nil {
				return fmt.Errorf("encode %s/%s: %w", collection, w.ID, err)
			}
			models = append(models, mongo.NewReplaceOneModel().SetFilter(byID(w.ID)).SetReplacement(doc).SetUpsert(true))
		}
	}

	coll := s.db.Collection(collection)
	write := func(ctx context.Context) (any, error) {
		return coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	}

	if !s.transactions {
		_, err := write(ctx)
		return err
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, write)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	s.logger.Info(ctx, "closing MongoDB connection")
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	return nil
}
