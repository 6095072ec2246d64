// Package bolt implements docstore.Store over an embedded bbolt file. Each
// collection is a bucket of bson documents keyed by id.
package bolt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/log"
)

// Store is a docstore.Store backed by bbolt.
type Store struct {
	db     *bbolt.DB
	logger log.Logger
}

var _ docstore.Store = (*Store)(nil)

// Open opens or creates the database file at path, creating its directory when missing.
func Open(path string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt db at %s: %w", path, err)
	}

	logger.Info(context.Background(), "bbolt store opened", log.Fields{"path": path})

	return &Store{db: db, logger: logger}, nil
}

// EnsureCollections creates the buckets up front.
func (s *Store) EnsureCollections(names ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc *docstore.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return docstore.ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return docstore.ErrNotFound
		}
		doc = &docstore.Document{ID: id, Raw: bytes.Clone(v)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *Store) Query(ctx context.Context, collection string, q docstore.Query) ([]*docstore.Document, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := newMatcher(q.Where)
	if err != nil {
		return nil, err
	}

	var docs []*docstore.Document
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			ok, err := m.match(bson.Raw(v))
			if err != nil {
				return fmt.Errorf("evaluate %s/%s: %w", collection, k, err)
			}
			if !ok {
				continue
			}
			docs = append(docs, &docstore.Document{ID: string(k), Raw: bytes.Clone(v)})
			if q.Limit > 0 && len(docs) == q.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (s *Store) Add(ctx context.Context, collection string, data any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data, docstore.Overwrite); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data any, mode docstore.SetMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := bson.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, collection, id, raw, mode)
	})
}

func (s *Store) Batch(collection string) docstore.Batch {
	return docstore.NewBatch(collection, s.commit)
}

// commit applies every write in a single read-write transaction.
func (s *Store) commit(ctx context.Context, collection string, writes []docstore.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make([][]byte, len(writes))
	for i, w := range writes {
		if w.Kind != docstore.WriteSet {
			continue
		}
		raw, err := bson.Marshal(w.Data)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", collection, w.ID, err)
		}
		encoded[i] = raw
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for i, w := range writes {
			switch w.Kind {
			case docstore.WriteDelete:
				if b := tx.Bucket([]byte(collection)); b != nil {
					if err := b.Delete([]byte(w.ID)); err != nil {
						return fmt.Errorf("delete %s/%s: %w", collection, w.ID, err)
					}
				}
			case docstore.WriteSet:
				if err := put(tx, collection, w.ID, encoded[i], w.Mode); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func put(tx *bbolt.Tx, collection, id string, raw []byte, mode docstore.SetMode) error {
	b, err := tx.CreateBucketIfNotExists([]byte(collection))
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", collection, err)
	}

	if mode == docstore.Merge {
		if existing := b.Get([]byte(id)); existing != nil {
			raw, err = merge(existing, raw)
			if err != nil {
				return fmt.Errorf("merge %s/%s: %w", collection, id, err)
			}
		}
	}

	if err := b.Put([]byte(id), raw); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// merge overlays the top-level fields of update onto existing.
func merge(existing, update []byte) ([]byte, error) {
	var base, overlay bson.D
	if err := bson.Unmarshal(existing, &base); err != nil {
		return nil, err
	}
	if err := bson.Unmarshal(update, &overlay); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(base))
	for i, e := range base {
		index[e.Key] = i
	}
	for _, e := range overlay {
		if i, ok := index[e.Key]; ok {
			base[i].Value = e.Value
			continue
		}
		index[e.Key] = len(base)
		base = append(base, e)
	}

	return bson.Marshal(base)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

func (s *Store) Close(context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close bbolt db: %w", err)
	}
	return nil
}
