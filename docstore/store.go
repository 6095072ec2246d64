// Package docstore defines the narrow document database contract the stores
// are written against. Backends live in the mongodb and bolt packages.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	// MaxFilterValues is the most values an In or ArrayContainsAny predicate may carry.
	MaxFilterValues = 10
	// MaxBatchWrites is the most writes a single batch may commit.
	MaxBatchWrites = 500
)

var (
	// ErrNotFound is returned by Get when no document has the id.
	ErrNotFound = errors.New("document not found")
	// ErrTooManyFilterValues is returned before any I/O when a predicate exceeds MaxFilterValues.
	ErrTooManyFilterValues = errors.New("too many filter values")
	// ErrBatchTooLarge is returned by Commit when more than MaxBatchWrites writes are queued.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrInvalidQuery is returned for malformed queries.
	ErrInvalidQuery = errors.New("invalid query")
)

// SetMode selects how Set treats an existing document.
type SetMode int

const (
	// Overwrite replaces the whole document, creating it when missing.
	Overwrite SetMode = iota
	// Merge updates only the fields present in the data, creating the document when missing.
	Merge
)

// Document is a stored document and its id.
type Document struct {
	ID  string
	Raw bson.Raw
}

// DataTo decodes the document into v.
func (d *Document) DataTo(v any) error {
	if err := bson.Unmarshal(d.Raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Store is implemented by every backend. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Query returns the documents matching every predicate, ordered by id.
	Query(ctx context.Context, collection string, q Query) ([]*Document, error)
	// Add inserts data under a generated id and returns it.
	Add(ctx context.Context, collection string, data any) (string, error)
	Set(ctx context.Context, collection, id string, data any, mode SetMode) error
	// Batch starts an atomic group of writes against one collection.
	Batch(collection string) Batch
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
