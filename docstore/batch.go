package docstore

import (
	"context"
	"fmt"
)

// Batch queues writes against one collection and applies them atomically on Commit.
type Batch interface {
	Set(id string, data any, mode SetMode) Batch
	Delete(id string) Batch
	Len() int
	// Commit applies the queued writes. More than MaxBatchWrites is ErrBatchTooLarge.
	Commit(ctx context.Context) error
}

// WriteKind distinguishes queued writes.
type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteDelete
)

// Write is one queued batch operation.
type Write struct {
	Kind WriteKind
	ID   string
	Data any
	Mode SetMode
}

// CommitFunc applies writes atomically. It is supplied by a backend.
type CommitFunc func(ctx context.Context, collection string, writes []Write) error

// NewBatch returns a Batch that hands its writes to commit.
func NewBatch(collection string, commit CommitFunc) Batch {
	return &writeBatch{collection: collection, commit: commit}
}

type writeBatch struct {
	collection string
	writes     []Write
	commit     CommitFunc
}

func (b *writeBatch) Set(id string, data any, mode SetMode) Batch {
	b.writes = append(b.writes, Write{Kind: WriteSet, ID: id, Data: data, Mode: mode})
	return b
}

func (b *writeBatch) Delete(id string) Batch {
	b.writes = append(b.writes, Write{Kind: WriteDelete, ID: id})
	return b
}

func (b *writeBatch) Len() int {
	return len(b.writes)
}

func (b *writeBatch) Commit(ctx context.Context) error {
	if len(b.writes) == 0 {
		return nil
	}
	if len(b.writes) > MaxBatchWrites {
		return fmt.Errorf("%d writes on %s: %w", len(b.writes), b.collection, ErrBatchTooLarge)
	}
	if err := b.commit(ctx, b.collection, b.writes); err != nil {
		return fmt.Errorf("commit batch on %s: %w", b.collection, err)
	}
	b.writes = nil
	return nil
}
