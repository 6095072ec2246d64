// Package docstoretest holds behaviour tests every docstore.Store backend must pass.
package docstoretest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/docstore"
)

type item struct {
	Name      string     `bson:"name"`
	Owner     string     `bson:"owner,omitempty"`
	Tags      []string   `bson:"tags,omitempty"`
	Count     int        `bson:"count"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	Note      string     `bson:"note,omitempty"`
}

// Run exercises a backend. newStore must return an empty store; the
// collection names it is used with are unique per subtest.
func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "items", "nope")
		require.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("SetOverwriteAndGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "items", "a", item{Name: "a", Owner: "x", Count: 1}, docstore.Overwrite))
		require.NoError(t, s.Set(ctx, "items", "a", item{Name: "a", Count: 2}, docstore.Overwrite))

		doc, err := s.Get(ctx, "items", "a")
		require.NoError(t, err)
		assert.Equal(t, "a", doc.ID)

		var got item
		require.NoError(t, doc.DataTo(&got))
		assert.Equal(t, item{Name: "a", Count: 2}, got)
	})

	t.Run("SetMergeKeepsOtherFields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "items", "a", item{Name: "a", Owner: "x", Note: "keep"}, docstore.Overwrite))
		require.NoError(t, s.Set(ctx, "items", "a", item{Name: "a", Count: 5}, docstore.Merge))
		require.NoError(t, s.Set(ctx, "items", "b", item{Name: "b"}, docstore.Merge))

		doc, err := s.Get(ctx, "items", "a")
		require.NoError(t, err)
		var got item
		require.NoError(t, doc.DataTo(&got))
		assert.Equal(t, item{Name: "a", Owner: "x", Count: 5, Note: "keep"}, got)

		_, err = s.Get(ctx, "items", "b")
		require.NoError(t, err)
	})

	t.Run("Add", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		id1, err := s.Add(ctx, "items", item{Name: "one"})
		require.NoError(t, err)
		id2, err := s.Add(ctx, "items", item{Name: "two"})
		require.NoError(t, err)
		assert.NotEmpty(t, id1)
		assert.NotEqual(t, id1, id2)

		doc, err := s.Get(ctx, "items", id2)
		require.NoError(t, err)
		var got item
		require.NoError(t, doc.DataTo(&got))
		assert.Equal(t, "two", got.Name)
	})

	t.Run("QueryPredicates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)
		past, future := now.Add(-time.Hour), now.Add(time.Hour)

		seed := map[string]item{
			"1": {Name: "1", Owner: "alice", Tags: []string{"red", "blue"}, Count: 1, ExpiresAt: &past},
			"2": {Name: "2", Owner: "alice", Tags: []string{"green"}, Count: 2, ExpiresAt: &future},
			"3": {Name: "3", Owner: "bob", Tags: []string{"blue"}, Count: 3},
			"4": {Name: "4", Owner: "bob", Count: 4, ExpiresAt: &past},
		}
		for id, it := range seed {
			require.NoError(t, s.Set(ctx, "items", id, it, docstore.Overwrite))
		}

		ids := func(q docstore.Query) []string {
			docs, err := s.Query(ctx, "items", q)
			require.NoError(t, err)
			out := make([]string, 0, len(docs))
			for _, d := range docs {
				out = append(out, d.ID)
			}
			return out
		}

		assert.Equal(t, []string{"1", "2"}, ids(docstore.Query{Where: []docstore.Predicate{docstore.Eq("owner", "alice")}}))
		assert.Equal(t, []string{"4"}, ids(docstore.Query{Where: []docstore.Predicate{
			docstore.Eq("owner", "bob"), docstore.Eq("count", 4),
		}}))
		assert.Equal(t, []string{"1", "3"}, ids(docstore.Query{Where: []docstore.Predicate{docstore.ArrayContains("tags", "blue")}}))
		assert.Equal(t, []string{"1", "2"}, ids(docstore.Query{Where: []docstore.Predicate{
			docstore.ArrayContainsAny("tags", "red", "green"),
		}}))
		assert.Equal(t, []string{"2", "3"}, ids(docstore.Query{Where: []docstore.Predicate{docstore.In("name", "2", "3", "9")}}))
		assert.Equal(t, []string{"1", "4"}, ids(docstore.Query{Where: []docstore.Predicate{docstore.LessThan("expires_at", now)}}))
		assert.Equal(t, []string{"1"}, ids(docstore.Query{Where: []docstore.Predicate{docstore.LessThan("expires_at", now)}, Limit: 1}))
		assert.Equal(t, []string{"1", "2", "3", "4"}, ids(docstore.Query{}))
		assert.Empty(t, ids(docstore.Query{Where: []docstore.Predicate{docstore.Eq("owner", "carol")}}))
	})

	t.Run("QueryTooManyValues", func(t *testing.T) {
		s := newStore(t)
		values := make([]any, docstore.MaxFilterValues+1)
		for i := range values {
			values[i] = fmt.Sprint(i)
		}
		_, err := s.Query(context.Background(), "items", docstore.Query{Where: []docstore.Predicate{docstore.In("name", values...)}})
		require.ErrorIs(t, err, docstore.ErrTooManyFilterValues)
	})

	t.Run("Batch", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i := range 5 {
			require.NoError(t, s.Set(ctx, "items", fmt.Sprint(i), item{Name: fmt.Sprint(i)}, docstore.Overwrite))
		}

		b := s.Batch("items")
		b.Delete("0").Delete("1").Delete("missing").Set("9", item{Name: "9"}, docstore.Overwrite)
		require.NoError(t, b.Commit(ctx))

		docs, err := s.Query(ctx, "items", docstore.Query{})
		require.NoError(t, err)
		require.Len(t, docs, 4)
		assert.Equal(t, "2", docs[0].ID)
		assert.Equal(t, "9", docs[3].ID)
	})

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
