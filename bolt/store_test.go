package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/bolt"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/docstore/docstoretest"
	"go.pilab.hu/idstore/log"
)

func openTestStore(t *testing.T) *bolt.Store {
	t.Helper()
	s, err := bolt.Open(filepath.Join(t.TempDir(), "nested", "idstore.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.Close(context.Background()))
	})
	return s
}

func TestStoreConformance(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store { return openTestStore(t) })
}

func TestStore_NumericComparisonAcrossWidths(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "n", "a", map[string]any{"v": int32(3)}, docstore.Overwrite))
	require.NoError(t, s.Set(ctx, "n", "b", map[string]any{"v": int64(7)}, docstore.Overwrite))
	require.NoError(t, s.Set(ctx, "n", "c", map[string]any{"v": 2.5}, docstore.Overwrite))

	docs, err := s.Query(ctx, "n", docstore.Query{Where: []docstore.Predicate{docstore.LessThan("v", int64(5))}})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "c", docs[1].ID)

	docs, err = s.Query(ctx, "n", docstore.Query{Where: []docstore.Predicate{docstore.Eq("v", 7)}})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b", docs[0].ID)
}

func TestStore_EnsureCollections(t *testing.T) {
	s := openTestStore(t)
	cols := docstore.NewCollections("t_")
	require.NoError(t, s.EnsureCollections(cols.All()...))

	docs, err := s.Query(context.Background(), cols.Clients, docstore.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "c", "id")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, s.Set(ctx, "c", "id", map[string]any{"a": 1}, docstore.Overwrite), context.Canceled)
}
