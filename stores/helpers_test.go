package stores_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/bolt"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/serializer"
	"go.pilab.hu/idstore/stores"
)

var testCollections = docstore.NewCollections(docstore.DefaultCollectionPrefix)

func newBackend(t *testing.T) *bolt.Store {
	t.Helper()
	s, err := bolt.Open(filepath.Join(t.TempDir(), "idstore.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Close(context.Background())) })
	return s
}

func newStores(t *testing.T) (*stores.Stores, *bolt.Store) {
	t.Helper()
	backend := newBackend(t)
	return stores.New(backend, testCollections, serializer.JSON{}, log.NewNop()), backend
}
