package stores_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
)

func TestClientStore_FindMissing(t *testing.T) {
	s, _ := newStores(t)

	c, err := s.Clients.FindClientByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestClientStore_StoreAndFind(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	in := domain.NewClient("web")
	in.ClientSecrets = []domain.Secret{domain.NewSecret("hash")}
	in.AllowedIdentityTokenSigningAlgorithms = []string{"RS256", "ES256"}
	in.AllowedCorsOrigins = []string{"https://app.example"}
	in.Claims = []domain.ClientClaim{{Type: "tenant", Value: "acme", ValueType: domain.ClaimValueTypeString}}
	require.NoError(t, s.Clients.Store(ctx, in))

	out, err := s.Clients.FindClientByID(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestClientStore_StoreKeepsStorageOnlyFields(t *testing.T) {
	s, backend := newStores(t)
	ctx := context.Background()

	require.NoError(t, s.Clients.Store(ctx, domain.NewClient("web")))
	require.NoError(t, backend.Set(ctx, testCollections.Clients, "web",
		map[string]any{"non_editable": true}, docstore.Merge))

	first := readClientEntity(t, backend)
	require.False(t, first.Created.IsZero())
	assert.Nil(t, first.Updated)

	updated := domain.NewClient("web")
	updated.ClientName = "Renamed"
	require.NoError(t, s.Clients.Store(ctx, updated))

	second := readClientEntity(t, backend)
	assert.Equal(t, "Renamed", second.ClientName)
	assert.True(t, second.NonEditable)
	assert.WithinDuration(t, first.Created, second.Created, time.Millisecond)
	assert.NotNil(t, second.Updated)
}

func TestClientStore_StoreRemovesClearedFields(t *testing.T) {
	s, backend := newStores(t)
	ctx := context.Background()

	lifetime := 300
	in := domain.NewClient("web")
	in.AllowedCorsOrigins = []string{"https://evil.example"}
	in.ClientSecrets = []domain.Secret{domain.NewSecret("hash")}
	in.RedirectURIs = []string{"https://old.example/cb"}
	in.AllowedScopes = []string{"openid", "api1"}
	in.ConsentLifetime = &lifetime
	require.NoError(t, s.Clients.Store(ctx, in))

	accessed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, backend.Set(ctx, testCollections.Clients, "web",
		map[string]any{"last_accessed": accessed}, docstore.Merge))
	first := readClientEntity(t, backend)

	require.NoError(t, s.Clients.Store(ctx, domain.NewClient("web")))

	out, err := s.Clients.FindClientByID(ctx, "web")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Empty(t, out.AllowedCorsOrigins)
	assert.Empty(t, out.ClientSecrets)
	assert.Empty(t, out.RedirectURIs)
	assert.Empty(t, out.AllowedScopes)
	assert.Nil(t, out.ConsentLifetime)

	allowed, err := s.Cors.IsOriginAllowed(ctx, "https://evil.example")
	require.NoError(t, err)
	assert.False(t, allowed)

	second := readClientEntity(t, backend)
	assert.WithinDuration(t, first.Created, second.Created, time.Millisecond)
	require.NotNil(t, second.LastAccessed)
	assert.True(t, accessed.Equal(*second.LastAccessed))
	assert.NotNil(t, second.Updated)
}

func TestClientStore_StoreNil(t *testing.T) {
	s, _ := newStores(t)
	require.ErrorIs(t, s.Clients.Store(context.Background(), nil), domain.ErrNilArgument)
}

func readClientEntity(t *testing.T, backend docstore.Store) entity.Client {
	t.Helper()
	doc, err := backend.Get(context.Background(), testCollections.Clients, "web")
	require.NoError(t, err)
	var e entity.Client
	require.NoError(t, doc.DataTo(&e))
	return e
}
