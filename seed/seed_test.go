package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/bolt"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/seed"
	"go.pilab.hu/idstore/serializer"
	"go.pilab.hu/idstore/stores"
)

const seedYAML = `
clients:
  - client_id: web
    client_name: Web App
    allowed_grant_types: [authorization_code]
    allowed_scopes: [openid, profile, api1.read]
    redirect_uris: ["https://app.example.com/callback"]
    allowed_cors_origins: ["https://app.example.com"]
    client_secrets:
      - value: s3cr3t
        type: SharedSecret
    refresh_token_usage: ReUse
    access_token_type: 1
identity_resources:
  - name: openid
    user_claims: [sub]
  - name: profile
    user_claims: [name, email]
api_resources:
  - name: api1
    scopes: [api1.read, api1.write]
api_scopes:
  - name: api1.read
  - name: api1.write
    required: true
`

func TestParse(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	require.Len(t, f.Clients, 1)
	c := f.Clients[0]
	assert.Equal(t, "web", c.ClientID)
	assert.Equal(t, "Web App", c.ClientName)
	assert.Equal(t, domain.TokenUsageReUse, c.RefreshTokenUsage)
	assert.Equal(t, domain.AccessTokenTypeReference, c.AccessTokenType)
	// Defaults survive for keys the file leaves out.
	assert.True(t, c.Enabled)
	assert.True(t, c.RequirePkce)
	assert.Equal(t, 3600, c.AccessTokenLifetime)
	assert.Equal(t, domain.TokenExpirationAbsolute, c.RefreshTokenExpiration)

	require.Len(t, f.IdentityResources, 2)
	assert.True(t, f.IdentityResources[0].Enabled)
	assert.Equal(t, []string{"name", "email"}, f.IdentityResources[1].UserClaims)

	require.Len(t, f.APIResources, 1)
	assert.Equal(t, []string{"api1.read", "api1.write"}, f.APIResources[0].Scopes)

	require.Len(t, f.APIScopes, 2)
	assert.False(t, f.APIScopes[0].Required)
	assert.True(t, f.APIScopes[1].Required)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{name: "missing client id", yaml: "clients:\n  - client_name: x\n", want: seed.ErrMissingName},
		{name: "missing scope name", yaml: "api_scopes:\n  - required: true\n", want: seed.ErrMissingName},
		{name: "bad enum", yaml: "clients:\n  - client_id: a\n    refresh_token_usage: Forever\n", want: domain.ErrUnknownEnumValue},
		{name: "unknown top-level key", yaml: "users: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := seed.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Clients)
	assert.Empty(t, f.APIScopes)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := seed.ParseFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func newStores(t *testing.T) *stores.Stores {
	t.Helper()
	backend, err := bolt.Open(filepath.Join(t.TempDir(), "seed.db"), log.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close(context.Background()) })

	return stores.New(backend, docstore.NewCollections(docstore.DefaultCollectionPrefix), serializer.JSON{}, log.NewNop())
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)

	f, err := seed.Parse(strings.NewReader(seedYAML))
	require.NoError(t, err)

	seeder := seed.NewSeeder(s.Clients, s.Resources, log.NewNop())
	for range 2 {
		res, err := seeder.Apply(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, seed.Result{Clients: 1, IdentityResources: 2, APIResources: 1, APIScopes: 2}, res)
	}

	client, err := s.Clients.FindClientByID(ctx, "web")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "Web App", client.ClientName)
	require.Len(t, client.ClientSecrets, 1)
	assert.Equal(t, "s3cr3t", client.ClientSecrets[0].Value)

	all, err := s.Resources.GetAllResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all.IdentityResources, 2)
	assert.Len(t, all.APIResources, 1)
	assert.Len(t, all.APIScopes, 2)

	allowed, err := s.Cors.IsOriginAllowed(ctx, "https://app.example.com")
	require.NoError(t, err)
	assert.True(t, allowed)
}

type failingClients struct{}

func (failingClients) Store(context.Context, *domain.Client) error { return errors.New("write failed") }

func TestSeeder_StopsOnFailure(t *testing.T) {
	s := newStores(t)
	f := &seed.File{
		Clients:   []*domain.Client{domain.NewClient("a")},
		APIScopes: []*domain.APIScope{domain.NewAPIScope("read")},
	}

	res, err := seed.NewSeeder(failingClients{}, s.Resources, nil).Apply(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed client a")
	assert.Equal(t, seed.Result{}, res)
}

func TestSeeder_NilFile(t *testing.T) {
	s := newStores(t)
	_, err := seed.NewSeeder(s.Clients, s.Resources, nil).Apply(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNilArgument)
}
