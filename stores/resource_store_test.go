package stores_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
)

func TestResourceStore_NilArguments(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	_, err := s.Resources.FindIdentityResourcesByScopeName(ctx, nil)
	require.ErrorIs(t, err, domain.ErrNilArgument)
	_, err = s.Resources.FindAPIResourcesByScopeName(ctx, nil)
	require.ErrorIs(t, err, domain.ErrNilArgument)
	_, err = s.Resources.FindAPIResourcesByName(ctx, nil)
	require.ErrorIs(t, err, domain.ErrNilArgument)
	_, err = s.Resources.FindAPIScopesByName(ctx, nil)
	require.ErrorIs(t, err, domain.ErrNilArgument)
}

func TestResourceStore_EmptyInput(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()
	require.NoError(t, s.Resources.StoreIdentityResource(ctx, domain.NewIdentityResource("openid", "sub")))

	ids, err := s.Resources.FindIdentityResourcesByScopeName(ctx, []string{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResourceStore_FindByNameFansOut(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	var names []string
	for i := range 25 {
		name := fmt.Sprintf("scope%02d", i)
		require.NoError(t, s.Resources.StoreAPIScope(ctx, domain.NewAPIScope(name)))
		names = append(names, name)
	}
	require.NoError(t, s.Resources.StoreAPIScope(ctx, domain.NewAPIScope("other")))

	query := append([]string{"missing"}, names...)
	query = append(query, "scope00", "scope24")

	scopes, err := s.Resources.FindAPIScopesByName(ctx, query)
	require.NoError(t, err)

	got := make([]string, 0, len(scopes))
	for _, sc := range scopes {
		got = append(got, sc.Name)
	}
	sort.Strings(got)
	assert.Equal(t, names, got)
}

func TestResourceStore_FindAPIResourcesByScopeNameDedups(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	var scopes []string
	for i := range 15 {
		scopes = append(scopes, fmt.Sprintf("s%02d", i))
	}
	// "wide" matches a scope in the first chunk and one in the second.
	require.NoError(t, s.Resources.StoreAPIResource(ctx, domain.NewAPIResource("wide", "s00", "s14")))
	require.NoError(t, s.Resources.StoreAPIResource(ctx, domain.NewAPIResource("late", "s12")))
	require.NoError(t, s.Resources.StoreAPIResource(ctx, domain.NewAPIResource("unrelated", "zz")))

	apis, err := s.Resources.FindAPIResourcesByScopeName(ctx, scopes)
	require.NoError(t, err)

	got := make([]string, 0, len(apis))
	for _, a := range apis {
		got = append(got, a.Name)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"late", "wide"}, got)
}

func TestResourceStore_FindIdentityAndAPIByName(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	profile := domain.NewIdentityResource("profile", "name", "family_name")
	require.NoError(t, s.Resources.StoreIdentityResource(ctx, profile))
	require.NoError(t, s.Resources.StoreIdentityResource(ctx, domain.NewIdentityResource("email", "email")))

	api := domain.NewAPIResource("api1", "api1.read")
	api.AllowedAccessTokenSigningAlgorithms = []string{"PS256"}
	api.APISecrets = []domain.Secret{domain.NewSecret("h")}
	require.NoError(t, s.Resources.StoreAPIResource(ctx, api))

	ids, err := s.Resources.FindIdentityResourcesByScopeName(ctx, []string{"profile"})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, profile, ids[0])

	apis, err := s.Resources.FindAPIResourcesByName(ctx, []string{"api1", "nope"})
	require.NoError(t, err)
	require.Len(t, apis, 1)
	assert.Equal(t, api, apis[0])
}

func TestResourceStore_GetAllResourcesIncludesHidden(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	hidden := domain.NewAPIScope("internal")
	hidden.ShowInDiscoveryDocument = false
	require.NoError(t, s.Resources.StoreAPIScope(ctx, hidden))
	require.NoError(t, s.Resources.StoreAPIScope(ctx, domain.NewAPIScope("public")))
	require.NoError(t, s.Resources.StoreIdentityResource(ctx, domain.NewIdentityResource("openid", "sub")))
	require.NoError(t, s.Resources.StoreAPIResource(ctx, domain.NewAPIResource("api1")))

	all, err := s.Resources.GetAllResources(ctx)
	require.NoError(t, err)
	assert.Len(t, all.IdentityResources, 1)
	assert.Len(t, all.APIResources, 1)
	require.Len(t, all.APIScopes, 2)
	assert.Equal(t, "internal", all.APIScopes[0].Name)
	assert.False(t, all.APIScopes[0].ShowInDiscoveryDocument)
}

func TestResourceStore_StoreUpdatesInPlace(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	require.NoError(t, s.Resources.StoreAPIScope(ctx, domain.NewAPIScope("api1.read")))
	updated := domain.NewAPIScope("api1.read")
	updated.DisplayName = "Read access"
	require.NoError(t, s.Resources.StoreAPIScope(ctx, updated))

	all, err := s.Resources.GetAllResources(ctx)
	require.NoError(t, err)
	require.Len(t, all.APIScopes, 1)
	assert.Equal(t, "Read access", all.APIScopes[0].DisplayName)
}

func TestResourceStore_StoreAPIResourceRemovesClearedFields(t *testing.T) {
	s, backend := newStores(t)
	ctx := context.Background()

	in := domain.NewAPIResource("api1", "api1.read", "api1.write")
	in.APISecrets = []domain.Secret{domain.NewSecret("hash")}
	in.Properties = map[string]string{"tier": "gold"}
	require.NoError(t, s.Resources.StoreAPIResource(ctx, in))
	require.NoError(t, backend.Set(ctx, testCollections.APIResources, "api1",
		map[string]any{"non_editable": true}, docstore.Merge))

	require.NoError(t, s.Resources.StoreAPIResource(ctx, domain.NewAPIResource("api1")))

	out, err := s.Resources.FindAPIResourcesByName(ctx, []string{"api1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Scopes)
	assert.Empty(t, out[0].APISecrets)
	assert.Empty(t, out[0].Properties)

	byScope, err := s.Resources.FindAPIResourcesByScopeName(ctx, []string{"api1.read"})
	require.NoError(t, err)
	assert.Empty(t, byScope)

	doc, err := backend.Get(ctx, testCollections.APIResources, "api1")
	require.NoError(t, err)
	var e entity.APIResource
	require.NoError(t, doc.DataTo(&e))
	assert.True(t, e.NonEditable)
	assert.False(t, e.Created.IsZero())
	assert.NotNil(t, e.Updated)
}

func TestResourceStore_StoreIdentityResourceRemovesClearedClaims(t *testing.T) {
	s, _ := newStores(t)
	ctx := context.Background()

	require.NoError(t, s.Resources.StoreIdentityResource(ctx, domain.NewIdentityResource("profile", "name", "website")))
	require.NoError(t, s.Resources.StoreIdentityResource(ctx, domain.NewIdentityResource("profile")))

	out, err := s.Resources.FindIdentityResourcesByScopeName(ctx, []string{"profile"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].UserClaims)
}
