package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/cache"
	"go.pilab.hu/idstore/domain"
)

type countingClients struct {
	calls   int
	clients map[string]*domain.Client
	err     error
}

func (c *countingClients) FindClientByID(_ context.Context, id string) (*domain.Client, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.clients[id], nil
}

type countingResources struct {
	calls map[string]int
}

func (r *countingResources) hit(name string) {
	if r.calls == nil {
		r.calls = map[string]int{}
	}
	r.calls[name]++
}

func (r *countingResources) FindIdentityResourcesByScopeName(_ context.Context, names []string) ([]*domain.IdentityResource, error) {
	r.hit("identity")
	out := make([]*domain.IdentityResource, 0, len(names))
	for _, n := range names {
		out = append(out, domain.NewIdentityResource(n, "sub"))
	}
	return out, nil
}

func (r *countingResources) FindAPIResourcesByScopeName(_ context.Context, names []string) ([]*domain.APIResource, error) {
	r.hit("api_by_scope")
	return []*domain.APIResource{domain.NewAPIResource("api", names...)}, nil
}

func (r *countingResources) FindAPIResourcesByName(_ context.Context, names []string) ([]*domain.APIResource, error) {
	r.hit("api_by_name")
	out := make([]*domain.APIResource, 0, len(names))
	for _, n := range names {
		out = append(out, domain.NewAPIResource(n))
	}
	return out, nil
}

func (r *countingResources) FindAPIScopesByName(_ context.Context, names []string) ([]*domain.APIScope, error) {
	r.hit("scopes")
	out := make([]*domain.APIScope, 0, len(names))
	for _, n := range names {
		out = append(out, domain.NewAPIScope(n))
	}
	return out, nil
}

func (r *countingResources) GetAllResources(context.Context) (*domain.Resources, error) {
	r.hit("all")
	return &domain.Resources{APIScopes: []*domain.APIScope{domain.NewAPIScope("read")}}, nil
}

type countingCors struct {
	calls   int
	allowed map[string]bool
}

func (c *countingCors) IsOriginAllowed(_ context.Context, origin string) (bool, error) {
	c.calls++
	return c.allowed[origin], nil
}

type recorder struct {
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
}

func newRecorder() *recorder {
	return &recorder{hits: map[string]int{}, misses: map[string]int{}}
}

func (r *recorder) CacheHit(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[name]++
}

func (r *recorder) CacheMiss(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[name]++
}

func newMemoryCache(t *testing.T) *cache.MemoryCache {
	t.Helper()
	c := cache.NewMemoryCache(time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func TestClientStore_CachesFoundClients(t *testing.T) {
	ctx := context.Background()
	client := domain.NewClient("web")
	client.AllowedScopes = []string{"openid", "profile"}
	client.RefreshTokenUsage = domain.TokenUsageReUse
	inner := &countingClients{clients: map[string]*domain.Client{"web": client}}
	rec := newRecorder()

	store := cache.NewClientStore(inner, newMemoryCache(t), cache.WithRecorder(rec))

	first, err := store.FindClientByID(ctx, "web")
	require.NoError(t, err)
	second, err := store.FindClientByID(ctx, "web")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, client, first)
	assert.Equal(t, client, second)
	assert.Equal(t, 1, rec.hits["clients"])
	assert.Equal(t, 1, rec.misses["clients"])
}

func TestClientStore_DoesNotCacheMissingClient(t *testing.T) {
	ctx := context.Background()
	inner := &countingClients{clients: map[string]*domain.Client{}}
	store := cache.NewClientStore(inner, newMemoryCache(t))

	for range 2 {
		client, err := store.FindClientByID(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, client)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestClientStore_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	inner := &countingClients{err: boom}
	store := cache.NewClientStore(inner, newMemoryCache(t))

	_, err := store.FindClientByID(context.Background(), "web")
	require.ErrorIs(t, err, boom)
}

func TestClientStore_ExpiresEntries(t *testing.T) {
	ctx := context.Background()
	inner := &countingClients{clients: map[string]*domain.Client{"web": domain.NewClient("web")}}
	store := cache.NewClientStore(inner, newMemoryCache(t), cache.WithTTL(20*time.Millisecond))

	_, err := store.FindClientByID(ctx, "web")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	_, err = store.FindClientByID(ctx, "web")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestResourceStore_KeyIgnoresOrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	inner := &countingResources{}
	store := cache.NewResourceStore(inner, newMemoryCache(t))

	first, err := store.FindAPIScopesByName(ctx, []string{"read", "write"})
	require.NoError(t, err)
	second, err := store.FindAPIScopesByName(ctx, []string{"write", "read", "read"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls["scopes"])
	assert.Equal(t, first, second)
}

func TestResourceStore_SeparatesLookups(t *testing.T) {
	ctx := context.Background()
	inner := &countingResources{}
	store := cache.NewResourceStore(inner, newMemoryCache(t))
	names := []string{"api1"}

	_, err := store.FindAPIResourcesByName(ctx, names)
	require.NoError(t, err)
	_, err = store.FindAPIResourcesByScopeName(ctx, names)
	require.NoError(t, err)
	_, err = store.FindIdentityResourcesByScopeName(ctx, names)
	require.NoError(t, err)
	_, err = store.GetAllResources(ctx)
	require.NoError(t, err)
	all, err := store.GetAllResources(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"api_by_name": 1, "api_by_scope": 1, "identity": 1, "all": 1}, inner.calls)
	require.Len(t, all.APIScopes, 1)
	assert.Equal(t, "read", all.APIScopes[0].Name)
}

func TestResourceStore_NilNamesBypassCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingResources{}
	store := cache.NewResourceStore(inner, newMemoryCache(t))

	_, _ = store.FindAPIScopesByName(ctx, nil)
	_, _ = store.FindAPIScopesByName(ctx, nil)

	assert.Equal(t, 2, inner.calls["scopes"])
}

func TestCorsPolicyService_CachesDecisions(t *testing.T) {
	ctx := context.Background()
	inner := &countingCors{allowed: map[string]bool{"https://app.example.com": true}}
	svc := cache.NewCorsPolicyService(inner, newMemoryCache(t))

	for range 3 {
		allowed, err := svc.IsOriginAllowed(ctx, "https://app.example.com")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	for range 2 {
		allowed, err := svc.IsOriginAllowed(ctx, "https://evil.example.com")
		require.NoError(t, err)
		assert.False(t, allowed)
	}

	assert.Equal(t, 2, inner.calls)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(context.Context, string) error { return nil }

func TestDecorators_FallBackWhenCacheFails(t *testing.T) {
	inner := &countingClients{clients: map[string]*domain.Client{"web": domain.NewClient("web")}}
	store := cache.NewClientStore(inner, brokenCache{})

	client, err := store.FindClientByID(context.Background(), "web")
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, "web", client.ClientID)
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, cache.HashKey([]string{"b", "a"}), cache.HashKey([]string{"a", "b", "a"}))
	assert.NotEqual(t, cache.HashKey([]string{"a"}), cache.HashKey([]string{"a", "b"}))
	assert.Len(t, cache.HashKey(nil), 64)
}
