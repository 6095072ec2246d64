package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
)

// DefaultTTL applies when a decorator is built with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

const (
	clientsCache   = "clients"
	resourcesCache = "resources"
	corsCache      = "cors"
)

type options struct {
	ttl      time.Duration
	recorder Recorder
	logger   log.Logger
}

// Option configures a caching decorator.
type Option func(*options)

// WithTTL sets how long looked up values stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithRecorder counts hits and misses.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger logs cache backend failures.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, recorder: nopRecorder{}, logger: log.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cached reads key from c, falling back to load and caching its result.
// Backend failures degrade to a direct load. Results for which keep returns
// false are passed through without being cached.
func cached[T any](
	ctx context.Context, c Cache, o options, name, key string,
	load func(context.Context) (T, error), keep func(T) bool,
) (T, error) {
	var value T

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		o.logger.Warn(ctx, "cache lookup failed", log.Fields{"cache": name, "error": err.Error()})
	}
	if ok {
		if err := json.Unmarshal(raw, &value); err == nil {
			o.recorder.CacheHit(name)
			return value, nil
		}
		o.logger.Warn(ctx, "dropping undecodable cache entry", log.Fields{"cache": name, "key": key})
		_ = c.Delete(ctx, key)
	}

	o.recorder.CacheMiss(name)

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if !keep(value) {
		return value, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		o.logger.Warn(ctx, "failed to encode cache entry", log.Fields{"cache": name, "error": err.Error()})
		return value, nil
	}
	if err := c.Set(ctx, key, data, o.ttl); err != nil {
		o.logger.Warn(ctx, "cache store failed", log.Fields{"cache": name, "error": err.Error()})
	}

	return value, nil
}

func always[T any](T) bool { return true }

// ClientStore caches found clients by id. Missing clients are not cached.
type ClientStore struct {
	inner domain.ClientStore
	cache Cache
	opts  options
}

var _ domain.ClientStore = (*ClientStore)(nil)

// NewClientStore caches client lookups of inner in c.
func NewClientStore(inner domain.ClientStore, c Cache, opts ...Option) *ClientStore {
	return &ClientStore{inner: inner, cache: c, opts: buildOptions(opts)}
}

func (s *ClientStore) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	return cached(ctx, s.cache, s.opts, clientsCache, "client:"+clientID,
		func(ctx context.Context) (*domain.Client, error) {
			return s.inner.FindClientByID(ctx, clientID)
		},
		func(c *domain.Client) bool { return c != nil },
	)
}

// ResourceStore caches resource lookups keyed by the requested names.
type ResourceStore struct {
	inner domain.ResourceStore
	cache Cache
	opts  options
}

var _ domain.ResourceStore = (*ResourceStore)(nil)

// NewResourceStore caches resource lookups of inner in c.
func NewResourceStore(inner domain.ResourceStore, c Cache, opts ...Option) *ResourceStore {
	return &ResourceStore{inner: inner, cache: c, opts: buildOptions(opts)}
}

func (s *ResourceStore) FindIdentityResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*domain.IdentityResource, error) {
	if scopeNames == nil {
		return s.inner.FindIdentityResourcesByScopeName(ctx, nil)
	}
	return cached(ctx, s.cache, s.opts, resourcesCache, "identity_resources:scope:"+HashKey(scopeNames),
		func(ctx context.Context) ([]*domain.IdentityResource, error) {
			return s.inner.FindIdentityResourcesByScopeName(ctx, scopeNames)
		},
		always[[]*domain.IdentityResource],
	)
}

func (s *ResourceStore) FindAPIResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*domain.APIResource, error) {
	if scopeNames == nil {
		return s.inner.FindAPIResourcesByScopeName(ctx, nil)
	}
	return cached(ctx, s.cache, s.opts, resourcesCache, "api_resources:scope:"+HashKey(scopeNames),
		func(ctx context.Context) ([]*domain.APIResource, error) {
			return s.inner.FindAPIResourcesByScopeName(ctx, scopeNames)
		},
		always[[]*domain.APIResource],
	)
}

func (s *ResourceStore) FindAPIResourcesByName(ctx context.Context, names []string) ([]*domain.APIResource, error) {
	if names == nil {
		return s.inner.FindAPIResourcesByName(ctx, nil)
	}
	return cached(ctx, s.cache, s.opts, resourcesCache, "api_resources:name:"+HashKey(names),
		func(ctx context.Context) ([]*domain.APIResource, error) {
			return s.inner.FindAPIResourcesByName(ctx, names)
		},
		always[[]*domain.APIResource],
	)
}

func (s *ResourceStore) FindAPIScopesByName(ctx context.Context, names []string) ([]*domain.APIScope, error) {
	if names == nil {
		return s.inner.FindAPIScopesByName(ctx, nil)
	}
	return cached(ctx, s.cache, s.opts, resourcesCache, "api_scopes:name:"+HashKey(names),
		func(ctx context.Context) ([]*domain.APIScope, error) {
			return s.inner.FindAPIScopesByName(ctx, names)
		},
		always[[]*domain.APIScope],
	)
}

func (s *ResourceStore) GetAllResources(ctx context.Context) (*domain.Resources, error) {
	return cached(ctx, s.cache, s.opts, resourcesCache, "resources:all",
		s.inner.GetAllResources,
		func(r *domain.Resources) bool { return r != nil },
	)
}

// CorsPolicyService caches the allow decision per origin.
type CorsPolicyService struct {
	inner domain.CorsPolicyService
	cache Cache
	opts  options
}

var _ domain.CorsPolicyService = (*CorsPolicyService)(nil)

// NewCorsPolicyService caches origin checks of inner in c.
func NewCorsPolicyService(inner domain.CorsPolicyService, c Cache, opts ...Option) *CorsPolicyService {
	return &CorsPolicyService{inner: inner, cache: c, opts: buildOptions(opts)}
}

func (s *CorsPolicyService) IsOriginAllowed(ctx context.Context, origin string) (bool, error) {
	return cached(ctx, s.cache, s.opts, corsCache, "cors:"+strings.ToLower(origin),
		func(ctx context.Context) (bool, error) {
			return s.inner.IsOriginAllowed(ctx, origin)
		},
		always[bool],
	)
}
