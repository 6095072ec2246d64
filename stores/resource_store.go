package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/mapper"
	"go.pilab.hu/idstore/tracing"
)

// ResourceStore reads and seeds identity resources, API resources and API scopes.
type ResourceStore struct {
	store  docstore.Store
	cols   docstore.Collections
	logger log.Logger
}

var _ domain.ResourceStore = (*ResourceStore)(nil)

// NewResourceStore reads resources from the collections named in cols.
func NewResourceStore(store docstore.Store, cols docstore.Collections, logger log.Logger) *ResourceStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &ResourceStore{store: store, cols: cols, logger: logger}
}

// FindIdentityResourcesByScopeName matches identity resources by name. A nil
// slice is an error; an empty one returns no resources.
func (s *ResourceStore) FindIdentityResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*domain.IdentityResource, error) {
	if scopeNames == nil {
		return nil, fmt.Errorf("scope names: %w", domain.ErrNilArgument)
	}

	entities, err := findChunked[entity.IdentityResource](ctx, s.store, s.cols.IdentityResources, scopeNames, inField("name"))
	if err != nil {
		return nil, fmt.Errorf("find identity resources: %w", err)
	}

	out := make([]*domain.IdentityResource, len(entities))
	for i, e := range entities {
		out[i] = mapper.IdentityResourceToModel(e)
	}
	return out, nil
}

// FindAPIResourcesByScopeName returns each API resource listing any of the
// scopes once.
func (s *ResourceStore) FindAPIResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*domain.APIResource, error) {
	if scopeNames == nil {
		return nil, fmt.Errorf("scope names: %w", domain.ErrNilArgument)
	}

	entities, err := findChunked[entity.APIResource](ctx, s.store, s.cols.APIResources, scopeNames, arrayContainsAnyField("scopes"))
	if err != nil {
		return nil, fmt.Errorf("find api resources by scope: %w", err)
	}
	return apiResourcesToModel(entities), nil
}

// FindAPIResourcesByName matches API resources by name.
func (s *ResourceStore) FindAPIResourcesByName(ctx context.Context, names []string) ([]*domain.APIResource, error) {
	if names == nil {
		return nil, fmt.Errorf("api resource names: %w", domain.ErrNilArgument)
	}

	entities, err := findChunked[entity.APIResource](ctx, s.store, s.cols.APIResources, names, inField("name"))
	if err != nil {
		return nil, fmt.Errorf("find api resources: %w", err)
	}
	return apiResourcesToModel(entities), nil
}

func (s *ResourceStore) FindAPIScopesByName(ctx context.Context, names []string) ([]*domain.APIScope, error) {
	if names == nil {
		return nil, fmt.Errorf("scope names: %w", domain.ErrNilArgument)
	}

	entities, err := findChunked[entity.APIScope](ctx, s.store, s.cols.APIScopes, names, inField("name"))
	if err != nil {
		return nil, fmt.Errorf("find api scopes: %w", err)
	}

	out := make([]*domain.APIScope, len(entities))
	for i, e := range entities {
		out[i] = mapper.APIScopeToModel(e)
	}
	return out, nil
}

// GetAllResources returns every resource, including ones hidden from discovery.
func (s *ResourceStore) GetAllResources(ctx context.Context) (*domain.Resources, error) {
	ids, err := scanAll[entity.IdentityResource](ctx, s.store, s.cols.IdentityResources)
	if err != nil {
		return nil, fmt.Errorf("list identity resources: %w", err)
	}
	apis, err := scanAll[entity.APIResource](ctx, s.store, s.cols.APIResources)
	if err != nil {
		return nil, fmt.Errorf("list api resources: %w", err)
	}
	scopes, err := scanAll[entity.APIScope](ctx, s.store, s.cols.APIScopes)
	if err != nil {
		return nil, fmt.Errorf("list api scopes: %w", err)
	}

	res := &domain.Resources{
		IdentityResources: make([]*domain.IdentityResource, len(ids)),
		APIResources:      apiResourcesToModel(apis),
		APIScopes:         make([]*domain.APIScope, len(scopes)),
	}
	for i, e := range ids {
		res.IdentityResources[i] = mapper.IdentityResourceToModel(e)
	}
	for i, e := range scopes {
		res.APIScopes[i] = mapper.APIScopeToModel(e)
	}
	return res, nil
}

// StoreIdentityResource upserts an identity resource by name.
func (s *ResourceStore) StoreIdentityResource(ctx context.Context, r *domain.IdentityResource) error {
	if r == nil {
		return fmt.Errorf("store identity resource: %w", domain.ErrNilArgument)
	}
	e := mapper.IdentityResourceToEntity(r)
	return s.upsert(ctx, s.cols.IdentityResources, r.Name, e, func(prev *docstore.Document, now time.Time) error {
		if prev == nil {
			e.Created = now
			return nil
		}
		var stored entity.IdentityResource
		if err := prev.DataTo(&stored); err != nil {
			return err
		}
		e.Created = stored.Created
		e.NonEditable = stored.NonEditable
		e.Updated = &now
		return nil
	})
}

// StoreAPIResource upserts an API resource by name.
func (s *ResourceStore) StoreAPIResource(ctx context.Context, r *domain.APIResource) error {
	if r == nil {
		return fmt.Errorf("store api resource: %w", domain.ErrNilArgument)
	}
	e := mapper.APIResourceToEntity(r)
	return s.upsert(ctx, s.cols.APIResources, r.Name, e, func(prev *docstore.Document, now time.Time) error {
		if prev == nil {
			e.Created = now
			return nil
		}
		var stored entity.APIResource
		if err := prev.DataTo(&stored); err != nil {
			return err
		}
		e.Created = stored.Created
		e.LastAccessed = stored.LastAccessed
		e.NonEditable = stored.NonEditable
		e.Updated = &now
		return nil
	})
}

// StoreAPIScope upserts an API scope by name.
func (s *ResourceStore) StoreAPIScope(ctx context.Context, scope *domain.APIScope) error {
	if scope == nil {
		return fmt.Errorf("store api scope: %w", domain.ErrNilArgument)
	}
	return s.upsert(ctx, s.cols.APIScopes, scope.Name, mapper.APIScopeToEntity(scope), nil)
}

// upsert replaces the document with data. keep receives the stored document,
// or nil when there is none, and moves storage-only fields onto data first.
func (s *ResourceStore) upsert(ctx context.Context, collection, id string, data any, keep func(prev *docstore.Document, now time.Time) error) error {
	prev, err := s.store.Get(ctx, collection, id)
	created := errors.Is(err, docstore.ErrNotFound)
	if err != nil && !created {
		return fmt.Errorf("store %s/%s: %w", collection, id, err)
	}
	if created {
		prev = nil
	}

	if keep != nil {
		if err := keep(prev, time.Now().UTC()); err != nil {
			return fmt.Errorf("store %s/%s: %w", collection, id, err)
		}
	}

	if err := s.store.Set(ctx, collection, id, data, docstore.Overwrite); err != nil {
		return fmt.Errorf("store %s/%s: %w", collection, id, err)
	}

	s.logger.Debug(ctx, "resource stored", log.Fields{"collection": collection, "name": id, "created": created})
	return nil
}

func apiResourcesToModel(entities []*entity.APIResource) []*domain.APIResource {
	out := make([]*domain.APIResource, len(entities))
	for i, e := range entities {
		out[i] = mapper.APIResourceToModel(e)
	}
	return out
}

func findChunked[E any](ctx context.Context, store docstore.Store, collection string, values []string, pred predicateFunc) ([]*E, error) {
	ctx, span := tracing.Tracer().Start(ctx, "stores.queryChunked")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.collection", collection),
		attribute.Int("idstore.values", len(values)),
	)

	docs, err := queryChunked(ctx, store, collection, values, pred)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return decodeAll[E](docs)
}

func scanAll[E any](ctx context.Context, store docstore.Store, collection string) ([]*E, error) {
	docs, err := store.Query(ctx, collection, docstore.Query{})
	if err != nil {
		return nil, err
	}
	return decodeAll[E](docs)
}
