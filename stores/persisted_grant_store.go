package stores

import (
	"context"
	"errors"
	"fmt"

	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/mapper"
)

// RemoveAllBatchSize is the page size RemoveAll deletes per round.
const RemoveAllBatchSize = 100

// PersistedGrantStore keeps grants with the grant key as document id.
type PersistedGrantStore struct {
	store      docstore.Store
	collection string
	logger     log.Logger
}

var _ domain.PersistedGrantStore = (*PersistedGrantStore)(nil)

// NewPersistedGrantStore keeps grants in cols.PersistedGrants.
func NewPersistedGrantStore(store docstore.Store, cols docstore.Collections, logger log.Logger) *PersistedGrantStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &PersistedGrantStore{store: store, collection: cols.PersistedGrants, logger: logger}
}

// Store inserts the grant or updates the stored one in place. The read and
// the write are not transactional; concurrent writers of one key race.
func (s *PersistedGrantStore) Store(ctx context.Context, grant *domain.PersistedGrant) error {
	if grant == nil {
		return fmt.Errorf("store grant: %w", domain.ErrNilArgument)
	}

	e := &entity.PersistedGrant{}
	doc, err := s.store.Get(ctx, s.collection, grant.Key)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		s.logger.Debug(ctx, "persisted grant not found, inserting", log.Fields{"grant_key": grant.Key})
	case err != nil:
		return fmt.Errorf("store grant %s: %w", grant.Key, err)
	default:
		if err := doc.DataTo(e); err != nil {
			return err
		}
		s.logger.Debug(ctx, "persisted grant found, updating", log.Fields{"grant_key": grant.Key})
	}

	mapper.UpdatePersistedGrantEntity(grant, e)

	if err := s.store.Set(ctx, s.collection, grant.Key, e, docstore.Overwrite); err != nil {
		return fmt.Errorf("store grant %s: %w", grant.Key, err)
	}
	return nil
}

// Get returns nil, nil when no grant has the key.
func (s *PersistedGrantStore) Get(ctx context.Context, key string) (*domain.PersistedGrant, error) {
	doc, err := s.store.Get(ctx, s.collection, key)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.logger.Debug(ctx, "persisted grant not found", log.Fields{"grant_key": key})
			return nil, nil
		}
		return nil, fmt.Errorf("get grant %s: %w", key, err)
	}

	var e entity.PersistedGrant
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}
	return mapper.PersistedGrantToModel(&e), nil
}

// GetAll returns the grants matching every non-empty filter field.
func (s *PersistedGrantStore) GetAll(ctx context.Context, filter domain.PersistedGrantFilter) ([]*domain.PersistedGrant, error) {
	q, err := filterQuery(filter)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, s.collection, q)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	entities, err := decodeAll[entity.PersistedGrant](docs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.PersistedGrant, len(entities))
	for i, e := range entities {
		out[i] = mapper.PersistedGrantToModel(e)
	}

	s.logger.Debug(ctx, "persisted grants listed", filterFields(filter, log.Fields{"count": len(out)}))

	return out, nil
}

// Remove deletes the grant. A missing key is not an error.
func (s *PersistedGrantStore) Remove(ctx context.Context, key string) error {
	if err := s.store.Batch(s.collection).Delete(key).Commit(ctx); err != nil {
		return fmt.Errorf("remove grant %s: %w", key, err)
	}
	s.logger.Debug(ctx, "persisted grant removed", log.Fields{"grant_key": key})
	return nil
}

// RemoveAll deletes matching grants in rounds of RemoveAllBatchSize until a
// scan comes back empty.
func (s *PersistedGrantStore) RemoveAll(ctx context.Context, filter domain.PersistedGrantFilter) error {
	q, err := filterQuery(filter)
	if err != nil {
		return err
	}
	q.Limit = RemoveAllBatchSize

	removed := 0
	for {
		docs, err := s.store.Query(ctx, s.collection, q)
		if err != nil {
			return fmt.Errorf("remove grants: %w", err)
		}
		if len(docs) == 0 {
			break
		}

		batch := s.store.Batch(s.collection)
		for _, d := range docs {
			batch.Delete(d.ID)
		}
		if err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("remove grants: %w", err)
		}
		removed += len(docs)
	}

	s.logger.Debug(ctx, "persisted grants removed", filterFields(filter, log.Fields{"count": removed}))
	return nil
}

func filterQuery(filter domain.PersistedGrantFilter) (docstore.Query, error) {
	if err := filter.Validate(); err != nil {
		return docstore.Query{}, err
	}

	var where []docstore.Predicate
	if filter.ClientID != "" {
		where = append(where, docstore.Eq("client_id", filter.ClientID))
	}
	if filter.SessionID != "" {
		where = append(where, docstore.Eq("session_id", filter.SessionID))
	}
	if filter.SubjectID != "" {
		where = append(where, docstore.Eq("subject_id", filter.SubjectID))
	}
	if filter.Type != "" {
		where = append(where, docstore.Eq("type", filter.Type))
	}
	return docstore.Query{Where: where}, nil
}

func filterFields(filter domain.PersistedGrantFilter, fields log.Fields) log.Fields {
	fields["client_id"] = filter.ClientID
	fields["session_id"] = filter.SessionID
	fields["subject_id"] = filter.SubjectID
	fields["type"] = filter.Type
	return fields
}
