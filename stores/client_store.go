// Package stores implements the configuration and operational stores over a
// docstore.Store backend.
package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/mapper"
)

// ClientStore reads and seeds clients.
type ClientStore struct {
	store      docstore.Store
	collection string
	logger     log.Logger
}

var _ domain.ClientStore = (*ClientStore)(nil)

// NewClientStore reads clients from cols.Clients. A nil logger discards output.
func NewClientStore(store docstore.Store, cols docstore.Collections, logger log.Logger) *ClientStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &ClientStore{store: store, collection: cols.Clients, logger: logger}
}

// FindClientByID returns nil, nil when the client does not exist.
func (s *ClientStore) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	doc, err := s.store.Get(ctx, s.collection, clientID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			s.logger.Debug(ctx, "client not found", log.Fields{"client_id": clientID})
			return nil, nil
		}
		return nil, fmt.Errorf("find client %s: %w", clientID, err)
	}

	var e entity.Client
	if err := doc.DataTo(&e); err != nil {
		return nil, err
	}

	client, err := mapper.ClientToModel(&e)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "client found", log.Fields{"client_id": clientID})

	return client, nil
}

// Store upserts a client. The stored record is replaced by the model, only
// the creation time, last access and non-editable flag of an existing record
// are carried over.
func (s *ClientStore) Store(ctx context.Context, client *domain.Client) error {
	if client == nil {
		return fmt.Errorf("store client: %w", domain.ErrNilArgument)
	}

	e := mapper.ClientToEntity(client)
	now := time.Now().UTC()

	doc, err := s.store.Get(ctx, s.collection, client.ClientID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		e.Created = now
	case err != nil:
		return fmt.Errorf("store client %s: %w", client.ClientID, err)
	default:
		var stored entity.Client
		if err := doc.DataTo(&stored); err != nil {
			return err
		}
		e.Created = stored.Created
		e.LastAccessed = stored.LastAccessed
		e.NonEditable = stored.NonEditable
		e.Updated = &now
	}

	if err := s.store.Set(ctx, s.collection, client.ClientID, e, docstore.Overwrite); err != nil {
		return fmt.Errorf("store client %s: %w", client.ClientID, err)
	}
	return nil
}
