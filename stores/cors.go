package stores

import (
	"context"
	"fmt"
	"strings"

	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
)

// CorsPolicyService allows an origin when any client lists it.
type CorsPolicyService struct {
	store      docstore.Store
	collection string
	logger     log.Logger
}

var _ domain.CorsPolicyService = (*CorsPolicyService)(nil)

// NewCorsPolicyService checks origins against the clients in cols.Clients.
func NewCorsPolicyService(store docstore.Store, cols docstore.Collections, logger log.Logger) *CorsPolicyService {
	if logger == nil {
		logger = log.NewNop()
	}
	return &CorsPolicyService{store: store, collection: cols.Clients, logger: logger}
}

// IsOriginAllowed compares the lower-cased origin against allowed_cors_origins.
func (s *CorsPolicyService) IsOriginAllowed(ctx context.Context, origin string) (bool, error) {
	origin = strings.ToLower(origin)

	docs, err := s.store.Query(ctx, s.collection, docstore.Query{
		Where: []docstore.Predicate{docstore.ArrayContains("allowed_cors_origins", origin)},
		Limit: 1,
	})
	if err != nil {
		return false, fmt.Errorf("check cors origin: %w", err)
	}

	allowed := len(docs) > 0
	s.logger.Debug(ctx, "cors origin checked", log.Fields{"origin": origin, "allowed": allowed})

	return allowed, nil
}
