package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.pilab.hu/idstore/docstore"
)

func asc(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

// EnsureIndexes creates the indexes backing the store lookups. Existing
// indexes with the same definition are left as they are.
func (s *Store) EnsureIndexes(ctx context.Context, cols docstore.Collections) error {
	indexes := map[string][]mongo.IndexModel{
		cols.Clients: {
			{Keys: asc("allowed_cors_origins")},
		},
		cols.IdentityResources: {
			{Keys: asc("name"), Options: options.Index().SetUnique(true)},
		},
		cols.APIResources: {
			{Keys: asc("name"), Options: options.Index().SetUnique(true)},
			{Keys: asc("scopes")},
		},
		cols.APIScopes: {
			{Keys: asc("name"), Options: options.Index().SetUnique(true)},
		},
		cols.PersistedGrants: {
			{Keys: asc("expiration")},
			{Keys: asc("subject_id", "client_id", "type")},
			{Keys: asc("subject_id", "session_id", "client_id", "type")},
		},
		cols.DeviceFlowCodes: {
			{Keys: asc("device_code"), Options: options.Index().SetUnique(true)},
			{Keys: asc("user_code"), Options: options.Index().SetUnique(true)},
			{Keys: asc("expiration")},
		},
	}

	for _, name := range cols.All() {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes[name]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
