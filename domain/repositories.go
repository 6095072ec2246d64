package domain

import (
	"context"
)

// ClientStore retrieves client configuration.
type ClientStore interface {
	// FindClientByID returns nil, nil when the client does not exist.
	FindClientByID(ctx context.Context, clientID string) (*Client, error)
}

// ResourceStore retrieves identity resources, API resources and API scopes.
type ResourceStore interface {
	FindIdentityResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*IdentityResource, error)
	FindAPIResourcesByScopeName(ctx context.Context, scopeNames []string) ([]*APIResource, error)
	FindAPIResourcesByName(ctx context.Context, names []string) ([]*APIResource, error)
	FindAPIScopesByName(ctx context.Context, names []string) ([]*APIScope, error)
	GetAllResources(ctx context.Context) (*Resources, error)
}

// CorsPolicyService decides whether a browser origin may call the server.
type CorsPolicyService interface {
	IsOriginAllowed(ctx context.Context, origin string) (bool, error)
}

// PersistedGrantStore keeps refresh tokens, codes, reference tokens and consents.
type PersistedGrantStore interface {
	Store(ctx context.Context, grant *PersistedGrant) error
	// Get returns nil, nil when no grant has the key.
	Get(ctx context.Context, key string) (*PersistedGrant, error)
	GetAll(ctx context.Context, filter PersistedGrantFilter) ([]*PersistedGrant, error)
	Remove(ctx context.Context, key string) error
	RemoveAll(ctx context.Context, filter PersistedGrantFilter) error
}

// DeviceFlowStore keeps pending device authorizations.
type DeviceFlowStore interface {
	StoreDeviceAuthorization(ctx context.Context, deviceCode, userCode string, data *DeviceCode) error
	FindByUserCode(ctx context.Context, userCode string) (*DeviceCode, error)
	FindByDeviceCode(ctx context.Context, deviceCode string) (*DeviceCode, error)
	UpdateByUserCode(ctx context.Context, userCode string, data *DeviceCode) error
	RemoveByDeviceCode(ctx context.Context, deviceCode string) error
}

// GrantSerializer turns device code payloads into the opaque stored blob and back.
type GrantSerializer interface {
	Serialize(v any) (string, error)
	Deserialize(data string, out any) error
}
