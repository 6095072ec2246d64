package stores

import (
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
)

// Stores bundles every store built over one backend.
type Stores struct {
	Clients    *ClientStore
	Resources  *ResourceStore
	Cors       *CorsPolicyService
	Grants     *PersistedGrantStore
	DeviceFlow *DeviceFlowStore
}

// New builds all stores over backend using the given collection names.
func New(backend docstore.Store, cols docstore.Collections, serializer domain.GrantSerializer, logger log.Logger) *Stores {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Stores{
		Clients:    NewClientStore(backend, cols, logger.With(log.Fields{"store": "clients"})),
		Resources:  NewResourceStore(backend, cols, logger.With(log.Fields{"store": "resources"})),
		Cors:       NewCorsPolicyService(backend, cols, logger.With(log.Fields{"store": "cors"})),
		Grants:     NewPersistedGrantStore(backend, cols, logger.With(log.Fields{"store": "persisted_grants"})),
		DeviceFlow: NewDeviceFlowStore(backend, cols, serializer, logger.With(log.Fields{"store": "device_flow"})),
	}
}
