package docstore

// DefaultCollectionPrefix is prepended to every collection name unless configured otherwise.
const DefaultCollectionPrefix = "is4_"

const (
	clientsCollection           = "clients"
	identityResourcesCollection = "identity_resources"
	apiResourcesCollection      = "api_resources"
	apiScopesCollection         = "api_scopes"
	persistedGrantsCollection   = "persisted_grants"
	deviceFlowCodesCollection   = "device_flow_codes"
)

// Collections holds the collection names used by the stores.
type Collections struct {
	Clients           string
	IdentityResources string
	APIResources      string
	APIScopes         string
	PersistedGrants   string
	DeviceFlowCodes   string
}

// NewCollections builds the collection names with the given prefix.
func NewCollections(prefix string) Collections {
	return Collections{
		Clients:           prefix + clientsCollection,
		IdentityResources: prefix + identityResourcesCollection,
		APIResources:      prefix + apiResourcesCollection,
		APIScopes:         prefix + apiScopesCollection,
		PersistedGrants:   prefix + persistedGrantsCollection,
		DeviceFlowCodes:   prefix + deviceFlowCodesCollection,
	}
}

// All lists every collection name.
func (c Collections) All() []string {
	return []string{c.Clients, c.IdentityResources, c.APIResources, c.APIScopes, c.PersistedGrants, c.DeviceFlowCodes}
}
