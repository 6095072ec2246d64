package domain

// IdentityResource is a named group of user claims requestable as a scope.
type IdentityResource struct {
	Enabled                 bool              `json:"enabled"                   yaml:"enabled"`
	Name                    string            `json:"name"                      yaml:"name"`
	DisplayName             string            `json:"display_name,omitempty"    yaml:"display_name,omitempty"`
	Description             string            `json:"description,omitempty"     yaml:"description,omitempty"`
	Required                bool              `json:"required"                  yaml:"required"`
	Emphasize               bool              `json:"emphasize"                 yaml:"emphasize"`
	ShowInDiscoveryDocument bool              `json:"show_in_discovery_document" yaml:"show_in_discovery_document"`
	UserClaims              []string          `json:"user_claims,omitempty"     yaml:"user_claims,omitempty"`
	Properties              map[string]string `json:"properties,omitempty"      yaml:"properties,omitempty"`
}

// APIResource is a protected API, grouping the scopes that grant access to it.
type APIResource struct {
	Enabled                             bool              `json:"enabled"                    yaml:"enabled"`
	Name                                string            `json:"name"                       yaml:"name"`
	DisplayName                         string            `json:"display_name,omitempty"     yaml:"display_name,omitempty"`
	Description                         string            `json:"description,omitempty"      yaml:"description,omitempty"`
	ShowInDiscoveryDocument             bool              `json:"show_in_discovery_document" yaml:"show_in_discovery_document"`
	AllowedAccessTokenSigningAlgorithms []string          `json:"allowed_access_token_signing_algorithms,omitempty" yaml:"allowed_access_token_signing_algorithms,omitempty"`
	APISecrets                          []Secret          `json:"api_secrets,omitempty"      yaml:"api_secrets,omitempty"`
	Scopes                              []string          `json:"scopes,omitempty"           yaml:"scopes,omitempty"`
	UserClaims                          []string          `json:"user_claims,omitempty"      yaml:"user_claims,omitempty"`
	Properties                          map[string]string `json:"properties,omitempty"       yaml:"properties,omitempty"`
}

// APIScope is an individual scope a client can request.
type APIScope struct {
	Enabled                 bool              `json:"enabled"                    yaml:"enabled"`
	Name                    string            `json:"name"                       yaml:"name"`
	DisplayName             string            `json:"display_name,omitempty"     yaml:"display_name,omitempty"`
	Description             string            `json:"description,omitempty"      yaml:"description,omitempty"`
	Required                bool              `json:"required"                   yaml:"required"`
	Emphasize               bool              `json:"emphasize"                  yaml:"emphasize"`
	ShowInDiscoveryDocument bool              `json:"show_in_discovery_document" yaml:"show_in_discovery_document"`
	UserClaims              []string          `json:"user_claims,omitempty"      yaml:"user_claims,omitempty"`
	Properties              map[string]string `json:"properties,omitempty"       yaml:"properties,omitempty"`
}

// Resources aggregates every configured resource.
type Resources struct {
	IdentityResources []*IdentityResource `json:"identity_resources"`
	APIResources      []*APIResource      `json:"api_resources"`
	APIScopes         []*APIScope         `json:"api_scopes"`
}

// NewIdentityResource returns an enabled identity resource shown in discovery.
func NewIdentityResource(name string, userClaims ...string) *IdentityResource {
	return &IdentityResource{Enabled: true, Name: name, ShowInDiscoveryDocument: true, UserClaims: userClaims}
}

// NewAPIResource returns an enabled API resource shown in discovery.
func NewAPIResource(name string, scopes ...string) *APIResource {
	return &APIResource{Enabled: true, Name: name, ShowInDiscoveryDocument: true, Scopes: scopes}
}

// NewAPIScope returns an enabled API scope shown in discovery.
func NewAPIScope(name string) *APIScope {
	return &APIScope{Enabled: true, Name: name, ShowInDiscoveryDocument: true}
}
