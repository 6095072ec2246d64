package entity

import "time"

// IdentityResource is keyed by Name.
type IdentityResource struct {
	Name                    string            `bson:"name"                       json:"name"`
	Enabled                 bool              `bson:"enabled"                    json:"enabled"`
	DisplayName             string            `bson:"display_name,omitempty"     json:"display_name,omitempty"`
	Description             string            `bson:"description,omitempty"      json:"description,omitempty"`
	Required                bool              `bson:"required"                   json:"required"`
	Emphasize               bool              `bson:"emphasize"                  json:"emphasize"`
	ShowInDiscoveryDocument bool              `bson:"show_in_discovery_document" json:"show_in_discovery_document"`
	UserClaims              []string          `bson:"user_claims,omitempty"      json:"user_claims,omitempty"`
	Properties              map[string]string `bson:"properties,omitempty"       json:"properties,omitempty"`
	Created                 time.Time         `bson:"created,omitempty"          json:"created"`
	Updated                 *time.Time        `bson:"updated,omitempty"          json:"updated,omitempty"`
	NonEditable             bool              `bson:"non_editable,omitempty"     json:"non_editable"`
}

// APIResource is keyed by Name.
type APIResource struct {
	Name                                string            `bson:"name"                                             json:"name"`
	Enabled                             bool              `bson:"enabled"                                          json:"enabled"`
	DisplayName                         string            `bson:"display_name,omitempty"                           json:"display_name,omitempty"`
	Description                         string            `bson:"description,omitempty"                            json:"description,omitempty"`
	ShowInDiscoveryDocument             bool              `bson:"show_in_discovery_document"                       json:"show_in_discovery_document"`
	AllowedAccessTokenSigningAlgorithms string            `bson:"allowed_access_token_signing_algorithms,omitempty" json:"allowed_access_token_signing_algorithms,omitempty"`
	Secrets                             []Secret          `bson:"secrets,omitempty"                                json:"secrets,omitempty"`
	Scopes                              []string          `bson:"scopes,omitempty"                                 json:"scopes,omitempty"`
	UserClaims                          []string          `bson:"user_claims,omitempty"                            json:"user_claims,omitempty"`
	Properties                          map[string]string `bson:"properties,omitempty"                             json:"properties,omitempty"`
	Created                             time.Time         `bson:"created,omitempty"                                json:"created"`
	Updated                             *time.Time        `bson:"updated,omitempty"                                json:"updated,omitempty"`
	LastAccessed                        *time.Time        `bson:"last_accessed,omitempty"                          json:"last_accessed,omitempty"`
	NonEditable                         bool              `bson:"non_editable,omitempty"                           json:"non_editable"`
}

// APIScope is keyed by Name.
type APIScope struct {
	Name                    string            `bson:"name"                       json:"name"`
	Enabled                 bool              `bson:"enabled"                    json:"enabled"`
	DisplayName             string            `bson:"display_name,omitempty"     json:"display_name,omitempty"`
	Description             string            `bson:"description,omitempty"      json:"description,omitempty"`
	Required                bool              `bson:"required"                   json:"required"`
	Emphasize               bool              `bson:"emphasize"                  json:"emphasize"`
	ShowInDiscoveryDocument bool              `bson:"show_in_discovery_document" json:"show_in_discovery_document"`
	UserClaims              []string          `bson:"user_claims,omitempty"      json:"user_claims,omitempty"`
	Properties              map[string]string `bson:"properties,omitempty"       json:"properties,omitempty"`
}
