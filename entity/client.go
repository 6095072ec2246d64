// Package entity holds the storage representation of configuration and
// operational records. Field names are the document field names.
package entity

import "time"

// Secret is embedded in clients and API resources.
type Secret struct {
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Value       string     `bson:"value"                 json:"value"`
	Expiration  *time.Time `bson:"expiration,omitempty"  json:"expiration,omitempty"`
	Type        string     `bson:"type,omitempty"        json:"type,omitempty"`
}

// ClientClaim is embedded in clients.
type ClientClaim struct {
	Type  string `bson:"type"  json:"type"`
	Value string `bson:"value" json:"value"`
}

// Client is keyed by ClientID.
type Client struct {
	ClientID                              string            `bson:"client_id"                                          json:"client_id"`
	Enabled                               bool              `bson:"enabled"                                            json:"enabled"`
	ProtocolType                          string            `bson:"protocol_type"                                      json:"protocol_type"`
	ClientSecrets                         []Secret          `bson:"client_secrets,omitempty"                           json:"client_secrets,omitempty"`
	RequireClientSecret                   bool              `bson:"require_client_secret"                              json:"require_client_secret"`
	ClientName                            string            `bson:"client_name,omitempty"                              json:"client_name,omitempty"`
	Description                           string            `bson:"description,omitempty"                              json:"description,omitempty"`
	ClientURI                             string            `bson:"client_uri,omitempty"                               json:"client_uri,omitempty"`
	LogoURI                               string            `bson:"logo_uri,omitempty"                                 json:"logo_uri,omitempty"`
	RequireConsent                        bool              `bson:"require_consent"                                    json:"require_consent"`
	AllowRememberConsent                  bool              `bson:"allow_remember_consent"                             json:"allow_remember_consent"`
	AlwaysIncludeUserClaimsInIDToken      bool              `bson:"always_include_user_claims_in_id_token"             json:"always_include_user_claims_in_id_token"`
	AllowedGrantTypes                     []string          `bson:"allowed_grant_types,omitempty"                      json:"allowed_grant_types,omitempty"`
	RequirePkce                           bool              `bson:"require_pkce"                                       json:"require_pkce"`
	AllowPlainTextPkce                    bool              `bson:"allow_plain_text_pkce"                              json:"allow_plain_text_pkce"`
	RequireRequestObject                  bool              `bson:"require_request_object"                             json:"require_request_object"`
	AllowAccessTokensViaBrowser           bool              `bson:"allow_access_tokens_via_browser"                    json:"allow_access_tokens_via_browser"`
	RedirectURIs                          []string          `bson:"redirect_uris,omitempty"                            json:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs                []string          `bson:"post_logout_redirect_uris,omitempty"                json:"post_logout_redirect_uris,omitempty"`
	FrontChannelLogoutURI                 string            `bson:"front_channel_logout_uri,omitempty"                 json:"front_channel_logout_uri,omitempty"`
	FrontChannelLogoutSessionRequired     bool              `bson:"front_channel_logout_session_required"              json:"front_channel_logout_session_required"`
	BackChannelLogoutURI                  string            `bson:"back_channel_logout_uri,omitempty"                  json:"back_channel_logout_uri,omitempty"`
	BackChannelLogoutSessionRequired      bool              `bson:"back_channel_logout_session_required"               json:"back_channel_logout_session_required"`
	AllowOfflineAccess                    bool              `bson:"allow_offline_access"                               json:"allow_offline_access"`
	AllowedScopes                         []string          `bson:"allowed_scopes,omitempty"                           json:"allowed_scopes,omitempty"`
	IdentityTokenLifetime                 int               `bson:"identity_token_lifetime"                            json:"identity_token_lifetime"`
	AllowedIdentityTokenSigningAlgorithms string            `bson:"allowed_identity_token_signing_algorithms,omitempty" json:"allowed_identity_token_signing_algorithms,omitempty"`
	AccessTokenLifetime                   int               `bson:"access_token_lifetime"                              json:"access_token_lifetime"`
	AuthorizationCodeLifetime             int               `bson:"authorization_code_lifetime"                        json:"authorization_code_lifetime"`
	ConsentLifetime                       *int              `bson:"consent_lifetime,omitempty"                         json:"consent_lifetime,omitempty"`
	AbsoluteRefreshTokenLifetime          int               `bson:"absolute_refresh_token_lifetime"                    json:"absolute_refresh_token_lifetime"`
	SlidingRefreshTokenLifetime           int               `bson:"sliding_refresh_token_lifetime"                     json:"sliding_refresh_token_lifetime"`
	RefreshTokenUsage                     int               `bson:"refresh_token_usage"                                json:"refresh_token_usage"`
	UpdateAccessTokenClaimsOnRefresh      bool              `bson:"update_access_token_claims_on_refresh"              json:"update_access_token_claims_on_refresh"`
	RefreshTokenExpiration                int               `bson:"refresh_token_expiration"                           json:"refresh_token_expiration"`
	AccessTokenType                       int               `bson:"access_token_type"                                  json:"access_token_type"`
	EnableLocalLogin                      bool              `bson:"enable_local_login"                                 json:"enable_local_login"`
	IdentityProviderRestrictions          []string          `bson:"identity_provider_restrictions,omitempty"           json:"identity_provider_restrictions,omitempty"`
	IncludeJwtID                          bool              `bson:"include_jwt_id"                                     json:"include_jwt_id"`
	Claims                                []ClientClaim     `bson:"claims,omitempty"                                   json:"claims,omitempty"`
	AlwaysSendClientClaims                bool              `bson:"always_send_client_claims"                          json:"always_send_client_claims"`
	ClientClaimsPrefix                    string            `bson:"client_claims_prefix"                               json:"client_claims_prefix"`
	PairWiseSubjectSalt                   string            `bson:"pair_wise_subject_salt,omitempty"                   json:"pair_wise_subject_salt,omitempty"`
	AllowedCorsOrigins                    []string          `bson:"allowed_cors_origins,omitempty"                     json:"allowed_cors_origins,omitempty"`
	Properties                            map[string]string `bson:"properties,omitempty"                               json:"properties,omitempty"`
	Created                               time.Time         `bson:"created,omitempty"                                  json:"created"`
	Updated                               *time.Time        `bson:"updated,omitempty"                                  json:"updated,omitempty"`
	LastAccessed                          *time.Time        `bson:"last_accessed,omitempty"                            json:"last_accessed,omitempty"`
	UserSsoLifetime                       *int              `bson:"user_sso_lifetime,omitempty"                        json:"user_sso_lifetime,omitempty"`
	UserCodeType                          string            `bson:"user_code_type,omitempty"                           json:"user_code_type,omitempty"`
	DeviceCodeLifetime                    int               `bson:"device_code_lifetime"                               json:"device_code_lifetime"`
	NonEditable                           bool              `bson:"non_editable,omitempty"                             json:"non_editable"`
}
