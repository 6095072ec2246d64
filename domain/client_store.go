package domain

import "time"

const (
	// SecretTypeSharedSecret is the secret type assumed when none is stored.
	SecretTypeSharedSecret = "SharedSecret"

	// ClaimValueTypeString is the value type of claims read back from storage.
	ClaimValueTypeString = "http://www.w3.org/2001/XMLSchema#string"

	// ProtocolTypeOIDC is the default client protocol.
	ProtocolTypeOIDC = "oidc"
)

// Secret is a client or API resource secret.
type Secret struct {
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Value       string     `json:"value"                 yaml:"value"`
	Expiration  *time.Time `json:"expiration,omitempty"  yaml:"expiration,omitempty"`
	Type        string     `json:"type"                  yaml:"type"`
}

// NewSecret returns a shared secret holding value.
func NewSecret(value string) Secret {
	return Secret{Value: value, Type: SecretTypeSharedSecret}
}

// ClientClaim is a claim the server always adds to tokens issued to a client.
type ClientClaim struct {
	Type      string `json:"type"       yaml:"type"`
	Value     string `json:"value"      yaml:"value"`
	ValueType string `json:"value_type" yaml:"value_type,omitempty"`
}

// Client represents an OAuth2/OIDC client application.
type Client struct {
	Enabled                               bool              `json:"enabled"                                  yaml:"enabled"`
	ClientID                              string            `json:"client_id"                                yaml:"client_id"`
	ProtocolType                          string            `json:"protocol_type"                            yaml:"protocol_type"`
	ClientSecrets                         []Secret          `json:"client_secrets,omitempty"                 yaml:"client_secrets,omitempty"`
	RequireClientSecret                   bool              `json:"require_client_secret"                    yaml:"require_client_secret"`
	ClientName                            string            `json:"client_name,omitempty"                    yaml:"client_name,omitempty"`
	Description                           string            `json:"description,omitempty"                    yaml:"description,omitempty"`
	ClientURI                             string            `json:"client_uri,omitempty"                     yaml:"client_uri,omitempty"`
	LogoURI                               string            `json:"logo_uri,omitempty"                       yaml:"logo_uri,omitempty"`
	RequireConsent                        bool              `json:"require_consent"                          yaml:"require_consent"`
	AllowRememberConsent                  bool              `json:"allow_remember_consent"                   yaml:"allow_remember_consent"`
	AlwaysIncludeUserClaimsInIDToken      bool              `json:"always_include_user_claims_in_id_token"   yaml:"always_include_user_claims_in_id_token"`
	AllowedGrantTypes                     []string          `json:"allowed_grant_types,omitempty"            yaml:"allowed_grant_types,omitempty"`
	RequirePkce                           bool              `json:"require_pkce"                             yaml:"require_pkce"`
	AllowPlainTextPkce                    bool              `json:"allow_plain_text_pkce"                    yaml:"allow_plain_text_pkce"`
	RequireRequestObject                  bool              `json:"require_request_object"                   yaml:"require_request_object"`
	AllowAccessTokensViaBrowser           bool              `json:"allow_access_tokens_via_browser"          yaml:"allow_access_tokens_via_browser"`
	RedirectURIs                          []string          `json:"redirect_uris,omitempty"                  yaml:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs                []string          `json:"post_logout_redirect_uris,omitempty"      yaml:"post_logout_redirect_uris,omitempty"`
	FrontChannelLogoutURI                 string            `json:"front_channel_logout_uri,omitempty"       yaml:"front_channel_logout_uri,omitempty"`
	FrontChannelLogoutSessionRequired     bool              `json:"front_channel_logout_session_required"    yaml:"front_channel_logout_session_required"`
	BackChannelLogoutURI                  string            `json:"back_channel_logout_uri,omitempty"        yaml:"back_channel_logout_uri,omitempty"`
	BackChannelLogoutSessionRequired      bool              `json:"back_channel_logout_session_required"     yaml:"back_channel_logout_session_required"`
	AllowOfflineAccess                    bool              `json:"allow_offline_access"                     yaml:"allow_offline_access"`
	AllowedScopes                         []string          `json:"allowed_scopes,omitempty"                 yaml:"allowed_scopes,omitempty"`
	IdentityTokenLifetime                 int               `json:"identity_token_lifetime"                  yaml:"identity_token_lifetime"`
	AllowedIdentityTokenSigningAlgorithms []string          `json:"allowed_identity_token_signing_algorithms,omitempty" yaml:"allowed_identity_token_signing_algorithms,omitempty"`
	AccessTokenLifetime                   int               `json:"access_token_lifetime"                    yaml:"access_token_lifetime"`
	AuthorizationCodeLifetime             int               `json:"authorization_code_lifetime"              yaml:"authorization_code_lifetime"`
	ConsentLifetime                       *int              `json:"consent_lifetime,omitempty"               yaml:"consent_lifetime,omitempty"`
	AbsoluteRefreshTokenLifetime          int               `json:"absolute_refresh_token_lifetime"          yaml:"absolute_refresh_token_lifetime"`
	SlidingRefreshTokenLifetime           int               `json:"sliding_refresh_token_lifetime"           yaml:"sliding_refresh_token_lifetime"`
	RefreshTokenUsage                     TokenUsage        `json:"refresh_token_usage"                      yaml:"refresh_token_usage"`
	UpdateAccessTokenClaimsOnRefresh      bool              `json:"update_access_token_claims_on_refresh"    yaml:"update_access_token_claims_on_refresh"`
	RefreshTokenExpiration                TokenExpiration   `json:"refresh_token_expiration"                 yaml:"refresh_token_expiration"`
	AccessTokenType                       AccessTokenType   `json:"access_token_type"                        yaml:"access_token_type"`
	EnableLocalLogin                      bool              `json:"enable_local_login"                       yaml:"enable_local_login"`
	IdentityProviderRestrictions          []string          `json:"identity_provider_restrictions,omitempty" yaml:"identity_provider_restrictions,omitempty"`
	IncludeJwtID                          bool              `json:"include_jwt_id"                           yaml:"include_jwt_id"`
	Claims                                []ClientClaim     `json:"claims,omitempty"                         yaml:"claims,omitempty"`
	AlwaysSendClientClaims                bool              `json:"always_send_client_claims"                yaml:"always_send_client_claims"`
	ClientClaimsPrefix                    string            `json:"client_claims_prefix"                     yaml:"client_claims_prefix"`
	PairWiseSubjectSalt                   string            `json:"pair_wise_subject_salt,omitempty"         yaml:"pair_wise_subject_salt,omitempty"`
	AllowedCorsOrigins                    []string          `json:"allowed_cors_origins,omitempty"           yaml:"allowed_cors_origins,omitempty"`
	Properties                            map[string]string `json:"properties,omitempty"                     yaml:"properties,omitempty"`
	UserSsoLifetime                       *int              `json:"user_sso_lifetime,omitempty"              yaml:"user_sso_lifetime,omitempty"`
	UserCodeType                          string            `json:"user_code_type,omitempty"                 yaml:"user_code_type,omitempty"`
	DeviceCodeLifetime                    int               `json:"device_code_lifetime"                     yaml:"device_code_lifetime"`
}

// NewClient returns a client carrying the runtime's default settings.
func NewClient(clientID string) *Client {
	return &Client{
		Enabled:                           true,
		ClientID:                          clientID,
		ProtocolType:                      ProtocolTypeOIDC,
		RequireClientSecret:               true,
		AllowRememberConsent:              true,
		RequirePkce:                       true,
		FrontChannelLogoutSessionRequired: true,
		BackChannelLogoutSessionRequired:  true,
		IdentityTokenLifetime:             300,
		AccessTokenLifetime:               3600,
		AuthorizationCodeLifetime:         300,
		AbsoluteRefreshTokenLifetime:      2592000,
		SlidingRefreshTokenLifetime:       1296000,
		RefreshTokenUsage:                 TokenUsageOneTimeOnly,
		RefreshTokenExpiration:            TokenExpirationAbsolute,
		AccessTokenType:                   AccessTokenTypeJwt,
		EnableLocalLogin:                  true,
		ClientClaimsPrefix:                "client_",
		DeviceCodeLifetime:                300,
	}
}
