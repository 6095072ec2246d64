// Package mapper converts between the domain models and their stored entities.
package mapper

import (
	"fmt"
	"maps"
	"slices"

	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
)

// SecretToEntity converts a domain secret to its stored form.
func SecretToEntity(s domain.Secret) entity.Secret {
	return entity.Secret{
		Description: s.Description,
		Value:       s.Value,
		Expiration:  s.Expiration,
		Type:        s.Type,
	}
}

// SecretToModel converts a stored secret. A missing type reads back as a shared secret.
func SecretToModel(s entity.Secret) domain.Secret {
	typ := s.Type
	if typ == "" {
		typ = domain.SecretTypeSharedSecret
	}
	return domain.Secret{
		Description: s.Description,
		Value:       s.Value,
		Expiration:  s.Expiration,
		Type:        typ,
	}
}

func secretsToEntity(in []domain.Secret) []entity.Secret {
	if in == nil {
		return nil
	}
	out := make([]entity.Secret, len(in))
	for i, s := range in {
		out[i] = SecretToEntity(s)
	}
	return out
}

func secretsToModel(in []entity.Secret) []domain.Secret {
	if in == nil {
		return nil
	}
	out := make([]domain.Secret, len(in))
	for i, s := range in {
		out[i] = SecretToModel(s)
	}
	return out
}

// ClientClaimToEntity drops the value type, which is not stored.
func ClientClaimToEntity(c domain.ClientClaim) entity.ClientClaim {
	return entity.ClientClaim{Type: c.Type, Value: c.Value}
}

// ClientClaimToModel reads a claim back as a string-valued claim.
func ClientClaimToModel(c entity.ClientClaim) domain.ClientClaim {
	return domain.ClientClaim{Type: c.Type, Value: c.Value, ValueType: domain.ClaimValueTypeString}
}

// ClientToEntity converts a domain client to its stored form.
// Storage-only fields (created, updated, non_editable) are left zero.
func ClientToEntity(c *domain.Client) *entity.Client {
	if c == nil {
		return nil
	}

	var claims []entity.ClientClaim
	if c.Claims != nil {
		claims = make([]entity.ClientClaim, len(c.Claims))
		for i, cl := range c.Claims {
			claims[i] = ClientClaimToEntity(cl)
		}
	}

	return &entity.Client{
		ClientID:                              c.ClientID,
		Enabled:                               c.Enabled,
		ProtocolType:                          c.ProtocolType,
		ClientSecrets:                         secretsToEntity(c.ClientSecrets),
		RequireClientSecret:                   c.RequireClientSecret,
		ClientName:                            c.ClientName,
		Description:                           c.Description,
		ClientURI:                             c.ClientURI,
		LogoURI:                               c.LogoURI,
		RequireConsent:                        c.RequireConsent,
		AllowRememberConsent:                  c.AllowRememberConsent,
		AlwaysIncludeUserClaimsInIDToken:      c.AlwaysIncludeUserClaimsInIDToken,
		AllowedGrantTypes:                     slices.Clone(c.AllowedGrantTypes),
		RequirePkce:                           c.RequirePkce,
		AllowPlainTextPkce:                    c.AllowPlainTextPkce,
		RequireRequestObject:                  c.RequireRequestObject,
		AllowAccessTokensViaBrowser:           c.AllowAccessTokensViaBrowser,
		RedirectURIs:                          slices.Clone(c.RedirectURIs),
		PostLogoutRedirectURIs:                slices.Clone(c.PostLogoutRedirectURIs),
		FrontChannelLogoutURI:                 c.FrontChannelLogoutURI,
		FrontChannelLogoutSessionRequired:     c.FrontChannelLogoutSessionRequired,
		BackChannelLogoutURI:                  c.BackChannelLogoutURI,
		BackChannelLogoutSessionRequired:      c.BackChannelLogoutSessionRequired,
		AllowOfflineAccess:                    c.AllowOfflineAccess,
		AllowedScopes:                         slices.Clone(c.AllowedScopes),
		IdentityTokenLifetime:                 c.IdentityTokenLifetime,
		AllowedIdentityTokenSigningAlgorithms: JoinAlgorithms(c.AllowedIdentityTokenSigningAlgorithms),
		AccessTokenLifetime:                   c.AccessTokenLifetime,
		AuthorizationCodeLifetime:             c.AuthorizationCodeLifetime,
		ConsentLifetime:                       c.ConsentLifetime,
		AbsoluteRefreshTokenLifetime:          c.AbsoluteRefreshTokenLifetime,
		SlidingRefreshTokenLifetime:           c.SlidingRefreshTokenLifetime,
		RefreshTokenUsage:                     int(c.RefreshTokenUsage),
		UpdateAccessTokenClaimsOnRefresh:      c.UpdateAccessTokenClaimsOnRefresh,
		RefreshTokenExpiration:                int(c.RefreshTokenExpiration),
		AccessTokenType:                       int(c.AccessTokenType),
		EnableLocalLogin:                      c.EnableLocalLogin,
		IdentityProviderRestrictions:          slices.Clone(c.IdentityProviderRestrictions),
		IncludeJwtID:                          c.IncludeJwtID,
		Claims:                                claims,
		AlwaysSendClientClaims:                c.AlwaysSendClientClaims,
		ClientClaimsPrefix:                    c.ClientClaimsPrefix,
		PairWiseSubjectSalt:                   c.PairWiseSubjectSalt,
		AllowedCorsOrigins:                    slices.Clone(c.AllowedCorsOrigins),
		Properties:                            maps.Clone(c.Properties),
		UserSsoLifetime:                       c.UserSsoLifetime,
		UserCodeType:                          c.UserCodeType,
		DeviceCodeLifetime:                    c.DeviceCodeLifetime,
	}
}

// ClientToModel converts a stored client. It fails only when a stored
// enumeration holds an unknown integer.
func ClientToModel(e *entity.Client) (*domain.Client, error) {
	if e == nil {
		return nil, nil
	}

	usage, err := domain.ParseTokenUsage(e.RefreshTokenUsage)
	if err != nil {
		return nil, fmt.Errorf("client %q refresh_token_usage: %w", e.ClientID, err)
	}
	expiration, err := domain.ParseTokenExpiration(e.RefreshTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("client %q refresh_token_expiration: %w", e.ClientID, err)
	}
	tokenType, err := domain.ParseAccessTokenType(e.AccessTokenType)
	if err != nil {
		return nil, fmt.Errorf("client %q access_token_type: %w", e.ClientID, err)
	}

	var claims []domain.ClientClaim
	if e.Claims != nil {
		claims = make([]domain.ClientClaim, len(e.Claims))
		for i, cl := range e.Claims {
			claims[i] = ClientClaimToModel(cl)
		}
	}

	return &domain.Client{
		Enabled:                               e.Enabled,
		ClientID:                              e.ClientID,
		ProtocolType:                          e.ProtocolType,
		ClientSecrets:                         secretsToModel(e.ClientSecrets),
		RequireClientSecret:                   e.RequireClientSecret,
		ClientName:                            e.ClientName,
		Description:                           e.Description,
		ClientURI:                             e.ClientURI,
		LogoURI:                               e.LogoURI,
		RequireConsent:                        e.RequireConsent,
		AllowRememberConsent:                  e.AllowRememberConsent,
		AlwaysIncludeUserClaimsInIDToken:      e.AlwaysIncludeUserClaimsInIDToken,
		AllowedGrantTypes:                     slices.Clone(e.AllowedGrantTypes),
		RequirePkce:                           e.RequirePkce,
		AllowPlainTextPkce:                    e.AllowPlainTextPkce,
		RequireRequestObject:                  e.RequireRequestObject,
		AllowAccessTokensViaBrowser:           e.AllowAccessTokensViaBrowser,
		RedirectURIs:                          slices.Clone(e.RedirectURIs),
		PostLogoutRedirectURIs:                slices.Clone(e.PostLogoutRedirectURIs),
		FrontChannelLogoutURI:                 e.FrontChannelLogoutURI,
		FrontChannelLogoutSessionRequired:     e.FrontChannelLogoutSessionRequired,
		BackChannelLogoutURI:                  e.BackChannelLogoutURI,
		BackChannelLogoutSessionRequired:      e.BackChannelLogoutSessionRequired,
		AllowOfflineAccess:                    e.AllowOfflineAccess,
		AllowedScopes:                         slices.Clone(e.AllowedScopes),
		IdentityTokenLifetime:                 e.IdentityTokenLifetime,
		AllowedIdentityTokenSigningAlgorithms: SplitAlgorithms(e.AllowedIdentityTokenSigningAlgorithms),
		AccessTokenLifetime:                   e.AccessTokenLifetime,
		AuthorizationCodeLifetime:             e.AuthorizationCodeLifetime,
		ConsentLifetime:                       e.ConsentLifetime,
		AbsoluteRefreshTokenLifetime:          e.AbsoluteRefreshTokenLifetime,
		SlidingRefreshTokenLifetime:           e.SlidingRefreshTokenLifetime,
		RefreshTokenUsage:                     usage,
		UpdateAccessTokenClaimsOnRefresh:      e.UpdateAccessTokenClaimsOnRefresh,
		RefreshTokenExpiration:                expiration,
		AccessTokenType:                       tokenType,
		EnableLocalLogin:                      e.EnableLocalLogin,
		IdentityProviderRestrictions:          slices.Clone(e.IdentityProviderRestrictions),
		IncludeJwtID:                          e.IncludeJwtID,
		Claims:                                claims,
		AlwaysSendClientClaims:                e.AlwaysSendClientClaims,
		ClientClaimsPrefix:                    e.ClientClaimsPrefix,
		PairWiseSubjectSalt:                   e.PairWiseSubjectSalt,
		AllowedCorsOrigins:                    slices.Clone(e.AllowedCorsOrigins),
		Properties:                            maps.Clone(e.Properties),
		UserSsoLifetime:                       e.UserSsoLifetime,
		UserCodeType:                          e.UserCodeType,
		DeviceCodeLifetime:                    e.DeviceCodeLifetime,
	}, nil
}
