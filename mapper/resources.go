package mapper

import (
	"maps"
	"slices"

	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
)

// IdentityResourceToEntity copies r into its stored form. Slices and maps are
// cloned; created, updated and non_editable are left zero.
func IdentityResourceToEntity(r *domain.IdentityResource) *entity.IdentityResource {
	if r == nil {
		return nil
	}
	return &entity.IdentityResource{
		Name:                    r.Name,
		Enabled:                 r.Enabled,
		DisplayName:             r.DisplayName,
		Description:             r.Description,
		Required:                r.Required,
		Emphasize:               r.Emphasize,
		ShowInDiscoveryDocument: r.ShowInDiscoveryDocument,
		UserClaims:              slices.Clone(r.UserClaims),
		Properties:              maps.Clone(r.Properties),
	}
}

// IdentityResourceToModel returns nil for a nil entity.
func IdentityResourceToModel(e *entity.IdentityResource) *domain.IdentityResource {
	if e == nil {
		return nil
	}
	return &domain.IdentityResource{
		Enabled:                 e.Enabled,
		Name:                    e.Name,
		DisplayName:             e.DisplayName,
		Description:             e.Description,
		Required:                e.Required,
		Emphasize:               e.Emphasize,
		ShowInDiscoveryDocument: e.ShowInDiscoveryDocument,
		UserClaims:              slices.Clone(e.UserClaims),
		Properties:              maps.Clone(e.Properties),
	}
}

// APIResourceToEntity stores the signing algorithms as one comma-separated
// string, see JoinAlgorithms.
func APIResourceToEntity(r *domain.APIResource) *entity.APIResource {
	if r == nil {
		return nil
	}
	return &entity.APIResource{
		Name:                                r.Name,
		Enabled:                             r.Enabled,
		DisplayName:                         r.DisplayName,
		Description:                         r.Description,
		ShowInDiscoveryDocument:             r.ShowInDiscoveryDocument,
		AllowedAccessTokenSigningAlgorithms: JoinAlgorithms(r.AllowedAccessTokenSigningAlgorithms),
		Secrets:                             secretsToEntity(r.APISecrets),
		Scopes:                              slices.Clone(r.Scopes),
		UserClaims:                          slices.Clone(r.UserClaims),
		Properties:                          maps.Clone(r.Properties),
	}
}

// APIResourceToModel splits the stored signing algorithms back into a list.
func APIResourceToModel(e *entity.APIResource) *domain.APIResource {
	if e == nil {
		return nil
	}
	return &domain.APIResource{
		Enabled:                             e.Enabled,
		Name:                                e.Name,
		DisplayName:                         e.DisplayName,
		Description:                         e.Description,
		ShowInDiscoveryDocument:             e.ShowInDiscoveryDocument,
		AllowedAccessTokenSigningAlgorithms: SplitAlgorithms(e.AllowedAccessTokenSigningAlgorithms),
		APISecrets:                          secretsToModel(e.Secrets),
		Scopes:                              slices.Clone(e.Scopes),
		UserClaims:                          slices.Clone(e.UserClaims),
		Properties:                          maps.Clone(e.Properties),
	}
}

// APIScopeToEntity returns nil for a nil scope.
func APIScopeToEntity(s *domain.APIScope) *entity.APIScope {
	if s == nil {
		return nil
	}
	return &entity.APIScope{
		Name:                    s.Name,
		Enabled:                 s.Enabled,
		DisplayName:             s.DisplayName,
		Description:             s.Description,
		Required:                s.Required,
		Emphasize:               s.Emphasize,
		ShowInDiscoveryDocument: s.ShowInDiscoveryDocument,
		UserClaims:              slices.Clone(s.UserClaims),
		Properties:              maps.Clone(s.Properties),
	}
}

// APIScopeToModel returns nil for a nil entity.
func APIScopeToModel(e *entity.APIScope) *domain.APIScope {
	if e == nil {
		return nil
	}
	return &domain.APIScope{
		Enabled:                 e.Enabled,
		Name:                    e.Name,
		DisplayName:             e.DisplayName,
		Description:             e.Description,
		Required:                e.Required,
		Emphasize:               e.Emphasize,
		ShowInDiscoveryDocument: e.ShowInDiscoveryDocument,
		UserClaims:              slices.Clone(e.UserClaims),
		Properties:              maps.Clone(e.Properties),
	}
}
