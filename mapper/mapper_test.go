package mapper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/mapper"
)

func intPtr(v int) *int { return &v }

func sampleClient() *domain.Client {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	c := domain.NewClient("web")
	c.ClientName = "Web App"
	c.ClientSecrets = []domain.Secret{
		{Value: "hash1", Type: domain.SecretTypeSharedSecret, Expiration: &exp},
		{Value: "hash2", Type: "X509Thumbprint", Description: "cert"},
	}
	c.AllowedGrantTypes = []string{"authorization_code", "refresh_token"}
	c.RedirectURIs = []string{"https://b.example/cb", "https://a.example/cb"}
	c.AllowedScopes = []string{"openid", "profile", "api1"}
	c.AllowedIdentityTokenSigningAlgorithms = []string{"RS256", "ES256"}
	c.Claims = []domain.ClientClaim{{Type: "tenant", Value: "acme", ValueType: domain.ClaimValueTypeString}}
	c.AllowedCorsOrigins = []string{"https://app.example"}
	c.Properties = map[string]string{"tier": "gold"}
	c.ConsentLifetime = intPtr(600)
	c.RefreshTokenUsage = domain.TokenUsageReUse
	c.AccessTokenType = domain.AccessTokenTypeReference
	return c
}

func TestClientRoundTrip(t *testing.T) {
	in := sampleClient()

	out, err := mapper.ClientToModel(mapper.ClientToEntity(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestClientEntityIsStableAcrossRoundTrip(t *testing.T) {
	first := mapper.ClientToEntity(sampleClient())

	model, err := mapper.ClientToModel(first)
	require.NoError(t, err)

	assert.Equal(t, first, mapper.ClientToEntity(model))
}

func TestClientToModel_UnknownEnum(t *testing.T) {
	e := mapper.ClientToEntity(sampleClient())
	e.AccessTokenType = 7

	_, err := mapper.ClientToModel(e)
	require.ErrorIs(t, err, domain.ErrUnknownEnumValue)
	assert.Contains(t, err.Error(), "access_token_type")
}

func TestClientToModel_Nil(t *testing.T) {
	m, err := mapper.ClientToModel(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Nil(t, mapper.ClientToEntity(nil))
}

func TestSecretToModel_DefaultsType(t *testing.T) {
	s := mapper.SecretToModel(entity.Secret{Value: "v"})
	assert.Equal(t, domain.SecretTypeSharedSecret, s.Type)
}

func TestClientClaimToModel_ValueType(t *testing.T) {
	c := mapper.ClientClaimToModel(entity.ClientClaim{Type: "role", Value: "admin"})
	assert.Equal(t, domain.ClaimValueTypeString, c.ValueType)
}

func TestAlgorithms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "blank", in: " , ,", want: nil},
		{name: "trim", in: " RS256 , ES256", want: []string{"RS256", "ES256"}},
		{name: "dedup keeps first", in: "ES256,RS256,ES256", want: []string{"ES256", "RS256"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapper.SplitAlgorithms(tt.in))
		})
	}

	assert.Equal(t, "", mapper.JoinAlgorithms(nil))
	joined := mapper.JoinAlgorithms([]string{"RS256", " RS256", "PS256"})
	assert.Equal(t, "RS256,PS256", joined)
	assert.Equal(t, joined, mapper.JoinAlgorithms(mapper.SplitAlgorithms(joined)))
}

func TestResourcesRoundTrip(t *testing.T) {
	ir := domain.NewIdentityResource("profile", "name", "family_name")
	ir.Properties = map[string]string{"k": "v"}
	assert.Equal(t, ir, mapper.IdentityResourceToModel(mapper.IdentityResourceToEntity(ir)))

	api := domain.NewAPIResource("api1", "api1.read", "api1.write")
	api.AllowedAccessTokenSigningAlgorithms = []string{"RS256"}
	api.APISecrets = []domain.Secret{domain.NewSecret("s")}
	assert.Equal(t, api, mapper.APIResourceToModel(mapper.APIResourceToEntity(api)))

	scope := domain.NewAPIScope("api1.read")
	scope.UserClaims = []string{"role"}
	assert.Equal(t, scope, mapper.APIScopeToModel(mapper.APIScopeToEntity(scope)))

	assert.Nil(t, mapper.IdentityResourceToEntity(nil))
	assert.Nil(t, mapper.APIResourceToModel(nil))
	assert.Nil(t, mapper.APIScopeToModel(nil))
}

func TestPersistedGrant(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	exp := created.Add(time.Hour)
	g := &domain.PersistedGrant{
		Key: "k1", Type: "refresh_token", SubjectID: "alice", ClientID: "web",
		CreationTime: created, Expiration: &exp, Data: "{}",
	}

	e := mapper.PersistedGrantToEntity(g)
	assert.Equal(t, g, mapper.PersistedGrantToModel(e))

	consumed := exp.Add(-time.Minute)
	g.ConsumedTime = &consumed
	g.Data = "{\"v\":2}"
	mapper.UpdatePersistedGrantEntity(g, e)
	assert.Equal(t, &consumed, e.ConsumedTime)
	assert.Equal(t, "{\"v\":2}", e.Data)
	assert.Equal(t, "k1", e.Key)
}
