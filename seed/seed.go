// Package seed loads configuration documents from a YAML file into the stores.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/log"
	"gopkg.in/yaml.v3"
)

// ErrMissingName is returned for a document without its identifying name or id.
var ErrMissingName = errors.New("seed document has no name")

// File is the parsed seed document. Entries start from the runtime defaults,
// so a file only lists what differs.
type File struct {
	Clients           []*domain.Client
	IdentityResources []*domain.IdentityResource
	APIResources      []*domain.APIResource
	APIScopes         []*domain.APIScope
}

type rawFile struct {
	Clients           []yaml.Node `yaml:"clients"`
	IdentityResources []yaml.Node `yaml:"identity_resources"`
	APIResources      []yaml.Node `yaml:"api_resources"`
	APIScopes         []yaml.Node `yaml:"api_scopes"`
}

// Parse reads a seed document. Unknown top-level keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw rawFile
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	var (
		f   File
		err error
	)
	if f.Clients, err = decodeEach(raw.Clients, func() *domain.Client { return domain.NewClient("") },
		func(c *domain.Client) string { return c.ClientID }); err != nil {
		return nil, fmt.Errorf("clients: %w", err)
	}
	if f.IdentityResources, err = decodeEach(raw.IdentityResources, func() *domain.IdentityResource { return domain.NewIdentityResource("") },
		func(r *domain.IdentityResource) string { return r.Name }); err != nil {
		return nil, fmt.Errorf("identity_resources: %w", err)
	}
	if f.APIResources, err = decodeEach(raw.APIResources, func() *domain.APIResource { return domain.NewAPIResource("") },
		func(r *domain.APIResource) string { return r.Name }); err != nil {
		return nil, fmt.Errorf("api_resources: %w", err)
	}
	if f.APIScopes, err = decodeEach(raw.APIScopes, func() *domain.APIScope { return domain.NewAPIScope("") },
		func(s *domain.APIScope) string { return s.Name }); err != nil {
		return nil, fmt.Errorf("api_scopes: %w", err)
	}

	return &f, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	return Parse(fh)
}

func decodeEach[T any](nodes []yaml.Node, newT func() *T, name func(*T) string) ([]*T, error) {
	out := make([]*T, 0, len(nodes))
	for i := range nodes {
		v := newT()
		if err := nodes[i].Decode(v); err != nil {
			return nil, fmt.Errorf("entry %d (line %d): %w", i, nodes[i].Line, err)
		}
		if name(v) == "" {
			return nil, fmt.Errorf("entry %d (line %d): %w", i, nodes[i].Line, ErrMissingName)
		}
		out = append(out, v)
	}
	return out, nil
}

// ClientWriter upserts clients.
type ClientWriter interface {
	Store(ctx context.Context, client *domain.Client) error
}

// ResourceWriter upserts resources and scopes.
type ResourceWriter interface {
	StoreIdentityResource(ctx context.Context, r *domain.IdentityResource) error
	StoreAPIResource(ctx context.Context, r *domain.APIResource) error
	StoreAPIScope(ctx context.Context, scope *domain.APIScope) error
}

// Result counts the documents written.
type Result struct {
	Clients           int
	IdentityResources int
	APIResources      int
	APIScopes         int
}

// Seeder writes a File into the configuration stores.
type Seeder struct {
	clients   ClientWriter
	resources ResourceWriter
	logger    log.Logger
}

// NewSeeder writes through clients and resources. A nil logger discards output.
func NewSeeder(clients ClientWriter, resources ResourceWriter, logger log.Logger) *Seeder {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Seeder{clients: clients, resources: resources, logger: logger}
}

// Apply upserts every document in f, stopping at the first failure. Running
// it twice with the same file leaves the stores unchanged apart from the
// updated timestamps.
func (s *Seeder) Apply(ctx context.Context, f *File) (Result, error) {
	var res Result
	if f == nil {
		return res, fmt.Errorf("apply seed: %w", domain.ErrNilArgument)
	}

	for _, c := range f.Clients {
		if err := s.clients.Store(ctx, c); err != nil {
			return res, fmt.Errorf("seed client %s: %w", c.ClientID, err)
		}
		res.Clients++
	}
	for _, r := range f.IdentityResources {
		if err := s.resources.StoreIdentityResource(ctx, r); err != nil {
			return res, fmt.Errorf("seed identity resource %s: %w", r.Name, err)
		}
		res.IdentityResources++
	}
	for _, r := range f.APIResources {
		if err := s.resources.StoreAPIResource(ctx, r); err != nil {
			return res, fmt.Errorf("seed api resource %s: %w", r.Name, err)
		}
		res.APIResources++
	}
	for _, sc := range f.APIScopes {
		if err := s.resources.StoreAPIScope(ctx, sc); err != nil {
			return res, fmt.Errorf("seed api scope %s: %w", sc.Name, err)
		}
		res.APIScopes++
	}

	s.logger.Info(ctx, "seed applied", log.Fields{
		"clients":            res.Clients,
		"identity_resources": res.IdentityResources,
		"api_resources":      res.APIResources,
		"api_scopes":         res.APIScopes,
	})

	return res, nil
}
