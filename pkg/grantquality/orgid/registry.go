// Package orgid validates organisation identifiers: the shape of UK
// charity and company numbers, and whether an identifier starts with a
// prefix from the org-id register.
package orgid

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// PublisherPrefix is always recognised, whatever the register says.
const PublisherPrefix = "360G"

//go:embed prefixes.yaml
var embeddedPrefixes []byte

type registryFile struct {
	Prefixes []string `yaml:"prefixes"`
}

// Registry is an ordered, immutable list of identifier prefixes. It is
// safe for concurrent use.
type Registry struct {
	prefixes []string
	lower    []string
}

// NewRegistry builds a registry from prefixes, appending PublisherPrefix
// when it is missing. Blank entries are dropped.
func NewRegistry(prefixes []string) *Registry {
	r := &Registry{}
	hasPublisher := false
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == PublisherPrefix {
			hasPublisher = true
		}
		r.prefixes = append(r.prefixes, p)
	}
	if !hasPublisher {
		r.prefixes = append(r.prefixes, PublisherPrefix)
	}
	r.lower = make([]string, len(r.prefixes))
	for i, p := range r.prefixes {
		r.lower[i] = strings.ToLower(p)
	}
	return r
}

// ParseRegistry reads a YAML document with a top-level "prefixes" list.
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse prefix registry")
	}
	if len(f.Prefixes) == 0 {
		return nil, errors.New("parse prefix registry: no prefixes listed")
	}
	return NewRegistry(f.Prefixes), nil
}

// LoadRegistry reads a prefix registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read prefix registry %s", path)
	}
	return ParseRegistry(data)
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := ParseRegistry(embeddedPrefixes)
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry returns the registry bundled with the binary.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Match returns the first prefix id starts with, ignoring case.
func (r *Registry) Match(id string) (string, bool) {
	lowered := strings.ToLower(id)
	for i, p := range r.lower {
		if strings.HasPrefix(lowered, p) {
			return r.prefixes[i], true
		}
	}
	return "", false
}

// Recognised reports whether id starts with a known prefix.
func (r *Registry) Recognised(id string) bool {
	_, ok := r.Match(id)
	return ok
}

// Prefixes returns a copy of the prefix list.
func (r *Registry) Prefixes() []string {
	out := make([]string, len(r.prefixes))
	copy(out, r.prefixes)
	return out
}

// Len returns the number of prefixes.
func (r *Registry) Len() int { return len(r.prefixes) }
