package repositories

import (
	"fmt"
	"sort"
	"strings"

	domainRepos "github.com/rios0rios0/pkgscan/internal/domain/repositories"
)

// ProviderFactory is a constructor function that creates a ProviderRepository.
type ProviderFactory func(cfg domainRepos.ProviderConfig) (domainRepos.ProviderRepository, error)

// ProviderRegistry manages all registered repository providers.
type ProviderRegistry struct {
	providers map[string]ProviderFactory
}

// NewProviderRegistry creates an empty provider registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]ProviderFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name.
func (r *ProviderRegistry) Get(name string, cfg domainRepos.ProviderConfig) (domainRepos.ProviderRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf(
			"unknown provider type: %q (registered: %s)", name, strings.Join(r.Names(), ", "),
		)
	}
	return factory(cfg)
}

// Names returns the registered provider names, sorted.
func (r *ProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
