package registry

import (
	"sort"

	"github.com/drewdunne/oscar/internal/config"
	"github.com/drewdunne/oscar/internal/provider"
	"github.com/drewdunne/oscar/internal/provider/github"
	"github.com/drewdunne/oscar/internal/provider/gitlab"
)

// Registry manages provider instances.
type Registry struct {
	providers   map[string]provider.Provider
	defaultName string
}

// New creates a new provider registry from config. GitHub is always
// available; GitLab only when enabled.
func New(cfg *config.Config) *Registry {
	r := &Registry{
		providers:   make(map[string]provider.Provider),
		defaultName: cfg.Providers.Default,
	}

	r.Add(github.New(github.WithBaseURL(cfg.Providers.GitHub.BaseURL)))

	if cfg.Providers.GitLab.Enabled {
		r.Add(gitlab.New(gitlab.WithBaseURL(cfg.Providers.GitLab.BaseURL)))
	}

	return r
}

// Add registers p under its name, replacing any provider of the same name.
func (r *Registry) Add(p provider.Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider for the given name, or nil if not configured.
// An empty name selects the default provider.
func (r *Registry) Get(name string) provider.Provider {
	if name == "" {
		name = r.defaultName
	}
	return r.providers[name]
}

// List returns all configured provider names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
