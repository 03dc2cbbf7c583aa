package catalog

import (
	"fmt"
	"sort"
)

// Registry holds all known package policies.
type Registry struct {
	policies map[string]PackagePolicy
}

// NewRegistry creates a registry with the built-in policies.
func NewRegistry() *Registry {
	return NewRegistryWithPolicies(NewWinterWarPolicy())
}

// NewRegistryWithPolicies creates a registry with custom policies (for testing).
func NewRegistryWithPolicies(policies ...PackagePolicy) *Registry {
	r := &Registry{
		policies: make(map[string]PackagePolicy),
	}
	for _, p := range policies {
		r.Register(p)
	}
	return r
}

// Register adds a policy to the registry.
func (r *Registry) Register(p PackagePolicy) {
	r.policies[p.ID()] = p
}

// Get returns a policy by ID.
func (r *Registry) Get(id string) (PackagePolicy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, fmt.Errorf("package not found: %s", id)
	}
	return p, nil
}

// GetAll returns all registered policies sorted by ID.
func (r *Registry) GetAll() []PackagePolicy {
	result := make([]PackagePolicy, 0, len(r.policies))
	for _, id := range r.List() {
		result = append(result, r.policies[id])
	}
	return result
}

// List returns all policy IDs, sorted.
func (r *Registry) List() []string {
	ids := make([]string, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
