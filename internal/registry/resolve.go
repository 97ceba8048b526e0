package registry

import (
	"context"
	"fmt"
	"strings"
)

// ComponentSource looks components up by name.
type ComponentSource interface {
	Component(ctx context.Context, name string) (*Component, error)
}

// ResolvedComponent is a component in an install plan. Requested is false
// when it is present only because another component depends on it.
type ResolvedComponent struct {
	Component
	Requested bool
}

// Resolver expands component names into their internal dependency closure.
type Resolver struct {
	source ComponentSource
}

// NewResolver returns a Resolver reading from source.
func NewResolver(source ComponentSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns name and its transitive internal dependencies, dependencies
// first. Names already in visited resolve to nothing, which guards against
// cycles in a malformed registry. The caller owns visited.
func (r *Resolver) Resolve(ctx context.Context, name string, visited map[string]bool) ([]Component, error) {
	key := normalizeName(name)
	if visited[key] {
		return nil, nil
	}
	visited[key] = true

	comp, err := r.source.Component(ctx, name)
	if err != nil {
		return nil, err
	}
	if comp.Slug != "" {
		visited[normalizeName(comp.Slug)] = true
	}

	var out []Component
	for _, dep := range comp.InternalDependencies {
		children, err := r.Resolve(ctx, dep, visited)
		if err != nil {
			return nil, fmt.Errorf("resolving dependency %q of %q: %w", dep, comp.Name, err)
		}
		out = append(out, children...)
	}
	return append(out, *comp), nil
}

// ResolveAll resolves each requested name, merges the results and removes
// duplicates, keeping first-seen order. A later name can re-introduce a
// component that an earlier one already pulled in, so each name gets its own
// visited set and de-duplication happens on the merged list.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) ([]ResolvedComponent, error) {
	var merged []Component
	seen := make(map[string]bool)
	for _, name := range names {
		comps, err := r.Resolve(ctx, name, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		for _, c := range comps {
			id := identity(c)
			if seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, c)
		}
	}

	requested := make(map[string]bool, len(names))
	for _, n := range names {
		requested[normalizeName(n)] = true
	}

	out := make([]ResolvedComponent, 0, len(merged))
	for _, c := range merged {
		out = append(out, ResolvedComponent{
			Component: c,
			Requested: requested[normalizeName(c.Slug)] || requested[normalizeName(c.Name)],
		})
	}
	return out, nil
}

func identity(c Component) string {
	if c.Slug != "" {
		return normalizeName(c.Slug)
	}
	return normalizeName(c.Name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
