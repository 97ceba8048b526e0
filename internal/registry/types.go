package registry

import (
	"sort"
	"strings"
)

// Registry is one snapshot of the remote component catalog.
type Registry struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Version      string                  `json:"version"`
	Components   map[string]Component    `json:"components" validate:"required,dive"`
	Categories   map[string]CategoryInfo `json:"categories"`
	Requirements map[string]string       `json:"requirements"`
}

// Component is one installable UI unit.
type Component struct {
	// Slug is the component's key in Registry.Components.
	Slug                 string            `json:"-"`
	Name                 string            `json:"name" validate:"required"`
	Description          string            `json:"description"`
	Category             string            `json:"category"`
	Files                []ComponentFile   `json:"files" validate:"required,min=1,dive"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	InternalDependencies []string          `json:"internalDependencies"`
	Exports              []string          `json:"exports"`
	Variants             []string          `json:"variants"`
	Sizes                []string          `json:"sizes"`
}

// ComponentFile is one source file of a component, addressed by its
// registry-relative path.
type ComponentFile struct {
	Name string `json:"name"`
	Path string `json:"path" validate:"required"`
	Type string `json:"type"`
}

// CategoryInfo groups components for listing.
type CategoryInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Components  []string `json:"components"`
}

// Lookup finds a component by slug or display name, ignoring case.
func (r *Registry) Lookup(name string) (*Component, bool) {
	if c, ok := r.Components[name]; ok {
		return &c, true
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, slug := range r.slugs() {
		c := r.Components[slug]
		if strings.ToLower(slug) == want || strings.ToLower(c.Name) == want {
			return &c, true
		}
	}
	return nil, false
}

// Sorted returns all components ordered by category, then name.
func (r *Registry) Sorted() []Component {
	out := make([]Component, 0, len(r.Components))
	for _, slug := range r.slugs() {
		out = append(out, r.Components[slug])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (r *Registry) slugs() []string {
	slugs := make([]string, 0, len(r.Components))
	for slug := range r.Components {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// stampSlugs records each component's map key on the component itself.
func (r *Registry) stampSlugs() {
	for slug, c := range r.Components {
		c.Slug = slug
		r.Components[slug] = c
	}
}
