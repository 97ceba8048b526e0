package registry

import (
	"fmt"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Suggest returns the slugs of up to three components whose slug or display
// name fuzzily matches name, best first. A component matched through its
// display name is still reported by slug.
func (r *Registry) Suggest(name string) []string {
	var (
		targets []string
		owners  []string
	)
	for _, slug := range r.slugs() {
		targets = append(targets, strings.ToLower(slug))
		owners = append(owners, slug)
		display := strings.ToLower(r.Components[slug].Name)
		if display != "" && display != strings.ToLower(slug) {
			targets = append(targets, display)
			owners = append(owners, slug)
		}
	}

	var out []string
	seen := make(map[string]bool)
	for _, m := range fuzzy.Find(strings.ToLower(name), targets) {
		slug := owners[m.Index]
		if seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, slug)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func notFound(name string, suggestions []string) error {
	e := errs.New(errs.KindComponentNotFound, name, nil)
	list := fmt.Sprintf("run \"%s list\" to see available components", branding.CLIName())
	if len(suggestions) > 0 {
		return e.WithHint("did you mean %s? Or %s", strings.Join(suggestions, ", "), list)
	}
	return e.WithHint("%s", list)
}
