package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/spf13/afero"
)

// Framework tags the consumer project's React framework.
type Framework string

const (
	FrameworkNext          Framework = "nextjs"
	FrameworkViteReact     Framework = "vite-react"
	FrameworkReactRouter   Framework = "react-router"
	FrameworkTanstackStart Framework = "tanstack-start"
	FrameworkUnknown       Framework = "unknown"
)

// Frameworks lists the supported tags in detection order.
var Frameworks = []Framework{
	FrameworkNext,
	FrameworkReactRouter,
	FrameworkTanstackStart,
	FrameworkViteReact,
}

// frameworkMarkers maps a framework to the package.json dependency that
// identifies it. React Router and TanStack projects also depend on vite, so
// they are checked first.
var frameworkMarkers = map[Framework]string{
	FrameworkNext:          "next",
	FrameworkReactRouter:   "@react-router/dev",
	FrameworkTanstackStart: "@tanstack/react-start",
	FrameworkViteReact:     "vite",
}

// ParseFramework converts a user-supplied tag.
func ParseFramework(s string) (Framework, error) {
	switch f := Framework(strings.ToLower(strings.TrimSpace(s))); f {
	case FrameworkNext, FrameworkViteReact, FrameworkReactRouter, FrameworkTanstackStart:
		return f, nil
	case "next":
		return FrameworkNext, nil
	case "vite":
		return FrameworkViteReact, nil
	}
	return FrameworkUnknown, fmt.Errorf("unknown framework %q", s)
}

// DisplayName is the human label used in messages.
func (f Framework) DisplayName() string {
	switch f {
	case FrameworkNext:
		return "Next.js"
	case FrameworkViteReact:
		return "Vite + React"
	case FrameworkReactRouter:
		return "React Router"
	case FrameworkTanstackStart:
		return "TanStack Start"
	}
	return "Unknown"
}

// AliasPrefix is the framework's default import alias token.
func (f Framework) AliasPrefix() string {
	if f == FrameworkReactRouter {
		return "~"
	}
	return "@"
}

// DependencyChecker is satisfied by deps.Project.
type DependencyChecker interface {
	HasDependency(name string) bool
}

// DetectFramework picks the framework from the project's direct
// dependencies. No match yields FrameworkUnknown.
func DetectFramework(p DependencyChecker) Framework {
	for _, f := range Frameworks {
		if p.HasDependency(frameworkMarkers[f]) {
			return f
		}
	}
	return FrameworkUnknown
}

var tanstackCSSCandidates = []string{
	"src/styles.css",
	"src/style.css",
	"src/global.css",
	"src/globals.css",
	"src/index.css",
	"src/app.css",
	"app/app.css",
	"app/styles.css",
	"app/globals.css",
	"app/global.css",
	"app/tailwind.css",
}

// DefaultConfig builds the initial config for a framework. Some defaults
// depend on what already exists under root.
func DefaultConfig(f Framework, fsys afero.Fs, root string) (*Config, error) {
	cfg := &Config{
		Schema:    branding.SchemaURL(),
		Style:     "default",
		Framework: f,
	}

	switch f {
	case FrameworkNext:
		cfg.Tailwind.CSS = "styles/globals.css"
		if isDir(fsys, filepath.Join(root, "app")) {
			cfg.Tailwind.CSS = "app/globals.css"
		}
		cfg.Aliases = Aliases{Components: SimpleAlias("components/ui"), Utils: SimpleAlias("lib/utils")}
	case FrameworkViteReact:
		cfg.Tailwind.CSS = "src/App.css"
		cfg.Aliases = Aliases{Components: SimpleAlias("src/components/ui"), Utils: SimpleAlias("src/lib/utils")}
	case FrameworkReactRouter:
		cfg.Tailwind.CSS = "app/app.css"
		cfg.Aliases = Aliases{Components: SimpleAlias("app/components/ui"), Utils: SimpleAlias("app/lib/utils")}
	case FrameworkTanstackStart:
		cfg.Tailwind.CSS = "src/styles.css"
		for _, c := range tanstackCSSCandidates {
			if ok, _ := afero.Exists(fsys, filepath.Join(root, filepath.FromSlash(c))); ok {
				cfg.Tailwind.CSS = c
				break
			}
		}
		cfg.Aliases = Aliases{Components: SimpleAlias("src/components/ui"), Utils: SimpleAlias("src/lib/utils")}
	default:
		return nil, fmt.Errorf("unsupported framework %q", f)
	}

	prefix := f.AliasPrefix()
	cfg.AliasPrefixes = &AliasPrefixes{Components: prefix, Utils: prefix}
	return cfg, nil
}

func isDir(fsys afero.Fs, path string) bool {
	ok, _ := afero.DirExists(fsys, path)
	return ok
}
