package imports

import (
	"regexp"
	"strings"
)

// specifier matches a quoted import path written against the registry's
// source root, e.g. "@/lib/utils" or '@/components/ui/button'.
var specifier = regexp.MustCompile(`(['"])@/([^'"\n]+)(['"])`)

// Options describes how the target project spells its imports.
type Options struct {
	// Prefix is the project's alias prefix, e.g. "@" or "~".
	Prefix string
	// ComponentAlias, when set, replaces the prefix for imports under
	// components/. ComponentsPath is the filesystem path of the components
	// alias; its part below components/ is dropped from such imports.
	ComponentAlias string
	ComponentsPath string
}

// Normalize rewrites registry-rooted imports in src to use prefix.
func Normalize(src, prefix string) string {
	return NormalizeWith(src, Options{Prefix: prefix})
}

// NormalizeWith rewrites registry-rooted imports in src. Text without a
// matching specifier is returned unchanged.
func NormalizeWith(src string, opts Options) string {
	prefix := strings.TrimRight(opts.Prefix, "/")
	alias := strings.TrimRight(opts.ComponentAlias, "/")

	return specifier.ReplaceAllStringFunc(src, func(m string) string {
		sub := specifier.FindStringSubmatch(m)
		start, p, end := sub[1], stripSourceRoot(sub[2]), sub[3]

		if alias != "" {
			if rel, ok := componentRelative(p, opts.ComponentsPath); ok {
				return start + join(alias, rel) + end
			}
		}
		return start + join(prefix, p) + end
	})
}

// Specifier returns the import specifier a project file is reached by,
// e.g. "components/ui/button.tsx" becomes "@/components/ui/button".
func Specifier(projectPath string, opts Options) string {
	p := filepathToSlash(projectPath)
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		if trimmed, ok := strings.CutSuffix(p, ext); ok {
			p = trimmed
			break
		}
	}
	quoted := NormalizeWith(`"@/`+p+`"`, opts)
	return strings.Trim(quoted, `"`)
}

// stripSourceRoot turns a registry import path into a project-root-relative
// one by dropping a leading "./" or "/" and one app/ or src/ segment.
func stripSourceRoot(p string) string {
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimLeft(p, "/")
	if rest, ok := strings.CutPrefix(p, "app/"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(p, "src/"); ok {
		return rest
	}
	return p
}

// componentRelative returns the part of p below components/, minus the
// components alias's own subdirectory. ok is false for paths outside
// components/.
func componentRelative(p, componentsPath string) (string, bool) {
	if p == "components" {
		return "", true
	}
	rest, ok := strings.CutPrefix(p, "components/")
	if !ok {
		return "", false
	}

	if suffix := componentsSuffix(componentsPath); suffix != "" {
		if after, ok := strings.CutPrefix(rest, suffix); ok && (after == "" || after[0] == '/') {
			rest = strings.TrimLeft(after, "/")
		}
	}
	return rest, true
}

// componentsSuffix returns the part of the components alias path below its
// last components/ segment: "packages/ui/src/components/ui" gives "ui". A
// path without such a segment is only stripped of its source root.
func componentsSuffix(componentsPath string) string {
	p := strings.Trim(stripSourceRoot(filepathToSlash(componentsPath)), "/")
	segments := strings.Split(p, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == "components" {
			return strings.Join(segments[i+1:], "/")
		}
	}
	return p
}

func join(prefix, p string) string {
	if p == "" {
		return prefix
	}
	return prefix + "/" + strings.TrimLeft(p, "/")
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
