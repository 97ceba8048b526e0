package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// TokensMarker identifies a stylesheet that already has the design tokens.
const TokensMarker = "NOCTA CSS THEME VARIABLES"

// TokenResult reports what InjectTokens did.
type TokenResult struct {
	Changed bool
	Created bool
}

// InjectTokens adds the registry stylesheet to the file at path, creating it
// if needed. A file that already contains TokensMarker is left alone.
func InjectTokens(fsys afero.Fs, path, tokens string) (TokenResult, error) {
	existing, err := afero.ReadFile(fsys, path)
	created := errors.Is(err, fs.ErrNotExist)
	if err != nil && !created {
		return TokenResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	content := string(existing)
	if strings.Contains(content, TokensMarker) {
		return TokenResult{}, nil
	}

	snippet := strings.TrimLeft(tokens, " \t\r\n")
	if hasTailwindImport(content) {
		snippet = stripTailwindImport(snippet)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return TokenResult{}, err
	}
	if err := afero.WriteFile(fsys, path, []byte(insertSnippet(content, snippet)), 0644); err != nil {
		return TokenResult{}, fmt.Errorf("writing %s: %w", path, err)
	}
	return TokenResult{Changed: true, Created: created}, nil
}

func hasTailwindImport(css string) bool {
	return strings.Contains(css, `@import "tailwindcss"`) || strings.Contains(css, `@import 'tailwindcss'`)
}

// stripTailwindImport drops "@import ... tailwindcss" lines from the snippet.
func stripTailwindImport(snippet string) string {
	var kept []string
	for _, line := range strings.Split(snippet, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "@import") && strings.Contains(t, "tailwindcss") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimLeft(strings.Join(kept, "\n"), "\n")
}

// insertSnippet places snippet after the last @import of the file's leading
// block of at-rules and comments, or at the top when there is none.
func insertSnippet(existing, snippet string) string {
	snippet = strings.Trim(snippet, "\n")
	if snippet == "" {
		return existing
	}
	if existing == "" {
		return snippet + "\n"
	}

	lines := strings.Split(strings.TrimSuffix(existing, "\n"), "\n")
	insertAt := -1
	for idx, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "@import") {
			insertAt = idx + 1
			continue
		}
		if t != "" && !strings.HasPrefix(t, "@") && !strings.HasPrefix(t, "/*") && !strings.HasPrefix(t, "//") {
			break
		}
	}

	var out []string
	if insertAt >= 0 {
		out = append(out, lines[:insertAt]...)
		if out[len(out)-1] != "" {
			out = append(out, "")
		}
		out = append(out, strings.Split(snippet, "\n")...)
		rest := lines[insertAt:]
		for len(rest) > 0 && strings.TrimSpace(rest[0]) == "" {
			rest = rest[1:]
		}
		if len(rest) > 0 {
			out = append(out, "")
			out = append(out, rest...)
		}
	} else {
		out = append(out, strings.Split(snippet, "\n")...)
		out = append(out, "")
		out = append(out, lines...)
	}

	result := strings.Join(out, "\n")
	if strings.HasSuffix(existing, "\n") {
		result += "\n"
	}
	return result
}
