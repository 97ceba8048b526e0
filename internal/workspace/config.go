package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
)

// FileName is the project config file, at the project root.
const FileName = "nocta.config.json"

// Config is the project's nocta.config.json.
type Config struct {
	Schema        string         `json:"$schema,omitempty"`
	Style         string         `json:"style"`
	Framework     Framework      `json:"framework,omitempty"`
	Tailwind      Tailwind       `json:"tailwind"`
	Aliases       Aliases        `json:"aliases"`
	AliasPrefixes *AliasPrefixes `json:"aliasPrefixes,omitempty"`
}

// Tailwind locates the stylesheet that receives design tokens.
type Tailwind struct {
	CSS string `json:"css"`
}

// Aliases locates components and the utils module in the project.
type Aliases struct {
	Components Alias `json:"components"`
	Utils      Alias `json:"utils"`
}

// AliasPrefixes overrides the import prefix per alias.
type AliasPrefixes struct {
	Components string `json:"components,omitempty"`
	Utils      string `json:"utils,omitempty"`
}

// Path returns the config file path for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Exists reports whether root already has a config file.
func Exists(fsys afero.Fs, root string) bool {
	ok, _ := afero.Exists(fsys, Path(root))
	return ok
}

// Load reads and validates the config in root. Comments and trailing commas
// are accepted. A missing file is a ConfigNotFound error.
func Load(fsys afero.Fs, root string) (*Config, error) {
	p := Path(root)
	data, err := afero.ReadFile(fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New(errs.KindConfigNotFound, FileName, nil).
			WithHint("run \"%s init\" first", branding.CLIName())
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return Parse(data)
}

// Parse decodes and validates config bytes.
func Parse(data []byte) (*Config, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, errs.New(errs.KindInvalidConfig, FileName, fmt.Errorf("parsing JSON: %w", err))
	}

	result, err := Validate(std)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", FileName, err)
	}
	if !result.Valid {
		return nil, errs.New(errs.KindInvalidConfig, FileName, result.Err()).
			WithHint("see %s for the config format", branding.SchemaURL())
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, errs.New(errs.KindInvalidConfig, FileName, err)
	}
	return &cfg, nil
}

// Write stores cfg in root, replacing any existing file.
func Write(fsys afero.Fs, root string, cfg *Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", FileName, err)
	}
	p := Path(root)
	if err := afero.WriteFile(fsys, p, append(data, '\n'), 0644); err != nil {
		return "", errs.New(errs.KindWriteFailed, p, err)
	}
	return p, nil
}

// ComponentPrefix returns the import prefix for components: the configured
// one, else the framework default.
func (c *Config) ComponentPrefix() string {
	if c.AliasPrefixes != nil && strings.TrimSpace(c.AliasPrefixes.Components) != "" {
		return strings.TrimSpace(c.AliasPrefixes.Components)
	}
	return c.Framework.AliasPrefix()
}

// UtilsPrefix returns the import prefix for the utils module.
func (c *Config) UtilsPrefix() string {
	if c.AliasPrefixes != nil && strings.TrimSpace(c.AliasPrefixes.Utils) != "" {
		return strings.TrimSpace(c.AliasPrefixes.Utils)
	}
	return c.ComponentPrefix()
}

// ComponentTarget returns where a registry file lands in the project: the
// components alias directory joined with the file's basename.
func (c *Config) ComponentTarget(registryPath string) string {
	base := filepath.Base(filepath.FromSlash(registryPath))
	return filepath.Join(filepath.FromSlash(c.Aliases.Components.Path()), base)
}

// UtilsTarget returns the utils module file path.
func (c *Config) UtilsTarget() string {
	return filepath.FromSlash(c.Aliases.Utils.Path()) + ".ts"
}
