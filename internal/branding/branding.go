// Package branding provides compile-time identity values for the CLI.
//
// branding.yaml is embedded with //go:embed, so a fork only edits that file
// to rename the binary, its env prefix, or its default registry.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	CacheDir    string `yaml:"cache_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	RegistryURL string `yaml:"registry_url"`
	SchemaURL   string `yaml:"schema_url"`
	DocsURL     string `yaml:"docs_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "nocta-ui",
			DisplayName: "Nocta UI",
			Description: "Add Nocta UI components to your project",
			HomeDir:     ".nocta",
			CacheDir:    ".nocta-cache",
			EnvPrefix:   "NOCTA",
			RegistryURL: "https://www.nocta-ui.com/registry",
			SchemaURL:   "https://www.nocta-ui.com/registry/config-schema.json",
			DocsURL:     "https://www.nocta-ui.com",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "nocta-ui").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME holding user settings.
func HomeDir() string { load(); return defaults.HomeDir }

// CacheDir returns the dot-directory name, relative to the working
// directory, used for the registry cache when no override is set.
func CacheDir() string { load(); return defaults.CacheDir }

// EnvPrefix returns the environment variable prefix (e.g., "NOCTA").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RegistryURL returns the default registry base URL.
func RegistryURL() string { load(); return defaults.RegistryURL }

// SchemaURL returns the JSON schema URL written into new project configs.
func SchemaURL() string { load(); return defaults.SchemaURL }

// DocsURL returns the documentation site.
func DocsURL() string { load(); return defaults.DocsURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("cache_dir") → "NOCTA_CACHE_DIR".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
