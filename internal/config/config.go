package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys. Each one is also read from <PREFIX>_<KEY> in the environment.
const (
	KeyRegistryURL   = "registry_url"
	KeyCacheDir      = "cache_dir"
	KeyCacheTTL      = "cache_ttl_ms"
	KeyAssetCacheTTL = "asset_cache_ttl_ms"
)

// Keys lists every setting key, in display order.
func Keys() []string {
	return []string{KeyRegistryURL, KeyCacheDir, KeyCacheTTL, KeyAssetCacheTTL}
}

const (
	// DefaultRegistryTTL is how long a cached registry manifest counts as fresh.
	DefaultRegistryTTL = 10 * time.Minute
	// DefaultAssetTTL is how long cached assets and component files count as fresh.
	DefaultAssetTTL = 24 * time.Hour
)

// Settings is the resolved view of every setting the pipeline consumes.
type Settings struct {
	RegistryURL string
	CacheDir    string
	RegistryTTL time.Duration
	AssetTTL    time.Duration
}

// Dir returns the path to the user settings directory (~/.nocta/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the settings file (~/.nocta/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the settings directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the settings file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyRegistryURL, branding.RegistryURL())
	viper.SetDefault(KeyCacheTTL, DefaultRegistryTTL.Milliseconds())
	viper.SetDefault(KeyAssetCacheTTL, DefaultAssetTTL.Milliseconds())

	// Ignore error if the settings file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a setting by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a key-value pair and saves the settings file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Current resolves the settings for this process. An unset cache directory
// falls back to a hidden directory under the working directory.
func Current() Settings {
	s := Settings{
		RegistryURL: viper.GetString(KeyRegistryURL),
		CacheDir:    viper.GetString(KeyCacheDir),
		RegistryTTL: millis(viper.GetInt64(KeyCacheTTL), DefaultRegistryTTL),
		AssetTTL:    millis(viper.GetInt64(KeyAssetCacheTTL), DefaultAssetTTL),
	}
	if s.RegistryURL == "" {
		s.RegistryURL = branding.RegistryURL()
	}
	if s.CacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		s.CacheDir = filepath.Join(cwd, branding.CacheDir())
	}
	return s
}

// millis converts a millisecond count, rejecting non-positive values.
func millis(ms int64, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
