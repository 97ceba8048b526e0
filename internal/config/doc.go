// Package config manages user settings stored at ~/.nocta/config.yaml.
// Every key can be overridden from the environment with the NOCTA_ prefix,
// which is how the registry URL, cache root and cache TTLs are tuned.
package config
