// Package workspace models a consumer project's nocta.config.json.
//
// The config is read with comments and trailing commas allowed, validated
// against an embedded JSON schema, and decoded into Config. Aliases accept
// either a plain path or an object with an explicit import specifier.
// DefaultConfig supplies per-framework defaults for init.
package workspace
