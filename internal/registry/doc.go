// Package registry talks to the remote component registry. It fetches and
// validates the registry manifest, serves text assets and base64-encoded
// component files with a cache fallback, and resolves a component into its
// full set of internal dependencies, dependencies first.
package registry
