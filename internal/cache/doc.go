// Package cache stores fetched registry resources on disk with a freshness
// window. Reads can opt into stale content, which is how the registry client
// keeps working when the network is down. Entries carry their HTTP validators
// in a ".meta" sidecar so refreshes can be conditional.
package cache
