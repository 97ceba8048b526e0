// Package scaffold prepares a project for nocta-ui components. It powers
// the "nocta-ui init" command: it writes nocta.config.json, the utils
// module, the shared icons file and the design tokens, and removes whatever
// it created if a later step fails.
package scaffold
