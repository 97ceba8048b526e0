// Package logging constructs the zap logger shared by the command tree.
package logging
