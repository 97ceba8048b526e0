// Package report renders styled status lines for CLI commands.
package report
