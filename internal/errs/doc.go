// Package errs defines the classified errors surfaced to users. Each error
// has a Kind, the resource it concerns, an optional remediation hint and the
// wrapped cause.
package errs
