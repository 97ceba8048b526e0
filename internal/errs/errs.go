package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can branch without matching text.
type Kind int

const (
	KindUnknown Kind = iota
	KindRegistryUnavailable
	KindComponentNotFound
	KindComponentFileNotFound
	KindInvalidRegistry
	KindConfigNotFound
	KindInvalidConfig
	KindRequirementsNotMet
	KindWriteFailed
)

var kindNames = map[Kind]string{
	KindUnknown:               "Unknown",
	KindRegistryUnavailable:   "RegistryUnavailable",
	KindComponentNotFound:     "ComponentNotFound",
	KindComponentFileNotFound: "ComponentFileNotFound",
	KindInvalidRegistry:       "InvalidRegistry",
	KindConfigNotFound:        "ConfigNotFound",
	KindInvalidConfig:         "InvalidConfig",
	KindRequirementsNotMet:    "RequirementsNotMet",
	KindWriteFailed:           "WriteFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified failure. Resource names the thing that failed (a URL,
// a component name, a file path) and Hint tells the user what to do next.
type Error struct {
	Kind     Kind
	Resource string
	Hint     string
	Err      error
}

// New creates an Error of the given kind.
func New(kind Kind, resource string, err error) *Error {
	return &Error{Kind: kind, Resource: resource, Err: err}
}

// WithHint attaches a remediation hint and returns the same error.
func (e *Error) WithHint(format string, args ...any) *Error {
	e.Hint = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(describe(e.Kind))
	if e.Resource != "" {
		fmt.Fprintf(&b, " %q", e.Resource)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func describe(k Kind) string {
	switch k {
	case KindRegistryUnavailable:
		return "registry unavailable: could not fetch"
	case KindComponentNotFound:
		return "component not found:"
	case KindComponentFileNotFound:
		return "component file not found in registry manifest:"
	case KindInvalidRegistry:
		return "invalid registry data in"
	case KindConfigNotFound:
		return "project config not found:"
	case KindInvalidConfig:
		return "invalid project config"
	case KindRequirementsNotMet:
		return "project requirements not met"
	case KindWriteFailed:
		return "failed to write"
	default:
		return "error"
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HintOf returns the remediation hint of the first *Error in err's chain.
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}
