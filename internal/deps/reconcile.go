package deps

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Action is what reconciliation decided for one package.
type Action int

const (
	ActionInstall Action = iota
	ActionSkip
)

func (a Action) String() string {
	if a == ActionSkip {
		return "skip"
	}
	return "install"
}

// Reason explains a reconciliation decision.
type Reason string

const (
	ReasonMissing      Reason = "missing"
	ReasonSatisfied    Reason = "satisfied"
	ReasonNewerMajor   Reason = "newer-major-assumed-compatible"
	ReasonNewerVersion Reason = "newer-version-compatible"
	ReasonIncompatible Reason = "incompatible"
	ReasonUnknown      Reason = "unknown"
)

// Decision is the outcome for one package.
type Decision struct {
	Name      string
	Required  string
	Installed string
	Action    Action
	Reason    Reason
}

// majorCompatible lists packages for which any installed major at or above
// the required one is accepted.
var majorCompatible = map[string]bool{
	"react":     true,
	"react-dom": true,
}

// Classify compares a required range with the installed version of a
// package. It never fails: anything it cannot parse is classified as an
// install with ReasonUnknown.
func Classify(name, required, installed string) Decision {
	d := Decision{Name: name, Required: required, Installed: installed}

	if strings.TrimSpace(installed) == "" {
		d.Action, d.Reason = ActionInstall, ReasonMissing
		return d
	}

	have, err := parseVersion(installed)
	if err != nil {
		d.Action, d.Reason = ActionInstall, ReasonUnknown
		return d
	}
	constraint, err := semver.NewConstraint(strings.TrimSpace(required))
	if err != nil {
		d.Action, d.Reason = ActionInstall, ReasonUnknown
		return d
	}
	if constraint.Check(have) {
		d.Action, d.Reason = ActionSkip, ReasonSatisfied
		return d
	}

	// Ranges like "*" or "x" carry no major; only the range check applies.
	wantMajor, ok := majorOf(required)
	switch {
	case !ok:
		d.Action, d.Reason = ActionInstall, ReasonIncompatible
	case majorCompatible[name] && have.Major() >= wantMajor:
		d.Action, d.Reason = ActionSkip, ReasonNewerVersion
	case have.Major() > wantMajor:
		d.Action, d.Reason = ActionSkip, ReasonNewerMajor
	default:
		d.Action, d.Reason = ActionInstall, ReasonIncompatible
	}
	return d
}

func parseVersion(v string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
}

// majorOf returns the first run of digits in s, after a leading "v", as a
// major version. "^2.0.0", "2.x" and ">=4 <5" all yield their first number.
func majorOf(s string) (uint64, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	var major uint64
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			major = major*10 + uint64(r-'0')
			digits++
			continue
		}
		if digits > 0 {
			break
		}
	}
	return major, digits > 0
}

// Plan is the reconciliation result for a set of required packages.
type Plan struct {
	Decisions []Decision
}

// Reconcile classifies every required package against the installed set.
// Decisions are sorted by package name.
func Reconcile(required, installed map[string]string) Plan {
	names := make([]string, 0, len(required))
	for name := range required {
		names = append(names, name)
	}
	sort.Strings(names)

	var p Plan
	for _, name := range names {
		p.Decisions = append(p.Decisions, Classify(name, required[name], installed[name]))
	}
	return p
}

// ToInstall returns the packages that need installing, name to range.
func (p Plan) ToInstall() map[string]string {
	out := make(map[string]string)
	for _, d := range p.Decisions {
		if d.Action == ActionInstall {
			out[d.Name] = d.Required
		}
	}
	return out
}

// Skipped returns the decisions that need no action.
func (p Plan) Skipped() []Decision {
	var out []Decision
	for _, d := range p.Decisions {
		if d.Action == ActionSkip {
			out = append(out, d)
		}
	}
	return out
}
