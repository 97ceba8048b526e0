package deps

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IssueReason classifies an unmet project requirement.
type IssueReason string

const (
	IssueMissing  IssueReason = "missing"
	IssueOutdated IssueReason = "outdated"
	IssueUnknown  IssueReason = "unknown"
)

// RequirementIssue is one baseline requirement the project does not meet.
type RequirementIssue struct {
	Name      string
	Required  string
	Installed string
	Declared  string
	Reason    IssueReason
}

// CheckProjectRequirements reports every requirement the project fails.
// Unlike Classify it never suggests an install: it is meant to stop a caller
// before anything is written. Issues are sorted by package name.
func CheckProjectRequirements(p *Project, requirements map[string]string) ([]RequirementIssue, error) {
	declared, err := p.Declared()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(requirements))
	for name := range requirements {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []RequirementIssue
	for _, name := range names {
		required := requirements[name]
		issue := RequirementIssue{Name: name, Required: required, Declared: declared[name]}

		if !p.IsInstalled(name) {
			issue.Reason = IssueMissing
			issues = append(issues, issue)
			continue
		}

		// A module without a version field is judged by its declared range.
		spec := p.InstalledVersion(name)
		if spec == "" {
			spec = declared[name]
		}
		if meets(required, spec) {
			continue
		}

		if have, err := parseVersion(spec); err == nil {
			issue.Installed = have.String()
			issue.Reason = IssueOutdated
		} else {
			issue.Reason = IssueUnknown
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

// meets reports whether installed satisfies required, or carries a higher
// major than required. Majors are read loosely, so an unparseable range can
// still be met by a newer major.
func meets(required, installed string) bool {
	if have, err := parseVersion(installed); err == nil {
		if c, err := semver.NewConstraint(strings.TrimSpace(required)); err == nil && c.Check(have) {
			return true
		}
	}
	haveMajor, ok := majorOf(installed)
	if !ok {
		return false
	}
	wantMajor, ok := majorOf(required)
	return ok && haveMajor > wantMajor
}
