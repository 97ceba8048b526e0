package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AliasKind tells the two Alias shapes apart.
type AliasKind int

const (
	// AliasSimple is a bare filesystem path; imports use the alias prefix.
	AliasSimple AliasKind = iota
	// AliasImportOverride also names the import specifier to use.
	AliasImportOverride
)

// Alias is a project location written either as a path string or as
// {"filesystem": ..., "import": ...}.
type Alias struct {
	kind         AliasKind
	path         string
	importPrefix string
}

// SimpleAlias returns an alias with only a filesystem path.
func SimpleAlias(path string) Alias {
	return Alias{kind: AliasSimple, path: path}
}

// ImportOverrideAlias returns an alias whose imports use importPrefix.
func ImportOverrideAlias(path, importPrefix string) Alias {
	return Alias{kind: AliasImportOverride, path: path, importPrefix: importPrefix}
}

// Kind returns the alias shape.
func (a Alias) Kind() AliasKind { return a.kind }

// Path returns the filesystem path, relative to the project root.
func (a Alias) Path() string { return strings.TrimRight(a.path, "/") }

// ImportPrefix returns the import override, if any.
func (a Alias) ImportPrefix() (string, bool) {
	if a.kind != AliasImportOverride || a.importPrefix == "" {
		return "", false
	}
	return a.importPrefix, true
}

type aliasObject struct {
	Filesystem string `json:"filesystem"`
	Import     string `json:"import,omitempty"`
}

// MarshalJSON writes a simple alias as a string and an override as an object.
func (a Alias) MarshalJSON() ([]byte, error) {
	if a.kind == AliasImportOverride {
		return json.Marshal(aliasObject{Filesystem: a.path, Import: a.importPrefix})
	}
	return json.Marshal(a.path)
}

// UnmarshalJSON accepts either shape.
func (a *Alias) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = SimpleAlias(s)
		return nil
	}

	var obj aliasObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("alias must be a string or an object with \"filesystem\": %w", err)
	}
	if obj.Import == "" {
		*a = SimpleAlias(obj.Filesystem)
		return nil
	}
	*a = ImportOverrideAlias(obj.Filesystem, obj.Import)
	return nil
}
