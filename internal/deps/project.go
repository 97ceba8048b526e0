package deps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

const packageJSON = "package.json"

// PackageJSON is the subset of package.json the installer reads.
type PackageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Project is a JavaScript project rooted at Root.
type Project struct {
	FS   afero.Fs
	Root string
}

// NewProject returns a Project on the OS filesystem.
func NewProject(root string) *Project {
	return &Project{FS: afero.NewOsFs(), Root: root}
}

// ReadPackageJSON reads the project's package.json. A missing file yields
// nil and no error.
func (p *Project) ReadPackageJSON() (*PackageJSON, error) {
	data, err := afero.ReadFile(p.FS, filepath.Join(p.Root, packageJSON))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", packageJSON, err)
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", packageJSON, err)
	}
	return &pkg, nil
}

// Declared returns every dependency range declared in package.json, with
// dependencies taking precedence over devDependencies.
func (p *Project) Declared() (map[string]string, error) {
	pkg, err := p.ReadPackageJSON()
	if err != nil || pkg == nil {
		return map[string]string{}, err
	}
	out := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, rng := range pkg.DevDependencies {
		out[name] = rng
	}
	for name, rng := range pkg.Dependencies {
		out[name] = rng
	}
	return out, nil
}

func (p *Project) modulePackageJSON(name string) string {
	return filepath.Join(p.Root, "node_modules", filepath.FromSlash(name), packageJSON)
}

// IsInstalled reports whether node_modules/<name>/package.json exists, even
// when it records no version.
func (p *Project) IsInstalled(name string) bool {
	ok, _ := afero.Exists(p.FS, p.modulePackageJSON(name))
	return ok
}

// InstalledVersion returns the version recorded in
// node_modules/<name>/package.json, or "" when the package is not installed.
func (p *Project) InstalledVersion(name string) string {
	data, err := afero.ReadFile(p.FS, p.modulePackageJSON(name))
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "version").String()
}

// InstalledVersions looks up the installed version of each name. Packages
// that are not installed are omitted.
func (p *Project) InstalledVersions(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v := p.InstalledVersion(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// Installed returns the declared dependencies, each mapped to the version in
// node_modules when the package is installed and to its declared range
// otherwise.
func (p *Project) Installed() (map[string]string, error) {
	declared, err := p.Declared()
	if err != nil {
		return nil, err
	}
	for name := range declared {
		if v := p.InstalledVersion(name); v != "" {
			declared[name] = v
		}
	}
	return declared, nil
}

// HasDependency reports whether name is declared in package.json.
func (p *Project) HasDependency(name string) bool {
	declared, err := p.Declared()
	if err != nil {
		return false
	}
	_, ok := declared[name]
	return ok
}
