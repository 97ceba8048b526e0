package deps

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func memProject(t *testing.T, files map[string]string) *Project {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, body := range files {
		if err := afero.WriteFile(fsys, filepath.Join("/app", p), []byte(body), 0644); err != nil {
			t.Fatalf("writing %s: %v", p, err)
		}
	}
	return &Project{FS: fsys, Root: "/app"}
}

func TestDeclared(t *testing.T) {
	p := memProject(t, map[string]string{
		"package.json": `{"dependencies": {"react": "^18.2.0"}, "devDependencies": {"react": "^17", "tailwindcss": "^4.0.0"}}`,
	})
	declared, err := p.Declared()
	if err != nil {
		t.Fatalf("Declared: %v", err)
	}
	if declared["react"] != "^18.2.0" {
		t.Errorf("react = %q, dependencies should win over devDependencies", declared["react"])
	}
	if declared["tailwindcss"] != "^4.0.0" {
		t.Errorf("tailwindcss = %q", declared["tailwindcss"])
	}
	if !p.HasDependency("tailwindcss") || p.HasDependency("vue") {
		t.Error("HasDependency mismatch")
	}
}

func TestDeclaredWithoutPackageJSON(t *testing.T) {
	p := memProject(t, nil)
	declared, err := p.Declared()
	if err != nil {
		t.Fatalf("Declared: %v", err)
	}
	if len(declared) != 0 {
		t.Errorf("Declared() = %v, want empty", declared)
	}
}

func TestInstalledVersions(t *testing.T) {
	p := memProject(t, map[string]string{
		"node_modules/react/package.json":              `{"name": "react", "version": "18.3.1"}`,
		"node_modules/@floating-ui/react/package.json": `{"name": "@floating-ui/react", "version": "0.26.9"}`,
	})

	got := p.InstalledVersions([]string{"react", "@floating-ui/react", "clsx"})
	if got["react"] != "18.3.1" {
		t.Errorf("react = %q", got["react"])
	}
	if got["@floating-ui/react"] != "0.26.9" {
		t.Errorf("@floating-ui/react = %q", got["@floating-ui/react"])
	}
	if _, ok := got["clsx"]; ok {
		t.Error("clsx is not installed and should be omitted")
	}
}

func TestInstalledPrefersNodeModules(t *testing.T) {
	p := memProject(t, map[string]string{
		"package.json":                    `{"dependencies": {"react": "^18.0.0", "clsx": "^2.0.0"}}`,
		"node_modules/react/package.json": `{"version": "18.3.1"}`,
	})

	got, err := p.Installed()
	if err != nil {
		t.Fatalf("Installed() error = %v", err)
	}
	if got["react"] != "18.3.1" {
		t.Errorf("react = %q, want installed version", got["react"])
	}
	if got["clsx"] != "^2.0.0" {
		t.Errorf("clsx = %q, want declared range", got["clsx"])
	}
}
