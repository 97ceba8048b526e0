//go:build integration

package integration_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testEnv holds the isolated directories and the fake registry of one test.
type testEnv struct {
	ProjectDir string // the consumer project
	CacheDir   string // registry cache root
	Registry   *fakeRegistry
}

// setupTestEnv creates a temp project and cache, and starts a registry
// server. Everything is torn down when the test ends.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		ProjectDir: t.TempDir(),
		CacheDir:   t.TempDir(),
		Registry:   newFakeRegistry(t),
	}
	t.Setenv("HOME", t.TempDir())
	return env
}

// fakeRegistry serves a small component registry. It can be taken offline
// to exercise the cache fallback.
type fakeRegistry struct {
	server *httptest.Server

	mu      sync.Mutex
	offline bool
	bodies  map[string]string
}

const registryJSON = `{
  "name": "nocta-ui",
  "requirements": {"react": "^18.0.0", "tailwindcss": "^4.0.0"},
  "components": {
    "spinner": {
      "name": "Spinner",
      "category": "feedback",
      "files": [{"name": "spinner.tsx", "path": "components/ui/spinner.tsx"}],
      "dependencies": {"clsx": "^2.0.0"},
      "exports": ["Spinner"]
    },
    "table": {
      "name": "Table",
      "category": "data",
      "files": [{"name": "table.tsx", "path": "components/ui/table.tsx"}],
      "internalDependencies": ["spinner"],
      "dependencies": {"clsx": "^2.0.0", "@floating-ui/react": "^0.26.0"},
      "exports": ["Table", "TableRow"],
      "variants": ["default", "striped"]
    },
    "dialog": {
      "name": "Dialog",
      "category": "overlay",
      "files": [{"name": "dialog.tsx", "path": "components/ui/dialog.tsx"}],
      "internalDependencies": ["button"]
    },
    "button": {
      "name": "Button",
      "category": "form",
      "files": [{"name": "button.tsx", "path": "components/ui/button.tsx"}],
      "internalDependencies": ["dialog"]
    }
  }
}`

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()

	sources := map[string]string{
		"components/ui/spinner.tsx": "import { cn } from \"@/lib/utils\";\nexport function Spinner() {}\n",
		"components/ui/table.tsx":   "import { Spinner } from \"@/components/ui/spinner\";\nimport { cn } from \"@/lib/utils\";\nexport function Table() {}\n",
		"components/ui/dialog.tsx":  "import { Button } from \"@/components/ui/button\";\nexport function Dialog() {}\n",
		"components/ui/button.tsx":  "export function Button() {}\n",
	}
	encoded := make(map[string]string, len(sources))
	for p, body := range sources {
		encoded[p] = base64.StdEncoding.EncodeToString([]byte(body))
	}
	manifest, err := json.Marshal(encoded)
	if err != nil {
		t.Fatalf("encoding components manifest: %v", err)
	}

	f := &fakeRegistry{bodies: map[string]string{
		"/registry.json":   registryJSON,
		"/components.json": string(manifest),
		"/lib/utils.ts":    "export function cn(...inputs: string[]) { return inputs.join(\" \"); }\n",
		"/icons/icons.ts":  "export const Icons = {};\n",
		"/css/index.css":   "@import \"tailwindcss\";\n\n/* NOCTA CSS THEME VARIABLES */\n@theme {\n  --color-primary: oklch(0.2 0 0);\n}\n",
	}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRegistry) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	offline := f.offline
	body, ok := f.bodies[r.URL.Path]
	f.mu.Unlock()

	if offline {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeRegistry) URL() string { return f.server.URL }

func (f *fakeRegistry) setOffline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = v
}

// writeFile creates a file with the given content, creating parent dirs as needed.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writePackage writes package.json and fakes installed node_modules entries.
func writePackage(t *testing.T, dir string, declared map[string]string, installed map[string]string) {
	t.Helper()
	data, err := json.Marshal(map[string]any{"dependencies": declared})
	if err != nil {
		t.Fatalf("encoding package.json: %v", err)
	}
	writeFile(t, filepath.Join(dir, "package.json"), string(data))
	for name, version := range installed {
		writeFile(t, filepath.Join(dir, "node_modules", filepath.FromSlash(name), "package.json"),
			`{"name": "`+name+`", "version": "`+version+`"}`)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected path to not exist: %s", path)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}
