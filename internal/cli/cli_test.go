package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliRegistryJSON = `{
  "name": "nocta-ui",
  "requirements": {"react": "^18.0.0"},
  "categories": {
    "data": {"name": "Data", "components": ["table"]},
    "feedback": {"name": "Feedback", "components": ["spinner"]}
  },
  "components": {
    "spinner": {
      "name": "Spinner",
      "category": "feedback",
      "description": "Loading indicator",
      "files": [{"name": "spinner.tsx", "path": "components/ui/spinner.tsx"}],
      "exports": ["Spinner"]
    },
    "table": {
      "name": "Table",
      "category": "data",
      "description": "Data table",
      "files": [{"name": "table.tsx", "path": "components/ui/table.tsx"}],
      "internalDependencies": ["spinner"],
      "exports": ["Table"]
    }
  }
}`

func serveRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	files := map[string]string{
		"components/ui/spinner.tsx": "import { cn } from \"@/lib/utils\";\nexport function Spinner() {}\n",
		"components/ui/table.tsx":   "import { Spinner } from \"@/components/ui/spinner\";\nexport function Table() {}\n",
	}
	encoded := map[string]string{}
	for p, body := range files {
		encoded[p] = base64.StdEncoding.EncodeToString([]byte(body))
	}
	manifest, err := json.Marshal(encoded)
	require.NoError(t, err)

	bodies := map[string]string{
		"/registry.json":   cliRegistryJSON,
		"/components.json": string(manifest),
		"/lib/utils.ts":    "export function cn() {}\n",
		"/icons/icons.ts":  "export const Icons = {}\n",
		"/css/index.css":   "@import \"tailwindcss\";\n/* NOCTA CSS THEME VARIABLES */\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupProject creates a Vite project in a temp dir, points the CLI at a
// test registry and changes into the project.
func setupProject(t *testing.T) string {
	t.Helper()
	srv := serveRegistry(t)
	dir := t.TempDir()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("NOCTA_REGISTRY_URL", srv.URL)
	t.Setenv("NOCTA_CACHE_DIR", filepath.Join(dir, ".nocta-cache"))

	writeFile(t, filepath.Join(dir, "package.json"), `{"dependencies": {"react": "^18.3.0", "vite": "^5.0.0"}}`)
	writeFile(t, filepath.Join(dir, "node_modules", "react", "package.json"), `{"version": "18.3.1"}`)
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func resetFlags() {
	verbose = false
	addDryRun, addYes = false, false
	initFramework, initDryRun = "", false
	listCategory, listJSON = "", false
	cacheClearForce = false
	versionShort, versionJSON = false, false
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	viper.Reset()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func nonInteractive(t *testing.T) {
	t.Helper()
	prev := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = prev })
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, buildVersion+"\n", out)
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, buildVersion, info["version"])
}

func TestListJSON(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "list", "--json")
	require.NoError(t, err)

	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "table", entries[0].Slug)
	assert.Equal(t, []string{"spinner"}, entries[0].Dependencies)
	assert.Equal(t, "spinner", entries[1].Slug)
}

func TestListCategoryTable(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "list", "--category", "Feedback")
	require.NoError(t, err)
	assert.Contains(t, out, "spinner")
	assert.NotContains(t, out, "Data table")
	assert.Contains(t, out, "1 component(s)")
}

func TestListUnknownCategoryShowsKnown(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "list", "--category", "forms")
	require.NoError(t, err)
	assert.Contains(t, out, "No components found.")
	assert.Contains(t, out, "Known categories: data, feedback")
}

func TestAddWithoutConfig(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "add", "button")
	require.Error(t, err)
	assert.Equal(t, errs.KindConfigNotFound, errs.KindOf(err))
}

func TestInitThenAdd(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "init")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(dir, "nocta.config.json"))
	assert.FileExists(t, filepath.Join(dir, "src", "lib", "utils.ts"))
	assert.FileExists(t, filepath.Join(dir, "src", "components", "ui", "icons.ts"))
	css, err := os.ReadFile(filepath.Join(dir, "src", "App.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "NOCTA CSS THEME VARIABLES")

	out, err = execute(t, "add", "table")
	require.NoError(t, err, out)
	assert.Contains(t, out, "With internal dependencies:")

	spinner, err := os.ReadFile(filepath.Join(dir, "src", "components", "ui", "spinner.tsx"))
	require.NoError(t, err)
	assert.Contains(t, string(spinner), `from "@/lib/utils"`)
	assert.FileExists(t, filepath.Join(dir, "src", "components", "ui", "table.tsx"))

	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestAddConflictWithoutTerminalAborts(t *testing.T) {
	dir := setupProject(t)
	nonInteractive(t)

	_, err := execute(t, "init")
	require.NoError(t, err)
	target := filepath.Join(dir, "src", "components", "ui", "spinner.tsx")
	writeFile(t, target, "local edits")

	out, err := execute(t, "add", "spinner")
	require.NoError(t, err)
	assert.Contains(t, out, "--yes")

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "local edits", string(got))

	_, err = execute(t, "add", "spinner", "--yes")
	require.NoError(t, err)
	got, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), "export function Spinner")
}

func TestAddDryRun(t *testing.T) {
	dir := setupProject(t)
	_, err := execute(t, "init")
	require.NoError(t, err)

	out, err := execute(t, "add", "table", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[dry-run]")
	assert.NoFileExists(t, filepath.Join(dir, "src", "components", "ui", "table.tsx"))
}

func TestAddUnknownComponentSuggests(t *testing.T) {
	setupProject(t)
	_, err := execute(t, "init")
	require.NoError(t, err)

	_, err = execute(t, "add", "spiner")
	require.Error(t, err)
	assert.Equal(t, errs.KindComponentNotFound, errs.KindOf(err))
	assert.Contains(t, errs.HintOf(err), "spinner")
}

func TestCacheInfoAndClear(t *testing.T) {
	dir := setupProject(t)
	nonInteractive(t)

	_, err := execute(t, "list")
	require.NoError(t, err)

	out, err := execute(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, ".nocta-cache"))
	assert.Contains(t, out, "Entries:  1")

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "untouched")
	assert.DirExists(t, filepath.Join(dir, ".nocta-cache"))

	_, err = execute(t, "cache", "clear", "--force")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, ".nocta-cache"))
}

func TestDoctorReportsProblems(t *testing.T) {
	setupProject(t)

	out, err := execute(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, out, "npm")
	assert.Contains(t, err.Error(), "1 problem(s)")

	_, err = execute(t, "init")
	require.NoError(t, err)
	_, err = execute(t, "doctor")
	assert.NoError(t, err)
}

func TestConfigSetGet(t *testing.T) {
	setupProject(t)

	_, err := execute(t, "config", "set", "cache_ttl_ms", "5000")
	require.NoError(t, err)

	out, err := execute(t, "config", "get", "cache_ttl_ms")
	require.NoError(t, err)
	assert.Equal(t, "5000\n", out)

	_, err = execute(t, "config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestPrintErrorIncludesHint(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errs.New(errs.KindConfigNotFound, "nocta.config.json", nil).WithHint("run init first"))
	assert.Contains(t, buf.String(), "Error: ")
	assert.Contains(t, buf.String(), "run init first")
}
