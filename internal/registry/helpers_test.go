package registry

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

const testRegistryJSON = `{
  "name": "nocta-ui",
  "version": "1.0.0",
  "requirements": {"react": "^18.0.0", "tailwindcss": "^4.0.0"},
  "categories": {"data": {"name": "Data", "components": ["table"]}},
  "components": {
    "spinner": {
      "name": "Spinner",
      "category": "feedback",
      "files": [{"name": "spinner.tsx", "path": "components/ui/spinner.tsx", "type": "component"}],
      "dependencies": {"clsx": "^2.0.0"}
    },
    "table": {
      "name": "Table",
      "category": "data",
      "files": [{"name": "table.tsx", "path": "components/ui/table.tsx", "type": "component"}],
      "internalDependencies": ["spinner"],
      "dependencies": {"clsx": "^2.0.0", "@floating-ui/react": "^0.26.0"}
    },
    "button": {
      "name": "Button",
      "category": "form",
      "files": [{"name": "button.tsx", "path": "components/ui/button.tsx", "type": "component"}]
    }
  }
}`

// fakeRegistry serves a registry over HTTP and counts requests per path.
type fakeRegistry struct {
	t      *testing.T
	server *httptest.Server

	mu     sync.Mutex
	files  map[string]string
	status map[string]int
	hits   map[string]*atomic.Int32
}

func newFakeRegistry(t *testing.T) *fakeRegistry {
	t.Helper()
	f := &fakeRegistry{
		t:      t,
		files:  map[string]string{"/registry.json": testRegistryJSON},
		status: map[string]int{},
		hits:   map[string]*atomic.Int32{},
	}
	f.setComponents(map[string]string{
		"components/ui/spinner.tsx": `import { cn } from "@/lib/utils";` + "\nexport function Spinner() {}\n",
		"components/ui/table.tsx":   `import { Spinner } from "@/components/ui/spinner";` + "\nexport function Table() {}\n",
	})
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeRegistry) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	counter, ok := f.hits[r.URL.Path]
	if !ok {
		counter = &atomic.Int32{}
		f.hits[r.URL.Path] = counter
	}
	body, found := f.files[r.URL.Path]
	status := f.status[r.URL.Path]
	f.mu.Unlock()
	counter.Add(1)

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte(body))
}

func (f *fakeRegistry) setComponents(files map[string]string) {
	encoded := make(map[string]string, len(files))
	for p, src := range files {
		encoded[p] = base64.StdEncoding.EncodeToString([]byte(src))
	}
	data, err := json.Marshal(encoded)
	if err != nil {
		f.t.Fatalf("encoding components manifest: %v", err)
	}
	f.mu.Lock()
	f.files["/components.json"] = string(data)
	f.mu.Unlock()
}

func (f *fakeRegistry) setStatus(p string, code int) {
	f.mu.Lock()
	f.status[p] = code
	f.mu.Unlock()
}

func (f *fakeRegistry) setFile(p, body string) {
	f.mu.Lock()
	f.files[p] = body
	f.mu.Unlock()
}

func (f *fakeRegistry) hitCount(p string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.hits[p]; ok {
		return int(c.Load())
	}
	return 0
}
