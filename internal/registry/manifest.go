package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/errs"
)

// FileManifest indexes the registry's component file bodies. It is loaded
// lazily on first use and lives for one pipeline run: callers construct one
// per run and pass it to GetComponentFile. Safe for concurrent use.
type FileManifest struct {
	mu     sync.Mutex
	loaded bool
	byPath map[string]string
	byFile map[string]string
}

// NewFileManifest returns an empty, unloaded manifest.
func NewFileManifest() *FileManifest {
	return &FileManifest{}
}

func (m *FileManifest) ensure(ctx context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loaded {
		return nil
	}

	key := path.Join(assetCachePrefix, ComponentsManifest)
	body, err := c.fetch(ctx, ComponentsManifest, key, c.assetTTL)
	if err != nil {
		return err
	}

	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return errs.New(errs.KindInvalidRegistry, c.resourceURL(ComponentsManifest),
			fmt.Errorf("parsing component manifest: %w", err))
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m.byPath = make(map[string]string, len(raw))
	m.byFile = make(map[string]string, len(raw))
	for _, k := range keys {
		p := cleanManifestPath(k)
		m.byPath[p] = raw[k]
		base := path.Base(p)
		if _, taken := m.byFile[base]; !taken {
			m.byFile[base] = raw[k]
		}
	}
	m.loaded = true
	return nil
}

func (m *FileManifest) lookup(filePath string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := cleanManifestPath(filePath)
	if v, ok := m.byPath[p]; ok {
		return v, true
	}
	v, ok := m.byFile[path.Base(p)]
	return v, ok
}

func cleanManifestPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}

// GetComponentFile returns the decoded source of one component file. The
// file is matched by registry path first, then by basename.
func (c *Client) GetComponentFile(ctx context.Context, m *FileManifest, filePath string) (string, error) {
	if err := m.ensure(ctx, c); err != nil {
		return "", err
	}

	encoded, ok := m.lookup(filePath)
	if !ok {
		return "", errs.New(errs.KindComponentFileNotFound, path.Base(filePath), nil).
			WithHint("the registry may be out of date; run \"%s cache clear\" and retry", branding.CLIName())
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", errs.New(errs.KindInvalidRegistry, filePath, fmt.Errorf("decoding file body: %w", err))
	}
	return string(decoded), nil
}
