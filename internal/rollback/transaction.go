package rollback

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/nocta-ui/nocta-cli/internal/logging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Transaction remembers the paths a run created so they can be deleted if the
// run fails. It restores nothing: an overwritten file stays overwritten.
type Transaction struct {
	fs     afero.Fs
	root   string
	logger *zap.Logger

	mu    sync.Mutex
	paths []string
}

// New returns a Transaction. Relative paths are resolved against root.
func New(fsys afero.Fs, root string, logger *zap.Logger) *Transaction {
	return &Transaction{fs: fsys, root: root, logger: logging.OrNop(logger)}
}

// Record adds a created path.
func (t *Transaction) Record(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, t.abs(path))
}

// Paths returns the recorded paths, de-duplicated, in recording order.
func (t *Transaction) Paths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return unique(t.paths)
}

// Rollback deletes every recorded path that still exists, most recent first,
// and returns the ones it removed. Removal errors are logged and skipped so
// one failure does not stop the rest of the cleanup.
func (t *Transaction) Rollback() []string {
	paths := t.Paths()

	var removed []string
	for i := len(paths) - 1; i >= 0; i-- {
		p := paths[i]
		info, err := t.fs.Stat(p)
		if err != nil {
			continue
		}

		if info.IsDir() {
			err = t.fs.RemoveAll(p)
		} else {
			err = t.fs.Remove(p)
		}
		if err != nil {
			t.logger.Debug("rollback could not remove path", zap.String("path", p), zap.Error(err))
			continue
		}
		removed = append(removed, p)
	}

	t.mu.Lock()
	t.paths = nil
	t.mu.Unlock()
	return removed
}

// MkdirAll creates dir and its parents, recording the outermost directory
// it had to create. Nothing is recorded when dir already exists.
func (t *Transaction) MkdirAll(dir string, perm os.FileMode) error {
	dir = t.abs(dir)
	first := ""
	for d := dir; ; d = filepath.Dir(d) {
		if ok, _ := afero.DirExists(t.fs, d); ok {
			break
		}
		first = d
		if parent := filepath.Dir(d); parent == d {
			break
		}
	}
	if first == "" {
		return nil
	}
	if err := t.fs.MkdirAll(dir, perm); err != nil {
		return err
	}
	t.Record(first)
	return nil
}

func (t *Transaction) abs(path string) string {
	if !filepath.IsAbs(path) && t.root != "" {
		path = filepath.Join(t.root, path)
	}
	return filepath.Clean(path)
}

func unique(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
