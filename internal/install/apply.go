package install

import (
	"path/filepath"

	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/nocta-ui/nocta-cli/internal/rollback"
	"github.com/spf13/afero"
)

// Apply writes the plan's files and returns their absolute paths. If a
// write fails, files and directories this call created are removed again.
// Files that existed before are left as written.
func (i *Installer) Apply(p *Plan) ([]string, error) {
	tx := rollback.New(i.fs, i.root, i.logger)
	written := make([]string, 0, len(p.Files))

	for _, f := range p.Files {
		abs := filepath.Join(i.root, f.Target)
		if err := tx.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			tx.Rollback()
			return nil, errs.New(errs.KindWriteFailed, f.Target, err)
		}
		if !f.Exists {
			tx.Record(abs)
		}
		if err := afero.WriteFile(i.fs, abs, []byte(f.Content), 0644); err != nil {
			tx.Rollback()
			return nil, errs.New(errs.KindWriteFailed, f.Target, err)
		}
		written = append(written, abs)
	}
	return written, nil
}
