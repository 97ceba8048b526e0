package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Stats summarizes what is on disk under the cache root.
type Stats struct {
	Root    string
	Entries int
	Bytes   int64
	Exists  bool
}

// Stats walks the cache root. Metadata sidecars are not counted.
func (s *Store) Stats() (Stats, error) {
	st := Stats{Root: s.Root()}
	if s == nil {
		return st, nil
	}

	info, err := s.fs.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("reading cache root %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return st, fmt.Errorf("cache root %s is not a directory", s.root)
	}
	st.Exists = true

	err = afero.Walk(s.fs, s.root, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || strings.HasSuffix(fi.Name(), metaSuffix) {
			return nil
		}
		st.Entries++
		st.Bytes += fi.Size()
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("walking cache root %s: %w", s.root, err)
	}
	return st, nil
}

// Clear removes the cache root and everything below it.
func (s *Store) Clear() error {
	if s == nil || s.root == "" {
		return nil
	}
	if err := s.fs.RemoveAll(s.root); err != nil {
		return fmt.Errorf("removing cache root %s: %w", s.root, err)
	}
	return nil
}
