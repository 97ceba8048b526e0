package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nocta-ui/nocta-cli/internal/logging"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// MaxAge is the hard limit after which an entry is deleted, even for stale reads.
	MaxAge = 30 * 24 * time.Hour

	metaSuffix = ".meta"
	emptyKey   = "entry"
)

// Meta holds the HTTP validators stored next to an entry.
type Meta struct {
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
}

// Entry is one cached resource.
type Entry struct {
	Key     string
	Content []byte
	ModTime time.Time
	Meta    Meta
}

// ReadOptions controls freshness checks on Read.
type ReadOptions struct {
	// TTL rejects entries older than this. Zero disables the check.
	TTL time.Duration
	// AcceptStale skips the TTL check.
	AcceptStale bool
}

// Store is a file-backed content cache rooted at one directory. A nil *Store
// is valid and behaves as an always-empty cache.
type Store struct {
	fs     afero.Fs
	root   string
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithFs sets the filesystem the cache lives on. Defaults to the OS
// filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store rooted at root. Nothing is created on disk until the
// first write.
func New(root string, opts ...Option) *Store {
	s := &Store{
		fs:   afero.NewOsFs(),
		root: root,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// NormalizeKey turns a resource key into a clean relative slash path.
// Leading slashes, "." and ".." segments are dropped; an empty result becomes
// "entry".
func NormalizeKey(key string) string {
	key = strings.ReplaceAll(key, "\\", "/")
	var parts []string
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return emptyKey
	}
	return path.Join(parts...)
}

// Path returns the file path backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(NormalizeKey(key)))
}

// Read returns the entry for key. The boolean is false when the entry is
// absent, older than MaxAge, or older than opts.TTL without opts.AcceptStale.
func (s *Store) Read(key string, opts ReadOptions) (*Entry, bool) {
	if s == nil {
		return nil, false
	}
	p := s.Path(key)

	info, err := s.fs.Stat(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("cache stat failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	age := s.now().Sub(info.ModTime())
	if age > MaxAge {
		s.logger.Debug("cache entry expired, removing", zap.String("key", key), zap.Duration("age", age))
		_ = s.fs.Remove(p)
		_ = s.fs.Remove(p + metaSuffix)
		return nil, false
	}
	if !opts.AcceptStale && opts.TTL > 0 && age > opts.TTL {
		s.logger.Debug("cache entry stale", zap.String("key", key), zap.Duration("age", age))
		return nil, false
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		s.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	entry := &Entry{
		Key:     NormalizeKey(key),
		Content: data,
		ModTime: info.ModTime(),
	}
	if raw, err := afero.ReadFile(s.fs, p+metaSuffix); err == nil {
		_ = json.Unmarshal(raw, &entry.Meta)
	}
	return entry, true
}

// Write stores content under key. Failures are logged and otherwise ignored:
// the cache is an optimization and must never fail the caller.
func (s *Store) Write(key string, content []byte, meta *Meta) {
	if s == nil {
		return
	}
	if err := s.write(key, content, meta); err != nil {
		s.logger.Debug("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) write(key string, content []byte, meta *Meta) error {
	p := s.Path(key)
	if err := s.writeAtomic(p, content); err != nil {
		return err
	}

	metaPath := p + metaSuffix
	if meta == nil || (meta.ETag == "" && meta.LastModified == "") {
		_ = s.fs.Remove(metaPath)
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding cache metadata: %w", err)
	}
	return s.writeAtomic(metaPath, raw)
}

// writeAtomic writes through a temp file in the target directory so readers
// never observe a partial entry.
func (s *Store) writeAtomic(p string, content []byte) error {
	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", p, err)
	}
	return nil
}
