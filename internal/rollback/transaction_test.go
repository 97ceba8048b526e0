package rollback

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
)

func TestRollbackRemovesCreatedAndIgnoresMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "/app/nocta.config.json", []byte("{}"), 0644)

	tx := New(fsys, "/app", nil)
	tx.Record("nocta.config.json")
	tx.Record("lib/utils.ts") // never created

	removed := tx.Rollback()

	if len(removed) != 1 || removed[0] != "/app/nocta.config.json" {
		t.Errorf("Rollback() removed %v, want only the config", removed)
	}
	if ok, _ := afero.Exists(fsys, "/app/nocta.config.json"); ok {
		t.Error("config should be deleted")
	}
}

func TestRecordDeduplicates(t *testing.T) {
	tx := New(afero.NewMemMapFs(), "/app", nil)
	tx.Record("a.ts")
	tx.Record("/app/a.ts")
	tx.Record("./a.ts")
	tx.Record("b.ts")

	got := tx.Paths()
	if len(got) != 2 || got[0] != "/app/a.ts" || got[1] != "/app/b.ts" {
		t.Errorf("Paths() = %v, want [/app/a.ts /app/b.ts]", got)
	}
}

func TestRollbackRemovesDirectories(t *testing.T) {
	fsys := afero.NewMemMapFs()
	afero.WriteFile(fsys, "/app/components/ui/icons.ts", []byte("x"), 0644)

	tx := New(fsys, "/app", nil)
	tx.Record("components/ui")
	tx.Rollback()

	if ok, _ := afero.DirExists(fsys, "/app/components/ui"); ok {
		t.Error("recorded directory should be removed")
	}
}

// failingFs refuses to remove one path.
type failingFs struct {
	afero.Fs
	deny string
}

func (f failingFs) Remove(name string) error {
	if name == f.deny {
		return errors.New("permission denied")
	}
	return f.Fs.Remove(name)
}

func TestRollbackContinuesAfterFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	afero.WriteFile(base, "/app/a.ts", []byte("a"), 0644)
	afero.WriteFile(base, "/app/b.ts", []byte("b"), 0644)
	fsys := failingFs{Fs: base, deny: "/app/b.ts"}

	tx := New(fsys, "/app", nil)
	tx.Record("a.ts")
	tx.Record("b.ts")
	removed := tx.Rollback()

	if len(removed) != 1 || removed[0] != "/app/a.ts" {
		t.Errorf("Rollback() removed %v, want [/app/a.ts]", removed)
	}
	if _, err := base.Stat("/app/a.ts"); !errors.Is(err, os.ErrNotExist) {
		t.Error("a.ts should be removed even though b.ts failed")
	}
}

func TestRollbackClearsRecord(t *testing.T) {
	fsys := afero.NewMemMapFs()
	tx := New(fsys, "/app", nil)
	tx.Record("a.ts")
	tx.Rollback()
	if len(tx.Paths()) != 0 {
		t.Error("paths should be cleared after rollback")
	}
}

func TestMkdirAllRecordsOutermostCreated(t *testing.T) {
	fsys := afero.NewMemMapFs()
	fsys.MkdirAll("/app/src", 0755)

	tx := New(fsys, "/app", nil)
	if err := tx.MkdirAll("src/components/ui", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := tx.MkdirAll("src", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	paths := tx.Paths()
	if len(paths) != 1 || paths[0] != "/app/src/components" {
		t.Fatalf("Paths() = %v, want [/app/src/components]", paths)
	}

	tx.Rollback()
	if ok, _ := afero.DirExists(fsys, "/app/src/components"); ok {
		t.Error("created directory should be removed")
	}
	if ok, _ := afero.DirExists(fsys, "/app/src"); !ok {
		t.Error("pre-existing directory should be kept")
	}
}
