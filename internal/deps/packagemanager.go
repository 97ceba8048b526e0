package deps

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Manager is a JavaScript package manager.
type Manager string

const (
	NPM  Manager = "npm"
	Yarn Manager = "yarn"
	PNPM Manager = "pnpm"
	Bun  Manager = "bun"
)

// lockfiles maps a lockfile to its manager, checked in this order.
var lockfiles = []struct {
	name    string
	manager Manager
}{
	{"bun.lockb", Bun},
	{"bun.lock", Bun},
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"package-lock.json", NPM},
}

// DetectManager picks the package manager from the lockfile in root,
// defaulting to npm.
func DetectManager(fsys afero.Fs, root string) Manager {
	for _, lf := range lockfiles {
		if ok, _ := afero.Exists(fsys, filepath.Join(root, lf.name)); ok {
			return lf.manager
		}
	}
	return NPM
}

// InstallArgs returns the argv (without the binary) that installs pkgs.
// Package specs are sorted for stable output.
func (m Manager) InstallArgs(pkgs map[string]string, dev bool) []string {
	var args []string
	switch m {
	case NPM:
		args = []string{"install"}
		if dev {
			args = append(args, "--save-dev")
		}
	default:
		args = []string{"add"}
		if dev {
			args = append(args, "-D")
		}
	}
	return append(args, specs(pkgs)...)
}

// CommandLine renders the install command for display.
func (m Manager) CommandLine(pkgs map[string]string, dev bool) string {
	return string(m) + " " + strings.Join(m.InstallArgs(pkgs, dev), " ")
}

func specs(pkgs map[string]string) []string {
	out := make([]string, 0, len(pkgs))
	for name, rng := range pkgs {
		if rng == "" {
			out = append(out, name)
			continue
		}
		out = append(out, name+"@"+rng)
	}
	sort.Strings(out)
	return out
}

// Installer runs a package manager.
type Installer interface {
	Install(ctx context.Context, dir string, m Manager, pkgs map[string]string, dev bool) error
}

// ExecInstaller shells out to the package manager binary.
type ExecInstaller struct {
	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// Install runs the package manager in dir. An empty package set is a no-op.
func (e *ExecInstaller) Install(ctx context.Context, dir string, m Manager, pkgs map[string]string, dev bool) error {
	if len(pkgs) == 0 {
		return nil
	}

	bin, err := exec.LookPath(string(m))
	if err != nil {
		return fmt.Errorf("%s not found on PATH: %w", m, err)
	}

	cmd := exec.CommandContext(ctx, bin, m.InstallArgs(pkgs, dev)...)
	cmd.Dir = dir
	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", m.CommandLine(pkgs, dev), err)
	}
	return nil
}
