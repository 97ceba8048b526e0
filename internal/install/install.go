package install

import (
	"context"
	"io"

	"github.com/nocta-ui/nocta-cli/internal/deps"
	"github.com/nocta-ui/nocta-cli/internal/imports"
	"github.com/nocta-ui/nocta-cli/internal/logging"
	"github.com/nocta-ui/nocta-cli/internal/registry"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/nocta-ui/nocta-cli/internal/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds parallel component file fetches.
const DefaultConcurrency = 6

// Source supplies component definitions and file bodies.
type Source interface {
	registry.ComponentSource
	ComponentFile(ctx context.Context, path string) (string, error)
}

type clientSource struct {
	*registry.Client
	manifest *registry.FileManifest
}

func (s clientSource) ComponentFile(ctx context.Context, path string) (string, error) {
	return s.Client.GetComponentFile(ctx, s.manifest, path)
}

// FromClient adapts a registry client. The file manifest is loaded at most
// once per returned Source, so use one Source per run.
func FromClient(c *registry.Client) Source {
	return clientSource{Client: c, manifest: registry.NewFileManifest()}
}

// ConfirmFunc asks whether the listed files may be overwritten.
type ConfirmFunc func(conflicts []string) (bool, error)

// Installer adds registry components to a project.
type Installer struct {
	fs          afero.Fs
	root        string
	cfg         *workspace.Config
	source      Source
	packages    deps.Installer
	manager     deps.Manager
	reporter    *report.Reporter
	logger      *zap.Logger
	concurrency int
}

// Option configures an Installer.
type Option func(*Installer)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(i *Installer) { i.fs = fsys }
}

// WithPackageInstaller sets how npm packages are installed.
func WithPackageInstaller(p deps.Installer) Option {
	return func(i *Installer) { i.packages = p }
}

// WithManager forces a package manager instead of lockfile detection.
func WithManager(m deps.Manager) Option {
	return func(i *Installer) { i.manager = m }
}

// WithReporter sets where progress is printed.
func WithReporter(r *report.Reporter) Option {
	return func(i *Installer) { i.reporter = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// WithConcurrency sets the number of parallel file fetches.
func WithConcurrency(n int) Option {
	return func(i *Installer) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// New returns an Installer for the project at root.
func New(root string, cfg *workspace.Config, source Source, opts ...Option) *Installer {
	i := &Installer{
		fs:          afero.NewOsFs(),
		root:        root,
		cfg:         cfg,
		source:      source,
		packages:    &deps.ExecInstaller{},
		reporter:    report.Plain(io.Discard),
		logger:      zap.NewNop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.logger = logging.OrNop(i.logger)
	if i.manager == "" {
		i.manager = deps.DetectManager(i.fs, root)
	}
	return i
}

// RunOptions controls a single add run.
type RunOptions struct {
	DryRun bool
	// Confirm is consulted when files would be overwritten. A nil Confirm
	// refuses.
	Confirm ConfirmFunc
}

// Result describes what a run did, or would do in dry-run.
type Result struct {
	Plan    *Plan
	Written []string
	Deps    *DependencyResult
	// Aborted is set when overwriting was refused. Nothing was written.
	Aborted bool
}

// Run resolves names, writes their files and installs their npm
// dependencies.
func (i *Installer) Run(ctx context.Context, names []string, opts RunOptions) (*Result, error) {
	plan, err := i.BuildPlan(ctx, names)
	if err != nil {
		return nil, err
	}
	i.PrintPlan(plan)

	res := &Result{Plan: plan}
	if conflicts := plan.ConflictPaths(); len(conflicts) > 0 {
		if opts.DryRun {
			i.reporter.Warn("[dry-run] Would overwrite:")
			for _, c := range conflicts {
				i.reporter.Item("%s", c)
			}
		} else {
			i.reporter.Warn("These files already exist:")
			for _, c := range conflicts {
				i.reporter.Item("%s", c)
			}
			ok := false
			if opts.Confirm != nil {
				if ok, err = opts.Confirm(conflicts); err != nil {
					return nil, err
				}
			}
			if !ok {
				i.reporter.Warn("Installation cancelled. No files were changed.")
				res.Aborted = true
				return res, nil
			}
		}
	}

	if !opts.DryRun {
		if res.Written, err = i.Apply(plan); err != nil {
			return res, err
		}
	}

	if res.Deps, err = i.InstallDependencies(ctx, plan, opts.DryRun); err != nil {
		return res, err
	}

	i.PrintSummary(plan, opts.DryRun)
	return res, nil
}

// importOptions derives import rewriting from the project config.
func (i *Installer) importOptions() imports.Options {
	opts := imports.Options{
		Prefix:         i.cfg.ComponentPrefix(),
		ComponentsPath: i.cfg.Aliases.Components.Path(),
	}
	if alias, ok := i.cfg.Aliases.Components.ImportPrefix(); ok {
		opts.ComponentAlias = alias
	}
	return opts
}
