package scaffold

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/deps"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/nocta-ui/nocta-cli/internal/logging"
	"github.com/nocta-ui/nocta-cli/internal/registry"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/nocta-ui/nocta-cli/internal/rollback"
	"github.com/nocta-ui/nocta-cli/internal/workspace"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// AssetSource is the part of the registry client init needs.
type AssetSource interface {
	GetAsset(ctx context.Context, path string) (string, error)
	Requirements(ctx context.Context) (map[string]string, error)
}

// iconsFile is created next to the components.
const iconsFile = "icons.ts"

// Options controls an init run.
type Options struct {
	// Framework overrides detection when set.
	Framework workspace.Framework
	DryRun    bool
}

// Result holds the outcome of an init run.
type Result struct {
	Framework workspace.Framework
	Config    *workspace.Config
	// AlreadyInitialized is set when a config existed and nothing was done.
	AlreadyInitialized bool
	Issues             []deps.RequirementIssue
	// Created lists files init wrote that did not exist before.
	Created []string
	// Updated lists existing files init changed.
	Updated []string
	// Skipped lists files left alone because they already existed.
	Skipped []string
}

// Initializer runs init against a project root.
type Initializer struct {
	fs       afero.Fs
	root     string
	source   AssetSource
	reporter *report.Reporter
	logger   *zap.Logger
}

// New returns an Initializer. A nil reporter discards output and a nil
// logger is replaced by a no-op one.
func New(fsys afero.Fs, root string, source AssetSource, reporter *report.Reporter, logger *zap.Logger) *Initializer {
	if reporter == nil {
		reporter = report.Plain(io.Discard)
	}
	return &Initializer{fs: fsys, root: root, source: source, reporter: reporter, logger: logging.OrNop(logger)}
}

// Run initializes the project. Requirement problems are reported before
// anything is written. If a write step fails, every file and directory the
// run created is removed and the original error is returned.
func (in *Initializer) Run(ctx context.Context, opts Options) (*Result, error) {
	if workspace.Exists(in.fs, in.root) {
		in.reporter.Warn("%s already exists. Nothing to do.", workspace.FileName)
		return &Result{AlreadyInitialized: true}, nil
	}

	project := &deps.Project{FS: in.fs, Root: in.root}
	framework := opts.Framework
	if framework == "" || framework == workspace.FrameworkUnknown {
		framework = workspace.DetectFramework(project)
	}
	if framework == workspace.FrameworkUnknown {
		return nil, errs.New(errs.KindUnknown, "", fmt.Errorf("no supported framework found in package.json")).
			WithHint("pass --framework with one of: %s", frameworkList())
	}
	in.reporter.Info("Detected %s", framework.DisplayName())

	res := &Result{Framework: framework}
	requirements, err := in.source.Requirements(ctx)
	if err != nil {
		return nil, err
	}
	issues, err := deps.CheckProjectRequirements(project, requirements)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		res.Issues = issues
		return res, in.requirementsError(project, issues)
	}

	cfg, err := workspace.DefaultConfig(framework, in.fs, in.root)
	if err != nil {
		return nil, err
	}
	res.Config = cfg

	if opts.DryRun {
		in.printDryRun(cfg)
		return res, nil
	}

	tx := rollback.New(in.fs, in.root, in.logger)
	if err := in.apply(ctx, tx, cfg, res); err != nil {
		if removed := tx.Rollback(); len(removed) > 0 {
			in.logger.Debug("rolled back init", zap.Strings("paths", removed))
		}
		in.reporter.Error("Rolled back partial changes")
		return nil, err
	}
	return res, nil
}

func (in *Initializer) apply(ctx context.Context, tx *rollback.Transaction, cfg *workspace.Config, res *Result) error {
	p, err := workspace.Write(in.fs, in.root, cfg)
	if err != nil {
		return err
	}
	tx.Record(p)
	res.Created = append(res.Created, p)
	in.reporter.Success("Created %s", workspace.FileName)

	utilsPath := filepath.Join(in.root, cfg.UtilsTarget())
	if err := in.writeAsset(ctx, tx, res, registry.UtilsAssetPath, utilsPath); err != nil {
		return err
	}

	iconsPath := filepath.Join(in.root, filepath.FromSlash(cfg.Aliases.Components.Path()), iconsFile)
	if err := in.writeAsset(ctx, tx, res, registry.IconsAssetPath, iconsPath); err != nil {
		return err
	}

	cssPath := filepath.Join(in.root, filepath.FromSlash(cfg.Tailwind.CSS))
	tokens, err := in.source.GetAsset(ctx, registry.CSSBundlePath)
	if err != nil {
		return err
	}
	if err := tx.MkdirAll(filepath.Dir(cssPath), 0755); err != nil {
		return errs.New(errs.KindWriteFailed, in.rel(cssPath), err)
	}
	tr, err := InjectTokens(in.fs, cssPath, tokens)
	if err != nil {
		return errs.New(errs.KindWriteFailed, cssPath, err)
	}
	switch {
	case tr.Created:
		tx.Record(cssPath)
		res.Created = append(res.Created, cssPath)
		in.reporter.Success("Created %s with design tokens", cfg.Tailwind.CSS)
	case tr.Changed:
		res.Updated = append(res.Updated, cssPath)
		in.reporter.Success("Added design tokens to %s", cfg.Tailwind.CSS)
	default:
		res.Skipped = append(res.Skipped, cssPath)
		in.reporter.Dim("Design tokens already present in %s", cfg.Tailwind.CSS)
	}
	return nil
}

// writeAsset copies a registry asset to target unless target exists.
func (in *Initializer) writeAsset(ctx context.Context, tx *rollback.Transaction, res *Result, asset, target string) error {
	rel := in.rel(target)
	if ok, _ := afero.Exists(in.fs, target); ok {
		res.Skipped = append(res.Skipped, target)
		in.reporter.Dim("%s already exists, skipping", rel)
		return nil
	}

	body, err := in.source.GetAsset(ctx, asset)
	if err != nil {
		return err
	}
	if err := tx.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errs.New(errs.KindWriteFailed, in.rel(target), err)
	}
	tx.Record(target)
	if err := afero.WriteFile(in.fs, target, []byte(body), 0644); err != nil {
		return errs.New(errs.KindWriteFailed, target, err)
	}
	res.Created = append(res.Created, target)
	in.reporter.Success("Created %s", rel)
	return nil
}

func (in *Initializer) rel(p string) string {
	if r, err := filepath.Rel(in.root, p); err == nil {
		return r
	}
	return p
}

func (in *Initializer) requirementsError(project *deps.Project, issues []deps.RequirementIssue) error {
	in.reporter.Error("This project does not meet the requirements:")
	fix := make(map[string]string, len(issues))
	for _, issue := range issues {
		switch issue.Reason {
		case deps.IssueMissing:
			in.reporter.Item("%s is missing (requires %s)", issue.Name, issue.Required)
		default:
			in.reporter.Item("%s %s does not satisfy %s", issue.Name, issue.Installed, issue.Required)
		}
		fix[issue.Name] = issue.Required
	}

	manager := deps.DetectManager(project.FS, project.Root)
	return errs.New(errs.KindRequirementsNotMet, "", fmt.Errorf("%d requirement(s) not met", len(issues))).
		WithHint("run \"%s\" and try again", manager.CommandLine(fix, false))
}

func (in *Initializer) printDryRun(cfg *workspace.Config) {
	in.reporter.Info("[dry-run] Would create %s", workspace.FileName)
	in.reporter.Item("components: %s", cfg.Aliases.Components.Path())
	in.reporter.Item("utils: %s", cfg.Aliases.Utils.Path())
	in.reporter.Item("css: %s", cfg.Tailwind.CSS)
	in.reporter.Info("[dry-run] Would create %s and %s",
		cfg.UtilsTarget(), filepath.Join(filepath.FromSlash(cfg.Aliases.Components.Path()), iconsFile))
	in.reporter.Info("[dry-run] Would add design tokens to %s", cfg.Tailwind.CSS)
}

func frameworkList() string {
	names := make([]string, 0, len(workspace.Frameworks))
	for _, f := range workspace.Frameworks {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// NextSteps is printed after a successful init.
func NextSteps(w io.Writer) {
	fmt.Fprintf(w, "\nNext steps:\n  %s add button\n  %s list\n", branding.CLIName(), branding.CLIName())
}
