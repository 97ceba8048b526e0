package install

import (
	"context"
	"fmt"

	"github.com/nocta-ui/nocta-cli/internal/deps"
)

// DependencyResult holds the reconciliation of a plan's npm packages.
type DependencyResult struct {
	Manager deps.Manager
	Regular deps.Plan
	Dev     deps.Plan
}

// InstallDependencies reconciles the plan's packages against the project
// and installs what is missing or incompatible. In dry-run the install
// command is printed instead.
func (i *Installer) InstallDependencies(ctx context.Context, p *Plan, dryRun bool) (*DependencyResult, error) {
	project := &deps.Project{FS: i.fs, Root: i.root}
	installed, err := project.Installed()
	if err != nil {
		return nil, err
	}

	res := &DependencyResult{
		Manager: i.manager,
		Regular: deps.Reconcile(p.Dependencies, installed),
		Dev:     deps.Reconcile(p.DevDependencies, installed),
	}

	for _, d := range append(res.Regular.Skipped(), res.Dev.Skipped()...) {
		i.reporter.Dim("%s %s already installed (%s)", d.Name, d.Installed, d.Reason)
	}

	if err := i.installSet(ctx, res.Regular.ToInstall(), false, dryRun); err != nil {
		return res, err
	}
	if err := i.installSet(ctx, res.Dev.ToInstall(), true, dryRun); err != nil {
		return res, err
	}
	return res, nil
}

func (i *Installer) installSet(ctx context.Context, pkgs map[string]string, dev, dryRun bool) error {
	if len(pkgs) == 0 {
		return nil
	}
	kind := "dependencies"
	if dev {
		kind = "dev dependencies"
	}

	if dryRun {
		i.reporter.Info("[dry-run] Would install %s:", kind)
		i.reporter.Item("%s", i.manager.CommandLine(pkgs, dev))
		return nil
	}

	i.reporter.Info("Installing %s with %s...", kind, i.manager)
	if err := i.packages.Install(ctx, i.root, i.manager, pkgs, dev); err != nil {
		return fmt.Errorf("installing %s: %w", kind, err)
	}
	i.reporter.Success("Installed %s", kind)
	return nil
}
