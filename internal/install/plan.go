package install

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nocta-ui/nocta-cli/internal/imports"
	"github.com/nocta-ui/nocta-cli/internal/registry"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// File is one component file bound for the project.
type File struct {
	Component    string
	RegistryPath string
	// Target is relative to the project root.
	Target  string
	Content string
	Exists  bool
}

// Plan is the full set of changes for an add run.
type Plan struct {
	Components      []registry.ResolvedComponent
	Files           []File
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// Requested returns the components the user named.
func (p *Plan) Requested() []registry.ResolvedComponent {
	var out []registry.ResolvedComponent
	for _, c := range p.Components {
		if c.Requested {
			out = append(out, c)
		}
	}
	return out
}

// Internal returns components pulled in only as dependencies.
func (p *Plan) Internal() []registry.ResolvedComponent {
	var out []registry.ResolvedComponent
	for _, c := range p.Components {
		if !c.Requested {
			out = append(out, c)
		}
	}
	return out
}

// ConflictPaths lists targets that already exist.
func (p *Plan) ConflictPaths() []string {
	var out []string
	for _, f := range p.Files {
		if f.Exists {
			out = append(out, f.Target)
		}
	}
	return out
}

// BuildPlan resolves names with their internal dependencies, fetches every
// file and rewrites its imports. Nothing is written.
func (i *Installer) BuildPlan(ctx context.Context, names []string) (*Plan, error) {
	comps, err := registry.NewResolver(i.source).ResolveAll(ctx, names)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Components:      comps,
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	for _, c := range comps {
		for _, f := range c.Files {
			plan.Files = append(plan.Files, File{
				Component:    c.Name,
				RegistryPath: f.Path,
				Target:       i.cfg.ComponentTarget(f.Path),
			})
		}
		// First component to name a package decides its range.
		for name, rng := range c.Dependencies {
			if _, ok := plan.Dependencies[name]; !ok {
				plan.Dependencies[name] = rng
			}
		}
		for name, rng := range c.DevDependencies {
			if _, ok := plan.DevDependencies[name]; !ok {
				plan.DevDependencies[name] = rng
			}
		}
	}

	if err := i.fetchFiles(ctx, plan.Files); err != nil {
		return nil, err
	}

	for idx := range plan.Files {
		f := &plan.Files[idx]
		exists, err := afero.Exists(i.fs, filepath.Join(i.root, f.Target))
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", f.Target, err)
		}
		f.Exists = exists
	}
	return plan, nil
}

// fetchFiles fills in Content for each file, in parallel. Results are stored
// by index so the plan order does not depend on fetch timing.
func (i *Installer) fetchFiles(ctx context.Context, files []File) error {
	opts := i.importOptions()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx := range files {
		f := &files[idx]
		g.Go(func() error {
			body, err := i.source.ComponentFile(gctx, f.RegistryPath)
			if err != nil {
				return fmt.Errorf("fetching %s for %s: %w", f.RegistryPath, f.Component, err)
			}
			f.Content = imports.NormalizeWith(body, opts)
			i.logger.Debug("fetched component file",
				zap.String("component", f.Component),
				zap.String("path", f.RegistryPath),
				zap.Int("bytes", len(body)))
			return nil
		})
	}
	return g.Wait()
}

// PrintPlan lists the requested components, then their internal
// dependencies.
func (i *Installer) PrintPlan(p *Plan) {
	i.reporter.Info("Installing components:")
	for _, c := range p.Requested() {
		i.reporter.Item("%s", c.Name)
	}
	if internal := p.Internal(); len(internal) > 0 {
		i.reporter.Blank()
		i.reporter.Info("With internal dependencies:")
		for _, c := range internal {
			i.reporter.Item("%s", c.Name)
		}
	}
	i.reporter.Blank()
}
