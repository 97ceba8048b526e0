package install

import (
	"fmt"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/imports"
)

// PrintSummary lists the files, example imports and the variants and sizes
// of the requested components.
func (i *Installer) PrintSummary(p *Plan, dryRun bool) {
	r := i.reporter
	r.Blank()
	if dryRun {
		r.Success("[dry-run] %s would be added", describeNames(p))
	} else {
		r.Success("%s added successfully!", describeNames(p))
	}

	r.Blank()
	r.Info("Components installed:")
	for _, f := range p.Files {
		r.Dim("   %s (%s)", f.Target, f.Component)
	}

	r.Blank()
	if dryRun {
		r.Info("[dry-run] Example imports:")
	} else {
		r.Info("Import and use:")
	}
	opts := i.importOptions()
	for _, c := range p.Requested() {
		if len(c.Files) == 0 {
			continue
		}
		names := c.Exports
		if len(names) == 0 {
			names = []string{c.Name}
		}
		path := imports.Specifier(i.cfg.ComponentTarget(c.Files[0].Path), opts)
		r.Dim("   import { %s } from %q; // %s", strings.Join(names, ", "), path, c.Name)
	}

	var variants, sizes []string
	for _, c := range p.Requested() {
		if len(c.Variants) > 0 {
			variants = append(variants, c.Name+": "+strings.Join(c.Variants, ", "))
		}
		if len(c.Sizes) > 0 {
			sizes = append(sizes, c.Name+": "+strings.Join(c.Sizes, ", "))
		}
	}
	if len(variants) > 0 {
		r.Blank()
		r.Info("Available variants:")
		for _, v := range variants {
			r.Dim("   %s", v)
		}
	}
	if len(sizes) > 0 {
		r.Blank()
		r.Info("Available sizes:")
		for _, s := range sizes {
			r.Dim("   %s", s)
		}
	}
}

func describeNames(p *Plan) string {
	req := p.Requested()
	if len(req) == 1 {
		return req[0].Name
	}
	return fmt.Sprintf("%d components", len(req))
}
