package cli

import (
	"fmt"

	"github.com/nocta-ui/nocta-cli/internal/deps"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/nocta-ui/nocta-cli/internal/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project setup",
	Long: `Run diagnostic checks on the current project: the config file, the
package manager in use, and the registry's baseline requirements.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	fsys := afero.NewOsFs()
	rep := report.New(cmd.OutOrStdout())
	problems := 0

	rep.Title("Config")
	if cfg, err := workspace.Load(fsys, root); err != nil {
		rep.Error("%s", err)
		problems++
	} else {
		rep.Success("%s is valid", workspace.FileName)
		rep.Item("components: %s (import prefix %q)", cfg.Aliases.Components.Path(), cfg.ComponentPrefix())
		rep.Item("utils: %s", cfg.Aliases.Utils.Path())
		rep.Item("css: %s", cfg.Tailwind.CSS)
	}

	rep.Blank()
	rep.Title("Package manager")
	rep.Item("%s", deps.DetectManager(fsys, root))

	rep.Blank()
	rep.Title("Requirements")
	requirements, err := newClient(cmd).Requirements(cmd.Context())
	if err != nil {
		rep.Error("%s", err)
		problems++
	} else {
		issues, err := deps.CheckProjectRequirements(&deps.Project{FS: fsys, Root: root}, requirements)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			installed := issue.Installed
			if installed == "" {
				installed = "not installed"
			}
			rep.Warn("%s requires %s, found %s (%s)", issue.Name, issue.Required, installed, issue.Reason)
		}
		if len(issues) == 0 {
			rep.Success("All %d requirement(s) met", len(requirements))
		}
		problems += len(issues)
	}

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	return nil
}
