package cli

import (
	"github.com/nocta-ui/nocta-cli/internal/deps"
	"github.com/nocta-ui/nocta-cli/internal/install"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/nocta-ui/nocta-cli/internal/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	addDryRun bool
	addYes    bool
)

var addCmd = &cobra.Command{
	Use:   "add <component> [component...]",
	Short: "Add components to your project",
	Long: `Add one or more components, together with the components they depend on.

Files are written under the components alias from nocta.config.json and their
imports are rewritten to your alias prefix. Missing npm packages are installed
with the package manager matching your lockfile.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Show what would change without writing anything")
	addCmd.Flags().BoolVarP(&addYes, "yes", "y", false, "Overwrite existing files without asking")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	fsys := afero.NewOsFs()

	cfg, err := workspace.Load(fsys, root)
	if err != nil {
		return err
	}

	inst := install.New(root, cfg, install.FromClient(newClient(cmd)),
		install.WithFs(fsys),
		install.WithReporter(report.New(cmd.OutOrStdout())),
		install.WithLogger(logger),
		install.WithPackageInstaller(&deps.ExecInstaller{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}),
	)

	_, err = inst.Run(cmd.Context(), args, install.RunOptions{
		DryRun: addDryRun,
		Confirm: func([]string) (bool, error) {
			if addYes {
				return true, nil
			}
			return confirm(cmd, "Overwrite these files?")
		},
	})
	return err
}
