package cli

import (
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/nocta-ui/nocta-cli/internal/scaffold"
	"github.com/nocta-ui/nocta-cli/internal/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	initFramework string
	initDryRun    bool
)

func init() {
	initCmd.Flags().StringVar(&initFramework, "framework", "", "Framework to configure for (nextjs, vite-react, react-router, tanstack-start)")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Show what would be created without writing anything")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up nocta-ui in the current project",
	Long: `Create nocta.config.json and the shared files components rely on.

The framework is detected from package.json unless --framework is given. The
registry's baseline requirements (such as React and Tailwind CSS) must be met
before anything is written. If any step fails, files created so far are removed.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	opts := scaffold.Options{DryRun: initDryRun}
	if initFramework != "" {
		if opts.Framework, err = workspace.ParseFramework(initFramework); err != nil {
			return err
		}
	}

	rep := report.New(cmd.OutOrStdout())
	res, err := scaffold.New(afero.NewOsFs(), root, newClient(cmd), rep, logger).Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if res.AlreadyInitialized || initDryRun {
		return nil
	}

	rep.Blank()
	rep.Success("%s is ready", res.Framework.DisplayName())
	scaffold.NextSteps(cmd.OutOrStdout())
	return nil
}
