package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/config"
	"github.com/nocta-ui/nocta-cli/internal/errs"
	"github.com/nocta-ui/nocta-cli/internal/logging"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion = "dev"
	buildCommit  string
	buildDate    string

	verbose bool
	logger  = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` adds UI components from the registry to your React project,
installing their npm dependencies and rewriting imports to your aliases.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("settings loaded",
			zap.String("registry", config.Current().RegistryURL),
			zap.String("cache", config.Current().CacheDir))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed with their hint before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	_ = logger.Sync()
	return err
}

func printError(w io.Writer, err error) {
	r := report.New(w)
	r.Failure(err)
	if hint := errs.HintOf(err); hint != "" {
		r.Dim("  %s", hint)
	}
}
