package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/branding"
	"github.com/nocta-ui/nocta-cli/internal/cache"
	"github.com/nocta-ui/nocta-cli/internal/config"
	"github.com/nocta-ui/nocta-cli/internal/registry"
	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// stdinIsTerminal is swapped out by tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// projectRoot is the directory commands operate on.
func projectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}

func cacheStore() *cache.Store {
	return cache.New(config.Current().CacheDir, cache.WithLogger(logger))
}

// newClient builds a registry client from the current settings. Stale cache
// fallbacks are announced on stderr.
func newClient(cmd *cobra.Command) *registry.Client {
	s := config.Current()
	warn := report.New(cmd.ErrOrStderr())
	return registry.New(s.RegistryURL,
		registry.WithCache(cacheStore()),
		registry.WithTTL(s.RegistryTTL, s.AssetTTL),
		registry.WithUserAgent(branding.CLIName()+"/"+buildVersion),
		registry.WithLogger(logger),
		registry.WithStaleNotice(func(resource string, cause error) {
			warn.Warn("Registry unreachable, using cached %s", resource)
			logger.Debug("stale fallback", zap.String("resource", resource), zap.Error(cause))
		}),
	)
}

// confirm asks a yes/no question on the command's stdin. Without a terminal
// the answer is no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if !stdinIsTerminal() {
		report.New(cmd.ErrOrStderr()).Warn("stdin is not a terminal; pass --yes to confirm")
		return false, nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "? %s (y/N) ", question)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}
