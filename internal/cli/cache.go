package cli

import (
	"fmt"

	"github.com/nocta-ui/nocta-cli/internal/report"
	"github.com/spf13/cobra"
)

var cacheClearForce bool

func init() {
	cacheClearCmd.Flags().BoolVarP(&cacheClearForce, "force", "f", false, "Clear without asking")
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the registry cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := cacheStore().Stats()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Location: %s\n", st.Root)
		if !st.Exists {
			fmt.Fprintln(out, "Cache is empty.")
			return nil
		}
		fmt.Fprintf(out, "Entries:  %d\n", st.Entries)
		fmt.Fprintf(out, "Size:     %s\n", humanBytes(st.Bytes))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached registry data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cacheStore()
		rep := report.New(cmd.OutOrStdout())

		if !cacheClearForce {
			ok, err := confirm(cmd, fmt.Sprintf("Delete %s?", store.Root()))
			if err != nil {
				return err
			}
			if !ok {
				rep.Warn("Cache left untouched.")
				return nil
			}
		}
		if err := store.Clear(); err != nil {
			return err
		}
		rep.Success("Cache cleared")
		return nil
	},
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
