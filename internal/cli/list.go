package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nocta-ui/nocta-cli/internal/registry"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available components",
	Long:  `List the components published in the registry, grouped by category.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show components in this category")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a registry component for display.
type listEntry struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Dependencies []string `json:"internalDependencies,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	client := newClient(cmd)
	comps, err := client.ListComponents(cmd.Context())
	if err != nil {
		return err
	}

	entries := filterComponents(comps, listCategory)
	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling components: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No components found.")
		if listCategory != "" {
			cats, err := client.Categories(cmd.Context())
			if err == nil && len(cats) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Known categories: %s\n", strings.Join(categoryNames(cats), ", "))
			}
		}
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Name", "Category", "Description")
	for _, e := range entries {
		if err := table.Append([]string{e.Slug, e.Category, e.Description}); err != nil {
			return fmt.Errorf("rendering components: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering components: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d component(s)\n", len(entries))
	return nil
}

func filterComponents(comps []registry.Component, category string) []listEntry {
	entries := make([]listEntry, 0, len(comps))
	for _, c := range comps {
		if category != "" && !strings.EqualFold(c.Category, category) {
			continue
		}
		entries = append(entries, listEntry{
			Slug:         c.Slug,
			Name:         c.Name,
			Category:     c.Category,
			Description:  c.Description,
			Dependencies: c.InternalDependencies,
		})
	}
	return entries
}

func categoryNames(cats map[string]registry.CategoryInfo) []string {
	names := make([]string, 0, len(cats))
	for slug := range cats {
		names = append(names, slug)
	}
	sort.Strings(names)
	return names
}
