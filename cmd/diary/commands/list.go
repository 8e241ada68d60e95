// ABOUTME: CLI command to list diary entries
// ABOUTME: Shows every dated markdown file in the log directory and whether it has an embedding
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/diary/internal/storage"
)

// NewListCmd creates list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries",
		Long: `List diary entries in the log directory.

Shows each dated markdown file, its date and whether an embedding
sidecar exists for it.

Examples:
  diary list
  diary list --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	entries, err := store.Entries()
	if err != nil {
		return fmt.Errorf("listing entries: %w", err)
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No diary entries found in %s\n", store.LogDir())
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDATE\tEMBEDDING\tMODIFIED\n")
	fmt.Fprintf(w, "----\t----\t---------\t--------\n")

	for _, entry := range entries {
		embedded := "no"
		if entry.HasSidecar {
			embedded = "yes"
		}
		date := entry.Date
		if date == "" {
			date = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			truncate(entry.Name, 30),
			date,
			embedded,
			formatTime(entry.ModTime))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d entries\n", len(entries))
	}

	return nil
}
