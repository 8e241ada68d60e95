// ABOUTME: CLI command for semantic search across diary entries
// ABOUTME: Embeds the query and ranks entries by cosine similarity of their sidecars
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/diary/internal/storage"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search diary entries",
		Long: `Search diary entries by meaning.

The query is embedded with OpenAI and compared against the embedding
sidecar of every entry. Entries without a sidecar are skipped.

Examples:
  diary search "flaky tests"
  diary search --limit 10 "what did I learn about caching"
  diary search --format json "deadlines"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}
	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	query := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return err
	}

	vector, err := client.GenerateEmbedding(commandContext(cmd.Context()), query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	results, err := store.SearchSimilar(vector, searchLimit)
	if err != nil {
		return fmt.Errorf("searching entries: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No diary entries found for query: %s\n", query)
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tNAME\tPATH\n")
	fmt.Fprintf(w, "-----\t----\t----\n")

	for _, result := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n",
			result.SimilarityScore,
			truncate(result.Name, 30),
			truncate(result.Path, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
