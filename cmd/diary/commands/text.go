// ABOUTME: CLI command for the typed diary session
// ABOUTME: Reads one answer per prompt from stdin and saves the day's entry
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/storage"
)

// NewTextCmd creates the text command
func NewTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Write today's diary by typing",
		Long: `Write today's diary by typing.

Answer each section (Today, Problems, Findings, Questions) on a single
line. The finished diary is saved to the log directory together with its
embedding.

Requires OPENAI_API_KEY for the embedding.`,
		Args: cobra.NoArgs,
		RunE: runText,
	}

	return cmd
}

func runText(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := core.NewTextSession(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	if err != nil {
		return fmt.Errorf("text session: %w", err)
	}

	if _, err := core.Persist(ctx, store, client, doc, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("saving diary: %w", err)
	}
	return nil
}
