// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents list, read, search and write diary entries via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/mcp"
	"github.com/harper/diary/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the diary as an MCP (Model Context Protocol) server over stdio so
LLM agents can list, read, search and write diary entries.

search_diary and write_entry need OPENAI_API_KEY; without it only the
read-only tools work.`,
		Args: cobra.NoArgs,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  diary mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "diary": {
  #       "command": "diary",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	// Left as a nil interface when no key is set so the tools can detect it.
	var embedder core.Embedder
	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, search_diary and write_entry are disabled")
	} else {
		client, err := newOpenAIClient(cfg)
		if err != nil {
			logger.Warn("OpenAI client unavailable", "err", err)
		} else {
			embedder = client
			logger.Debug("OpenAI client initialized")
		}
	}

	server := mcpserver.NewMCPServer("Diary", versionInfo.Version)
	mcp.RegisterTools(server, store, embedder)

	ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("diary MCP server starting on stdio", "log_dir", store.LogDir())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
