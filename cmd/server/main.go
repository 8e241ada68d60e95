// ABOUTME: Main entry point for the standalone diary MCP server with stdio transport
// ABOUTME: Serves the diary log directory without the rest of the CLI
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/diary/internal/config"
	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/llm"
	"github.com/harper/diary/internal/mcp"
	"github.com/harper/diary/internal/storage"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}

	store, err := storage.NewStorage(cfg.LogDir)
	if err != nil {
		logger.Fatal("initializing storage", "err", err)
	}

	var embedder core.Embedder
	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, search_diary and write_entry are disabled")
	} else {
		client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
			APIKey:             cfg.OpenAIKey,
			BaseURL:            cfg.BaseURL,
			TranscriptionModel: cfg.TranscriptionModel,
			EmbeddingModel:     openai.EmbeddingModel(cfg.EmbeddingModel),
			Timeout:            cfg.Timeout,
		})
		if err != nil {
			logger.Warn("OpenAI client unavailable", "err", err)
		} else {
			embedder = client
		}
	}

	server := mcpserver.NewMCPServer("Diary", "0.1.0")
	mcp.RegisterTools(server, store, embedder)

	logger.Info("diary MCP server starting on stdio", "log_dir", store.LogDir())
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
