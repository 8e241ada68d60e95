// ABOUTME: MCP tool definitions and registration for the diary server
// ABOUTME: Exposes listing, reading, semantic search and typed entry creation
package mcp

import (
	"time"

	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server. embedder may be nil,
// in which case search_diary and write_entry report an error.
func RegisterTools(server *mcpserver.MCPServer, store *storage.Storage, embedder core.Embedder) *Handlers {
	handlers := &Handlers{
		storage:  store,
		embedder: embedder,
		now:      time.Now,
	}

	// 1. list_entries - List diary documents
	server.AddTool(mcp.Tool{
		Name:        "list_entries",
		Description: "List all diary entries in the log directory, oldest first, with whether each has an embedding.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListEntries)

	// 2. read_entry - Read one diary document
	server.AddTool(mcp.Tool{
		Name:        "read_entry",
		Description: "Read the markdown of one diary entry by file name (e.g. 2024_01_01.md or 2024_01_01_a).",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Entry file name inside the log directory",
				},
			},
			Required: []string{"name"},
		},
	}, handlers.ReadEntry)

	// 3. search_diary - Semantic search over entry embeddings
	server.AddTool(mcp.Tool{
		Name:        "search_diary",
		Description: "Find diary entries semantically similar to a query using their stored embeddings.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of results to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDiary)

	// 4. write_entry - Write a typed diary entry for today
	server.AddTool(mcp.Tool{
		Name:        "write_entry",
		Description: "Write today's diary entry from the four section answers and store its embedding.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"today": map[string]interface{}{
					"type":        "string",
					"description": "What happened today",
				},
				"problems": map[string]interface{}{
					"type":        "string",
					"description": "Problems encountered",
				},
				"findings": map[string]interface{}{
					"type":        "string",
					"description": "Findings and insights",
				},
				"questions": map[string]interface{}{
					"type":        "string",
					"description": "Open questions",
				},
			},
			Required: []string{"today", "problems", "findings", "questions"},
		},
	}, handlers.WriteEntry)

	return handlers
}
