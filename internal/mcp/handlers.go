// ABOUTME: MCP tool handler implementations for the diary server
// ABOUTME: Tool failures are returned as error results, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/models"
	"github.com/harper/diary/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	storage  *storage.Storage
	embedder core.Embedder
	now      func() time.Time
}

// ListEntries handles the list_entries tool
func (h *Handlers) ListEntries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.storage.Entries()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing entries failed: %v", err)), nil
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	return jsonResult(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// ReadEntry handles the read_entry tool
func (h *Handlers) ReadEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required and must be a string"), nil
	}

	content, err := h.storage.ReadEntry(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading entry failed: %v", err)), nil
	}

	return mcp.NewToolResultText(content), nil
}

// SearchDiary handles the search_diary tool
func (h *Handlers) SearchDiary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)
	if maxResults <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("max_results must be positive, got %d", maxResults)), nil
	}
	if h.embedder == nil {
		return mcp.NewToolResultError("search requires OPENAI_API_KEY to be configured"), nil
	}

	vector, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("embedding query failed: %v", err)), nil
	}

	results, err := h.storage.SearchSimilar(vector, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	return jsonResult(map[string]interface{}{
		"results": results,
	})
}

// WriteEntry handles the write_entry tool
func (h *Handlers) WriteEntry(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := map[string]string{
		models.SectionToday:     "today",
		models.SectionProblems:  "problems",
		models.SectionFindings:  "findings",
		models.SectionQuestions: "questions",
	}
	if h.embedder == nil {
		return mcp.NewToolResultError("writing entries requires OPENAI_API_KEY to be configured"), nil
	}

	doc := models.NewDocument(h.now())
	for _, section := range models.DefaultSections() {
		content, err := request.RequireString(args[section])
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s argument is required and must be a string", args[section])), nil
		}
		doc.Add(section, content)
	}

	result, err := core.Persist(ctx, h.storage, h.embedder, doc, nil)
	if err != nil {
		if result != nil {
			return mcp.NewToolResultError(fmt.Sprintf("entry written to %s but embedding failed: %v", result.DocumentPath, err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("writing entry failed: %v", err)), nil
	}

	return jsonResult(result)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
