// ABOUTME: Persists a finished diary document and its embedding sidecar
// ABOUTME: The markdown is written before the embedding call so it survives embedding failures
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/harper/diary/internal/models"
	"github.com/harper/diary/internal/storage"
	"github.com/harper/diary/internal/ui"
)

// Embedder turns text into a vector
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// PersistResult names the files written for a document
type PersistResult struct {
	DocumentPath string `json:"document_path"`
	SidecarPath  string `json:"sidecar_path,omitempty"`
}

// Persist writes doc under a collision-free name for its date, then embeds
// the markdown and writes the sidecar. If embedding fails the returned result
// still names the document that was written, alongside the error.
func Persist(ctx context.Context, store *storage.Storage, embedder Embedder, doc *models.Document, out io.Writer) (*PersistResult, error) {
	if out == nil {
		out = io.Discard
	}

	path, err := store.UniqueFilename(doc.Date)
	if err != nil {
		return nil, err
	}

	content := doc.Markdown()
	if err := storage.WriteDocument(path, content); err != nil {
		return nil, err
	}
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("Diary file '%s' created successfully.", path)))

	result := &PersistResult{DocumentPath: path}

	vector, err := embedder.GenerateEmbedding(ctx, content)
	if err != nil {
		return result, fmt.Errorf("embedding %s: %w", path, err)
	}

	sidecar := storage.SidecarPath(path)
	if err := storage.WriteEmbedding(sidecar, vector); err != nil {
		return result, err
	}
	result.SidecarPath = sidecar
	fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("Embeddings file '%s' created successfully.", sidecar)))

	return result, nil
}
