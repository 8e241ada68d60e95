// ABOUTME: Cosine similarity search over embedding sidecars in the log directory
// ABOUTME: Ranks diary entries against a query vector
package storage

import (
	"fmt"
	"math"
	"sort"

	"github.com/harper/diary/internal/models"
)

// SearchSimilar ranks every entry with a sidecar by cosine similarity to
// queryVector, highest first, returning at most maxResults
func (s *Storage) SearchSimilar(queryVector []float64, maxResults int) ([]models.SearchResult, error) {
	if maxResults <= 0 {
		return nil, fmt.Errorf("maxResults must be positive, got %d", maxResults)
	}

	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}

	var allResults []models.SearchResult
	for _, entry := range entries {
		if !entry.HasSidecar {
			continue
		}
		vector, err := ReadEmbedding(SidecarPath(entry.Path))
		if err != nil {
			continue
		}

		allResults = append(allResults, models.SearchResult{
			Name:            entry.Name,
			Path:            entry.Path,
			SimilarityScore: cosineSimilarity(queryVector, vector),
		})
	}

	// Sort by similarity score (descending), name breaks ties
	sort.SliceStable(allResults, func(i, j int) bool {
		return allResults[i].SimilarityScore > allResults[j].SimilarityScore
	})

	if len(allResults) > maxResults {
		allResults = allResults[:maxResults]
	}

	return allResults, nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
