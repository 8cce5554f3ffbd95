package catalog

import (
	"context"
	"errors"
	"math"
	"sort"
)

// Search ranks indexed entries by cosine similarity against the query vector
// and returns the top K matches. Entries whose stored vector length differs
// from the query are skipped rather than failing the whole search.
func (s *Store) Search(ctx context.Context, query []float32, topK int) ([]ScoredEntry, error) {
	if len(query) == 0 {
		return nil, errors.New("query vector is empty")
	}
	if topK <= 0 {
		topK = 10
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredEntry, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Embedding) != len(query) {
			continue
		}
		scored = append(scored, ScoredEntry{
			Entry: *entry,
			Score: cosineSimilarity(query, entry.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
