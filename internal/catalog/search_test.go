package catalog

import (
	"context"
	"math"
	"testing"
)

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seeds := []*Entry{
		{Filename: "x_axis.jpg", ContentHash: "sx", Embedding: []float32{1, 0, 0}},
		{Filename: "y_axis.jpg", ContentHash: "sy", Embedding: []float32{0, 1, 0}},
		{Filename: "diagonal.jpg", ContentHash: "sd", Embedding: []float32{1, 1, 0}},
	}
	for _, entry := range seeds {
		if _, err := store.Upsert(ctx, entry); err != nil {
			t.Fatalf("Upsert %s: %v", entry.Filename, err)
		}
	}

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Entry.Filename != "x_axis.jpg" {
		t.Fatalf("top result = %q, want x_axis.jpg", results[0].Entry.Filename)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Fatalf("top score = %f, want 1.0", results[0].Score)
	}
	if results[1].Entry.Filename != "diagonal.jpg" {
		t.Fatalf("second result = %q, want diagonal.jpg", results[1].Entry.Filename)
	}
}

func TestSearchSkipsMismatchedDimensions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Upsert(ctx, &Entry{Filename: "short.jpg", ContentHash: "ms", Embedding: []float32{1}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := store.Upsert(ctx, &Entry{Filename: "full.jpg", ContentHash: "mf", Embedding: []float32{0, 1}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Entry.Filename != "full.jpg" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Search(context.Background(), nil, 5); err == nil {
		t.Fatal("expected error for empty query vector")
	}
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	if got := cosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Fatalf("cosine with zero vector = %f, want 0", got)
	}
}
