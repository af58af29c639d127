package memory

import (
	"context"
	"testing"
)

func TestSearchOrdersByCosineSimilarity(t *testing.T) {
	index := New()

	err := index.IndexChunks(context.Background(), "case1.pdf",
		[]string{"eviction holding", "costs order"},
		[][]float32{{1, 0}, {0, 1}},
	)
	if err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}

	cases, err := index.Search(context.Background(), []float32{1, 0.1}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(cases))
	}
	if cases[0].Snippet != "eviction holding" || cases[0].ChunkIndex != 0 {
		t.Fatalf("unexpected top hit: %+v", cases[0])
	}
}

func TestReindexingReplacesFileChunks(t *testing.T) {
	index := New()
	ctx := context.Background()

	if err := index.IndexChunks(ctx, "case1.pdf", []string{"old text"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("first IndexChunks() error = %v", err)
	}
	if err := index.IndexChunks(ctx, "case1.pdf", []string{"new text"}, [][]float32{{1, 0}}); err != nil {
		t.Fatalf("second IndexChunks() error = %v", err)
	}

	cases, err := index.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(cases) != 1 || cases[0].Snippet != "new text" {
		t.Fatalf("expected replacement, got %+v", cases)
	}
}

func TestIndexChunksRejectsMismatch(t *testing.T) {
	index := New()
	if err := index.IndexChunks(context.Background(), "case1.pdf", []string{"a", "b"}, [][]float32{{1}}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
