// Package memory is an in-process VectorIndex used when no Qdrant
// deployment is configured. Dev profile only; nothing survives a restart.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

type entry struct {
	fileName   string
	chunkIndex int
	text       string
	vector     []float32
}

type Index struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Index {
	return &Index{}
}

func (i *Index) IndexChunks(_ context.Context, fileName string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errMismatch
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Replace earlier chunks of the same file so re-indexing wins.
	kept := i.entries[:0]
	for _, e := range i.entries {
		if e.fileName != fileName {
			kept = append(kept, e)
		}
	}
	i.entries = kept

	for idx, chunk := range chunks {
		i.entries = append(i.entries, entry{
			fileName:   fileName,
			chunkIndex: idx,
			text:       chunk,
			vector:     vectors[idx],
		})
	}
	return nil
}

func (i *Index) Search(_ context.Context, queryVector []float32, limit int) ([]domain.RetrievedCase, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	scored := make([]domain.RetrievedCase, 0, len(i.entries))
	for _, e := range i.entries {
		scored = append(scored, domain.RetrievedCase{
			FileName:   e.fileName,
			ChunkIndex: e.chunkIndex,
			Snippet:    e.text,
			Score:      cosine(queryVector, e.vector),
		})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
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

type indexError string

func (e indexError) Error() string { return string(e) }

const errMismatch = indexError("chunks/vectors mismatch")
