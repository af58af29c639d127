package usecase

import (
	"sort"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

type fusedCandidate struct {
	hit   domain.RetrievedCase
	score float64
}

// fuseCandidatesRRF merges the lexical and semantic candidate lists with
// reciprocal rank fusion. Candidates are keyed by file name, so a judgment
// found by both retrievers (lexical hits carry no chunk index) fuses into
// one citation, as do multiple chunks of the same judgment. Ordering ties
// break deterministically on file name and chunk index.
func fuseCandidatesRRF(lexical, semantic []domain.RetrievedCase, rrfK int) []domain.RetrievedCase {
	if rrfK <= 0 {
		rrfK = 60
	}

	acc := make(map[string]fusedCandidate, len(lexical)+len(semantic))
	addList := func(hits []domain.RetrievedCase) {
		for rank, hit := range hits {
			key := candidateKey(hit)
			candidate := acc[key]
			candidate.hit = preferRicherCase(candidate.hit, hit)
			candidate.score += 1.0 / float64(rrfK+rank+1)
			acc[key] = candidate
		}
	}

	addList(lexical)
	addList(semantic)

	out := make([]domain.RetrievedCase, 0, len(acc))
	for _, c := range acc {
		hit := c.hit
		hit.Score = c.score
		out = append(out, hit)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].FileName != out[j].FileName {
			return out[i].FileName < out[j].FileName
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})

	return out
}

func trimCandidates(hits []domain.RetrievedCase, limit int) []domain.RetrievedCase {
	if limit <= 0 || len(hits) <= limit {
		return hits
	}
	return hits[:limit]
}

func candidateKey(hit domain.RetrievedCase) string {
	return hit.FileName
}

func preferRicherCase(current, candidate domain.RetrievedCase) domain.RetrievedCase {
	if current.FileName == "" && current.Snippet == "" {
		return candidate
	}
	if current.Snippet == "" && candidate.Snippet != "" {
		current.Snippet = candidate.Snippet
	}
	if current.ChunkIndex < 0 && candidate.ChunkIndex >= 0 {
		current.ChunkIndex = candidate.ChunkIndex
	}
	return current
}
