package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// rerankCandidates rescores the fused head by combining the normalized fused
// score with lexical overlap against the query and a file-name hit boost.
// Only the top topN candidates are rescored; the tail keeps fusion order.
func rerankCandidates(question string, fused []domain.RetrievedCase, topN int) []domain.RetrievedCase {
	if len(fused) == 0 {
		return fused
	}
	if topN <= 0 || topN > len(fused) {
		topN = len(fused)
	}

	head := make([]domain.RetrievedCase, topN)
	copy(head, fused[:topN])
	queryTokens := toTokenSet(question)

	minScore := head[0].Score
	maxScore := head[0].Score
	for _, hit := range head[1:] {
		if hit.Score < minScore {
			minScore = hit.Score
		}
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}

	rangeScore := maxScore - minScore
	normalize := func(v float64) float64 {
		if rangeScore <= 0 {
			if v > 0 {
				return 1
			}
			return 0
		}
		return (v - minScore) / rangeScore
	}

	for i := range head {
		normalizedFused := normalize(head[i].Score)
		overlap := tokenOverlap(queryTokens, toTokenSet(head[i].Snippet))
		fileNameBoost := fileNameTokenHit(queryTokens, head[i].FileName)
		head[i].Score = 0.60*normalizedFused + 0.30*overlap + 0.10*fileNameBoost
	}

	sort.SliceStable(head, func(i, j int) bool {
		if head[i].Score != head[j].Score {
			return head[i].Score > head[j].Score
		}
		if head[i].FileName != head[j].FileName {
			return head[i].FileName < head[j].FileName
		}
		return head[i].ChunkIndex < head[j].ChunkIndex
	})

	if topN == len(fused) {
		return head
	}

	out := make([]domain.RetrievedCase, 0, len(fused))
	out = append(out, head...)
	out = append(out, fused[topN:]...)
	return out
}

func tokenOverlap(query, snippet map[string]struct{}) float64 {
	if len(query) == 0 || len(snippet) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := snippet[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func fileNameTokenHit(query map[string]struct{}, fileName string) float64 {
	if len(query) == 0 || fileName == "" {
		return 0
	}
	fileName = strings.ToLower(fileName)
	for token := range query {
		if token == "" {
			continue
		}
		if strings.Contains(fileName, token) {
			return 1
		}
	}
	return 0
}

func toTokenSet(s string) map[string]struct{} {
	tokens := splitAlphaNumLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

func splitAlphaNumLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
