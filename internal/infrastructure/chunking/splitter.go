package chunking

import "strings"

// Splitter cuts judgment text into overlapping chunks for embedding.
// Chunk boundaries snap back to the nearest sentence end when one falls
// inside the trailing quarter of the window, so holdings are less likely
// to be cut mid-sentence.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	minStep := s.ChunkSize - s.Overlap
	if minStep <= 0 {
		minStep = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/minStep+1)
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = snapToSentenceEnd(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - s.Overlap
		if next < start+minStep {
			next = start + minStep
		}
		start = next
	}
	return out
}

// snapToSentenceEnd walks back from end looking for a sentence terminator,
// giving up after a quarter of the chunk so short sentences cannot shrink
// chunks unboundedly.
func snapToSentenceEnd(runes []rune, start, end int) int {
	limit := end - (end-start)/4
	for i := end - 1; i > limit; i-- {
		switch runes[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}
	return end
}
