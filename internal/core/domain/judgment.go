package domain

import "time"

// Judgment is one corpus document as ingested: the file identifier and the
// text extracted from it. Immutable after ingestion.
type Judgment struct {
	FileName      string    `json:"file_name"`
	ExtractedText string    `json:"extracted_text"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// RetrievedCase is a ranked search hit for one query. Rank is 1-based and
// ascends with relevance distance; results are ephemeral and never persisted.
type RetrievedCase struct {
	FileName   string  `json:"file_name"`
	ChunkIndex int     `json:"chunk_index"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// Analysis is the generated legal analysis for one query, with the cases it
// was grounded on for citation display. The text follows a case-name ->
// principle -> recommendation layout but the structure is not enforced.
type Analysis struct {
	Text  string          `json:"text"`
	Model ModelName       `json:"model"`
	Cases []RetrievedCase `json:"cases,omitempty"`
}

type RetrievalMode string

const (
	RetrievalLexical  RetrievalMode = "lexical"
	RetrievalSemantic RetrievalMode = "semantic"
	RetrievalHybrid   RetrievalMode = "hybrid"
)

func ParseRetrievalMode(v string) RetrievalMode {
	switch RetrievalMode(v) {
	case RetrievalSemantic:
		return RetrievalSemantic
	case RetrievalHybrid:
		return RetrievalHybrid
	default:
		return RetrievalLexical
	}
}
