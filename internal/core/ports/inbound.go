package ports

import (
	"context"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// LegalAssistant is the inbound contract for one conversational query turn.
type LegalAssistant interface {
	HandleQuery(ctx context.Context, question string, cfg domain.SessionConfig, state ConversationState) (*domain.Analysis, error)
}

// CorpusIngestor is the inbound contract for loading judgment records.
type CorpusIngestor interface {
	IngestJudgment(ctx context.Context, judgment domain.Judgment) (*domain.Judgment, error)
}

// JudgmentIndexer is the inbound contract for asynchronous vector indexing.
type JudgmentIndexer interface {
	IndexByFileName(ctx context.Context, fileName string) error
}
