package ports

import (
	"context"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

// CaseRetriever returns ranked judgment passages for a query.
type CaseRetriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error)
}

// AnalysisGenerator turns a question, retrieved cases and prior turns into
// the final legal analysis text.
type AnalysisGenerator interface {
	Generate(ctx context.Context, question string, cases []domain.RetrievedCase, history []domain.ConversationTurn, model domain.ModelName) (string, error)
}

// ConversationState is the append-only turn log owned by one session.
type ConversationState interface {
	Append(turn domain.ConversationTurn) domain.ConversationTurn
	History() []domain.ConversationTurn
	Clear()
}

// CompletionClient is the external completion capability.
type CompletionClient interface {
	Complete(ctx context.Context, model domain.ModelName, prompt string) (string, error)
}

// Embedder builds vectors for judgment chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// JudgmentRepository persists and reads corpus records.
type JudgmentRepository interface {
	Upsert(ctx context.Context, judgment *domain.Judgment) error
	GetByFileName(ctx context.Context, fileName string) (*domain.Judgment, error)
	Count(ctx context.Context) (int64, error)
}

// LexicalSearcher performs ranked full-text search over the corpus.
type LexicalSearcher interface {
	SearchRanked(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error)
}

// VectorIndex indexes judgment chunks and performs semantic search.
type VectorIndex interface {
	IndexChunks(ctx context.Context, fileName string, chunks []string, vectors [][]float32) error
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedCase, error)
}

// Chunker splits judgment text into indexable chunks.
type Chunker interface {
	Split(text string) []string
}

// IndexQueue publishes/consumes judgment indexing events.
type IndexQueue interface {
	PublishIndexRequested(ctx context.Context, fileName string) error
	SubscribeIndexRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TranscriptArchive durably records completed turns, best effort.
type TranscriptArchive interface {
	ArchiveTurn(ctx context.Context, sessionID string, turn domain.ConversationTurn) error
	ListTurns(ctx context.Context, sessionID string) ([]domain.ConversationTurn, error)
}
