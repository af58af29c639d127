package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
)

// IndexJudgmentUseCase is the indexer worker pipeline: load the judgment,
// chunk its text, embed the chunks, upsert the vectors.
type IndexJudgmentUseCase struct {
	repo     ports.JudgmentRepository
	chunker  ports.Chunker
	embedder ports.Embedder
	vectors  ports.VectorIndex
}

func NewIndexJudgmentUseCase(
	repo ports.JudgmentRepository,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectors ports.VectorIndex,
) *IndexJudgmentUseCase {
	return &IndexJudgmentUseCase{
		repo:     repo,
		chunker:  chunker,
		embedder: embedder,
		vectors:  vectors,
	}
}

func (uc *IndexJudgmentUseCase) IndexByFileName(ctx context.Context, fileName string) error {
	judgment, err := uc.repo.GetByFileName(ctx, fileName)
	if err != nil {
		return fmt.Errorf("fetch judgment: %w", err)
	}

	chunks := uc.chunker.Split(judgment.ExtractedText)
	if len(chunks) == 0 {
		return domain.WrapError(domain.ErrInvalidInput, "chunk judgment", errors.New("chunking produced zero chunks"))
	}

	vectors, err := uc.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.vectors.IndexChunks(ctx, judgment.FileName, chunks, vectors); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}
	return nil
}
