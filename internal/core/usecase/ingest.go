package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
)

// CorpusIngestUseCase persists one judgment record and requests its vector
// indexing. Upserts are idempotent on file name, so re-running a load is
// safe.
type CorpusIngestUseCase struct {
	repo  ports.JudgmentRepository
	queue ports.IndexQueue
}

func NewCorpusIngestUseCase(repo ports.JudgmentRepository, queue ports.IndexQueue) *CorpusIngestUseCase {
	return &CorpusIngestUseCase{repo: repo, queue: queue}
}

func (uc *CorpusIngestUseCase) IngestJudgment(ctx context.Context, judgment domain.Judgment) (*domain.Judgment, error) {
	judgment.FileName = strings.TrimSpace(judgment.FileName)
	if judgment.FileName == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest judgment", errors.New("file_name is required"))
	}
	if strings.TrimSpace(judgment.ExtractedText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest judgment", errors.New("extracted_text is required"))
	}
	if judgment.IngestedAt.IsZero() {
		judgment.IngestedAt = time.Now().UTC()
	}

	if err := uc.repo.Upsert(ctx, &judgment); err != nil {
		return nil, fmt.Errorf("upsert judgment: %w", err)
	}

	if err := uc.queue.PublishIndexRequested(ctx, judgment.FileName); err != nil {
		return nil, fmt.Errorf("publish index request: %w", err)
	}

	return &judgment, nil
}
