package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
)

const (
	// MaxResultLimit bounds the per-query result count to keep retrieval
	// latency and prompt size in check.
	MaxResultLimit     = 10
	DefaultResultLimit = 5

	defaultHybridCandidates = 30
)

type RetrievalOptions struct {
	Mode             domain.RetrievalMode
	HybridCandidates int
	FusionRRFK       int
	RerankTopN       int
}

// CaseRetrievalService implements ports.CaseRetriever over the lexical
// full-text store and the semantic vector index, selected by mode. Hybrid
// gathers candidates from both, fuses them with RRF and reranks the head.
type CaseRetrievalService struct {
	lexical  ports.LexicalSearcher
	embedder ports.Embedder
	vectors  ports.VectorIndex
	opts     RetrievalOptions
}

func NewCaseRetrievalService(
	lexical ports.LexicalSearcher,
	embedder ports.Embedder,
	vectors ports.VectorIndex,
	opts RetrievalOptions,
) *CaseRetrievalService {
	if opts.Mode == "" {
		opts.Mode = domain.RetrievalLexical
	}
	if opts.HybridCandidates <= 0 {
		opts.HybridCandidates = defaultHybridCandidates
	}
	return &CaseRetrievalService{
		lexical:  lexical,
		embedder: embedder,
		vectors:  vectors,
		opts:     opts,
	}
}

func (s *CaseRetrievalService) Retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "retrieve cases", errors.New("query is empty"))
	}
	limit = ClampResultLimit(limit)

	cases, err := s.retrieve(ctx, query, limit)
	if err != nil {
		return nil, classifyRetrievalError(err)
	}

	for i := range cases {
		cases[i].Rank = i + 1
	}
	return cases, nil
}

func (s *CaseRetrievalService) retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error) {
	switch s.opts.Mode {
	case domain.RetrievalSemantic:
		return s.semantic(ctx, query, limit)
	case domain.RetrievalHybrid:
		return s.hybrid(ctx, query, limit)
	default:
		return s.lexical.SearchRanked(ctx, query, limit)
	}
}

func (s *CaseRetrievalService) semantic(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error) {
	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	cases, err := s.vectors.Search(ctx, queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("search vector index: %w", err)
	}
	return cases, nil
}

func (s *CaseRetrievalService) hybrid(ctx context.Context, query string, limit int) ([]domain.RetrievedCase, error) {
	candidates := s.opts.HybridCandidates

	lexical, err := s.lexical.SearchRanked(ctx, query, candidates)
	if err != nil && !domain.IsKind(err, domain.ErrEmptyCorpus) {
		return nil, fmt.Errorf("lexical candidates: %w", err)
	}

	semantic, semErr := s.semantic(ctx, query, candidates)
	if semErr != nil {
		// Vector index may lag behind the corpus; fall back to lexical alone.
		if err != nil {
			return nil, err
		}
		return trimCandidates(lexical, limit), nil
	}
	if err != nil && len(semantic) == 0 {
		return nil, err
	}

	fused := fuseCandidatesRRF(lexical, semantic, s.opts.FusionRRFK)
	fused = rerankCandidates(query, fused, s.opts.RerankTopN)
	return trimCandidates(fused, limit), nil
}

// ClampResultLimit normalizes a caller-supplied limit into [1, MaxResultLimit],
// substituting the default for non-positive values.
func ClampResultLimit(limit int) int {
	if limit <= 0 {
		return DefaultResultLimit
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return limit
}

func classifyRetrievalError(err error) error {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput),
		domain.IsKind(err, domain.ErrEmptyCorpus),
		domain.IsKind(err, domain.ErrSearchUnavailable),
		domain.IsKind(err, domain.ErrSearchTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return domain.WrapError(domain.ErrSearchTimeout, "retrieve cases", err)
	default:
		return domain.WrapError(domain.ErrSearchUnavailable, "retrieve cases", err)
	}
}
