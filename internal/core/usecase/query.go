package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/core/conversation"
	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
)

// DefaultHistoryWindow is how many trailing turns the generator sees when
// history is enabled. The state itself stays unbounded.
const DefaultHistoryWindow = 7

// QueryOrchestrator drives one request through retrieve -> generate ->
// append. Failures in either phase are terminal for the request; the caller
// decides whether to retry the whole thing.
type QueryOrchestrator struct {
	retriever     ports.CaseRetriever
	generator     ports.AnalysisGenerator
	defaultModel  domain.ModelName
	historyWindow int
}

func NewQueryOrchestrator(
	retriever ports.CaseRetriever,
	generator ports.AnalysisGenerator,
	defaultModel domain.ModelName,
	historyWindow int,
) *QueryOrchestrator {
	if defaultModel == "" {
		defaultModel = domain.ModelMistralLarge
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	return &QueryOrchestrator{
		retriever:     retriever,
		generator:     generator,
		defaultModel:  defaultModel,
		historyWindow: historyWindow,
	}
}

func (o *QueryOrchestrator) HandleQuery(
	ctx context.Context,
	question string,
	cfg domain.SessionConfig,
	state ports.ConversationState,
) (*domain.Analysis, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "handle query", errors.New("question is empty"))
	}

	model := cfg.Model
	if model == "" {
		model = o.defaultModel
	}
	limit := ClampResultLimit(cfg.ResultLimit)

	start := time.Now()
	cases, err := o.retriever.Retrieve(ctx, question, limit)
	if err != nil {
		slog.Warn("query_retrieval_failed", "error", err)
		return nil, err
	}

	var history []domain.ConversationTurn
	if cfg.RememberHistory && state != nil {
		history = conversation.Window(state.History(), o.historyWindow)
	}

	text, err := o.generator.Generate(ctx, question, cases, history, model)
	if err != nil {
		slog.Warn("query_generation_failed", "model", string(model), "cases", len(cases), "error", err)
		return nil, err
	}

	if cfg.RememberHistory && state != nil {
		state.Append(domain.ConversationTurn{Question: question, Analysis: text})
	}

	slog.Info("query_complete",
		"model", string(model),
		"cases", len(cases),
		"history_turns", len(history),
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	return &domain.Analysis{
		Text:  text,
		Model: model,
		Cases: cases,
	}, nil
}
