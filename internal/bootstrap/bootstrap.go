package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/config"
	"github.com/avasant/legal-judgment-assistant/internal/core/conversation"
	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
	"github.com/avasant/legal-judgment-assistant/internal/core/usecase"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/chunking"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/llm/cortex"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/queue/nats"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/repository/postgres"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/resilience"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/vector/memory"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/vector/qdrant"
)

// App wires the full object graph shared by the api, indexer and loader
// binaries.
type App struct {
	Config config.Config

	Queue    *nats.Queue
	Repo     ports.JudgmentRepository
	Archive  ports.TranscriptArchive
	Sessions *conversation.Registry

	Assistant ports.LegalAssistant
	Ingestor  ports.CorpusIngestor
	Indexer   ports.JudgmentIndexer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewJudgmentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	archive := postgres.NewTranscriptRepository(db)

	executorCfg := resilience.DefaultConfig()
	executorCfg.RetryMaxAttempts = cfg.RetryMaxAttempts
	executorCfg.BreakerEnabled = cfg.BreakerEnabled
	executor := resilience.NewExecutor(executorCfg)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init index queue: %w", err)
	}

	gateway := cortex.NewWithOptions(cfg.CortexURL, cfg.CortexEmbedModel, cortex.Options{
		Timeout:  time.Duration(cfg.CompletionTimeoutSec) * time.Second,
		Executor: executor,
	})

	var vectors ports.VectorIndex
	if cfg.QdrantURL != "" {
		vectors = qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	} else {
		vectors = memory.New()
	}

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	retriever := usecase.NewCaseRetrievalService(repo, gateway, vectors, usecase.RetrievalOptions{
		Mode:             domain.ParseRetrievalMode(cfg.RetrievalMode),
		HybridCandidates: cfg.HybridCandidates,
		FusionRRFK:       cfg.FusionRRFK,
		RerankTopN:       cfg.RerankTopN,
	})
	generator := usecase.NewAnalysisService(gateway)
	assistant := usecase.NewQueryOrchestrator(
		retriever,
		generator,
		domain.ModelName(cfg.CortexModel),
		cfg.HistoryWindow,
	)

	ingestor := usecase.NewCorpusIngestUseCase(repo, queue)
	indexer := usecase.NewIndexJudgmentUseCase(repo, chunker, gateway, vectors)

	return &App{
		Config: cfg,

		Queue:    queue,
		Repo:     repo,
		Archive:  archive,
		Sessions: conversation.NewRegistry(),

		Assistant: assistant,
		Ingestor:  ingestor,
		Indexer:   indexer,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
