package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/core/conversation"
	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
	"github.com/avasant/legal-judgment-assistant/internal/observability/metrics"
)

// RouterConfig carries the traffic-control knobs; zero values disable the
// corresponding gate.
type RouterConfig struct {
	Service             string
	RetrievalMode       string
	RateLimitRPS        float64
	RateLimitBurst      int
	MaxInFlight         int
	BackpressureTimeout time.Duration
}

type Router struct {
	assistant ports.LegalAssistant
	ingestor  ports.CorpusIngestor
	sessions  *conversation.Registry
	archive   ports.TranscriptArchive
	metrics   *metrics.HTTPServerMetrics
	cfg       RouterConfig
}

func NewRouter(
	assistant ports.LegalAssistant,
	ingestor ports.CorpusIngestor,
	sessions *conversation.Registry,
	archive ports.TranscriptArchive,
	httpMetrics *metrics.HTTPServerMetrics,
	cfg RouterConfig,
) *Router {
	return &Router{
		assistant: assistant,
		ingestor:  ingestor,
		sessions:  sessions,
		archive:   archive,
		metrics:   httpMetrics,
		cfg:       cfg,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/query", rt.handleQuery)
	mux.HandleFunc("/v1/sessions", rt.createSession)
	mux.HandleFunc("/v1/sessions/", rt.deleteSession)
	mux.HandleFunc("/v1/judgments", rt.ingestJudgment)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.MaxInFlight, rt.cfg.BackpressureTimeout)
	handler = rateLimitMiddleware(handler, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.cfg.Service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type queryRequest struct {
	SessionID       string `json:"session_id"`
	Question        string `json:"question"`
	Model           string `json:"model"`
	RememberHistory bool   `json:"remember_history"`
	Limit           int    `json:"limit"`
}

type retrievedCaseResponse struct {
	FileName   string  `json:"file_name"`
	ChunkIndex int     `json:"chunk_index"`
	Snippet    string  `json:"snippet"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

type queryResponse struct {
	Analysis string                  `json:"analysis"`
	Model    string                  `json:"model"`
	Cases    []retrievedCaseResponse `json:"cases"`
}

func (rt *Router) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	// Without a session the query is one-shot: no history in, none kept.
	state := ports.ConversationState(conversation.NewState())
	rememberHistory := false
	if req.SessionID != "" {
		session, ok := rt.sessions.Get(req.SessionID)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		state = session.State
		rememberHistory = req.RememberHistory
	}

	cfg := domain.SessionConfig{
		Model:           domain.ModelName(req.Model),
		RememberHistory: rememberHistory,
		ResultLimit:     req.Limit,
	}

	start := time.Now()
	turnsBefore := len(state.History())
	analysis, err := rt.assistant.HandleQuery(r.Context(), req.Question, cfg, state)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordQuery(rt.cfg.Service, rt.cfg.RetrievalMode, string(analysis.Model), len(analysis.Cases), time.Since(start))
	}
	rt.archiveLatestTurn(r, req.SessionID, state, turnsBefore)

	writeJSON(w, http.StatusOK, toQueryResponse(analysis))
}

// archiveLatestTurn persists the turn appended during this request, if any.
// A history-disabled query appends nothing; archiving the tail again would
// duplicate an earlier turn. Failures are logged, never surfaced: the user
// already has the analysis.
func (rt *Router) archiveLatestTurn(r *http.Request, sessionID string, state ports.ConversationState, turnsBefore int) {
	if rt.archive == nil || sessionID == "" {
		return
	}
	history := state.History()
	if len(history) <= turnsBefore {
		return
	}
	turn := history[len(history)-1]
	if err := rt.archive.ArchiveTurn(r.Context(), sessionID, turn); err != nil {
		slog.Warn("transcript_archive_failed",
			"request_id", requestIDFromContext(r.Context()),
			"session_id", sessionID,
			"turn_index", turn.Index,
			"error", err,
		)
	}
}

func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session := rt.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": session.ID})
}

func (rt *Router) deleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}
	if !rt.sessions.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) ingestJudgment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		FileName      string `json:"file_name"`
		ExtractedText string `json:"extracted_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	judgment, err := rt.ingestor.IngestJudgment(r.Context(), domain.Judgment{
		FileName:      req.FileName,
		ExtractedText: req.ExtractedText,
	})
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"file_name":   judgment.FileName,
		"ingested_at": judgment.IngestedAt.Format(time.RFC3339),
	})
}

func toQueryResponse(analysis *domain.Analysis) queryResponse {
	cases := make([]retrievedCaseResponse, 0, len(analysis.Cases))
	for _, c := range analysis.Cases {
		cases = append(cases, retrievedCaseResponse{
			FileName:   c.FileName,
			ChunkIndex: c.ChunkIndex,
			Snippet:    c.Snippet,
			Score:      c.Score,
			Rank:       c.Rank,
		})
	}
	return queryResponse{
		Analysis: analysis.Text,
		Model:    string(analysis.Model),
		Cases:    cases,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
