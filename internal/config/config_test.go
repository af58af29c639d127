package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ASSISTANT_CONFIG_FILE", "")
	t.Setenv("RETRIEVAL_MODE", "")
	t.Setenv("RETRIEVAL_LIMIT", "")
	t.Setenv("HISTORY_WINDOW", "")
	t.Setenv("CORTEX_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalMode != "lexical" {
		t.Fatalf("expected default retrieval mode lexical, got %q", cfg.RetrievalMode)
	}
	if cfg.RetrievalLimit != 5 {
		t.Fatalf("expected default retrieval limit 5, got %d", cfg.RetrievalLimit)
	}
	if cfg.HistoryWindow != 7 {
		t.Fatalf("expected default history window 7, got %d", cfg.HistoryWindow)
	}
	if cfg.CortexModel != "mistral-large" {
		t.Fatalf("expected default model mistral-large, got %q", cfg.CortexModel)
	}
	if cfg.NATSSubject != "judgments.index" {
		t.Fatalf("expected default subject judgments.index, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ASSISTANT_CONFIG_FILE", "")
	t.Setenv("RETRIEVAL_MODE", "hybrid")
	t.Setenv("HYBRID_CANDIDATES", "40")
	t.Setenv("FUSION_RRF_K", "75")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalMode != "hybrid" {
		t.Fatalf("expected retrieval mode override, got %q", cfg.RetrievalMode)
	}
	if cfg.HybridCandidates != 40 {
		t.Fatalf("expected hybrid candidates 40, got %d", cfg.HybridCandidates)
	}
	if cfg.FusionRRFK != 75 {
		t.Fatalf("expected fusion rrf k 75, got %d", cfg.FusionRRFK)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ASSISTANT_CONFIG_FILE", "")
	t.Setenv("RETRIEVAL_LIMIT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalLimit != 5 {
		t.Fatalf("malformed int must fall back to default, got %d", cfg.RetrievalLimit)
	}
}

func TestLoadOverlaysConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.yaml")
	content := []byte("retrieval_mode: semantic\nhistory_window: 3\ncortex_model: mistral-7b\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("ASSISTANT_CONFIG_FILE", path)
	t.Setenv("RETRIEVAL_MODE", "")
	t.Setenv("HISTORY_WINDOW", "")
	t.Setenv("CORTEX_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalMode != "semantic" {
		t.Fatalf("file value must replace the default, got %q", cfg.RetrievalMode)
	}
	if cfg.HistoryWindow != 3 {
		t.Fatalf("expected history window 3 from file, got %d", cfg.HistoryWindow)
	}
	if cfg.CortexModel != "mistral-7b" {
		t.Fatalf("expected model from file, got %q", cfg.CortexModel)
	}
	// Values absent from the file keep their default resolution.
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port, got %q", cfg.APIPort)
	}
}

func TestLoadEnvWinsOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assistant.yaml")
	content := []byte("retrieval_mode: semantic\nhistory_window: 3\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("ASSISTANT_CONFIG_FILE", path)
	t.Setenv("RETRIEVAL_MODE", "hybrid")
	t.Setenv("HISTORY_WINDOW", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalMode != "hybrid" {
		t.Fatalf("set env var must win over the file, got %q", cfg.RetrievalMode)
	}
	// File values stay where no env var is set.
	if cfg.HistoryWindow != 3 {
		t.Fatalf("expected history window 3 from file, got %d", cfg.HistoryWindow)
	}
}

func TestLoadFailsOnMissingConfigFile(t *testing.T) {
	t.Setenv("ASSISTANT_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
