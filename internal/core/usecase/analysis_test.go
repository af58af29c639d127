package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
)

type completionFake struct {
	prompt string
	model  domain.ModelName
	calls  int
	text   string
	err    error
}

func (f *completionFake) Complete(_ context.Context, model domain.ModelName, prompt string) (string, error) {
	f.calls++
	f.model = model
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestGenerateIncludesCaseFileNamesInPrompt(t *testing.T) {
	completions := &completionFake{text: "analysis"}
	service := NewAnalysisService(completions)

	cases := []domain.RetrievedCase{
		{FileName: "A_v_State_1980", Snippet: "anticipatory bail granted", Rank: 1},
		{FileName: "B_v_Union_1995", Snippet: "bail conditions", Rank: 2},
	}
	_, err := service.Generate(context.Background(), "What is the precedent on anticipatory bail?", cases, nil, domain.ModelMistralLarge)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if completions.calls != 1 {
		t.Fatalf("expected exactly one completion call, got %d", completions.calls)
	}
	for _, fileName := range []string{"A_v_State_1980", "B_v_Union_1995"} {
		if !strings.Contains(completions.prompt, fileName) {
			t.Fatalf("prompt missing citation %q:\n%s", fileName, completions.prompt)
		}
	}
	if !strings.Contains(completions.prompt, "What is the precedent on anticipatory bail?") {
		t.Fatalf("prompt missing question")
	}
}

func TestGenerateWithNoCasesStillSucceeds(t *testing.T) {
	completions := &completionFake{text: "No directly relevant precedent was found."}
	service := NewAnalysisService(completions)

	text, err := service.Generate(context.Background(), "obscure question", nil, nil, domain.ModelMistral7B)
	if err != nil {
		t.Fatalf("Generate() with empty results must not fail, got %v", err)
	}
	if text == "" {
		t.Fatalf("expected non-empty analysis text")
	}
	if !strings.Contains(completions.prompt, "no precedent cases were retrieved") {
		t.Fatalf("prompt should tell the model no cases were found:\n%s", completions.prompt)
	}
}

func TestGenerateRejectsUnsupportedModelWithoutCalling(t *testing.T) {
	completions := &completionFake{text: "x"}
	service := NewAnalysisService(completions)

	_, err := service.Generate(context.Background(), "q", nil, nil, "gpt-999")
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if completions.calls != 0 {
		t.Fatalf("completion capability must not be invoked for unknown model")
	}
}

func TestGenerateBlankCompletionIsEmptyCompletionError(t *testing.T) {
	service := NewAnalysisService(&completionFake{text: "   \n"})

	_, err := service.Generate(context.Background(), "q", nil, nil, domain.ModelMixtral8x7B)
	if !domain.IsKind(err, domain.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestGenerateMapsDeadlineToGenerationTimeout(t *testing.T) {
	service := NewAnalysisService(&completionFake{err: context.DeadlineExceeded})

	_, err := service.Generate(context.Background(), "q", nil, nil, domain.ModelMistralLarge)
	if !domain.IsKind(err, domain.ErrGenerationTimeout) {
		t.Fatalf("expected ErrGenerationTimeout, got %v", err)
	}
}

func TestGenerateMapsServiceErrorToModelUnavailable(t *testing.T) {
	service := NewAnalysisService(&completionFake{err: errors.New("gateway exploded")})

	_, err := service.Generate(context.Background(), "q", nil, nil, domain.ModelMistralLarge)
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestBuildAnalysisPromptIsDeterministic(t *testing.T) {
	cases := []domain.RetrievedCase{{FileName: "A_v_State_1980", Snippet: "bail", Rank: 1}}
	history := []domain.ConversationTurn{{Index: 0, Question: "earlier?", Analysis: "earlier analysis"}}

	first := BuildAnalysisPrompt("q", cases, history)
	second := BuildAnalysisPrompt("q", cases, history)
	if first != second {
		t.Fatalf("prompt construction must be idempotent")
	}
	if !strings.Contains(first, "earlier analysis") {
		t.Fatalf("prompt missing history turn:\n%s", first)
	}
}

func TestBuildAnalysisPromptKeepsHistoryChronological(t *testing.T) {
	history := []domain.ConversationTurn{
		{Index: 0, Question: "first question"},
		{Index: 1, Question: "second question"},
	}

	prompt := BuildAnalysisPrompt("q", nil, history)
	firstIdx := strings.Index(prompt, "first question")
	secondIdx := strings.Index(prompt, "second question")
	if firstIdx < 0 || secondIdx < 0 || firstIdx > secondIdx {
		t.Fatalf("history must appear oldest first:\n%s", prompt)
	}
}
