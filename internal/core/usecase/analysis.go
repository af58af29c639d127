package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/core/ports"
)

// AnalysisService builds the analysis prompt and invokes the completion
// capability. Prompt construction is deterministic; only the model call is
// not. The completion text is passed through without structural validation.
type AnalysisService struct {
	completions ports.CompletionClient
}

func NewAnalysisService(completions ports.CompletionClient) *AnalysisService {
	return &AnalysisService{completions: completions}
}

func (s *AnalysisService) Generate(
	ctx context.Context,
	question string,
	cases []domain.RetrievedCase,
	history []domain.ConversationTurn,
	model domain.ModelName,
) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "generate analysis", errors.New("question is empty"))
	}
	if !model.Supported() {
		return "", domain.WrapError(domain.ErrModelUnavailable, "generate analysis", fmt.Errorf("unsupported model %q", model))
	}

	prompt := BuildAnalysisPrompt(question, cases, history)

	text, err := s.completions.Complete(ctx, model, prompt)
	if err != nil {
		return "", classifyGenerationError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrEmptyCompletion, "generate analysis", errors.New("model returned blank text"))
	}
	return text, nil
}

func classifyGenerationError(err error) error {
	switch {
	case domain.IsKind(err, domain.ErrModelUnavailable),
		domain.IsKind(err, domain.ErrGenerationTimeout),
		domain.IsKind(err, domain.ErrEmptyCompletion):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return domain.WrapError(domain.ErrGenerationTimeout, "generate analysis", err)
	default:
		return domain.WrapError(domain.ErrModelUnavailable, "generate analysis", err)
	}
}

// BuildAnalysisPrompt concatenates the fixed instruction template, the
// retrieved cases tagged with their file names, the prior turns in
// chronological order and the current question. Pure function of its inputs.
func BuildAnalysisPrompt(question string, cases []domain.RetrievedCase, history []domain.ConversationTurn) string {
	var b strings.Builder

	b.WriteString(`You are an expert Indian legal assistant analyzing Supreme Court cases.
Analyze the following legal scenario and the relevant case laws to provide advice.

`)

	if len(history) > 0 {
		b.WriteString("Earlier turns of this conversation, oldest first:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", turn.Question, turn.Analysis)
		}
		b.WriteString("\n")
	}

	b.WriteString("Scenario Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")

	if len(cases) == 0 {
		b.WriteString(`Context: no precedent cases were retrieved for this scenario.
State clearly that no directly relevant precedent was found and advise with that caveat.
`)
	} else {
		b.WriteString("Context:\n")
		for idx, c := range cases {
			fmt.Fprintf(&b, "[%d] case=%s\n%s\n\n", idx+1, c.FileName, c.Snippet)
		}
	}

	b.WriteString(`
Please provide:
1. A brief analysis of how the top cases relate to the scenario
2. Key legal principles established in these cases (keep it short)
3. Potential application to the current scenario
4. Recommended course of action based on these precedents

Format your response in a clear, structured manner with case citations.
If certain aspects are not covered by these cases, clearly state so.
`)

	return b.String()
}
