package cortex

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/infrastructure/resilience"
)

// Client talks to the model-serving gateway fronting the completion tiers
// (mistral-7b, mistral-large, mixtral-8x7b) and the embedding model. The
// gateway owns model loading; this client only selects a model per call.
type Client struct {
	baseURL    string
	embedModel string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

func New(baseURL, embedModel string) *Client {
	return NewWithOptions(baseURL, embedModel, Options{})
}

func NewWithOptions(baseURL, embedModel string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.Executor,
	}
}

// Complete implements ports.CompletionClient.
func (c *Client) Complete(ctx context.Context, model domain.ModelName, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  string(model),
		"prompt": prompt,
		"stream": false,
	}

	var response struct {
		Text string `json:"text"`
	}
	err := c.execute(ctx, "cortex.complete", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/complete", reqBody, &response, "complete")
	})
	if err != nil {
		return "", mapCompletionError(err)
	}
	return strings.TrimSpace(response.Text), nil
}

// Embed implements ports.Embedder.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := map[string]any{
		"model": c.embedModel,
		"input": texts,
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	err := c.execute(ctx, "cortex.embed", func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/api/embed", reqBody, &response, "embed")
	})
	if err != nil {
		return nil, err
	}
	return response.Embeddings, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return vectors[0], nil
}

func (c *Client) execute(ctx context.Context, operation string, call func(context.Context) error) error {
	if c.executor == nil {
		return call(ctx)
	}
	return c.executor.Execute(ctx, operation, call, classifyGatewayError)
}
