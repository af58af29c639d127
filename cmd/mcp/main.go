// Command mcp exposes the assistant as an MCP stdio server so agent hosts
// can ask precedent questions through the legal_precedent_query tool.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avasant/legal-judgment-assistant/internal/bootstrap"
	"github.com/avasant/legal-judgment-assistant/internal/config"
	"github.com/avasant/legal-judgment-assistant/internal/core/conversation"
	"github.com/avasant/legal-judgment-assistant/internal/core/domain"
	"github.com/avasant/legal-judgment-assistant/internal/observability/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	// Stdout carries the MCP stream; logs go to stderr.
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	mcpServer := server.NewMCPServer("legal-judgment-assistant", "1.0.0")

	tool := mcp.NewTool("legal_precedent_query",
		mcp.WithDescription("Answer a legal question grounded in retrieved court judgments, with case citations."),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The legal scenario or question to analyze."),
		),
		mcp.WithString("model",
			mcp.Description("Completion model: mistral-7b, mistral-large or mixtral-8x7b."),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many precedent cases to retrieve (1-10)."),
		),
	)

	mcpServer.AddTool(tool, func(callCtx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		analysis, err := app.Assistant.HandleQuery(callCtx, question, domain.SessionConfig{
			Model:       domain.ModelName(req.GetString("model", "")),
			ResultLimit: req.GetInt("limit", 0),
		}, conversation.NewState())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(formatToolResult(analysis)), nil
	})

	slog.Info("mcp_serving_stdio")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}

func formatToolResult(analysis *domain.Analysis) string {
	var b strings.Builder
	b.WriteString(analysis.Text)
	if len(analysis.Cases) > 0 {
		b.WriteString("\n\nRetrieved cases:\n")
		for _, c := range analysis.Cases {
			fmt.Fprintf(&b, "%d. %s (score %.3f)\n", c.Rank, c.FileName, c.Score)
		}
	}
	return b.String()
}
