// Package review drives the analysis of a packed pull-request context:
// it issues the structured review request, validates the service's response
// against the output schema, filters findings by policy, and renders them
// into postable comments.
package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krejcif/reviewthor/internal/core"
	"github.com/krejcif/reviewthor/internal/llm"
)

const (
	analyzeMaxTokens = 8192
	explainMaxTokens = 1024
	// Low temperature: review output feeds a schema validator, creative
	// variance only produces contract violations.
	analyzeTemperature = 0.2
)

// Orchestrator owns one review invocation's model interaction. It holds no
// state shared across invocations; the severity floor travels inside the
// ReviewConfig parameter rather than any process-wide setting.
type Orchestrator struct {
	service llm.Service
	logger  *slog.Logger
}

// NewOrchestrator creates an orchestrator backed by the given review service.
func NewOrchestrator(service llm.Service, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{service: service, logger: logger}
}

// Analyze sends the packed context to the review service and returns the
// validated analysis. A response that violates the structured-output contract
// fails with *core.ResponseFormatError, which callers can distinguish from
// transport failures.
func (o *Orchestrator) Analyze(ctx context.Context, req core.ReviewRequest, cfg core.ReviewConfig) (*core.ReviewAnalysis, error) {
	prompt := llm.BuildReviewPrompt(req, cfg)

	msg, err := o.service.CreateMessage(ctx, prompt, llm.MessageOptions{
		MaxTokens:   analyzeMaxTokens,
		Temperature: analyzeTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("review service call failed: %w", err)
	}

	analysis, err := parseAnalysis(msg.Content)
	if err != nil {
		return nil, err
	}

	o.logger.Info("review analysis validated",
		"findings", len(analysis.Findings),
		"files", len(req.Files),
		"truncated", req.Truncated,
	)
	return analysis, nil
}

// Explain issues a second, independent request for a longer free-text
// rationale for one finding. Free text is the expected shape here, so no
// schema validation is applied; only emptiness is rejected.
func (o *Orchestrator) Explain(ctx context.Context, finding core.Finding) (string, error) {
	msg, err := o.service.CreateMessage(ctx, llm.BuildExplainPrompt(finding), llm.MessageOptions{
		MaxTokens: explainMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("explain request failed: %w", err)
	}
	if msg.Content == "" {
		return "", fmt.Errorf("explain request returned an empty response")
	}
	return msg.Content, nil
}
