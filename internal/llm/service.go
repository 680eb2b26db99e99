// Package llm provides the client for the review service: an opaque
// message-based model API with a documented request/response contract.
package llm

import "context"

// MessageOptions carries the per-request knobs the review service accepts.
type MessageOptions struct {
	MaxTokens     int
	Temperature   float64
	StopSequences []string
}

// Message is one model response. Content is the text answer; Reasoning holds
// any separate thinking output the provider returned, when available.
type Message struct {
	Content   string
	Reasoning string
}

// Service is the review-service contract the pipeline depends on. The model
// behind it is a black box; everything this application knows about the
// response is enforced by the orchestrator's validation, not here.
type Service interface {
	CreateMessage(ctx context.Context, prompt string, opts MessageOptions) (*Message, error)
}
