// Package handler provides HTTP handlers for the ReviewThor application.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/krejcif/reviewthor/internal/config"
	"github.com/krejcif/reviewthor/internal/core"
)

// eventHandler processes one classified webhook event.
type eventHandler func(ctx context.Context, event *core.WebhookEvent) error

// WebhookHandler processes incoming webhooks from GitHub: boundary
// validation (body, headers, signature), event classification, and routing to
// the review pipeline.
//
// The error model is asymmetric on purpose: everything before acceptance is
// validated strictly and rejected with 4xx, while pipeline failures after
// acceptance are logged and swallowed so the provider never sees a failure
// status that would trigger redelivery storms.
type WebhookHandler struct {
	cfg    *config.Config
	review eventHandler
	logger *slog.Logger
}

// NewWebhookHandler creates a webhook handler routing pull-request events to
// the given review function.
func NewWebhookHandler(cfg *config.Config, review eventHandler, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, review: review, logger: logger}
}

// Handle implements POST /api/v1/webhook/github.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("correlation_id", middleware.GetReqID(r.Context()))

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, "Missing request body", http.StatusBadRequest)
		return
	}
	if r.Header.Get("X-GitHub-Event") == "" {
		http.Error(w, "Missing event type header", http.StatusBadRequest)
		return
	}

	if !VerifySignature(body, r.Header.Get("X-Hub-Signature-256"), h.cfg.GitHubWebhookSecret) {
		logger.Warn("rejected webhook with missing or invalid signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := core.ClassifyPayload(body)
	if err != nil {
		var missing *core.MissingFieldError
		if errors.As(err, &missing) {
			logger.Warn("rejected webhook with incomplete payload", "error", err)
			http.Error(w, missing.Error(), http.StatusBadRequest)
			return
		}
		var unsupported *core.UnsupportedEventError
		if errors.As(err, &unsupported) {
			logger.Debug("ignoring unsupported webhook event", "action", unsupported.Action)
			_, _ = fmt.Fprint(w, "Event ignored")
			return
		}
		logger.Warn("rejected malformed webhook payload", "error", err)
		http.Error(w, "Malformed payload", http.StatusBadRequest)
		return
	}

	// Only the three pull-request kinds are routed. Review-submitted events
	// classify successfully but stay unrouted: recognized, deliberately
	// unhandled.
	if !event.Kind.IsPullRequest() {
		logger.Debug("event classified but not routed", "kind", event.Kind)
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	if err := h.review(r.Context(), event); err != nil {
		// Accepted deliveries never surface failures to the provider.
		logger.Error("processing failed",
			"kind", event.Kind,
			"repo", event.RepoFullName(),
			"pr", event.PRNumber,
			"error", err,
		)
	}

	_, _ = fmt.Fprint(w, "OK")
}
