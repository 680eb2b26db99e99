// Package jobs implements the per-webhook review pipeline run.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/krejcif/reviewthor/internal/config"
	"github.com/krejcif/reviewthor/internal/core"
	"github.com/krejcif/reviewthor/internal/github"
	"github.com/krejcif/reviewthor/internal/instructions"
	"github.com/krejcif/reviewthor/internal/prcontext"
	"github.com/krejcif/reviewthor/internal/review"
)

// reviewthorFile is the repository path of the review-policy document.
const reviewthorFile = ".reviewthor"

// ReviewJob runs one complete review for one pull-request event: fetch the
// changed files, load the repository's review policy, assemble the bounded
// context, analyze it, and post the resulting comments.
//
// Each Run is an isolated invocation; nothing is shared between concurrent
// deliveries.
type ReviewJob struct {
	cfg      *config.Config
	clients  github.ClientFactory
	orch     *review.Orchestrator
	defaults core.ReviewConfig
	logger   *slog.Logger
}

// NewReviewJob wires a review job from its collaborators.
func NewReviewJob(cfg *config.Config, clients github.ClientFactory, orch *review.Orchestrator, defaults core.ReviewConfig, logger *slog.Logger) *ReviewJob {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if clients == nil {
		panic("client factory cannot be nil")
	}
	if orch == nil {
		panic("orchestrator cannot be nil")
	}
	return &ReviewJob{cfg: cfg, clients: clients, orch: orch, defaults: defaults, logger: logger}
}

// Run executes the pipeline for a classified pull-request event. Errors are
// returned wrapped for the caller to log; the webhook responder swallows them
// by design, so nothing here retries.
func (j *ReviewJob) Run(ctx context.Context, event *core.WebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("review pipeline panicked: %w", core.NormalizeRecovered(r))
		}
	}()

	if err := j.validateEvent(event); err != nil {
		return fmt.Errorf("input validation failed: %w", err)
	}

	logger := j.logger.With("repo", event.RepoFullName(), "pr", event.PRNumber)
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("correlation_id", reqID)
	}
	logger.Info("starting review run", "event", event.Kind)

	client, err := j.clients(ctx, event.InstallationID)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	changed, err := client.ListChangedFiles(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}

	sources := make([]core.ChangedFile, 0, len(changed))
	for _, f := range changed {
		if prcontext.IsSourceFile(f.Path) {
			sources = append(sources, f)
		}
	}
	if len(sources) == 0 {
		logger.Info("no reviewable source files in pull request", "changed", len(changed))
		return nil
	}
	if len(sources) > j.cfg.MaxFilesPerReview {
		logger.Warn("pull request exceeds file limit, reviewing a prefix",
			"files", len(sources),
			"limit", j.cfg.MaxFilesPerReview,
		)
		sources = sources[:j.cfg.MaxFilesPerReview]
	}

	policy := j.loadPolicy(ctx, client, event, logger)

	files := make([]core.FileContext, 0, len(sources))
	for _, f := range sources {
		files = append(files, prcontext.BuildFileContext(f, j.fetchContent(ctx, client, event, f, logger)))
	}

	packed := prcontext.Pack(files, prcontext.BuildPRContext(event), j.cfg.TokenBudget)
	if packed.Truncated {
		logger.Info("review context truncated to budget",
			"budget_tokens", j.cfg.TokenBudget,
			"files_kept", len(packed.Files),
			"files_total", len(files),
		)
	}

	analysis, err := j.orch.Analyze(ctx, packed, policy)
	if err != nil {
		return fmt.Errorf("failed to analyze pull request: %w", err)
	}

	comments := j.orch.GenerateComments(analysis, policy)
	sink := github.NewCommentSink(client, logger)
	if err := sink.Post(ctx, event.RepoOwner, event.RepoName, event.PRNumber, comments); err != nil {
		return fmt.Errorf("failed to post review comments: %w", err)
	}

	logger.Info("review run complete",
		"findings", len(analysis.Findings),
		"comments_posted", len(comments),
	)
	return nil
}

// loadPolicy fetches and merges the repository's .reviewthor document.
// Any failure here degrades to the server defaults; a broken policy file must
// never sink a review.
func (j *ReviewJob) loadPolicy(ctx context.Context, client github.Client, event *core.WebhookEvent, logger *slog.Logger) core.ReviewConfig {
	document, found, err := client.GetFileContent(ctx, event.RepoOwner, event.RepoName, reviewthorFile, event.HeadSHA)
	if err != nil {
		logger.Warn("failed to fetch .reviewthor, using defaults", "error", err)
		return instructions.Merge(nil, j.defaults)
	}
	if !found {
		return instructions.Merge(nil, j.defaults)
	}

	fragment := instructions.Parse(document)
	if errs := instructions.Validate(fragment); len(errs) > 0 {
		for _, e := range errs {
			logger.Warn("invalid .reviewthor entry dropped", "problem", e)
		}
		fragment = sanitizeFragment(fragment)
	}
	return instructions.Merge(fragment, j.defaults)
}

// sanitizeFragment removes the entries Validate objects to, keeping the rest
// of the document usable.
func sanitizeFragment(f *instructions.Fragment) *instructions.Fragment {
	clean := &instructions.Fragment{Severity: f.Severity}
	for _, area := range f.FocusAreas {
		if single := instructions.Validate(&instructions.Fragment{FocusAreas: []string{area}}); len(single) == 0 {
			clean.FocusAreas = append(clean.FocusAreas, area)
		}
	}
	for _, rule := range f.CustomRules {
		if single := instructions.Validate(&instructions.Fragment{CustomRules: []string{rule}}); len(single) == 0 {
			clean.CustomRules = append(clean.CustomRules, rule)
		}
	}
	for _, pattern := range f.IgnorePatterns {
		if instructions.ValidPattern(pattern) {
			clean.IgnorePatterns = append(clean.IgnorePatterns, pattern)
		}
	}
	return clean
}

// fetchContent retrieves the head-ref content of one changed file. Removed
// files and fetch failures yield empty content; the diff alone still carries
// the review signal.
func (j *ReviewJob) fetchContent(ctx context.Context, client github.Client, event *core.WebhookEvent, f core.ChangedFile, logger *slog.Logger) string {
	if f.Status == "removed" {
		return ""
	}
	content, found, err := client.GetFileContent(ctx, event.RepoOwner, event.RepoName, f.Path, event.HeadSHA)
	if err != nil {
		logger.Warn("failed to fetch file content, reviewing diff only", "path", f.Path, "error", err)
		return ""
	}
	if !found {
		return ""
	}
	return content
}

func (j *ReviewJob) validateEvent(event *core.WebhookEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.RepoOwner == "" || event.RepoName == "" {
		return fmt.Errorf("repository information is incomplete")
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", event.PRNumber)
	}
	if event.InstallationID <= 0 {
		return fmt.Errorf("installation ID must be positive, got: %d", event.InstallationID)
	}
	return nil
}
