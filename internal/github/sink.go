package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/krejcif/reviewthor/internal/core"
)

// maxCommentsPerCall is the host API's hard limit on review comments per
// review-submission call.
const maxCommentsPerCall = 100

// CommentSink delivers review comments in bounded batches. Batches are sent
// sequentially and in original order; a later batch is never issued while an
// earlier one is outstanding, which keeps comment ordering stable on the host
// side and keeps partial-failure reasoning simple.
type CommentSink struct {
	client Client
	logger *slog.Logger
}

// NewCommentSink creates a sink posting through the given client.
func NewCommentSink(client Client, logger *slog.Logger) *CommentSink {
	return &CommentSink{client: client, logger: logger}
}

// Post partitions the comments into contiguous batches of at most 100 and
// issues one call per batch. An empty list is a no-op with no network call.
// A failure on any batch aborts the remaining batches; batches already sent
// stay posted, delivery is not transactional.
func (s *CommentSink) Post(ctx context.Context, owner, repo string, prNumber int, comments []core.ReviewComment) error {
	if len(comments) == 0 {
		return nil
	}

	total := (len(comments) + maxCommentsPerCall - 1) / maxCommentsPerCall
	for i := 0; i < len(comments); i += maxCommentsPerCall {
		end := i + maxCommentsPerCall
		if end > len(comments) {
			end = len(comments)
		}
		batch := comments[i:end]
		batchNum := i/maxCommentsPerCall + 1

		if err := s.client.CreateReviewComments(ctx, owner, repo, prNumber, batch); err != nil {
			return fmt.Errorf("posting comment batch %d/%d: %w", batchNum, total, err)
		}
		s.logger.Debug("posted review comment batch",
			"repo", owner+"/"+repo,
			"pr", prNumber,
			"batch", batchNum,
			"batches", total,
			"comments", len(batch),
		)
	}

	return nil
}
