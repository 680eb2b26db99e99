// Package github provides functionality for interacting with the GitHub API.
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/krejcif/reviewthor/internal/core"
)

// Client defines the four host operations the review pipeline consumes:
// listing changed files, fetching a repository file, posting review comments,
// and (via auth.go) exchanging an installation credential.
//
//go:generate mockgen -destination=../../mocks/mock_github_client.go -package=mocks . Client
type Client interface {
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.ChangedFile, error)
	// GetFileContent returns found=false for a file that does not exist at
	// the given ref; absence is a signal, not an error.
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (content string, found bool, err error)
	CreateReviewComments(ctx context.Context, owner, repo string, number int, comments []core.ReviewComment) error
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewClient wraps the official go-github client in the focused interface the
// pipeline depends on.
func NewClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// ListChangedFiles retrieves the files modified in a pull request. Pagination
// is handled here; the GitHub API returns at most 100 files per page.
func (g *gitHubClient) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.ChangedFile, error) {
	var all []core.ChangedFile
	opts := &github.ListOptions{PerPage: 100}

	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			g.logger.Error("failed to list files for pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, err
		}

		for _, f := range files {
			all = append(all, core.ChangedFile{
				Path:      f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
				Patch:     f.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// GetFileContent fetches one repository file at a ref.
func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	fileContent, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "ref", ref, "error", err)
		return "", false, err
	}
	if fileContent == nil {
		// Path resolved to a directory listing.
		return "", false, nil
	}

	content, err := fileContent.GetContent()
	if err != nil {
		g.logger.Error("failed to decode file content", "path", path, "error", err)
		return "", false, err
	}
	return content, true, nil
}

// CreateReviewComments posts one batch of inline comments as a single
// pull-request review. Callers are responsible for respecting the per-call
// item limit; see CommentSink.
func (g *gitHubClient) CreateReviewComments(ctx context.Context, owner, repo string, number int, comments []core.ReviewComment) error {
	ghComments := make([]*github.DraftReviewComment, 0, len(comments))
	for _, c := range comments {
		ghComments = append(ghComments, &github.DraftReviewComment{
			Path: github.Ptr(c.Path),
			Line: github.Ptr(c.Line),
			Body: github.Ptr(c.Body),
		})
	}

	reviewRequest := &github.PullRequestReviewRequest{
		Event:    github.Ptr("COMMENT"),
		Comments: ghComments,
	}

	_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
