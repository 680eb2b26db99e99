package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krejcif/reviewthor/internal/config"
	"github.com/krejcif/reviewthor/internal/core"
	"github.com/krejcif/reviewthor/internal/github"
	"github.com/krejcif/reviewthor/internal/llm"
	"github.com/krejcif/reviewthor/internal/review"
)

// fakeHost implements github.Client against in-memory fixtures.
type fakeHost struct {
	files    []core.ChangedFile
	contents map[string]string // path -> content at head
	fetchErr error

	posted [][]core.ReviewComment
}

func (f *fakeHost) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]core.ChangedFile, error) {
	return f.files, nil
}

func (f *fakeHost) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, bool, error) {
	if f.fetchErr != nil {
		return "", false, f.fetchErr
	}
	content, ok := f.contents[path]
	return content, ok, nil
}

func (f *fakeHost) CreateReviewComments(ctx context.Context, owner, repo string, number int, comments []core.ReviewComment) error {
	f.posted = append(f.posted, comments)
	return nil
}

// fakeService returns a canned review response and records every prompt.
type fakeService struct {
	response string
	err      error
	panics   bool

	prompts []string
}

func (f *fakeService) CreateMessage(ctx context.Context, prompt string, opts llm.MessageOptions) (*llm.Message, error) {
	if f.panics {
		panic("service exploded")
	}
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Message{Content: f.response}, nil
}

func analysisJSON(findings ...core.Finding) string {
	var items []string
	for _, f := range findings {
		items = append(items, fmt.Sprintf(
			`{"file":%q,"line":%d,"severity":%q,"message":%q,"category":%q}`,
			f.File, f.Line, f.Severity, f.Message, f.Category,
		))
	}
	return fmt.Sprintf(
		`{"summary":"reviewed","findings":[%s],"stats":{"total_findings":%d}}`,
		strings.Join(items, ","), len(findings),
	)
}

func testEvent() *core.WebhookEvent {
	return &core.WebhookEvent{
		Kind:           core.EventPROpened,
		RepoOwner:      "krejcif",
		RepoName:       "demo",
		InstallationID: 42,
		PRNumber:       7,
		PRTitle:        "Add feature",
		HeadSHA:        "abc123",
	}
}

func newTestJob(host *fakeHost, service *fakeService) *ReviewJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{TokenBudget: 100000, MaxFilesPerReview: 50}
	factory := func(ctx context.Context, installationID int64) (github.Client, error) {
		return host, nil
	}
	orch := review.NewOrchestrator(service, logger)
	return NewReviewJob(cfg, factory, orch, core.DefaultReviewConfig(), logger)
}

func TestRunCleanPRPostsNothing(t *testing.T) {
	host := &fakeHost{
		files:    []core.ChangedFile{{Path: "src/index.js", Status: "modified", Patch: "@@ -1 +1 @@"}},
		contents: map[string]string{"src/index.js": "export function main() {}"},
	}
	service := &fakeService{response: analysisJSON()}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	assert.Len(t, service.prompts, 1)
	assert.Empty(t, host.posted, "zero findings must produce zero comment calls")
}

func TestRunPostsAdmittedFindingsOnly(t *testing.T) {
	host := &fakeHost{
		files: []core.ChangedFile{{Path: "src/db.js", Status: "modified", Patch: "@@ -1 +1 @@"}},
		contents: map[string]string{
			"src/db.js":  "module.exports = query",
			".reviewthor": "# Severity\nwarning\n",
		},
	}
	service := &fakeService{response: analysisJSON(
		core.Finding{File: "src/db.js", Line: 14, Severity: core.SeverityError, Message: "sql injection", Category: "security"},
		core.Finding{File: "src/db.js", Line: 30, Severity: core.SeverityInfo, Message: "nit", Category: "style"},
	)}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	require.Len(t, host.posted, 1)
	require.Len(t, host.posted[0], 1, "info finding falls below the warning floor")
	comment := host.posted[0][0]
	assert.Equal(t, "src/db.js", comment.Path)
	assert.Equal(t, 14, comment.Line)
	assert.Contains(t, comment.Body, "🔴")
}

func TestRunRepoIgnorePatternsExcludeFindings(t *testing.T) {
	host := &fakeHost{
		files: []core.ChangedFile{
			{Path: "src/index.js", Status: "modified", Patch: "@@"},
			{Path: "test/index.test.js", Status: "modified", Patch: "@@"},
		},
		contents: map[string]string{
			"src/index.js":       "x",
			"test/index.test.js": "y",
			".reviewthor":        "# Ignore Patterns\n- test/**\n",
		},
	}
	service := &fakeService{response: analysisJSON(
		core.Finding{File: "src/index.js", Line: 1, Severity: core.SeverityError, Message: "real", Category: "bug"},
		core.Finding{File: "test/index.test.js", Line: 2, Severity: core.SeverityError, Message: "ignored", Category: "bug"},
	)}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	require.Len(t, host.posted, 1)
	require.Len(t, host.posted[0], 1)
	assert.Equal(t, "src/index.js", host.posted[0][0].Path)
}

func TestRunCapsFilesAtConfiguredLimit(t *testing.T) {
	host := &fakeHost{contents: map[string]string{}}
	for i := 0; i < 60; i++ {
		path := fmt.Sprintf("src/file%02d.js", i)
		host.files = append(host.files, core.ChangedFile{Path: path, Status: "modified", Patch: "@@"})
		host.contents[path] = "content"
	}
	service := &fakeService{response: analysisJSON()}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	require.Len(t, service.prompts, 1)
	assert.Equal(t, 50, strings.Count(service.prompts[0], "### File:"))
	// The kept files are the first fifty in host order.
	assert.Contains(t, service.prompts[0], "src/file00.js")
	assert.Contains(t, service.prompts[0], "src/file49.js")
	assert.NotContains(t, service.prompts[0], "src/file50.js")
}

func TestRunSkipsNonSourceFiles(t *testing.T) {
	host := &fakeHost{
		files: []core.ChangedFile{
			{Path: "README.md", Status: "modified"},
			{Path: "package-lock.json", Status: "modified"},
		},
	}
	service := &fakeService{response: analysisJSON()}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	assert.Empty(t, service.prompts, "nothing reviewable means no model call")
	assert.Empty(t, host.posted)
}

func TestRunDegradesToDefaultsWhenPolicyFetchFails(t *testing.T) {
	host := &fakeHost{
		files:    []core.ChangedFile{{Path: "src/index.js", Status: "modified", Patch: "@@"}},
		fetchErr: errors.New("host unavailable"),
	}
	service := &fakeService{response: analysisJSON(
		core.Finding{File: "src/index.js", Line: 1, Severity: core.SeverityInfo, Message: "nit", Category: "style"},
	)}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	// Default floor is info: the finding still comes through.
	require.NoError(t, err)
	require.Len(t, host.posted, 1)
	assert.Len(t, host.posted[0], 1)
}

func TestRunValidatesEvent(t *testing.T) {
	job := newTestJob(&fakeHost{}, &fakeService{})

	tests := []struct {
		name  string
		event *core.WebhookEvent
	}{
		{"nil event", nil},
		{"missing repository", &core.WebhookEvent{InstallationID: 1, PRNumber: 1}},
		{"non-positive pr number", &core.WebhookEvent{RepoOwner: "a", RepoName: "b", InstallationID: 1}},
		{"non-positive installation", &core.WebhookEvent{RepoOwner: "a", RepoName: "b", PRNumber: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := job.Run(context.Background(), tt.event)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}

func TestRunRecoversFromPanics(t *testing.T) {
	host := &fakeHost{
		files:    []core.ChangedFile{{Path: "src/index.js", Status: "modified", Patch: "@@"}},
		contents: map[string]string{"src/index.js": "x"},
	}
	service := &fakeService{panics: true}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestRunWrapsAnalysisFailure(t *testing.T) {
	host := &fakeHost{
		files:    []core.ChangedFile{{Path: "src/index.js", Status: "modified", Patch: "@@"}},
		contents: map[string]string{"src/index.js": "x"},
	}
	service := &fakeService{response: "I refuse to answer in JSON."}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.Error(t, err)
	var formatErr *core.ResponseFormatError
	assert.ErrorAs(t, err, &formatErr)
	assert.Empty(t, host.posted)
}

func TestRunRemovedFilesReviewedDiffOnly(t *testing.T) {
	host := &fakeHost{
		files: []core.ChangedFile{
			{Path: "src/gone.js", Status: "removed", Patch: "@@ -1,3 +0,0 @@"},
		},
		contents: map[string]string{
			// Present at head, but removed files must not be fetched.
			"src/gone.js": "stale content",
		},
	}
	service := &fakeService{response: analysisJSON()}

	err := newTestJob(host, service).Run(context.Background(), testEvent())

	require.NoError(t, err)
	require.Len(t, service.prompts, 1)
	assert.NotContains(t, service.prompts[0], "stale content")
	assert.Contains(t, service.prompts[0], "@@ -1,3 +0,0 @@")
}
