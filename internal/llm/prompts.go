package llm

import (
	"fmt"
	"strings"

	"github.com/krejcif/reviewthor/internal/core"
)

// reviewSchema is the machine-parseable shape the structured review call asks
// the model to produce. The orchestrator validates responses against it.
const reviewSchema = `{
  "summary": "<one paragraph overview of the change>",
  "findings": [
    {
      "file": "<path of the file>",
      "line": <1-based line number>,
      "severity": "error" | "warning" | "info",
      "message": "<what is wrong and why it matters>",
      "category": "<bug|security|performance|style|best-practice|maintainability>",
      "suggestion": "<optional replacement code>"
    }
  ],
  "stats": {
    "files_reviewed": <int>,
    "total_findings": <int>,
    "errors": <int>,
    "warnings": <int>,
    "info": <int>
  }
}`

// BuildReviewPrompt renders the single structured-output request: the review
// instruction, the effective policy, and the packed file contexts.
func BuildReviewPrompt(req core.ReviewRequest, cfg core.ReviewConfig) string {
	var b strings.Builder

	b.WriteString("You are an expert code reviewer. Review the following pull request ")
	b.WriteString("and respond with a single JSON object, no surrounding prose, matching exactly this schema:\n\n")
	b.WriteString(reviewSchema)
	b.WriteString("\n\nOnly report genuine problems; an empty findings list is a valid answer.\n")

	if len(cfg.FocusAreas) > 0 {
		b.WriteString("\nFocus areas: " + strings.Join(cfg.FocusAreas, ", ") + "\n")
	}
	for _, rule := range cfg.CustomRules {
		b.WriteString("- " + rule + "\n")
	}
	if len(cfg.EnabledChecks) > 0 {
		b.WriteString("\nEnabled check categories: " + strings.Join(cfg.EnabledChecks, ", ") + "\n")
	}

	fmt.Fprintf(&b, "\n## Pull request %s#%d: %s\n", req.PR.RepoFullName, req.PR.Number, req.PR.Title)
	if req.PR.Description != "" {
		b.WriteString(req.PR.Description + "\n")
	}
	if req.Truncated {
		b.WriteString("\nNote: the file context below was truncated to fit the review budget.\n")
	}

	for _, f := range req.Files {
		fmt.Fprintf(&b, "\n### File: %s (%s)\n", f.Path, f.Language)
		if len(f.Imports) > 0 {
			b.WriteString("Imports: " + strings.Join(f.Imports, ", ") + "\n")
		}
		if len(f.Exports) > 0 {
			b.WriteString("Exports: " + strings.Join(f.Exports, ", ") + "\n")
		}
		if len(f.TestPaths) > 0 {
			b.WriteString("Likely test files: " + strings.Join(f.TestPaths, ", ") + "\n")
		}
		if f.Diff != "" {
			b.WriteString("\nDiff:\n```diff\n" + f.Diff + "\n```\n")
		}
		if f.Content != "" {
			b.WriteString("\nFull content:\n```" + f.Language + "\n" + f.Content + "\n```\n")
		}
	}

	return b.String()
}

// BuildExplainPrompt renders the free-text rationale request for one finding.
// Unlike the review prompt, the answer is expected as plain prose.
func BuildExplainPrompt(f core.Finding) string {
	var b strings.Builder
	b.WriteString("Explain the reasoning behind this code review finding in a few short paragraphs, ")
	b.WriteString("including why it matters and how a developer should think about fixing it.\n\n")
	fmt.Fprintf(&b, "File: %s, line %d\n", f.File, f.Line)
	fmt.Fprintf(&b, "Severity: %s\nCategory: %s\nFinding: %s\n", f.Severity, f.Category, f.Message)
	if f.Suggestion != "" {
		b.WriteString("Suggested fix:\n" + f.Suggestion + "\n")
	}
	return b.String()
}
