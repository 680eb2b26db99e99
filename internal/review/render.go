package review

import (
	"fmt"
	"sort"
	"strings"

	"github.com/krejcif/reviewthor/internal/core"
	"github.com/krejcif/reviewthor/internal/instructions"
)

var severityIcons = map[core.Severity]string{
	core.SeverityError:   "🔴",
	core.SeverityWarning: "🟡",
	core.SeverityInfo:    "🔵",
}

// categoryLabels maps the schema's category identifiers to human-readable
// labels; unknown categories fall back to the raw string.
var categoryLabels = map[string]string{
	"bug":             "Bug",
	"security":        "Security",
	"performance":     "Performance",
	"style":           "Style",
	"best-practice":   "Best Practice",
	"maintainability": "Maintainability",
	"documentation":   "Documentation",
}

// GenerateComments maps the admitted findings 1:1 onto review comments.
//
// A finding is admitted when its severity ranks at least as severe as the
// configured floor (rank <= rank(floor); the default floor of info admits
// everything) and its file matches no ignore pattern. Admitted findings are
// ordered most-severe-first and capped at the configured per-PR limit.
func (o *Orchestrator) GenerateComments(analysis *core.ReviewAnalysis, cfg core.ReviewConfig) []core.ReviewComment {
	floor := cfg.SeverityFloor
	if floor == "" {
		floor = core.SeverityInfo
	}

	admitted := make([]core.Finding, 0, len(analysis.Findings))
	for _, f := range analysis.Findings {
		if f.Severity.Rank() > floor.Rank() {
			continue
		}
		if instructions.AnyMatch(cfg.IgnorePatterns, f.File) {
			o.logger.Debug("finding excluded by ignore pattern", "file", f.File, "line", f.Line)
			continue
		}
		admitted = append(admitted, f)
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].Severity.Rank() < admitted[j].Severity.Rank()
	})

	if cfg.MaxCommentsPerPR >= 0 && len(admitted) > cfg.MaxCommentsPerPR {
		o.logger.Warn("capping review comments",
			"admitted", len(admitted),
			"limit", cfg.MaxCommentsPerPR,
		)
		admitted = admitted[:cfg.MaxCommentsPerPR]
	}

	comments := make([]core.ReviewComment, 0, len(admitted))
	for _, f := range admitted {
		comments = append(comments, core.ReviewComment{
			Path: f.File,
			Line: f.Line,
			Body: renderComment(f),
		})
	}
	return comments
}

func renderComment(f core.Finding) string {
	icon := severityIcons[f.Severity]
	label, ok := categoryLabels[strings.ToLower(f.Category)]
	if !ok {
		label = f.Category
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s**: %s", icon, label, f.Message)
	if f.Suggestion != "" {
		b.WriteString("\n\n```suggestion\n")
		b.WriteString(f.Suggestion)
		b.WriteString("\n```")
	}
	return b.String()
}
