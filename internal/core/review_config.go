package core

// ReviewConfig is the effective review policy for one repository, built per
// invocation by merging built-in defaults with the repository's .reviewthor
// document. It is never persisted.
type ReviewConfig struct {
	FocusAreas       []string `yaml:"focus_areas"`
	CustomRules      []string `yaml:"custom_rules"`
	IgnorePatterns   []string `yaml:"ignore_patterns"`
	SeverityFloor    Severity `yaml:"severity_floor"`
	MaxCommentsPerPR int      `yaml:"max_comments_per_pr"`

	// EnabledChecks comes from server defaults only; repositories cannot
	// override it in this version.
	EnabledChecks []string `yaml:"enabled_checks"`
}

// DefaultReviewConfig returns the built-in review policy. The severity floor
// defaults to info, the maximally permissive setting.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		FocusAreas: []string{
			"correctness",
			"security",
			"performance",
		},
		CustomRules:      []string{},
		IgnorePatterns:   []string{},
		SeverityFloor:    SeverityInfo,
		MaxCommentsPerPR: 25,
		EnabledChecks: []string{
			"bug",
			"security",
			"performance",
			"style",
			"best-practice",
		},
	}
}
