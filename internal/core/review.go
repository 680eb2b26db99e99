package core

// Severity classifies how serious a finding is. The ordering is load-bearing:
// error ranks before warning ranks before info, and the severity floor admits
// anything at least as severe as itself.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank returns the position of the severity in the total order
// error(0) < warning(1) < info(2). Unknown severities rank after everything.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Valid reports whether s is one of the three accepted severities.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning || s == SeverityInfo
}

// ChangedFile holds the metadata and patch for a single file in a pull
// request, as reported by the host API.
type ChangedFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
	Changes   int
	Patch     string
}

// FileContext is one changed file prepared for review: its current content
// (possibly empty), the diff, and advisory static-analysis context.
type FileContext struct {
	Path     string
	Content  string
	Diff     string
	Language string

	Imports   []string
	Exports   []string
	TestPaths []string
}

// PRMeta carries the pull-request level context sent alongside the files.
type PRMeta struct {
	Number       int
	Title        string
	Description  string
	RepoFullName string
}

// ReviewRequest is the bundle handed to the review service: the packed file
// contexts plus PR metadata. TokenEstimate is guaranteed to be within the
// configured budget by construction.
type ReviewRequest struct {
	Files         []FileContext
	PR            PRMeta
	TokenEstimate int
	Truncated     bool
}

// Finding is one reviewer-identified problem, validated before use.
type Finding struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Category   string   `json:"category"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Stats carries the aggregate counters the review service reports with its
// findings.
type Stats struct {
	FilesReviewed int `json:"files_reviewed"`
	TotalFindings int `json:"total_findings"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
}

// ReviewAnalysis is the validated result of one structured review call.
type ReviewAnalysis struct {
	Summary  string
	Findings []Finding
	Stats    Stats
}

// ReviewComment is a posted annotation, derived 1:1 from a finding that
// passed severity and ignore-pattern filtering. It exists only as an outbound
// API payload.
type ReviewComment struct {
	Path string
	Line int
	Body string
}
