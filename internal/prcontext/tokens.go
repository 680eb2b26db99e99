package prcontext

import "github.com/krejcif/reviewthor/internal/core"

// Token estimation is a deterministic size proxy, not a real tokenizer:
// character count divided by an average characters-per-token constant,
// rounded up, with small flat overheads for per-file and per-PR metadata.
// It only has to be stable and conservative enough for budget packing.
const (
	charsPerToken     = 4
	fileOverheadChars = 50
	prOverheadChars   = 200
)

// EstimateFileTokens estimates the model-input cost of one file context.
func EstimateFileTokens(f core.FileContext) int {
	chars := len(f.Path) + len(f.Content) + len(f.Diff) + fileOverheadChars
	return ceilDiv(chars, charsPerToken)
}

// EstimatePRTokens estimates the cost of the pull-request metadata.
func EstimatePRTokens(pr core.PRMeta) int {
	chars := len(pr.Title) + len(pr.Description) + prOverheadChars
	return ceilDiv(chars, charsPerToken)
}

// EstimateTotalTokens estimates the full context: PR metadata plus all files.
func EstimateTotalTokens(files []core.FileContext, pr core.PRMeta) int {
	total := EstimatePRTokens(pr)
	for _, f := range files {
		total += EstimateFileTokens(f)
	}
	return total
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
