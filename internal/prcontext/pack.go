package prcontext

import "github.com/krejcif/reviewthor/internal/core"

// truncationMarker is appended to a diff that had to be clipped so the model
// knows the context is incomplete.
const truncationMarker = "\n... [diff truncated to fit review budget]"

// Pack fits the file contexts and PR metadata under a token budget.
//
// If the full context already fits, the input is returned unmodified. When it
// does not, files are kept whole in original order until the first file that
// would overflow the budget; that file is truncated in place. Content is
// dropped before the diff is touched, because the diff carries the
// higher-value signal, and the diff itself is clipped to the remaining
// character allowance when even it cannot fit. No file after the truncation
// point is included.
//
// When truncation occurred the reported token count saturates at exactly the
// budget rather than being recounted.
func Pack(files []core.FileContext, pr core.PRMeta, budgetTokens int) core.ReviewRequest {
	total := EstimateTotalTokens(files, pr)
	if total <= budgetTokens {
		return core.ReviewRequest{
			Files:         files,
			PR:            pr,
			TokenEstimate: total,
			Truncated:     false,
		}
	}

	running := EstimatePRTokens(pr)
	packed := make([]core.FileContext, 0, len(files))

	for _, f := range files {
		cost := EstimateFileTokens(f)
		if running+cost <= budgetTokens {
			packed = append(packed, f)
			running += cost
			continue
		}

		// First overflowing file: degrade it in place and stop.
		f.Content = ""
		if running+EstimateFileTokens(f) > budgetTokens {
			remainingChars := (budgetTokens-running)*charsPerToken - len(f.Path) - fileOverheadChars
			if remainingChars < 0 {
				remainingChars = 0
			}
			if remainingChars < len(f.Diff) {
				f.Diff = f.Diff[:remainingChars] + truncationMarker
			}
		}
		packed = append(packed, f)
		break
	}

	return core.ReviewRequest{
		Files:         packed,
		PR:            pr,
		TokenEstimate: budgetTokens,
		Truncated:     true,
	}
}
