package review

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/krejcif/reviewthor/internal/core"
)

// parseAnalysis validates the review service's response against the output
// contract. Each rule is a distinct failure, checked in order:
//
//  1. the body must parse as JSON (the parse error's message is preserved,
//     falling back to "Unknown error" when there is none);
//  2. the parsed value must be a non-null object;
//  3. it must contain a findings sequence;
//  4. it must contain a non-empty summary string;
//  5. it must contain a stats object;
//  6. every finding must carry file, line, severity, message and category;
//     one bad finding fails the whole response, not just that item;
//  7. every severity must be one of error, warning, info.
func parseAnalysis(body string) (*core.ReviewAnalysis, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripJSONFence(body)), &raw); err != nil {
		reason := err.Error()
		if reason == "" {
			reason = "Unknown error"
		}
		return nil, &core.ResponseFormatError{Reason: reason}
	}
	if raw == nil {
		return nil, &core.ResponseFormatError{Reason: "response is not an object"}
	}

	findingsRaw, ok := raw["findings"]
	if !ok {
		return nil, &core.ResponseFormatError{Reason: "response has no findings list"}
	}
	var findings []json.RawMessage
	if err := json.Unmarshal(findingsRaw, &findings); err != nil {
		return nil, &core.ResponseFormatError{Reason: "findings is not a list"}
	}

	var summary string
	if err := json.Unmarshal(raw["summary"], &summary); err != nil || summary == "" {
		return nil, &core.ResponseFormatError{Reason: "response has no summary"}
	}

	statsRaw, ok := raw["stats"]
	if !ok {
		return nil, &core.ResponseFormatError{Reason: "response has no stats object"}
	}
	var statsObj map[string]json.RawMessage
	if err := json.Unmarshal(statsRaw, &statsObj); err != nil || statsObj == nil {
		return nil, &core.ResponseFormatError{Reason: "stats is not an object"}
	}
	var stats core.Stats
	// Field values inside stats are advisory counters; shape was checked above.
	_ = json.Unmarshal(statsRaw, &stats)

	analysis := &core.ReviewAnalysis{
		Summary:  summary,
		Findings: make([]core.Finding, 0, len(findings)),
		Stats:    stats,
	}

	for i, fr := range findings {
		finding, err := parseFinding(fr)
		if err != nil {
			return nil, &core.ResponseFormatError{
				Reason: fmt.Sprintf("finding %d: %v", i, err),
			}
		}
		analysis.Findings = append(analysis.Findings, finding)
	}

	return analysis, nil
}

func parseFinding(raw json.RawMessage) (core.Finding, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return core.Finding{}, fmt.Errorf("not an object")
	}
	for _, required := range []string{"file", "line", "severity", "message", "category"} {
		if _, ok := fields[required]; !ok {
			return core.Finding{}, fmt.Errorf("missing required field %q", required)
		}
	}

	var f core.Finding
	if err := json.Unmarshal(raw, &f); err != nil {
		return core.Finding{}, fmt.Errorf("malformed fields: %v", err)
	}
	if f.File == "" {
		return core.Finding{}, fmt.Errorf("file is empty")
	}
	if f.Line < 1 {
		return core.Finding{}, fmt.Errorf("line must be >= 1, got %d", f.Line)
	}
	if f.Message == "" {
		return core.Finding{}, fmt.Errorf("message is empty")
	}
	if !f.Severity.Valid() {
		return core.Finding{}, fmt.Errorf("severity %q is not one of error, warning, info", f.Severity)
	}
	return f, nil
}

// stripJSONFence removes a ```json ... ``` wrapper some models add around
// their output even when asked for bare JSON.
func stripJSONFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if last := strings.LastIndex(inner, "```"); last >= 0 {
		inner = inner[:last]
	}
	return strings.TrimSpace(inner)
}
