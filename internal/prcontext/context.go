// Package prcontext builds the bounded-size review payload for a pull
// request: per-file diff and content packaging, language detection, related
// file discovery, and token-budget-aware truncation.
package prcontext

import (
	"path"
	"strings"

	"github.com/krejcif/reviewthor/internal/core"
)

// languageByExt maps file extensions to language names for the prompt.
// Unknown extensions map to "unknown"; detection is a pure lookup, nothing
// inspects file contents.
var languageByExt = map[string]string{
	".js":    "javascript",
	".jsx":   "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".go":    "go",
	".py":    "python",
	".rb":    "ruby",
	".java":  "java",
	".kt":    "kotlin",
	".rs":    "rust",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".scala": "scala",
	".sh":    "shell",
	".sql":   "sql",
}

// DetectLanguage returns the language for a file path based on its extension.
func DetectLanguage(filePath string) string {
	if lang, ok := languageByExt[strings.ToLower(path.Ext(filePath))]; ok {
		return lang
	}
	return "unknown"
}

// IsSourceFile reports whether the path has an extension the review pipeline
// considers source code. Lockfiles, images and generated artifacts are not
// worth model tokens.
func IsSourceFile(filePath string) bool {
	_, ok := languageByExt[strings.ToLower(path.Ext(filePath))]
	return ok
}

// BuildFileContext prepares one changed file for review. Content may be empty
// (for removed files, or when the fetch came back not-found); the diff is
// taken from the host-provided patch. Related-file discovery is advisory and
// never fails.
func BuildFileContext(file core.ChangedFile, content string) core.FileContext {
	related := DiscoverRelated(file.Path, content)
	return core.FileContext{
		Path:      file.Path,
		Content:   content,
		Diff:      file.Patch,
		Language:  DetectLanguage(file.Path),
		Imports:   related.Imports,
		Exports:   related.Exports,
		TestPaths: related.TestPaths,
	}
}

// BuildPRContext extracts the pull-request metadata sent alongside the files.
func BuildPRContext(event *core.WebhookEvent) core.PRMeta {
	return core.PRMeta{
		Number:       event.PRNumber,
		Title:        event.PRTitle,
		Description:  event.PRBody,
		RepoFullName: event.RepoFullName(),
	}
}
