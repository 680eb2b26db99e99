package prcontext

import (
	"path"
	"regexp"
	"strings"
)

// Related holds best-effort static context discovered for one file. It is
// advisory input for the model, never authoritative: malformed or absent
// source text simply yields empty collections.
type Related struct {
	Imports   []string
	Exports   []string
	TestPaths []string
}

var (
	jsImportRegex  = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w${},*\s]+\s+from\s+)?['"]([^'"]+)['"]`)
	requireRegex   = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	goImportRegex  = regexp.MustCompile(`(?m)^\s*(?:import\s+)?(?:[\w.]+\s+)?"([^"]+)"`)
	pyImportRegex  = regexp.MustCompile(`(?m)^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)
	jsExportRegex  = regexp.MustCompile(`(?m)^\s*export\s+(?:default\s+)?(?:async\s+)?(?:function|class|const|let|var)\s+([A-Za-z_$][\w$]*)`)
	moduleExpRegex = regexp.MustCompile(`module\.exports(?:\.([A-Za-z_$][\w$]*))?\s*=`)
)

// DiscoverRelated scans source text for import statements, exported names and
// conventional test-file path candidates. Scanning is plain text matching,
// not parsing; it tolerates anything.
func DiscoverRelated(filePath, content string) Related {
	related := Related{TestPaths: candidateTestPaths(filePath)}
	if content == "" {
		return related
	}

	switch DetectLanguage(filePath) {
	case "javascript", "typescript":
		for _, m := range jsImportRegex.FindAllStringSubmatch(content, -1) {
			related.Imports = appendUnique(related.Imports, m[1])
		}
		for _, m := range requireRegex.FindAllStringSubmatch(content, -1) {
			related.Imports = appendUnique(related.Imports, m[1])
		}
		for _, m := range jsExportRegex.FindAllStringSubmatch(content, -1) {
			related.Exports = appendUnique(related.Exports, m[1])
		}
		if strings.Contains(content, "export default") {
			related.Exports = appendUnique(related.Exports, "default")
		}
		for _, m := range moduleExpRegex.FindAllStringSubmatch(content, -1) {
			name := m[1]
			if name == "" {
				name = "default"
			}
			related.Exports = appendUnique(related.Exports, name)
		}
	case "go":
		inBlock := false
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(trimmed, "import ("):
				inBlock = true
			case inBlock && trimmed == ")":
				inBlock = false
			case inBlock || strings.HasPrefix(trimmed, "import "):
				if m := goImportRegex.FindStringSubmatch(trimmed); m != nil {
					related.Imports = appendUnique(related.Imports, m[1])
				}
			}
		}
	case "python":
		for _, m := range pyImportRegex.FindAllStringSubmatch(content, -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			related.Imports = appendUnique(related.Imports, name)
		}
	}

	return related
}

// candidateTestPaths derives conventional test-file locations by suffix
// substitution. The candidates are guesses; callers must tolerate paths that
// do not exist.
func candidateTestPaths(filePath string) []string {
	ext := path.Ext(filePath)
	if ext == "" {
		return nil
	}
	base := strings.TrimSuffix(filePath, ext)
	dir, name := path.Split(base)

	switch DetectLanguage(filePath) {
	case "javascript", "typescript":
		if strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".spec") {
			return nil
		}
		return []string{
			base + ".test" + ext,
			base + ".spec" + ext,
			dir + "__tests__/" + name + ext,
		}
	case "go":
		if strings.HasSuffix(base, "_test") {
			return nil
		}
		return []string{base + "_test" + ext}
	case "python":
		if strings.HasPrefix(name, "test_") {
			return nil
		}
		return []string{dir + "test_" + name + ext}
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
