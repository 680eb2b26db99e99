package instructions

import "strings"

// ValidPattern reports whether an ignore pattern is syntactically acceptable.
// The check is intentionally conservative: it accepts well-formed globs, not
// necessarily logically sane ones. A pattern is rejected when its square
// brackets or braces are unbalanced or go negative-depth when scanned left to
// right, or when it contains any character outside the allow-set
// [A-Za-z0-9-_.*/?[]!{}].
func ValidPattern(pattern string) bool {
	if pattern == "" {
		return false
	}

	bracket := 0
	brace := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.' || c == '*' || c == '/' || c == '?' || c == '!':
		case c == '[':
			bracket++
		case c == ']':
			bracket--
			if bracket < 0 {
				return false
			}
		case c == '{':
			brace++
		case c == '}':
			brace--
			if brace < 0 {
				return false
			}
		default:
			return false
		}
	}
	return bracket == 0 && brace == 0
}

// MatchGlob matches a path against a glob pattern with the grammar: literal
// characters, '*' (any run within one path segment), '**' (any run of whole
// segments, including none), '?' (one character), and '[class]' with optional
// '!' negation and ranges.
//
// The matcher is deliberately an isolated pure function so that ignore
// filtering never grows its own ad hoc pattern handling.
func MatchGlob(pattern, path string) bool {
	if pattern == "" {
		return false
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(path, "/"))
}

func matchSegments(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], parts) {
			return true
		}
		return len(parts) > 0 && matchSegments(pat, parts[1:])
	}
	if len(parts) == 0 {
		return false
	}
	return matchSegment(pat[0], parts[0]) && matchSegments(pat[1:], parts[1:])
}

// matchSegment matches a single path segment; '*' and '?' never cross a '/'.
func matchSegment(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '*':
		for i := 0; i <= len(s); i++ {
			if matchSegment(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	case '?':
		return s != "" && matchSegment(pattern[1:], s[1:])
	case '[':
		if s == "" {
			return false
		}
		ok, rest := matchClass(pattern, s[0])
		return ok && matchSegment(rest, s[1:])
	default:
		return s != "" && s[0] == pattern[0] && matchSegment(pattern[1:], s[1:])
	}
}

// matchClass evaluates a '[...]' class against one byte and returns the
// remainder of the pattern after the closing bracket. An unterminated class
// never matches; ValidPattern screens those out before matching anyway.
func matchClass(pattern string, c byte) (bool, string) {
	i := 1
	negate := false
	if i < len(pattern) && pattern[i] == '!' {
		negate = true
		i++
	}

	matched := false
	for i < len(pattern) && pattern[i] != ']' {
		lo := pattern[i]
		if i+2 < len(pattern) && pattern[i+1] == '-' && pattern[i+2] != ']' {
			if lo <= c && c <= pattern[i+2] {
				matched = true
			}
			i += 3
			continue
		}
		if c == lo {
			matched = true
		}
		i++
	}
	if i >= len(pattern) {
		return false, ""
	}
	return matched != negate, pattern[i+1:]
}

// AnyMatch reports whether any pattern in the list matches the path.
func AnyMatch(patterns []string, path string) bool {
	for _, p := range patterns {
		if MatchGlob(p, path) {
			return true
		}
	}
	return false
}
