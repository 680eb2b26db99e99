package instructions

import "testing"

func TestValidPattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    bool
	}{
		{"vendor/**", true},
		{"src/*.js", true},
		{"file-name_v2.go", true},
		{"src/[abc].js", true},
		{"src/[!abc].js", true},
		{"{build}", true},
		{"", false},
		{"src/[abc.js", false},      // unbalanced bracket
		{"src/]abc[.js", false},     // negative depth
		{"src/{a.js", false},        // unbalanced brace
		{"src/}a{.js", false},       // negative brace depth
		{"src/a b.js", false},       // space outside allow-set
		{"src/$(rm).js", false},     // shell metacharacters
		{"src/{a,b}.js", false},     // comma is outside the allow-set
		{"path\\to\\file", false},   // backslash outside allow-set
		{"deep/a/b/c/**/*.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := ValidPattern(tt.pattern); got != tt.want {
				t.Errorf("ValidPattern(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		// Literals
		{"exact literal", "src/main.js", "src/main.js", true},
		{"literal mismatch", "src/main.js", "src/other.js", false},

		// Single star stays within one segment
		{"star matches within segment", "src/*.js", "src/main.js", true},
		{"star does not cross separator", "src/*.js", "src/nested/main.js", false},
		{"star matches empty run", "src/*main.js", "src/main.js", true},

		// Double star crosses segments
		{"double star matches zero segments", "test/**", "test", true},
		{"double star matches one segment", "test/**", "test/index.test.js", true},
		{"double star matches deep paths", "test/**", "test/unit/deep/case.js", true},
		{"double star in the middle", "src/**/index.js", "src/a/b/index.js", true},
		{"double star middle zero segments", "src/**/index.js", "src/index.js", true},
		{"double star wrong leaf", "src/**/index.js", "src/a/main.js", false},

		// Question mark
		{"question matches one char", "file?.js", "file1.js", true},
		{"question needs exactly one", "file?.js", "file.js", false},

		// Character classes
		{"class match", "file[12].js", "file1.js", true},
		{"class non-match", "file[12].js", "file3.js", false},
		{"class range", "file[0-9].js", "file7.js", true},
		{"negated class", "file[!0-9].js", "fileX.js", true},
		{"negated class rejects member", "file[!0-9].js", "file3.js", false},

		// Degenerate input
		{"empty pattern matches nothing", "", "src/main.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchGlob(tt.pattern, tt.path); got != tt.want {
				t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestAnyMatch(t *testing.T) {
	patterns := []string{"vendor/**", "test/**"}

	if !AnyMatch(patterns, "test/index.test.js") {
		t.Error("expected test/index.test.js to match test/**")
	}
	if AnyMatch(patterns, "src/index.js") {
		t.Error("src/index.js must not match any pattern")
	}
	if AnyMatch(nil, "anything") {
		t.Error("empty pattern list matches nothing")
	}
}
