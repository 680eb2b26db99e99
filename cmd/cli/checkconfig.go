package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krejcif/reviewthor/internal/core"
	"github.com/krejcif/reviewthor/internal/instructions"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config [path]",
	Short: "Validate a .reviewthor review-policy document",
	Long: `Parse and validate a .reviewthor document without contacting GitHub.

Prints the preferences the server would extract, the problems it would
reject, and the effective policy after merging with the built-in defaults.

Examples:
  reviewthor check-config .reviewthor
  reviewthor check-config path/to/repo/.reviewthor`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckConfig,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	fragment := instructions.Parse(string(data))
	problems := instructions.Validate(fragment)

	_, _ = titleColor.Printf("Parsed %s\n\n", args[0])
	printList("Focus areas", fragment.FocusAreas)
	printList("Custom rules", fragment.CustomRules)
	printList("Ignore patterns", fragment.IgnorePatterns)
	if fragment.Severity != "" {
		fmt.Printf("Severity floor: %s\n", fragment.Severity)
	} else {
		_, _ = dimColor.Println("Severity floor: (unset, default applies)")
	}

	fmt.Println()
	if len(problems) > 0 {
		_, _ = errorColor.Printf("%d problem(s) found:\n", len(problems))
		for _, p := range problems {
			_, _ = warnColor.Println("  - " + p)
		}
		return fmt.Errorf("document has validation problems")
	}

	merged := instructions.Merge(fragment, core.DefaultReviewConfig())
	_, _ = successColor.Println("Document is valid.")
	fmt.Printf("Effective severity floor: %s, comment limit: %d\n", merged.SeverityFloor, merged.MaxCommentsPerPR)
	return nil
}

func printList(label string, items []string) {
	if len(items) == 0 {
		_, _ = dimColor.Printf("%s: (none)\n", label)
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range items {
		fmt.Println("  - " + item)
	}
}
