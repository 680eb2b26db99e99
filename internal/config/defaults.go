package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/krejcif/reviewthor/internal/core"
)

var (
	ErrDefaultsNotFound = errors.New("policy defaults file not found")
	ErrDefaultsParsing  = errors.New("policy defaults parsing failed")
)

// LoadPolicyDefaults loads a server-side review-policy defaults file. The
// file is optional: an empty path or a missing file yields the built-in
// defaults. Repository .reviewthor documents are merged on top of whatever
// this returns.
func LoadPolicyDefaults(path string) (core.ReviewConfig, error) {
	defaults := core.DefaultReviewConfig()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, ErrDefaultsNotFound
		}
		return defaults, fmt.Errorf("failed to read policy defaults from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return core.DefaultReviewConfig(), fmt.Errorf("%w: %w", ErrDefaultsParsing, err)
	}
	if !defaults.SeverityFloor.Valid() {
		defaults.SeverityFloor = core.SeverityInfo
	}
	if defaults.MaxCommentsPerPR < 0 {
		defaults.MaxCommentsPerPR = 0
	}
	return defaults, nil
}
