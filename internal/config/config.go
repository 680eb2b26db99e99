package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	LogLevel   slog.Level
	LogFormat  string

	GitHubAppID          int64
	GitHubWebhookSecret  string
	GitHubPrivateKeyPath string

	AnthropicAPIKey string
	ReviewModel     string

	// TokenBudget bounds the estimated size of the context sent per review.
	TokenBudget int
	// MaxFilesPerReview caps how many changed files one review considers.
	MaxFilesPerReview int

	// PolicyDefaultsPath optionally points at a yaml file overriding the
	// built-in review-policy defaults.
	PolicyDefaultsPath string
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/reviewthor-app.private-key.pem")
	viper.SetDefault("REVIEW_MODEL", "claude-sonnet-4-20250514")
	viper.SetDefault("TOKEN_BUDGET", 100000)
	viper.SetDefault("MAX_FILES_PER_REVIEW", 50)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("failed to read .env file, continuing with environment only", "error", err)
		}
	}

	if viper.GetInt64("GITHUB_APP_ID") == 0 {
		return nil, fmt.Errorf("GITHUB_APP_ID must be set")
	}
	if viper.GetString("GITHUB_WEBHOOK_SECRET") == "" {
		return nil, fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}
	if viper.GetString("ANTHROPIC_API_KEY") == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY must be set")
	}
	if viper.GetInt("TOKEN_BUDGET") <= 0 {
		return nil, fmt.Errorf("TOKEN_BUDGET must be positive")
	}
	if viper.GetInt("MAX_FILES_PER_REVIEW") <= 0 {
		return nil, fmt.Errorf("MAX_FILES_PER_REVIEW must be positive")
	}

	return &Config{
		ServerPort:           viper.GetString("SERVER_PORT"),
		LogLevel:             parseLogLevel(viper.GetString("LOG_LEVEL")),
		LogFormat:            viper.GetString("LOG_FORMAT"),
		GitHubAppID:          viper.GetInt64("GITHUB_APP_ID"),
		GitHubWebhookSecret:  viper.GetString("GITHUB_WEBHOOK_SECRET"),
		GitHubPrivateKeyPath: viper.GetString("GITHUB_PRIVATE_KEY_PATH"),
		AnthropicAPIKey:      viper.GetString("ANTHROPIC_API_KEY"),
		ReviewModel:          viper.GetString("REVIEW_MODEL"),
		TokenBudget:          viper.GetInt("TOKEN_BUDGET"),
		MaxFilesPerReview:    viper.GetInt("MAX_FILES_PER_REVIEW"),
		PolicyDefaultsPath:   viper.GetString("POLICY_DEFAULTS_PATH"),
	}, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}
