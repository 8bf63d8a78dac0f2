// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

package config

// Config represents the complete configuration for pullpal. It consolidates
// settings from the config file, environment variables, and built-in
// defaults into one structure threaded through the application.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// GitHubConfig contains GitHub-specific settings. A custom API endpoint
// supports GitHub Enterprise deployments; TokenEnv names the environment
// variable consulted for the access token.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
	TokenEnv    string `yaml:"token_env"`
}

// DefaultsConfig contains default settings for fetch operations unless
// overridden by command-line flags.
type DefaultsConfig struct {
	// PageSize is the per_page value for paginated endpoints, max 100.
	PageSize int `yaml:"page_size"`

	// OutputDir is where conversation files are written.
	OutputDir string `yaml:"output_dir"`

	// OutputFormat is "md" or "json".
	OutputFormat string `yaml:"output_format"`

	// RequestTimeoutSeconds bounds each HTTP request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// Workers bounds concurrent pull request assembly.
	Workers int `yaml:"workers"`
}

// RateLimitConfig controls rate-limit handling: how many times a
// rate-limited fetch is retried after waiting for the reset, at what
// remaining budget the client preemptively backs off, and how requests
// are paced.
type RateLimitConfig struct {
	MaxRetries        int     `yaml:"max_retries"`
	BudgetThreshold   int     `yaml:"budget_threshold"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DefaultConfig returns a Config with sensible defaults for public
// GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:              100,
			OutputDir:             "pr-conversation",
			OutputFormat:          "md",
			RequestTimeoutSeconds: 30,
			Workers:               1,
		},
		RateLimit: RateLimitConfig{
			MaxRetries:        2,
			BudgetThreshold:   8,
			RequestsPerSecond: 0,
		},
	}
}
