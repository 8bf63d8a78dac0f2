// Copyright 2025 Frederick Pellerin
//
// Use of this source code is governed by the MIT license
// found in the LICENSE file.

// Package config provides configuration management for pullpal with a
// well-defined precedence order:
//
//  1. Command-line flags
//  2. Environment variables (including a .env file in the working directory)
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files with automatic discovery in
// standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources in precedence order.
// If configPath is provided, it loads from that specific file. Otherwise it
// searches standard locations:
//   - .pullpal.yaml (current directory)
//   - .pullpal.yml (current directory)
//   - ~/.pullpal/config.yaml
//
// Environment variables are applied after the config file, allowing runtime
// overrides. Returns an error if an explicitly specified config file cannot
// be loaded, but succeeds with defaults when no file is found.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".pullpal.yaml",
			".pullpal.yml",
			filepath.Join(os.Getenv("HOME"), ".pullpal", "config.yaml"),
		}
		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadDotenv loads a .env file from the working directory into the process
// environment, matching the behavior users expect for GITHUB_TOKEN. A
// missing file is not an error; explicit environment variables win over
// .env entries.
func LoadDotenv() {
	_ = godotenv.Load()
}

// ResolveToken returns the GitHub token: the flag value when set, otherwise
// the environment variable named by the config. An empty result means
// unauthenticated access, which is allowed at a lower rate limit.
func (c *Config) ResolveToken(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if pageSize := os.Getenv("PULLPAL_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if dir := os.Getenv("PULLPAL_OUTPUT_DIR"); dir != "" {
		cfg.Defaults.OutputDir = dir
	}
	if workers := os.Getenv("PULLPAL_WORKERS"); workers != "" {
		if n, err := parsePositiveInt(workers); err == nil {
			cfg.Defaults.Workers = n
		}
	}
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from %q: %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// Validate checks if the configuration contains valid values. It should be
// called after loading configuration to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("page size %d exceeds GitHub API limit of 100", c.Defaults.PageSize)
	}
	if c.Defaults.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got: %d", c.Defaults.Workers)
	}
	if c.Defaults.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %d", c.Defaults.RequestTimeoutSeconds)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.Defaults.OutputFormat != "md" && c.Defaults.OutputFormat != "json" {
		return fmt.Errorf("output format must be md or json, got: %q", c.Defaults.OutputFormat)
	}
	if c.RateLimit.MaxRetries < 0 {
		return fmt.Errorf("rate limit max retries cannot be negative, got: %d", c.RateLimit.MaxRetries)
	}
	return nil
}
