// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for sirseer-ghas with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (including a .env file in the working directory)
//  3. Enterprise-specific configuration
//  4. Global configuration file
//  5. Built-in defaults
//
// Configuration files are discovered in the working directory
// (.sirseer-ghas.yaml) and in ~/.sirseer/ghas.yaml unless a path is given.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DotEnvFile is loaded from the working directory before environment
// overrides are applied. Variables already set in the environment win.
const DotEnvFile = ".env"

// LoadConfig loads configuration from file, environment variables, and defaults.
// If configPath is empty, it searches for config in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigForEnterprise(configPath, "")
}

// LoadConfigForEnterprise loads configuration with enterprise-specific overrides.
func LoadConfigForEnterprise(configPath, enterprise string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home, _ := os.UserHomeDir()
		defaultPaths := []string{
			".sirseer-ghas.yaml",
			".sirseer-ghas.yml",
			filepath.Join(home, ".sirseer", "ghas.yaml"),
			filepath.Join(home, ".sirseer", "ghas.yml"),
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

	if ent, ok := cfg.Enterprises[enterprise]; ok && enterprise != "" {
		if ent.APIEndpoint != "" {
			cfg.GitHub.APIEndpoint = ent.APIEndpoint
		}
		if ent.GraphQLEndpoint != "" {
			cfg.GitHub.GraphQLEndpoint = ent.GraphQLEndpoint
		}
		if ent.TokenEnv != "" {
			cfg.GitHub.TokenEnv = ent.TokenEnv
		}
	}

	if err := LoadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Defaults.MetadataDir = expandPath(cfg.Defaults.MetadataDir)

	return cfg, nil
}

// LoadDotEnv loads variables from path without overriding the environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfigFile reads and parses a YAML configuration file.
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

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if format := os.Getenv("SIRSEER_OUTPUT_FORMAT"); format != "" {
		cfg.Defaults.OutputFormat = format
	}
	if timeout := os.Getenv("SIRSEER_TIMEOUT"); timeout != "" {
		d, err := ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid SIRSEER_TIMEOUT: %w", err)
		}
		cfg.Defaults.Timeout = Duration(d)
	}
	if level := os.Getenv("SIRSEER_LOG_LEVEL"); level != "" {
		cfg.Defaults.LogLevel = level
	}
	if dir := os.Getenv("SIRSEER_METADATA_DIR"); dir != "" {
		cfg.Defaults.MetadataDir = dir
	}
	return nil
}

// expandPath expands ~ to the user's home directory and environment variables.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Token returns the token named by GitHub.TokenEnv, or "".
func (c *Config) Token() string {
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}

// TimeoutDuration returns the configured run timeout.
func (c *Config) TimeoutDuration() time.Duration {
	return time.Duration(c.Defaults.Timeout)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	switch strings.ToLower(c.Defaults.OutputFormat) {
	case "json", "ndjson", "xlsx":
	default:
		return fmt.Errorf("unsupported output format %q", c.Defaults.OutputFormat)
	}
	if c.Defaults.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got: %s", time.Duration(c.Defaults.Timeout))
	}
	return nil
}
