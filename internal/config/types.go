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

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure for sirseer-ghas.
type Config struct {
	GitHub      GitHubConfig                `yaml:"github"`
	Defaults    DefaultsConfig              `yaml:"defaults"`
	Enterprises map[string]EnterpriseConfig `yaml:"enterprises"`
}

// GitHubConfig contains GitHub API connection settings.
type GitHubConfig struct {
	// APIEndpoint is the REST API base URL (useful for GitHub Enterprise Server)
	APIEndpoint string `yaml:"api_endpoint"`

	// GraphQLEndpoint is the GraphQL API URL used for the enterprise lookup
	GraphQLEndpoint string `yaml:"graphql_endpoint"`

	// TokenEnv names the environment variable holding the token
	TokenEnv string `yaml:"token_env"`
}

// DefaultsConfig contains default values for command options.
type DefaultsConfig struct {
	// OutputFormat is one of json, ndjson or xlsx
	OutputFormat string `yaml:"output_format"`

	// Timeout bounds a whole run. Zero disables it.
	Timeout Duration `yaml:"timeout"`

	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level"`

	// MetadataDir enables fetch metadata files when non-empty
	MetadataDir string `yaml:"metadata_dir"`
}

// EnterpriseConfig holds per-enterprise overrides, keyed by enterprise slug.
type EnterpriseConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// Duration is a time.Duration written as a Go duration string ("5m", "90s").
type Duration time.Duration

// UnmarshalYAML accepts duration strings and bare integers (seconds).
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ParseDuration parses a Go duration string. A bare integer is read as seconds.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
		Defaults: DefaultsConfig{
			OutputFormat: "json",
			Timeout:      Duration(5 * time.Minute),
			LogLevel:     "info",
		},
		Enterprises: make(map[string]EnterpriseConfig),
	}
}
