// Package config manages opteam configuration.
//
// Configuration is layered: built-in defaults, then the YAML config file at
// ~/.opteam/config.yaml, then environment variables. The resolved Config is
// built once at startup and injected into components; nothing else reads the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// TokenEnvVar is the environment variable the op CLI itself reads for
// service-account authentication. opteam injects the resolved token under
// this name when spawning op.
const TokenEnvVar = "OP_SERVICE_ACCOUNT_TOKEN"

// Config holds the resolved opteam configuration.
type Config struct {
	// OPBin is the op CLI binary to invoke. Name or absolute path.
	OPBin string `yaml:"op_bin"`

	// OutputCSV is the default path for user exports.
	OutputCSV string `yaml:"output_csv"`

	Licenses LicenseConfig `yaml:"licenses"`
	Slack    SlackConfig   `yaml:"slack"`
	History  HistoryConfig `yaml:"history"`

	// Token is the service account token resolved from the environment or
	// the interactive file prompt. Never written to the config file.
	Token string `yaml:"-"`
}

// LicenseConfig holds seat accounting settings.
type LicenseConfig struct {
	// Total is the number of allocated seat licenses.
	Total int `yaml:"total"`

	// CountedStates are the account states that consume a license.
	// Matching is exact and case-sensitive.
	CountedStates []string `yaml:"counted_states"`
}

// SlackConfig holds webhook notification settings.
type SlackConfig struct {
	// WebhookURL is the incoming-webhook endpoint for license alerts.
	WebhookURL string `yaml:"webhook_url"`

	// Timeout bounds a single webhook delivery.
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig holds snapshot history settings.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file. Empty means the default under the
	// opteam home directory.
	Path string `yaml:"path,omitempty"`
}

// envOverrides is the environment surface, parsed into an explicit struct
// rather than read ad hoc.
type envOverrides struct {
	Token         string `env:"OP_SERVICE_ACCOUNT_TOKEN"`
	WebhookURL    string `env:"SLACK_WEBHOOK_URL"`
	OutputCSV     string `env:"OUTPUT_CSV"`
	TotalLicenses int    `env:"OPTEAM_TOTAL_LICENSES" envDefault:"-1"`
	OPBin         string `env:"OPTEAM_OP_BIN"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OPBin:     "op",
		OutputCSV: "1password_team_users.csv",
		Licenses: LicenseConfig{
			Total:         3000,
			CountedStates: []string{"ACTIVE", "RECOVERY_STARTED"},
		},
		Slack: SlackConfig{
			Timeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Home returns the opteam home directory, honoring OPTEAM_HOME.
func Home() string {
	if home := os.Getenv("OPTEAM_HOME"); home != "" {
		return home
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".opteam"
	}
	return filepath.Join(homeDir, ".opteam")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Home(), "config.yaml")
}

// Load builds the resolved configuration: defaults, then the config file if
// present, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.apply(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) apply(o envOverrides) {
	if o.Token != "" {
		c.Token = o.Token
	}
	if o.WebhookURL != "" {
		c.Slack.WebhookURL = o.WebhookURL
	}
	if o.OutputCSV != "" {
		c.OutputCSV = o.OutputCSV
	}
	if o.TotalLicenses >= 0 {
		c.Licenses.Total = o.TotalLicenses
	}
	if o.OPBin != "" {
		c.OPBin = o.OPBin
	}
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.OPBin == "" {
		return fmt.Errorf("op_bin must not be empty")
	}
	if c.Licenses.Total < 0 {
		return fmt.Errorf("licenses.total cannot be negative")
	}
	if len(c.Licenses.CountedStates) == 0 {
		return fmt.Errorf("licenses.counted_states must not be empty")
	}
	for i, s := range c.Licenses.CountedStates {
		if s == "" {
			return fmt.Errorf("licenses.counted_states[%d] is empty", i)
		}
	}
	if c.Slack.WebhookURL != "" {
		u, err := url.Parse(c.Slack.WebhookURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("slack.webhook_url is not a valid URL: %q", c.Slack.WebhookURL)
		}
	}
	if c.Slack.Timeout < 0 {
		return fmt.Errorf("slack.timeout cannot be negative")
	}
	return nil
}

// HistoryPath returns the snapshot database path, applying the default
// location when unset.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(Home(), "data", "opteam.db")
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	configPath := Path()
	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# opteam configuration\n\n")
	data = append(header, data...)

	// Atomic write: write to temp file then rename.
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp config file: %w", err)
	}

	return nil
}
