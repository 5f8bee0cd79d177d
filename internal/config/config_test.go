package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.OPBin != "op" {
		t.Errorf("OPBin = %q, want op", cfg.OPBin)
	}
	if cfg.OutputCSV != "1password_team_users.csv" {
		t.Errorf("OutputCSV = %q, want 1password_team_users.csv", cfg.OutputCSV)
	}
	if cfg.Licenses.Total != 3000 {
		t.Errorf("Licenses.Total = %d, want 3000", cfg.Licenses.Total)
	}
	if len(cfg.Licenses.CountedStates) != 2 {
		t.Fatalf("CountedStates = %v, want 2 entries", cfg.Licenses.CountedStates)
	}
	if cfg.Slack.Timeout != 30*time.Second {
		t.Errorf("Slack.Timeout = %v, want 30s", cfg.Slack.Timeout)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPTEAM_HOME", t.TempDir())
	t.Setenv("OP_SERVICE_ACCOUNT_TOKEN", "ops_test_token")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	t.Setenv("OUTPUT_CSV", "custom.csv")
	t.Setenv("OPTEAM_TOTAL_LICENSES", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Token != "ops_test_token" {
		t.Errorf("Token = %q, want ops_test_token", cfg.Token)
	}
	if cfg.Slack.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Slack.WebhookURL)
	}
	if cfg.OutputCSV != "custom.csv" {
		t.Errorf("OutputCSV = %q, want custom.csv", cfg.OutputCSV)
	}
	if cfg.Licenses.Total != 50 {
		t.Errorf("Licenses.Total = %d, want 50", cfg.Licenses.Total)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("OPTEAM_HOME", home)
	t.Setenv("OP_SERVICE_ACCOUNT_TOKEN", "")
	t.Setenv("OPTEAM_TOTAL_LICENSES", "")

	content := `op_bin: /usr/local/bin/op
licenses:
  total: 120
  counted_states: [ACTIVE]
history:
  enabled: false
`
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OPBin != "/usr/local/bin/op" {
		t.Errorf("OPBin = %q", cfg.OPBin)
	}
	if cfg.Licenses.Total != 120 {
		t.Errorf("Licenses.Total = %d, want 120", cfg.Licenses.Total)
	}
	if len(cfg.Licenses.CountedStates) != 1 || cfg.Licenses.CountedStates[0] != "ACTIVE" {
		t.Errorf("CountedStates = %v, want [ACTIVE]", cfg.Licenses.CountedStates)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("OPTEAM_HOME", home)
	t.Setenv("OPTEAM_TOTAL_LICENSES", "75")

	content := "licenses:\n  total: 120\n  counted_states: [ACTIVE]\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Licenses.Total != 75 {
		t.Errorf("Licenses.Total = %d, want env override 75", cfg.Licenses.Total)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"empty op bin", func(c *Config) { c.OPBin = "" }, true},
		{"negative total", func(c *Config) { c.Licenses.Total = -1 }, true},
		{"zero total allowed", func(c *Config) { c.Licenses.Total = 0 }, false},
		{"empty state set", func(c *Config) { c.Licenses.CountedStates = nil }, true},
		{"blank state entry", func(c *Config) { c.Licenses.CountedStates = []string{"ACTIVE", ""} }, true},
		{"bad webhook url", func(c *Config) { c.Slack.WebhookURL = "not a url" }, true},
		{"valid webhook url", func(c *Config) { c.Slack.WebhookURL = "https://hooks.slack.com/x" }, false},
		{"negative timeout", func(c *Config) { c.Slack.Timeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("OPTEAM_HOME", t.TempDir())
	t.Setenv("OPTEAM_TOTAL_LICENSES", "")
	t.Setenv("SLACK_WEBHOOK_URL", "")
	t.Setenv("OUTPUT_CSV", "")

	cfg := Default()
	cfg.Licenses.Total = 42
	cfg.Slack.WebhookURL = "https://hooks.slack.com/services/T/B/Y"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Licenses.Total != 42 {
		t.Errorf("Licenses.Total = %d, want 42", loaded.Licenses.Total)
	}
	if loaded.Slack.WebhookURL != cfg.Slack.WebhookURL {
		t.Errorf("WebhookURL = %q, want %q", loaded.Slack.WebhookURL, cfg.Slack.WebhookURL)
	}
}

func TestHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("OPTEAM_HOME", home)

	cfg := Default()
	want := filepath.Join(home, "data", "opteam.db")
	if got := cfg.HistoryPath(); got != want {
		t.Errorf("HistoryPath() = %q, want %q", got, want)
	}

	cfg.History.Path = "/tmp/custom.db"
	if got := cfg.HistoryPath(); got != "/tmp/custom.db" {
		t.Errorf("HistoryPath() = %q, want custom path", got)
	}
}
