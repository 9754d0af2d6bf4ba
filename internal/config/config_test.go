package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Owner != DefaultOwner || cfg.Repository != DefaultRepository {
		t.Errorf("repo = %s/%s, want %s/%s", cfg.Owner, cfg.Repository, DefaultOwner, DefaultRepository)
	}
	if cfg.HomuURL != DefaultHomuURL {
		t.Errorf("HomuURL = %q, want %q", cfg.HomuURL, DefaultHomuURL)
	}
	if cfg.HomuClientID != DefaultHomuClientID {
		t.Errorf("HomuClientID = %q, want %q", cfg.HomuClientID, DefaultHomuClientID)
	}
	if cfg.RepoLabel != "rust" {
		t.Errorf("RepoLabel = %q, want rust", cfg.RepoLabel)
	}
	if cfg.RefreshDuration() != 300*time.Second {
		t.Errorf("RefreshDuration() = %v, want 5m", cfg.RefreshDuration())
	}
	if cfg.RetryDuration() != 7*time.Second {
		t.Errorf("RetryDuration() = %v, want 7s", cfg.RetryDuration())
	}
	if cfg.RequestTimeoutDuration() != 120*time.Second {
		t.Errorf("RequestTimeoutDuration() = %v, want 2m", cfg.RequestTimeoutDuration())
	}
	if cfg.RelativeTimeDuration() != 30*time.Second {
		t.Errorf("RelativeTimeDuration() = %v, want 30s", cfg.RelativeTimeDuration())
	}
	if cfg.DefaultSort != DefaultSort || cfg.LogLevel != DefaultLogLevel || cfg.Notifications || cfg.LogStderr {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `{
  "owner": "servo",
  "repository": "servo",
  "homu_url": "https://homu.servo.org/queue/servo/",
  "refresh_interval": 60,
  "notifications": true
}`)
	t.Setenv("QUEUETEA_RETRY_INTERVAL", "15")
	t.Setenv("QUEUETEA_TOKEN", "ghp_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("owner", "", "")
	if err := flags.Parse([]string{"--owner", "flag-owner"}); err != nil {
		t.Fatal(err)
	}
	v := viper.New()
	if err := v.BindPFlag("owner", flags.Lookup("owner")); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Owner != "flag-owner" {
		t.Errorf("Owner = %q, want flag to win", cfg.Owner)
	}
	if cfg.Repository != "servo" {
		t.Errorf("Repository = %q, want servo", cfg.Repository)
	}
	if cfg.RepoLabel != "servo" {
		t.Errorf("RepoLabel = %q, want last path component of homu_url", cfg.RepoLabel)
	}
	if cfg.RefreshInterval != 60 {
		t.Errorf("RefreshInterval = %d, want 60", cfg.RefreshInterval)
	}
	if cfg.RetryInterval != 15 {
		t.Errorf("RetryInterval = %d, want 15 from env", cfg.RetryInterval)
	}
	if cfg.Token != "ghp_env" {
		t.Errorf("Token = %q, want ghp_env", cfg.Token)
	}
	if !cfg.Notifications {
		t.Error("Notifications = false, want true")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	if _, err := Load(viper.New(), path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Run("fills zero values", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		if cfg.RefreshInterval != DefaultRefreshInterval {
			t.Errorf("RefreshInterval = %d, want %d", cfg.RefreshInterval, DefaultRefreshInterval)
		}
		if cfg.RepoLabel != "rust" {
			t.Errorf("RepoLabel = %q, want rust", cfg.RepoLabel)
		}
	})

	t.Run("preserves non-zero values", func(t *testing.T) {
		cfg := &Config{RefreshInterval: 10, RepoLabel: "custom", DefaultSort: "number"}
		applyDefaults(cfg)
		if cfg.RefreshInterval != 10 {
			t.Errorf("RefreshInterval = %d, want 10", cfg.RefreshInterval)
		}
		if cfg.RepoLabel != "custom" {
			t.Errorf("RepoLabel = %q, want custom", cfg.RepoLabel)
		}
		if cfg.DefaultSort != "number" {
			t.Errorf("DefaultSort = %q, want number", cfg.DefaultSort)
		}
	})

	t.Run("repo label falls back to repository", func(t *testing.T) {
		cfg := &Config{HomuURL: "https://homu.example.com", Repository: "widgets"}
		applyDefaults(cfg)
		if cfg.RepoLabel != "widgets" {
			t.Errorf("RepoLabel = %q, want widgets", cfg.RepoLabel)
		}
	})
}

func TestSaveValue(t *testing.T) {
	path := writeConfig(t, `{"owner":"servo","token":"secret"}`)

	if err := SaveValue(path, "default_sort", "complexity"); err != nil {
		t.Fatalf("SaveValue() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("saved config is not JSON: %v", err)
	}
	if got["default_sort"] != "complexity" || got["owner"] != "servo" || got["token"] != "secret" {
		t.Errorf("saved config = %v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultSort != "complexity" {
		t.Errorf("DefaultSort = %q, want complexity", cfg.DefaultSort)
	}
}

func TestSaveValueCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	if err := SaveValue(path, "notifications", true); err != nil {
		t.Fatalf("SaveValue() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config not created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults are valid", Config{Owner: "o", Repository: "r", HomuURL: DefaultHomuURL}, false},
		{"missing owner", Config{Repository: "r", HomuURL: DefaultHomuURL}, true},
		{"relative homu url", Config{Owner: "o", Repository: "r", HomuURL: "/queue/rust"}, true},
		{"bad proxy", Config{Owner: "o", Repository: "r", HomuURL: DefaultHomuURL, Proxy: "http://[::1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigDirHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := DefaultConfigDir(); got != filepath.Join(dir, "queuetea") && got != filepath.Join(os.Getenv("HOME"), ".config", "queuetea") {
		t.Errorf("DefaultConfigDir() = %q", got)
	}
	if filepath.Base(LogPath()) != "queuetea.log" {
		t.Errorf("LogPath() = %q", LogPath())
	}
}
