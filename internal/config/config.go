package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"

	"github.com/shhac/queuetea/internal/queue"
)

// EnvPrefix is prepended to every key when reading environment variables,
// e.g. QUEUETEA_TOKEN.
const EnvPrefix = "QUEUETEA"

// Config holds application configuration.
type Config struct {
	Owner        string `mapstructure:"owner" json:"owner"`
	Repository   string `mapstructure:"repository" json:"repository"`
	HomuURL      string `mapstructure:"homu_url" json:"homu_url"`
	HomuClientID string `mapstructure:"homu_client_id" json:"homu_client_id"`
	RepoLabel    string `mapstructure:"repo_label" json:"repo_label"`
	Token        string `mapstructure:"token" json:"token,omitempty"`
	Proxy        string `mapstructure:"proxy" json:"proxy,omitempty"`

	RefreshInterval      int `mapstructure:"refresh_interval" json:"refresh_interval"`             // seconds
	RetryInterval        int `mapstructure:"retry_interval" json:"retry_interval"`                 // seconds
	RequestTimeout       int `mapstructure:"request_timeout" json:"request_timeout"`               // seconds
	RelativeTimeInterval int `mapstructure:"relative_time_interval" json:"relative_time_interval"` // seconds

	DefaultSort   string `mapstructure:"default_sort" json:"default_sort"`
	Notifications bool   `mapstructure:"notifications" json:"notifications"`
	LogLevel      string `mapstructure:"log_level" json:"log_level"`
	// LogStderr also writes logs to stderr, for running with stderr redirected.
	LogStderr bool `mapstructure:"log_stderr" json:"log_stderr,omitempty"`
}

// Defaults
const (
	DefaultOwner                = "rust-lang"
	DefaultRepository           = "rust"
	DefaultHomuURL              = "https://buildbot2.rust-lang.org/homu/queue/rust"
	DefaultHomuClientID         = "f828d548f928f1e11199"
	DefaultRefreshInterval      = 300
	DefaultRetryInterval        = 7
	DefaultRequestTimeout       = 120
	DefaultRelativeTimeInterval = 30
	DefaultSort                 = "priority"
	DefaultLogLevel             = "info"
)

// DefaultConfigDir returns the platform-appropriate config directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "queuetea")
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, ".config", "queuetea")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "queuetea")
		}
		return filepath.Join(home, ".config", "queuetea")
	default: // linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "queuetea")
		}
		return filepath.Join(home, ".config", "queuetea")
	}
}

// DefaultConfigPath returns the path of config.json in DefaultConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// LogPath returns the path of the application log file.
func LogPath() string {
	return filepath.Join(DefaultConfigDir(), "queuetea.log")
}

// SetDefaults registers every key with its default so that environment
// variables are honoured for keys absent from the file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("owner", DefaultOwner)
	v.SetDefault("repository", DefaultRepository)
	v.SetDefault("homu_url", DefaultHomuURL)
	v.SetDefault("homu_client_id", DefaultHomuClientID)
	v.SetDefault("repo_label", "")
	v.SetDefault("token", "")
	v.SetDefault("proxy", "")
	v.SetDefault("refresh_interval", DefaultRefreshInterval)
	v.SetDefault("retry_interval", DefaultRetryInterval)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("relative_time_interval", DefaultRelativeTimeInterval)
	v.SetDefault("default_sort", DefaultSort)
	v.SetDefault("notifications", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_stderr", false)
}

// Load reads the JSON config file at path (DefaultConfigPath when empty),
// overlays QUEUETEA_* environment variables and any flags already bound to
// v, and fills in defaults. A missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveValue sets a single key in the JSON config file at path, keeping every
// other key as it is on disk. The file is replaced atomically.
func SaveValue(path, key string, value any) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settings := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read config: %w", err)
	}
	settings[key] = value

	data, err = json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config: %w", err)
	}
	return nil
}

// Validate checks the values that would otherwise fail later and obscurely.
func (c *Config) Validate() error {
	if c.Owner == "" || c.Repository == "" {
		return fmt.Errorf("owner and repository are required")
	}
	u, err := url.Parse(c.HomuURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid homu_url: %q", c.HomuURL)
	}
	if c.Proxy != "" {
		if _, err := url.Parse(c.Proxy); err != nil {
			return fmt.Errorf("invalid proxy: %w", err)
		}
	}
	return nil
}

// RefreshDuration returns the refresh interval as a time.Duration.
func (c *Config) RefreshDuration() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// RetryDuration returns the retry interval as a time.Duration.
func (c *Config) RetryDuration() time.Duration {
	return time.Duration(c.RetryInterval) * time.Second
}

// RequestTimeoutDuration returns the per-request timeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// RelativeTimeDuration returns how often relative times are re-rendered.
func (c *Config) RelativeTimeDuration() time.Duration {
	return time.Duration(c.RelativeTimeInterval) * time.Second
}

func applyDefaults(cfg *Config) {
	if cfg.Owner == "" {
		cfg.Owner = DefaultOwner
	}
	if cfg.Repository == "" {
		cfg.Repository = DefaultRepository
	}
	if cfg.HomuURL == "" {
		cfg.HomuURL = DefaultHomuURL
	}
	if cfg.HomuClientID == "" {
		cfg.HomuClientID = DefaultHomuClientID
	}
	if cfg.RepoLabel == "" {
		cfg.RepoLabel = queue.LastPathComponent(cfg.HomuURL)
	}
	if cfg.RepoLabel == "" {
		cfg.RepoLabel = cfg.Repository
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.RelativeTimeInterval <= 0 {
		cfg.RelativeTimeInterval = DefaultRelativeTimeInterval
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = DefaultSort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}
