package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shhac/queuetea/internal/browser"
	"github.com/shhac/queuetea/internal/config"
	"github.com/shhac/queuetea/internal/dashboard"
	"github.com/shhac/queuetea/internal/demo"
	"github.com/shhac/queuetea/internal/github"
	"github.com/shhac/queuetea/internal/homu"
	"github.com/shhac/queuetea/internal/logging"
	"github.com/shhac/queuetea/internal/notify"
	"github.com/shhac/queuetea/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	v := viper.New()
	var (
		configPath string
		demoMode   bool
	)

	cmd := &cobra.Command{
		Use:          "queuetea",
		Short:        "Browse and roll up the bors merge queue from the terminal",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if configPath == "" {
				configPath = config.DefaultConfigPath()
			}
			return run(cmd.Context(), cfg, configPath, demoMode)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	flags.BoolVar(&demoMode, "demo", false, "show built-in sample data instead of querying GitHub")
	flags.StringP("token", "t", "", "GitHub token (falls back to `gh auth token`)")
	flags.String("owner", config.DefaultOwner, "repository owner")
	flags.String("repository", config.DefaultRepository, "repository name")
	flags.String("homu-queue-url", config.DefaultHomuURL, "homu queue page")
	flags.String("homu-client-id", config.DefaultHomuClientID, "homu OAuth client id used for rollups")
	flags.String("repo-label", "", "homu repository label (default: last component of the queue url)")
	flags.Int("refresh-interval", config.DefaultRefreshInterval, "seconds between background refreshes")
	flags.Int("retry-interval", config.DefaultRetryInterval, "seconds before retrying a failed refresh")
	flags.Int("request-timeout", config.DefaultRequestTimeout, "seconds allowed for one GitHub or homu request")
	flags.String("proxy", "", "HTTP proxy for GitHub and homu requests")
	flags.Bool("notifications", false, "notify when a PR becomes approved")
	flags.String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	flags.Bool("log-stderr", false, "also write logs to stderr (redirect it, e.g. 2>queuetea.err)")

	for key, name := range map[string]string{
		"token":            "token",
		"owner":            "owner",
		"repository":       "repository",
		"homu_url":         "homu-queue-url",
		"homu_client_id":   "homu-client-id",
		"repo_label":       "repo-label",
		"refresh_interval": "refresh-interval",
		"retry_interval":   "retry-interval",
		"request_timeout":  "request-timeout",
		"proxy":            "proxy",
		"notifications":    "notifications",
		"log_level":        "log-level",
		"log_stderr":       "log-stderr",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "queuetea %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})
	return cmd
}

func run(ctx context.Context, cfg *config.Config, configPath string, demoMode bool) error {
	var stderr io.Writer
	if cfg.LogStderr {
		stderr = os.Stderr
	}
	closer, err := logging.Setup(config.LogPath(), cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	loader, err := newLoader(ctx, cfg, demoMode)
	if err != nil {
		return err
	}
	slog.Info("starting", "version", version, "owner", loader.Owner(), "repo", loader.Repo(), "demo", demoMode)

	app := ui.NewApp(ui.Options{
		Loader:          loader,
		Opener:          browser.New(),
		Notifier:        notify.New(),
		Title:           loader.Owner() + "/" + loader.Repo(),
		ClientID:        cfg.HomuClientID,
		RepoLabel:       cfg.RepoLabel,
		ConfigPath:      configPath,
		RefreshInterval: cfg.RefreshDuration(),
		RetryInterval:   cfg.RetryDuration(),
		RelTimeInterval: cfg.RelativeTimeDuration(),
		DefaultSort:     cfg.DefaultSort,
		Notifications:   cfg.Notifications,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func newLoader(ctx context.Context, cfg *config.Config, demoMode bool) (*dashboard.Loader, error) {
	if demoMode {
		svc := demo.NewService()
		return dashboard.NewLoader(dashboard.Config{
			PRs:       svc,
			Queue:     svc,
			Timelines: svc,
			Owner:     svc.Owner(),
			Repo:      svc.Repo(),
			Interval:  cfg.RefreshDuration(),
		}), nil
	}

	httpClient, err := newHTTPClient(cfg.Proxy, cfg.RequestTimeoutDuration())
	if err != nil {
		return nil, err
	}
	gh, err := github.NewClient(ctx, github.Options{
		Token:          cfg.Token,
		HTTPClient:     httpClient,
		RequestTimeout: cfg.RequestTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}
	login, err := gh.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify GitHub token: %w", err)
	}
	slog.Info("Authenticated with GitHub", "login", login)

	return dashboard.NewLoader(dashboard.Config{
		PRs:       gh,
		Queue:     homu.NewClient(httpClient, cfg.HomuURL, cfg.RequestTimeoutDuration()),
		Timelines: gh,
		Owner:     cfg.Owner,
		Repo:      cfg.Repository,
		Interval:  cfg.RefreshDuration(),
	}), nil
}

// newHTTPClient returns the client shared by the GitHub and homu requests.
// Every request is bounded by timeout and routed through proxy when set.
func newHTTPClient(proxy string, timeout time.Duration) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy: %w", err)
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &http.Client{Transport: transport, Timeout: timeout}, nil
}
