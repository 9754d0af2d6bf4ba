// Package browser validates URLs and opens them in the system browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

const maxURLLength = 4096

// Starter launches a command without waiting for it to exit.
type Starter func(ctx context.Context, name string, args ...string) error

// Opener opens URLs with the platform's default handler.
type Opener struct {
	goos  string
	start Starter
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, start: execStart}
}

// NewWithStarter returns an Opener for goos that launches through start.
func NewWithStarter(goos string, start Starter) *Opener {
	return &Opener{goos: goos, start: start}
}

// Open validates rawURL and hands it to the system browser.
func (o *Opener) Open(ctx context.Context, rawURL string) error {
	if err := Validate(rawURL); err != nil {
		return err
	}
	name, args := command(o.goos, rawURL)
	if err := o.start(ctx, name, args...); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default: // linux, freebsd, etc.
		return "xdg-open", []string{rawURL}
	}
}

// Validate accepts only absolute https URLs without user info or control
// characters.
func Validate(rawURL string) error {
	if rawURL == "" {
		return errors.New("URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d", maxURLLength)
	}
	for i, r := range rawURL {
		if r < 0x20 || r == 0x7F || r > 127 {
			return fmt.Errorf("invalid character at position %d", i)
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" {
		return errors.New("must use HTTPS")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	if u.User != nil {
		return errors.New("user info not allowed")
	}
	return nil
}

func execStart(ctx context.Context, name string, args ...string) error {
	// The browser outlives the request; do not tie it to ctx.
	cmd := exec.Command(name, args...) //nolint:noctx
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
