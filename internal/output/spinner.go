package output

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/term"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title   string
	timeout time.Duration
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// WithTimeout sets the spinner timeout.
func WithTimeout(timeout time.Duration) SpinnerOption {
	return func(c *spinnerConfig) {
		c.timeout = timeout
	}
}

// IsTTY reports whether stdout is attached to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// RunWithSpinner executes an action with a spinner.
// The action receives a context that honours the configured timeout.
// Without a terminal the action runs directly.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{
		title: "Working...",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	actionCtx := ctx
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		actionCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if !IsTTY() {
		return action(actionCtx)
	}

	var actionErr error
	spinnerErr := spinner.New().
		Title(cfg.title).
		Context(actionCtx).
		Action(func() {
			actionErr = action(actionCtx)
		}).
		Run()

	if actionErr != nil {
		return actionErr
	}
	if spinnerErr != nil {
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return actionCtx.Err()
}
