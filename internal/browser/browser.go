// Package browser obtains the rendered markup of the timetable page.
//
// fortee.jp renders the timetable client-side, so the default fetcher drives
// a headless Chrome through Rod, waits for the page to settle and returns the
// live DOM. A plain HTTP fetcher is kept for server-rendered mirrors and
// saved copies served locally.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFetch marks transport and browser failures, as opposed to markup that
// was fetched but could not be understood.
var ErrFetch = errors.New("fetch failed")

// Fetcher returns the fully rendered markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Config configures the fetchers.
type Config struct {
	// RemoteURL is the DevTools WebSocket URL of an existing Chrome.
	// Empty launches a local headless Chrome.
	RemoteURL string

	// SettleDelay is slept after load and again after the wait selector.
	SettleDelay time.Duration

	// WaitSelector marks a rendered timetable. Missing it is only a warning.
	WaitSelector string

	WaitTimeout     time.Duration
	PageLoadTimeout time.Duration
	UserAgent       string
}

func (c *Config) defaults() {
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.WaitSelector == "" {
		c.WaitSelector = ".proposal"
	}
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = 15 * time.Second
	}
	if c.PageLoadTimeout <= 0 {
		c.PageLoadTimeout = 30 * time.Second
	}
}

func fetchError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFetch, fmt.Sprintf(format, args...))
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
