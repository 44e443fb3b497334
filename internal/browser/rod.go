package browser

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/pfrederiksen/fortee-timetable/internal/logger"
)

// RodFetcher renders pages in headless Chrome.
type RodFetcher struct {
	cfg Config
}

// NewRodFetcher creates a fetcher. Chrome is launched per Fetch call.
func NewRodFetcher(cfg Config) *RodFetcher {
	cfg.defaults()
	return &RodFetcher{cfg: cfg}
}

// Fetch navigates to pageURL, waits for the timetable to render and returns
// the page HTML.
func (f *RodFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	b, cleanup, err := f.connect(ctx)
	if err != nil {
		return "", err
	}
	defer cleanup()

	page, err := stealth.Page(b)
	if err != nil {
		return "", fetchError("create tab: %v", err)
	}
	defer page.Close()

	if f.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.cfg.UserAgent}); err != nil {
			logger.Warn("setting user agent failed", logger.Fields{"error": err.Error()})
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, f.cfg.PageLoadTimeout)
	defer cancel()

	logger.Info("fetching timetable", logger.Fields{"url": pageURL})
	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return "", fetchError("navigate %s: %v", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		logger.Warn("wait load timeout", logger.Fields{"url": pageURL, "error": err.Error()})
	}

	if err := sleep(ctx, f.cfg.SettleDelay); err != nil {
		return "", fetchError("settle: %v", err)
	}

	start := time.Now()
	if _, err := page.Context(ctx).Timeout(f.cfg.WaitTimeout).Element(f.cfg.WaitSelector); err != nil {
		logger.Warn("timetable marker not found", logger.Fields{
			"selector": f.cfg.WaitSelector,
			"waited":   time.Since(start).String(),
		})
	}

	if err := sleep(ctx, f.cfg.SettleDelay); err != nil {
		return "", fetchError("settle: %v", err)
	}

	html, err := page.Context(ctx).HTML()
	if err != nil {
		return "", fetchError("read DOM: %v", err)
	}
	return html, nil
}

// connect attaches to the remote Chrome or launches a local headless one.
func (f *RodFetcher) connect(ctx context.Context) (*rod.Browser, func(), error) {
	wsURL := f.cfg.RemoteURL
	var lnch *launcher.Launcher

	if wsURL == "" {
		lnch = launcher.New().
			Context(ctx).
			Headless(true).
			NoSandbox(true).
			Set("disable-dev-shm-usage").
			Set("disable-gpu").
			Set("disable-blink-features", "AutomationControlled")

		u, err := lnch.Launch()
		if err != nil {
			return nil, nil, fetchError("launch chrome: %v", err)
		}
		wsURL = u
		logger.Debug("launched local chrome", logger.Fields{"url": wsURL})
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		if lnch != nil {
			lnch.Cleanup()
		}
		return nil, nil, fetchError("connect chrome: %v", err)
	}

	cleanup := func() {
		if err := b.Close(); err != nil {
			logger.Debug("closing browser", logger.Fields{"error": err.Error()})
		}
		if lnch != nil {
			lnch.Cleanup()
		}
	}
	return b, cleanup, nil
}
