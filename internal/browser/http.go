package browser

import (
	"context"
	"io"
	"net/http"
)

// HTTPFetcher fetches markup with a plain GET. It sees only server-rendered
// HTML.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher whose requests time out after the page
// load timeout.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	cfg.defaults()
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.PageLoadTimeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// Fetch returns the response body of a 200 response.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fetchError("creating request: %v", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fetchError("fetching page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fetchError("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fetchError("reading body: %v", err)
	}
	return string(body), nil
}

// New returns the fetcher for mode ("browser" or "http").
func New(mode string, cfg Config) Fetcher {
	if mode == "http" {
		return NewHTTPFetcher(cfg)
	}
	return NewRodFetcher(cfg)
}
