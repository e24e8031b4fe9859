// Package http provides HTTP-based implementations of the backstage
// fetcher and specification source interfaces.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mwalczyk/backstage"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements backstage.HTMLFetcher at compile time.
var _ backstage.HTMLFetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs. It can optionally route
// requests through a relay endpoint (to bypass cross-origin restrictions
// in embedded deployments) and rate-limit outgoing requests so repeated
// refreshes stay polite to the source site.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	relayURL string
	limiter  *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRelay routes every fetch through the given relay endpoint: the
// target URL is query-escaped and appended to the relay URL. An empty
// relay URL disables relaying.
func WithRelay(relayURL string) Option {
	return func(f *Fetcher) {
		f.relayURL = relayURL
	}
}

// WithRateLimit caps outgoing requests at rps requests per second with a
// burst of 1.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, through the relay
// endpoint if one is configured.
func (f *Fetcher) Fetch(ctx context.Context, target string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	requestURL := target
	if f.relayURL != "" {
		requestURL = f.relayURL + url.QueryEscape(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", backstage.Errorf(backstage.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
