package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mwalczyk/backstage"
)

// Ensure SpecClient implements backstage.SpecSource at compile time.
var _ backstage.SpecSource = (*SpecClient)(nil)

// SpecClient fetches the versioned specification catalog from a remote
// API. The catalog endpoint serves the full catalog JSON; a sibling
// version endpoint serves {"timestamp": ...} so syncs can pre-check
// staleness without downloading the catalog.
type SpecClient struct {
	client     *http.Client
	catalogURL string
	versionURL string
}

// SpecClientOption configures a SpecClient.
type SpecClientOption func(*SpecClient)

// WithVersionURL overrides the version pre-check endpoint. Defaults to
// the catalog URL with "/version" appended.
func WithVersionURL(u string) SpecClientOption {
	return func(c *SpecClient) { c.versionURL = u }
}

// WithHTTPClient overrides the HTTP client, for tests.
func WithHTTPClient(client *http.Client) SpecClientOption {
	return func(c *SpecClient) { c.client = client }
}

// NewSpecClient creates a SpecClient for the given catalog URL.
func NewSpecClient(catalogURL string, opts ...SpecClientOption) *SpecClient {
	c := &SpecClient{
		client:     &http.Client{Timeout: DefaultFetchTimeout},
		catalogURL: catalogURL,
		versionURL: strings.TrimSuffix(catalogURL, "/") + "/version",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// versionResponse is the version endpoint's payload.
type versionResponse struct {
	Timestamp time.Time `json:"timestamp"`
}

// Version returns the remote catalog's current timestamp from the cheap
// version-only endpoint.
func (c *SpecClient) Version(ctx context.Context) (time.Time, error) {
	var v versionResponse
	if err := c.getJSON(ctx, c.versionURL, &v); err != nil {
		return time.Time{}, err
	}
	return v.Timestamp, nil
}

// Catalog downloads the full catalog. The returned timestamp is the
// catalog's own metadata timestamp.
func (c *SpecClient) Catalog(ctx context.Context) (*backstage.SpecCatalog, time.Time, error) {
	var catalog backstage.SpecCatalog
	if err := c.getJSON(ctx, c.catalogURL, &catalog); err != nil {
		return nil, time.Time{}, err
	}
	return &catalog, catalog.Metadata.LastUpdated, nil
}

func (c *SpecClient) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return backstage.Errorf(backstage.EUNAVAILABLE, "spec source unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return backstage.Errorf(backstage.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, u)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return backstage.Errorf(backstage.EINVALID, "malformed spec payload: %v", err)
	}
	return nil
}
