package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024
)

// Config holds the connection settings for one catalog API.
type Config struct {
	// Name identifies the catalog in logs and run reports
	Name string
	// BaseURL is the root of the catalog API, without a trailing slash
	BaseURL string
	// APIKey is sent on every request when set
	APIKey string
	// Timeout bounds each HTTP request; DefaultTimeout when zero
	Timeout time.Duration
}

// Client is an HTTP Catalog backed by a JSON search and detail API.
type Client struct {
	cfg    Config
	client *http.Client
	log    ectologger.Logger
}

// NewClient creates a catalog client for the given API.
func NewClient(cfg Config, log ectologger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Name identifies the catalog in logs and run reports.
func (c *Client) Name() string {
	return c.cfg.Name
}

// searchResponse is the wire shape of the search endpoint
type searchResponse struct {
	Results []map[string]any `json:"results"`
}

// Search queries the catalog's search endpoint and returns the raw records.
func (c *Client) Search(ctx context.Context, query string) ([]models.ProductRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.Client.Search")
	defer span.End()

	endpoint := fmt.Sprintf("%s/search?q=%s", c.cfg.BaseURL, url.QueryEscape(query))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.cfg.Name, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response from %s: %w", c.cfg.Name, err)
	}

	records := make([]models.ProductRecord, 0, len(resp.Results))
	for _, result := range resp.Results {
		records = append(records, models.ProductRecord(result))
	}

	c.log.WithContext(ctx).WithFields(map[string]any{
		"catalog": c.cfg.Name,
		"query":   query,
		"results": len(records),
	}).Debug("Catalog search completed")

	return records, nil
}

// FetchDetails loads the full record for a catalog item.
func (c *Client) FetchDetails(ctx context.Context, itemID string) (models.ProductRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.Client.FetchDetails")
	defer span.End()

	endpoint := fmt.Sprintf("%s/products/%s", c.cfg.BaseURL, url.PathEscape(itemID))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch details from %s: %w", c.cfg.Name, err)
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode detail response from %s: %w", c.cfg.Name, err)
	}

	return models.ProductRecord(record), nil
}

// get executes a GET request and returns the response body
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithContext(ctx).WithError(err).Errorf("HTTP request failed: GET %s", endpoint)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response body too large: %d bytes (max %d)", len(body), MaxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	return body, nil
}
