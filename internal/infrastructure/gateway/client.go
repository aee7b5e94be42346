// Package gateway implements the HTTP clients for the franchise-network API
// the mirror syncs from. One client carries the shared transport concerns
// (auth header, rate limiting, envelope decoding); the per-kind gateways map
// wire records into domain types.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 2048
)

// Options configures the shared API client.
type Options struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string
	// RatePerMinute caps outgoing requests. Zero disables rate limiting.
	RatePerMinute int
	HTTPClient    *http.Client
}

// Client is the shared transport for all entity gateways.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	http         *http.Client
	limiter      <-chan time.Time
	log          zerolog.Logger
}

// NewClient creates the shared API client.
func NewClient(opts Options, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	header := opts.APIKeyHeader
	if header == "" {
		header = "X-Api-Key"
	}
	var limiter <-chan time.Time
	if opts.RatePerMinute > 0 {
		limiter = time.Tick(time.Minute / time.Duration(opts.RatePerMinute))
	}
	return &Client{
		baseURL:      opts.BaseURL,
		apiKey:       opts.APIKey,
		apiKeyHeader: header,
		http:         httpClient,
		limiter:      limiter,
		log:          log.With().Str("component", "gateway_client").Logger(),
	}
}

// envelope is the standard list response shape of the remote API.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	HasMore bool            `json:"has_more"`
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.limiter:
		return nil
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(c.apiKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := raw
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	return raw, nil
}

// listPage fetches one page of path and decodes the envelope's data into out.
func (c *Client) listPage(ctx context.Context, path string, pageSize, offset int, out any) (bool, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(pageSize))
	query.Set("offset", fmt.Sprint(offset))
	return c.listInto(ctx, path, query, out)
}

// listSince fetches path filtered to records updated at or after since.
func (c *Client) listSince(ctx context.Context, path string, since time.Time, out any) error {
	query := url.Values{}
	query.Set("updated_since", since.UTC().Format(time.RFC3339Nano))
	_, err := c.listInto(ctx, path, query, out)
	return err
}

func (c *Client) listInto(ctx context.Context, path string, query url.Values, out any) (bool, error) {
	raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return false, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("decode %s envelope: %w", path, err)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("decode %s records: %w", path, err)
		}
	}
	return env.HasMore, nil
}

// patch sends a PATCH and decodes the response body into out when non-nil.
func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	raw, err := c.do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return err
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
