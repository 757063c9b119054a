// Package registry submits completed entries to the carbon registry API.
//
// The client is a thin JSON-over-HTTP layer: each completed entry flow
// produces one POST to {base_url}/api/v1/entries/{flow}. Authentication is
// bearer-token; the token is read from the environment variable named by
// the registry config so it never touches the config file or the snapshot
// store.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/logging"
)

var logger = logging.New("registry")

// maxErrorBodyBytes caps how much of an error response body is read into
// the returned error message.
const maxErrorBodyBytes = 2048

// Client submits entries to the registry API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transports.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token directly, bypassing the environment
// lookup.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient builds a Client from the registry config. The API token is read
// from the environment variable named by cfg.TokenEnv; an unset token is not
// an error here because anonymous registries exist in test deployments, but
// the registry will typically reject the submission.
func NewClient(cfg config.RegistryConfig, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("registry: base_url is not configured; set [registry] base_url in ecm.toml")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("registry: invalid base_url %q: %w", cfg.BaseURL, err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	if cfg.TokenEnv != "" {
		c.token = os.Getenv(cfg.TokenEnv)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SubmitEntry POSTs one completed entry to the registry. The flow name
// selects the endpoint ({base_url}/api/v1/entries/{flow}); payload is the
// accumulated entry data of the finished flow.
//
// Any non-2xx response is an error. The response body (truncated) is folded
// into the error message because registry rejections carry the validation
// detail there.
func (c *Client) SubmitEntry(ctx context.Context, flow string, payload map[string]any) error {
	if flow == "" {
		return fmt.Errorf("registry: flow name is empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("registry: encoding entry payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/entries/%s", c.baseURL, url.PathEscape(flow))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("registry: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.Debug("submitting entry", "flow", flow, "endpoint", endpoint, "bytes", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry: submitting %s entry: %w", flow, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("registry: %s entry rejected: %s: %s", flow, resp.Status, bytes.TrimSpace(detail))
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Debug("entry accepted", "flow", flow, "status", resp.Status)
	return nil
}

// Draft is one pending entry to push: the snapshot key it came from, the
// flow it belongs to, and the accumulated entry data.
type Draft struct {
	Key     string
	Flow    string
	Payload map[string]any
}

// PushResult reports the outcome of pushing one draft.
type PushResult struct {
	Key string
	Err error
}

// PushAll submits the given drafts concurrently, bounded by concurrency.
// Per-draft failures do not abort the batch; each draft's outcome is
// reported in the returned results, ordered by draft. The only error
// returned directly is a context cancellation.
func (c *Client) PushAll(ctx context.Context, drafts []Draft, concurrency int) ([]PushResult, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	results := make([]PushResult, len(drafts))

	for i, d := range drafts {
		i, d := i, d

		g.Go(func() error {
			err := c.SubmitEntry(gctx, d.Flow, d.Payload)

			mu.Lock()
			results[i] = PushResult{Key: d.Key, Err: err}
			mu.Unlock()

			if err != nil {
				logger.Warn("draft push failed", "key", d.Key, "flow", d.Flow, "error", err)
			}
			// ALWAYS return nil; per-draft errors must not abort the errgroup.
			return nil
		})
	}

	// The only non-nil error from g.Wait() is a context cancellation, which
	// we surface to the caller.
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("registry: push workers: %w", err)
	}
	return results, nil
}
