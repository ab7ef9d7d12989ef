// Package api is the REST client for the kharcha backend. It owns the
// session/token lifecycle: the Client attaches bearer tokens to every
// request and transparently recovers from access-token expiry with a
// single-flight refresh-and-retry, so callers never handle 401s.
//
// Two base URLs are configured, matching the backend's split into an
// accounts service (login, refresh, users) and an expenses service
// (categories, expenses, incomes, summaries, budgets).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

type Config struct {
	AccountsBaseURL string
	ExpensesBaseURL string
	Store           *SessionStore
	Timeout         time.Duration
}

type Client struct {
	accountsURL string
	expensesURL string
	store       *SessionStore

	// httpc routes through the auth transport; plain is used for the
	// refresh exchange itself, which must not recurse into it.
	httpc *http.Client
	plain *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("api: session store is required")
	}
	if cfg.AccountsBaseURL == "" || cfg.ExpensesBaseURL == "" {
		return nil, fmt.Errorf("api: both base URLs are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		accountsURL: strings.TrimRight(cfg.AccountsBaseURL, "/"),
		expensesURL: strings.TrimRight(cfg.ExpensesBaseURL, "/"),
		store:       cfg.Store,
		plain:       &http.Client{Timeout: timeout},
	}
	c.httpc = &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:    http.DefaultTransport,
			store:   cfg.Store,
			refresh: c.refreshAccessToken,
		},
	}
	return c, nil
}

func (c *Client) accounts(path string) string {
	return c.accountsURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) expenses(path string) string {
	return c.expensesURL + "/" + strings.TrimLeft(path, "/")
}

// do sends a JSON request and decodes a JSON response into out (ignored
// when nil). Non-2xx statuses come back as *APIError.
func (c *Client) do(ctx context.Context, hc *http.Client, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// getRaw fetches a resource through the authorized client and returns the
// raw body for shape-tolerant decoding.
func (c *Client) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// decodeList normalizes the two list response shapes the backend emits: a
// bare JSON array or a paginated {"results": [...]} wrapper. Anything else
// is an error; the shape decision is made here, once, not per call site.
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var out []T
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return out, nil
	}
	var page struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil || page.Results == nil {
		return nil, fmt.Errorf("unexpected list response shape")
	}
	var out []T
	if err := json.Unmarshal(page.Results, &out); err != nil {
		return nil, fmt.Errorf("decode paginated list: %w", err)
	}
	return out, nil
}
