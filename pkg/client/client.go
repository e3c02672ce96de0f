// Package client calls a running shopassist server, either through the chat
// server's /tools endpoint or through the MCP server's /rpc endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/worldofchami/shopassist/pkg/mcp"
)

const maxResponseBytes = 4 << 20

type Client struct {
	HTTP      *http.Client
	UserAgent string
	BaseURL   string

	token  string
	nextID atomic.Int64
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.HTTP = h
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.UserAgent = ua
		}
	}
}

// WithBearerToken sends "Authorization: Bearer <token>" on every request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
		UserAgent: "shopassist/0.1.0",
		BaseURL:   baseURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.token != "" {
		c.HTTP = withBearerToken(c.HTTP, c.token)
	}
	return c
}

// ToolError is a tool failure reported by the /tools endpoint: a 400 or 404
// with the rendered error text as the body.
type ToolError struct {
	StatusCode int
	Body       string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool failed (%d): %s", e.StatusCode, e.Body)
}

// CallTool posts params to /tools/{name} and returns the rendered text.
func (c *Client) CallTool(ctx context.Context, name string, params map[string]any) (string, error) {
	endpoint, err := Resolve(c.BaseURL, "/tools/"+name)
	if err != nil {
		return "", err
	}
	if params == nil {
		params = map[string]any{}
	}

	status, body, err := c.post(ctx, endpoint, "text/plain, */*;q=0.9", params)
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusOK:
		return string(body), nil
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		return "", &ToolError{StatusCode: status, Body: string(body)}
	default:
		return "", newHTTPError(status, endpoint, body)
	}
}

// ListTools calls tools/list on the MCP endpoint.
func (c *Client) ListTools(ctx context.Context) ([]mcp.ToolInfo, error) {
	var result mcp.ToolsListResult
	if err := c.rpc(ctx, mcp.MethodToolsList, nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallMCPTool calls tools/call on the MCP endpoint. A failed tool comes back
// as a *mcp.Error.
func (c *Client) CallMCPTool(ctx context.Context, name string, args map[string]any) (mcp.ToolResult, error) {
	var result mcp.ToolResult
	params := mcp.ToolsCallParams{Name: name, Arguments: args}
	if err := c.rpc(ctx, mcp.MethodToolsCall, params, &result); err != nil {
		return mcp.ToolResult{}, err
	}
	return result, nil
}

func (c *Client) rpc(ctx context.Context, method string, params, out any) error {
	endpoint, err := Resolve(c.BaseURL, "/rpc")
	if err != nil {
		return err
	}

	req := map[string]any{
		"jsonrpc": mcp.JSONRPCVersion,
		"id":      c.nextID.Add(1),
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	status, body, err := c.post(ctx, endpoint, "application/json", req)
	if err != nil {
		return err
	}

	var resp mcp.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		if status < 200 || status > 299 {
			return newHTTPError(status, endpoint, body)
		}
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if status < 200 || status > 299 {
		return newHTTPError(status, endpoint, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, endpoint, accept string, payload any) (int, []byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// Resolve normalizes a base URL and returns a URL with the provided absolute path.
// If the base has no scheme, http:// is assumed.
func Resolve(baseURL string, absolutePath string) (string, error) {
	in := strings.TrimSpace(baseURL)
	if in == "" {
		return "", fmt.Errorf("base URL is empty")
	}
	if !strings.Contains(in, "://") {
		in = "http://" + in
	}

	u, err := url.Parse(in)
	if err != nil {
		return "", err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("unsupported URL scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL (missing host): %q", baseURL)
	}
	if !strings.HasPrefix(absolutePath, "/") {
		return "", fmt.Errorf("absolutePath must start with '/': %q", absolutePath)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + absolutePath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

type HTTPError struct {
	StatusCode        int    `json:"statusCode"`
	Status            string `json:"status"`
	URL               string `json:"url"`
	BodyPreviewBase64 string `json:"bodyPreviewBase64,omitempty"`
}

func newHTTPError(status int, endpoint string, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode:        status,
		Status:            fmt.Sprintf("%d %s", status, http.StatusText(status)),
		URL:               endpoint,
		BodyPreviewBase64: previewBase64(body, 2048),
	}
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error"
	}
	return fmt.Sprintf("http request failed: %s (%s)", e.Status, e.URL)
}

func previewBase64(b []byte, max int) string {
	if len(b) > max {
		b = b[:max]
	}
	if len(b) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
