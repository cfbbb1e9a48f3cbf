package station

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SnapshotFetcher reads the current process snapshot from the coordinator.
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context) (Snapshot, error)
}

// ManualSetter switches the coordinator between automatic and manual control.
type ManualSetter interface {
	SetManual(ctx context.Context, manual bool) error
}

// Ensure Client implements both interfaces at compile time.
var (
	_ SnapshotFetcher = (*Client)(nil)
	_ ManualSetter    = (*Client)(nil)
)

// Client talks to the station coordinator's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:8080"
	defaultUserAgent = "pshhmi/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 64 << 10

	updatePath = "/update"
	manualPath = "/manual"
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized coordinator address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchSnapshot retrieves the latest process snapshot from /update.
func (c *Client) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	if c == nil {
		return Snapshot{}, fmt.Errorf("client is nil")
	}
	body, err := c.do(ctx, http.MethodGet, &url.URL{Path: updatePath})
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeSnapshot(body)
}

// SetManual posts the control mode to /manual. The response body carries no
// contract and is discarded.
func (c *Client) SetManual(ctx context.Context, manual bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("s", Indicator(manual).String())
	rel := &url.URL{Path: manualPath, RawQuery: values.Encode()}
	_, err := c.do(ctx, http.MethodPost, rel)
	return err
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL) ([]byte, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
