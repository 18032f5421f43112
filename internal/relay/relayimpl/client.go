package relayimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/instagram"
	"github.com/orgball2608/insta-viewer/internal/relay"
)

// HTTPClient is the subset of *http.Client the relay client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c HTTPClient) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithTimeout bounds every relay call. Zero, the default, means no timeout.
// It has no effect on a client supplied through WithHTTPClient.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if hc, ok := cl.httpClient.(*http.Client); ok {
			hc.Timeout = d
		}
	}
}

type Client struct {
	baseURL    string
	httpClient HTTPClient
}

var _ relay.Client = (*Client)(nil)

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Profile(ctx context.Context, username string) (domain.ProfileResult, error) {
	body, err := c.get(ctx, "/api/profile/"+url.PathEscape(username))
	if err != nil {
		return domain.ProfileResult{}, err
	}
	return instagram.DecodeProfile(body)
}

func (c *Client) Media(ctx context.Context, vars instagram.MediaVariables) (domain.FeedPage, error) {
	q := url.Values{}
	q.Set("variables", vars.Encode())

	body, err := c.get(ctx, "/api/media?"+q.Encode())
	if err != nil {
		return domain.FeedPage{}, err
	}
	return instagram.DecodeTimeline(body)
}

func (c *Client) ImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	return c.baseURL + "/api/proxy-image?url=" + url.QueryEscape(raw)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", relay.ErrStatus, resp.StatusCode)
	}
	return body, nil
}
