// Package api implements the chat completion client and the per-session
// submission flow.
package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
	"golang.org/x/net/http/httpproxy"

	"github.com/diogo/groqchat/internal/models"
)

// HTTPDoer is the part of the HTTP client the completion client needs.
// tls_client.HttpClient satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// CompletionClient turns a transcript into the next assistant reply
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*models.Completion, error)
}

// CompletionRequest is everything one completion call needs
type CompletionRequest struct {
	Credential string
	Config     models.RequestConfig
	Turns      []models.Turn
}

// Client is a stateless adapter for the chat completions endpoint
type Client struct {
	httpClient HTTPDoer
	endpoint   string
	timeout    time.Duration
	proxyURL   string
	logger     zerolog.Logger
}

// Ensure Client implements CompletionClient
var _ CompletionClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient injects the HTTP client, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithEndpoint overrides the completions URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout overrides the per-request deadline
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithProxy routes requests through the given proxy URL
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithLogger sets the structured logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a completion client. Unless an HTTP client is injected,
// a TLS client with a 30 second timeout is created; the proxy comes from
// WithProxy or, failing that, from the HTTPS_PROXY/NO_PROXY environment.
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.EndpointChatCompletions,
		timeout:  models.RequestTimeoutSeconds * time.Second,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient != nil {
		return client, nil
	}

	proxyURL := client.proxyURL
	if proxyURL == "" {
		p, err := proxyFromEnvironment(client.endpoint)
		if err != nil {
			return nil, err
		}
		proxyURL = p
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}
	if proxyURL != "" {
		options = append(options, tls_client.WithProxyUrl(proxyURL))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	client.httpClient = httpClient
	client.proxyURL = proxyURL

	return client, nil
}

// proxyFromEnvironment resolves the proxy for endpoint from the standard
// proxy environment variables. It returns "" when no proxy applies.
func proxyFromEnvironment(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	proxy, err := httpproxy.FromEnvironment().ProxyFunc()(u)
	if err != nil {
		return "", fmt.Errorf("invalid proxy configuration: %w", err)
	}
	if proxy == nil {
		return "", nil
	}
	return proxy.String(), nil
}

// Endpoint returns the completions URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request deadline
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// ProxyURL returns the proxy in use, or ""
func (c *Client) ProxyURL() string {
	return c.proxyURL
}

// Close releases idle connections held by the HTTP client
func (c *Client) Close() {
	if closer, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
