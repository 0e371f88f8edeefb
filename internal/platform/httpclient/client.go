// Package httpclient provides the outbound HTTP transport used to query sources.
// It picks a transport by URL scheme, applies an optional shared rate limit and
// proxy, caps response size, and never retries.
package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"arlo/internal/platform/errors"
	"arlo/internal/platform/logx"
)

// DefaultMaxBodyBytes caps a single response body.
const DefaultMaxBodyBytes int64 = 8 << 20

// DefaultUserAgent identifies arlo to the sources.
const DefaultUserAgent = "arlo/1.0"

// Client fetches source URLs. It implements ports.Fetcher.
type Client struct {
	plain   *http.Client
	secure  *http.Client
	limiter *rate.Limiter
	logger  logx.Logger
	config  Config
}

// Config holds the configuration for the HTTP client.
type Config struct {
	// UserAgent is the User-Agent header value.
	// Default: "arlo/1.0"
	UserAgent string

	// RateLimit is the maximum requests per second across all sources.
	// 0 means no rate limiting.
	RateLimit float64

	// RateLimitBurst is the burst size for rate limiting.
	// Default: 1
	RateLimitBurst int

	// ProxyURL routes every request through an http, https or socks5 proxy.
	// Empty means the environment proxy settings apply.
	ProxyURL string

	// MaxBodyBytes caps the response body. Default: 8 MiB
	MaxBodyBytes int64

	// DialTimeout bounds connection establishment. The overall request is
	// bounded by the caller's context.
	// Default: 10 seconds
	DialTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent:      DefaultUserAgent,
		RateLimitBurst: 1,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		DialTimeout:    10 * time.Second,
	}
}

// New creates a new HTTP client with the given configuration.
func New(config Config, logger logx.Logger) (*Client, error) {
	// Apply defaults for zero values
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.RateLimitBurst <= 0 {
		config.RateLimitBurst = 1
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = logx.NewNop()
	}

	base, err := newTransport(config)
	if err != nil {
		return nil, err
	}

	secure := base.Clone()
	secure.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimitBurst)
	}

	return &Client{
		plain:   &http.Client{Transport: base},
		secure:  &http.Client{Transport: secure},
		limiter: limiter,
		logger:  logger.With("component", "httpclient"),
		config:  config,
	}, nil
}

// newTransport builds the shared transport, wiring the proxy when configured.
func newTransport(config Config) (*http.Transport, error) {
	dialer := &net.Dialer{
		Timeout:   config.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if config.ProxyURL == "" {
		return transport, nil
	}

	proxyURL, err := url.Parse(config.ProxyURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid proxy url %q", config.ProxyURL)
	}

	switch strings.ToLower(proxyURL.Scheme) {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		socks, err := proxy.FromURL(proxyURL, dialer)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid socks proxy %q", proxyURL.Redacted())
		}
		transport.Proxy = nil
		if cd, ok := socks.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return socks.Dial(network, addr)
			}
		}
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedScheme, "proxy scheme %q", proxyURL.Scheme)
	}

	return transport, nil
}

// clientFor dispatches on the scheme by value: https gets the TLS transport,
// http the plaintext one, anything else is rejected.
func (c *Client) clientFor(scheme string) (*http.Client, error) {
	switch scheme {
	case "https":
		return c.secure, nil
	case "http":
		return c.plain, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedScheme, "%q", scheme)
	}
}

// Fetch performs a single GET and returns the complete body.
// Non-2xx statuses, oversized bodies and interrupted reads are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Errorf("invalid url %q: %v", rawURL, err)
	}

	client, err := c.clientFor(parsed.Scheme)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limit wait failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request for %s", rawURL)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("HTTP request", "url", rawURL)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.logger.Debug("HTTP request failed",
			"url", rawURL,
			"error", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, errors.Classify(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("HTTP response received",
		"url", rawURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := CheckStatus(resp); err != nil {
		// Drenar un poco permite reutilizar la conexión
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, err
	}

	return ReadBody(resp, c.config.MaxBodyBytes)
}

// ReadBody reads at most max bytes of the response body.
// Exceeding max yields ErrPayloadTooLarge; a broken stream yields ErrReadFailed.
func ReadBody(resp *http.Response, max int64) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("response is nil")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, max+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrReadFailed, err)
	}
	if int64(len(body)) > max {
		return nil, errors.Wrapf(errors.ErrPayloadTooLarge, "body exceeds %d bytes", max)
	}

	return body, nil
}

// CheckStatus validates the HTTP status code and returns an error if it's not successful.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		sentinel = errors.ErrRateLimit
	case http.StatusNotFound:
		sentinel = errors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = errors.ErrUnauthorized
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway:
		sentinel = errors.ErrServiceUnavailable
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return errors.Wrapf(sentinel, "HTTP %d", resp.StatusCode)
}

// String returns a human-readable representation of the client configuration.
func (c *Client) String() string {
	proxyDesc := "env"
	if c.config.ProxyURL != "" {
		if u, err := url.Parse(c.config.ProxyURL); err == nil {
			proxyDesc = u.Redacted()
		}
	}
	return fmt.Sprintf("HTTPClient{rate_limit=%.1f/s, max_body=%d, proxy=%s}",
		c.config.RateLimit,
		c.config.MaxBodyBytes,
		proxyDesc,
	)
}
