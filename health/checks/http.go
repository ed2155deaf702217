package checks

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pleme-io/pleme-health/health"
)

// EndpointChecker checks that a remote HTTP endpoint answers with an
// expected status code.
type EndpointChecker struct {
	url      string
	expected int
	client   *http.Client
	header   http.Header
}

// HTTPOption is a functional option for EndpointChecker.
type HTTPOption func(*EndpointChecker)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *EndpointChecker) {
		c.client = client
	}
}

// WithHeader adds a request header sent with every check.
func WithHeader(key, value string) HTTPOption {
	return func(c *EndpointChecker) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Add(key, value)
	}
}

// HTTP creates a checker that issues GET url and expects the given status.
func HTTP(url string, expected int, opts ...HTTPOption) *EndpointChecker {
	c := &EndpointChecker{
		url:      url,
		expected: expected,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check performs the endpoint health check.
func (c *EndpointChecker) Check(ctx context.Context) health.Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return health.Unhealthy(fmt.Sprintf("HTTP request failed: %v", err))
	}
	for key, values := range c.header {
		req.Header[key] = values
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return health.Unhealthy(fmt.Sprintf("HTTP request failed: %v", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != c.expected {
		return health.Unhealthy(fmt.Sprintf("expected status %d, got %d", c.expected, resp.StatusCode))
	}

	return health.HealthyWithMessage(fmt.Sprintf("HTTP %d OK", resp.StatusCode)).
		WithDuration(time.Since(start))
}
