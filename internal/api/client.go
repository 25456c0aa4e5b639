package api

import (
	"context"
	"fmt"
	"net"
	"time"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// httpClient is the shared outbound GET path. Every call is bounded by the
// context deadline or the client timeout, whichever is earlier.
type httpClient struct {
	name    string
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	headers map[string]string
	metrics *metrics.Metrics
}

type response struct {
	status int
	body   []byte
}

func newHTTPClient(name string, connectTimeout, readTimeout time.Duration, m *metrics.Metrics) *httpClient {
	client := &fasthttp.Client{
		Name:                name,
		MaxConnsPerHost:     32,
		ReadTimeout:         readTimeout,
		WriteTimeout:        readTimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}
	client.Dial = func(addr string) (net.Conn, error) {
		return fasthttp.DialTimeout(addr, connectTimeout)
	}

	return &httpClient{
		name:    name,
		client:  client,
		timeout: connectTimeout + readTimeout,
		headers: map[string]string{},
		metrics: m,
	}
}

func (c *httpClient) get(ctx context.Context, url string) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.ObserveUpstream(c.name, "rate_limited")
			return nil, fmt.Errorf("%w: %s rate limit wait: %v", domain.ErrTransientFetch, c.name, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientFetch, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.metrics.ObserveUpstream(c.name, "error")
		return nil, fmt.Errorf("%w: %s request failed: %v", domain.ErrTransientFetch, c.name, err)
	}

	c.metrics.ObserveUpstream(c.name, statusClass(resp.StatusCode()))

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return &response{status: resp.StatusCode(), body: body}, nil
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "ok"
	case code == fasthttp.StatusNotFound:
		return "not_found"
	case code >= 400 && code < 500:
		return "client_error"
	default:
		return "server_error"
	}
}
