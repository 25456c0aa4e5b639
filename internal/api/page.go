package api

import (
	"context"
	"fmt"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"

	"github.com/valyala/fasthttp"
)

// PageClient downloads the scraped ranking page.
type PageClient struct {
	http *httpClient
}

func NewPageClient(m *metrics.Metrics) *PageClient {
	c := &PageClient{
		http: newHTTPClient("vanillalist", constants.PageConnectTimeout, constants.PageReadTimeout, m),
	}
	c.http.headers["User-Agent"] = constants.PageUserAgent
	c.http.headers["Accept"] = constants.PageAccept
	return c
}

func (c *PageClient) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.http.get(ctx, url)
	if err != nil {
		return "", err
	}
	if resp.status != fasthttp.StatusOK {
		return "", fmt.Errorf("%w: page status %d", domain.ErrTransientFetch, resp.status)
	}
	return string(resp.body), nil
}
