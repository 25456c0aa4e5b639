package api

import (
	"context"
	"net/url"
	"strings"
	"tier-resolver/internal/config"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/metrics"

	"github.com/valyala/fasthttp"
)

// IdentityClient checks that a username belongs to a real account.
type IdentityClient struct {
	baseURL string
	http    *httpClient
}

func NewIdentityClient(cfg *config.Config, m *metrics.Metrics) *IdentityClient {
	return NewIdentityClientWithURL(cfg.IdentityAPIURL, m)
}

func NewIdentityClientWithURL(baseURL string, m *metrics.Metrics) *IdentityClient {
	return &IdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient("identity", constants.ExternalAPITimeout, constants.ExternalAPITimeout, m),
	}
}

// Exists reports whether the identity API answers 200 with a non-empty body.
// Any other status means the name is invalid; transport failures are errors.
func (c *IdentityClient) Exists(ctx context.Context, username string) (bool, error) {
	resp, err := c.http.get(ctx, c.baseURL+"/"+url.PathEscape(username))
	if err != nil {
		return false, err
	}
	if resp.status != fasthttp.StatusOK {
		return false, nil
	}
	return len(strings.TrimSpace(string(resp.body))) > 0, nil
}
