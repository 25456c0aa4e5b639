package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"tier-resolver/internal/config"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// RankingClient fetches raw player profiles from the primary ranking API.
type RankingClient struct {
	baseURL string
	http    *httpClient
}

func NewRankingClient(cfg *config.Config, m *metrics.Metrics) *RankingClient {
	c := NewRankingClientWithURL(cfg.RankingAPIURL, m)
	c.http.limiter = rate.NewLimiter(rate.Limit(cfg.RankingAPIRPS), int(cfg.RankingAPIRPS)+1)
	return c
}

func NewRankingClientWithURL(baseURL string, m *metrics.Metrics) *RankingClient {
	c := &RankingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient("ranking", constants.ExternalAPITimeout, constants.ExternalAPITimeout, m),
	}
	c.http.headers["Accept"] = "application/json"
	return c
}

// GetProfile returns the raw JSON payload. A 404 maps to domain.ErrNotRegistered,
// any other non-200 status to domain.ErrTransientFetch.
func (c *RankingClient) GetProfile(ctx context.Context, username string) ([]byte, error) {
	resp, err := c.http.get(ctx, c.baseURL+"/"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	switch resp.status {
	case fasthttp.StatusOK:
		return resp.body, nil
	case fasthttp.StatusNotFound:
		return nil, domain.ErrNotRegistered
	default:
		return nil, fmt.Errorf("%w: ranking api status %d", domain.ErrTransientFetch, resp.status)
	}
}

type ProfileResponse struct {
	Name     string                         `json:"name"`
	Region   string                         `json:"region"`
	Points   int                            `json:"points"`
	Rankings map[string]domain.RankingEntry `json:"rankings"`
}
