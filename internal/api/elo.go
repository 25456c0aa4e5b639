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
)

// EloClient reads a player's ELO from the live game server. Only online players
// can be queried; the server answers 404 for everyone else.
type EloClient struct {
	baseURL string
	http    *httpClient
}

func NewEloClient(cfg *config.Config, m *metrics.Metrics) *EloClient {
	return NewEloClientWithURL(cfg.EloAPIURL, m)
}

func NewEloClientWithURL(baseURL string, m *metrics.Metrics) *EloClient {
	return &EloClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient("elo", constants.ExternalAPITimeout, constants.ExternalAPITimeout, m),
	}
}

// GetElo returns the raw ELO text. An unconfigured client treats every player as offline.
func (c *EloClient) GetElo(ctx context.Context, username string) (string, error) {
	if c.baseURL == "" {
		return "", domain.ErrOffline
	}
	resp, err := c.http.get(ctx, c.baseURL+"/"+url.PathEscape(username))
	if err != nil {
		return "", err
	}
	switch resp.status {
	case fasthttp.StatusOK:
		return strings.TrimSpace(string(resp.body)), nil
	case fasthttp.StatusNotFound:
		return "", domain.ErrOffline
	default:
		return "", fmt.Errorf("%w: elo status %d", domain.ErrTransientFetch, resp.status)
	}
}
