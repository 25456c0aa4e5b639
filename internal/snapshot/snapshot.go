// Package snapshot produces a copy of the ranking page from an ordered list of
// sources: a live download, a time-boxed file on disk, then the page bundled
// into the binary.
package snapshot

import (
	"context"
	"fmt"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/metrics"

	"github.com/rs/zerolog"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) (*domain.Snapshot, error)
}

// PageFetcher downloads a page body; api.PageClient implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Chain struct {
	sources []Source
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewChain(logger zerolog.Logger, m *metrics.Metrics, sources ...Source) *Chain {
	return &Chain{sources: sources, logger: logger, metrics: m}
}

// Snapshot returns the first snapshot any source can produce, in source order.
func (c *Chain) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	for _, src := range c.sources {
		snap, err := src.Fetch(ctx)
		if err != nil {
			c.logger.Debug().Err(err).Str("source", src.Name()).Msg("page snapshot source unavailable")
			continue
		}
		c.metrics.ObserveSnapshot(string(snap.Provenance))
		return snap, nil
	}
	return nil, fmt.Errorf("%w: no page snapshot available", domain.ErrTransientFetch)
}
