package snapshot

import (
	"context"
	"fmt"
	"time"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"

	"golang.org/x/sync/singleflight"
)

type LiveSource struct {
	url   string
	pages PageFetcher
	group singleflight.Group
}

func NewLiveSource(url string, pages PageFetcher) *LiveSource {
	return &LiveSource{url: url, pages: pages}
}

func (s *LiveSource) Name() string { return string(domain.ProvenanceLive) }

// Fetch downloads the page. Bodies under the size floor are rejected so an
// error or challenge page is never scraped as an empty ranking.
func (s *LiveSource) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	return shared(ctx, &s.group, s.url, func(ctx context.Context) (*domain.Snapshot, error) {
		body, err := s.pages.Fetch(ctx, s.url)
		if err != nil {
			return nil, err
		}
		if len(body) < constants.SnapshotMinBytes {
			return nil, fmt.Errorf("%w: live page too small: %d bytes", domain.ErrTransientFetch, len(body))
		}
		return &domain.Snapshot{
			Body:        body,
			RetrievedAt: time.Now(),
			Provenance:  domain.ProvenanceLive,
		}, nil
	})
}

// shared runs fn once per key for all concurrent callers. The flight is
// detached from any single caller's cancellation and bounded by its own
// timeout; each caller still stops waiting when its own ctx ends.
func shared(ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (*domain.Snapshot, error)) (*domain.Snapshot, error) {
	ch := group.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ExternalAPITimeout)
		defer cancel()
		return fn(flightCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
