package snapshot

import (
	"context"
	_ "embed"
	"errors"
	"time"
	"tier-resolver/internal/domain"
)

//go:embed bundled/vanillalist_cached.html
var bundledPage string

// bundledAt is when bundled/vanillalist_cached.html was captured.
var bundledAt = time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

type BundledSource struct {
	body string
}

func NewBundledSource() *BundledSource {
	return &BundledSource{body: bundledPage}
}

func (s *BundledSource) Name() string { return string(domain.ProvenanceBundled) }

func (s *BundledSource) Fetch(context.Context) (*domain.Snapshot, error) {
	if s.body == "" {
		return nil, errors.New("no bundled page snapshot")
	}
	return &domain.Snapshot{Body: s.body, RetrievedAt: bundledAt, Provenance: domain.ProvenanceBundled}, nil
}
