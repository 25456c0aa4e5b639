package service

import (
	"context"
	"tier-resolver/internal/cache"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/scraper"

	"github.com/rs/zerolog"
)

type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// VanillaService answers tier lookups from the scraped ranking page, scraping
// each player at most once per process unless their entry is evicted.
type VanillaService struct {
	tiers     *cache.TierMapCache
	snapshots SnapshotProvider
	extractor scraper.Extractor
	logger    zerolog.Logger
}

func NewVanillaService(tiers *cache.TierMapCache, snapshots SnapshotProvider, extractor scraper.Extractor, logger zerolog.Logger) *VanillaService {
	return &VanillaService{tiers: tiers, snapshots: snapshots, extractor: extractor, logger: logger}
}

// GetTier returns the scraped tier code for (username, mode). An error means no
// page snapshot could be obtained; nothing is cached in that case.
func (s *VanillaService) GetTier(ctx context.Context, username, mode string) (string, bool, error) {
	mode = scraper.NormalizeMode(mode)

	if tiers, ok := s.tiers.Get(username); ok {
		code, found := tiers[mode]
		return code, found, nil
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return "", false, err
	}

	tiers, found := scraper.Scrape(s.extractor, snap.Body, username)
	s.logger.Debug().
		Str("username", username).
		Str("provenance", string(snap.Provenance)).
		Str("extractor", s.extractor.Name()).
		Bool("found", found).
		Int("modes", len(tiers)).
		Msg("scraped page tiers")
	s.tiers.Put(username, tiers)

	code, ok := tiers[mode]
	return code, ok, nil
}

// ResolveVanillaTier is GetTier with one forced re-scrape when the cached map lacks the mode.
func (s *VanillaService) ResolveVanillaTier(ctx context.Context, username, mode string) (string, bool, error) {
	code, ok, err := s.GetTier(ctx, username, mode)
	if err != nil || ok {
		return code, ok, err
	}
	s.tiers.Evict(username)
	return s.GetTier(ctx, username, mode)
}
