package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tier-resolver/internal/constants"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/ladder"
	"tier-resolver/internal/metrics"
	"tier-resolver/internal/scraper"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type OverrideStore interface {
	Get(ctx context.Context, username string, mode *string) (*domain.Override, error)
	List(ctx context.Context, username string) ([]domain.Override, error)
	Merge(ctx context.Context, username string, mode *string, patch domain.OverridePatch) (*domain.Override, error)
	MergeFunc(ctx context.Context, username string, mode *string, fn func(prev *domain.Override) (domain.OverridePatch, bool)) (*domain.Override, error)
	DeleteAll(ctx context.Context, username string) (int64, error)
}

type EventLog interface {
	Record(ctx context.Context, username, action, detail string) error
	List(ctx context.Context, username string, limit int) ([]domain.OverrideEvent, error)
}

type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (*domain.PlayerProfile, error)
}

type VanillaTiers interface {
	GetTier(ctx context.Context, username, mode string) (string, bool, error)
	ResolveVanillaTier(ctx context.Context, username, mode string) (string, bool, error)
}

type EloTiers interface {
	GetEloTier(ctx context.Context, username string) (ladder.Step, bool)
}

const (
	actionSetTier   = "set_tier"
	actionSetRank   = "set_rank"
	actionSetPoints = "set_points"
	actionReset     = "reset"
)

// Resolver answers tier and rank lookups from overrides, the ranking API,
// the scraped page and the ELO estimate, in that order.
type Resolver struct {
	overrides OverrideStore
	events    EventLog
	profiles  ProfileFetcher
	vanilla   VanillaTiers
	elo       EloTiers
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewResolver(
	overrides OverrideStore,
	events EventLog,
	profiles ProfileFetcher,
	vanilla VanillaTiers,
	elo EloTiers,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		overrides: overrides,
		events:    events,
		profiles:  profiles,
		vanilla:   vanilla,
		elo:       elo,
		metrics:   m,
		logger:    logger,
	}
}

// ResolveTier returns the tier for (username, mode). When every source comes up
// empty the result renders as not available and the error is ErrNoData.
func (r *Resolver) ResolveTier(ctx context.Context, username, mode string) (domain.DisplayResult, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return domain.DisplayResult{Source: domain.SourceNone}, err
	}
	mode, err = domain.ValidateMode(mode)
	if err != nil {
		return domain.DisplayResult{Username: username, Source: domain.SourceNone}, err
	}
	result := domain.DisplayResult{Username: username, Mode: mode, Source: domain.SourceNone}
	log := r.logger.With().Str("username", username).Str("mode", mode).Logger()

	override, err := r.getOverride(ctx, username, &mode)
	if err != nil {
		log.Warn().Err(err).Str("source", string(domain.SourceOverride)).Msg("override lookup failed, continuing")
	} else if code, ok := override.TierCode(); ok {
		return r.tierResult(result, code.String(), domain.SourceOverride, ""), nil
	}

	profile, err := r.profiles.FetchProfile(ctx, username)
	switch {
	case err == nil:
		if entry, ok := rankingFor(profile, mode); ok {
			return r.tierResult(result, entry.Code().String(), domain.SourcePrimary, ""), nil
		}
	case errors.Is(err, domain.ErrNotRegistered), errors.Is(err, domain.ErrInvalidUsername):
		log.Debug().Err(err).Msg("no ranking profile, falling through")
	default:
		log.Warn().Err(err).Str("source", string(domain.SourcePrimary)).Msg("profile fetch failed, falling through")
	}

	code, ok, err := r.vanilla.GetTier(ctx, username, mode)
	if err != nil {
		log.Warn().Err(err).Str("source", string(domain.SourceVanillaList)).Msg("page tiers unavailable, falling through")
	} else if ok {
		return r.tierResult(result, code, domain.SourceVanillaList, ""), nil
	}

	if step, ok := r.elo.GetEloTier(ctx, username); ok {
		return r.tierResult(result, step.Label, domain.SourceElo, step.Color), nil
	}

	log.Debug().Msg("no tier from any source")
	r.metrics.ObserveResolution("tier", string(domain.SourceNone))
	return result, domain.ErrNoData
}

func (r *Resolver) tierResult(base domain.DisplayResult, code string, source domain.Source, color string) domain.DisplayResult {
	r.metrics.ObserveResolution("tier", string(source))
	base.Code = code
	base.Source = source
	base.Color = color
	return base
}

// ResolveRank returns the combat rank: explicit override, then points override,
// then ranking API points.
func (r *Resolver) ResolveRank(ctx context.Context, username string) (domain.RankDisplay, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return domain.RankDisplay{Source: domain.RankSourceNone}, err
	}
	result := domain.RankDisplay{Username: username, Source: domain.RankSourceNone}

	global, err := r.getOverride(ctx, username, nil)
	if err != nil {
		r.logger.Warn().Err(err).Str("username", username).Msg("override lookup failed, continuing")
		global = nil
	}

	switch {
	case global != nil && global.CombatRank != nil:
		result.Rank = *global.CombatRank
		result.Points = global.Points
		result.Source = domain.RankSourceOverride
	case global != nil && global.Points != nil:
		result.Points = global.Points
		if rank, ok := ladder.PointsToRank(*global.Points); ok {
			result.Rank = rank
			result.Source = domain.RankSourcePointsOverride
		}
	default:
		profile, err := r.profiles.FetchProfile(ctx, username)
		if err != nil {
			r.logger.Debug().Err(err).Str("username", username).Msg("no ranking profile for rank")
			break
		}
		result.Points = domain.Ptr(profile.Points)
		if rank, ok := ladder.PointsToRank(profile.Points); ok {
			result.Rank = rank
			result.Source = domain.RankSourcePrimary
		}
	}

	r.metrics.ObserveResolution("rank", string(result.Source))
	if !result.Available() {
		return result, domain.ErrNoData
	}
	result.Color = ladder.RankColor(result.Rank)
	return result, nil
}

// ResolveEloTag returns only the ELO-derived tier.
func (r *Resolver) ResolveEloTag(ctx context.Context, username string) (domain.DisplayResult, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return domain.DisplayResult{Source: domain.SourceNone}, err
	}
	result := domain.DisplayResult{Username: username, Source: domain.SourceNone}
	if step, ok := r.elo.GetEloTier(ctx, username); ok {
		return r.tierResult(result, step.Label, domain.SourceElo, step.Color), nil
	}
	r.metrics.ObserveResolution("elo", string(domain.SourceNone))
	return result, domain.ErrNoData
}

// ResolveVanillaTier returns only the scraped tier, re-scraping once on a miss.
func (r *Resolver) ResolveVanillaTier(ctx context.Context, username, mode string) (domain.DisplayResult, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return domain.DisplayResult{Source: domain.SourceNone}, err
	}
	mode, err = domain.ValidateMode(mode)
	if err != nil {
		return domain.DisplayResult{Username: username, Source: domain.SourceNone}, err
	}
	result := domain.DisplayResult{Username: username, Mode: mode, Source: domain.SourceNone}

	code, ok, err := r.vanilla.ResolveVanillaTier(ctx, username, mode)
	if err != nil {
		r.logger.Warn().Err(err).Str("username", username).Str("mode", mode).Msg("page tiers unavailable")
	}
	if ok {
		return r.tierResult(result, code, domain.SourceVanillaList, ""), nil
	}
	r.metrics.ObserveResolution("vanilla", string(domain.SourceNone))
	return result, domain.ErrNoData
}

// RecalcRank recomputes the global row's combat rank from the effective points.
// A pinned rank is left alone. It returns the global row as stored afterwards.
// The pin and points checks run inside the store's write transaction, so
// a concurrent points or rank write is never reverted.
func (r *Resolver) RecalcRank(ctx context.Context, username string) (*domain.Override, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	global, err := r.getOverride(ctx, username, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read global override: %w", err)
	}

	// Profile points are fetched outside the write lock; they only apply when
	// the row still has no points override at write time.
	profilePoints := -1
	if global == nil || global.Points == nil {
		profile, err := r.profiles.FetchProfile(ctx, username)
		if profile == nil {
			r.logger.Warn().Err(err).Str("username", username).Msg("cannot recalculate rank without profile")
		} else {
			profilePoints = profile.Points
		}
	}

	var points int
	var rank string
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	merged, err := r.overrides.MergeFunc(dbCtx, username, nil, func(prev *domain.Override) (domain.OverridePatch, bool) {
		if prev.IsRankPinned() {
			return domain.OverridePatch{}, false
		}
		switch {
		case prev != nil && prev.Points != nil:
			points = *prev.Points
		case profilePoints >= 0:
			points = profilePoints
		default:
			return domain.OverridePatch{}, false
		}
		var ok bool
		rank, ok = ladder.PointsToRank(points)
		if !ok {
			return domain.OverridePatch{}, false
		}
		return domain.OverridePatch{CombatRank: domain.Ptr(rank)}, true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store recalculated rank: %w", err)
	}
	if rank != "" {
		r.logger.Info().Str("username", username).Int("points", points).Str("rank", rank).Msg("recalculated combat rank")
	}
	return merged, nil
}

func (r *Resolver) SetTierOverride(ctx context.Context, username, mode, code string) (*domain.Override, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	mode, err = domain.ValidateMode(mode)
	if err != nil {
		return nil, err
	}
	tier, err := domain.ParseTierCode(code)
	if err != nil {
		return nil, err
	}

	row, err := r.mergeOverride(ctx, username, &mode, domain.OverridePatch{
		Tier:     domain.Ptr(tier.Tier),
		TierHigh: domain.Ptr(tier.High),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store tier override: %w", err)
	}
	r.audit(ctx, username, actionSetTier, fmt.Sprintf("%s=%s", mode, tier))

	if _, err := r.RecalcRank(ctx, username); err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("tier override stored but rank recalculation failed")
	}
	return row, nil
}

func (r *Resolver) SetRankOverride(ctx context.Context, username, rank string) (*domain.Override, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	rank, err = domain.ValidateRank(rank)
	if err != nil {
		return nil, err
	}

	row, err := r.mergeOverride(ctx, username, nil, domain.OverridePatch{
		CombatRank: domain.Ptr(rank),
		RankPinned: domain.Ptr(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store rank override: %w", err)
	}
	r.audit(ctx, username, actionSetRank, rank)
	return row, nil
}

func (r *Resolver) SetPointsOverride(ctx context.Context, username string, points int) (*domain.Override, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if points < 0 {
		return nil, &domain.ValidationError{Field: "points", Reason: fmt.Sprintf("must not be negative, got %d", points)}
	}

	row, err := r.mergeOverride(ctx, username, nil, domain.OverridePatch{Points: domain.Ptr(points)})
	if err != nil {
		return nil, fmt.Errorf("failed to store points override: %w", err)
	}
	r.audit(ctx, username, actionSetPoints, fmt.Sprintf("%d", points))

	recalculated, err := r.RecalcRank(ctx, username)
	if err != nil {
		r.logger.Error().Err(err).Str("username", username).Msg("points override stored but rank recalculation failed")
		return row, nil
	}
	if recalculated != nil {
		row = recalculated
	}
	return row, nil
}

// ResetOverrides deletes every override row for the player and reports how many were removed.
func (r *Resolver) ResetOverrides(ctx context.Context, username string) (int64, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return 0, err
	}
	n, err := r.overrides.DeleteAll(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to reset overrides: %w", err)
	}
	r.audit(ctx, username, actionReset, fmt.Sprintf("%d rows", n))
	return n, nil
}

type OverrideListing struct {
	Username  string                 `json:"username"`
	Overrides []domain.Override      `json:"overrides"`
	Events    []domain.OverrideEvent `json:"events"`
}

func (r *Resolver) ListOverrides(ctx context.Context, username string) (*OverrideListing, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	listing := &OverrideListing{Username: username}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.overrides.List(gctx, username)
		if err != nil {
			return fmt.Errorf("failed to list overrides: %w", err)
		}
		listing.Overrides = rows
		return nil
	})
	g.Go(func() error {
		events, err := r.events.List(gctx, username, constants.OverrideEventLimit)
		if err != nil {
			return fmt.Errorf("failed to list override events: %w", err)
		}
		listing.Events = events
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *Resolver) getOverride(ctx context.Context, username string, mode *string) (*domain.Override, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return r.overrides.Get(ctx, username, mode)
}

func (r *Resolver) mergeOverride(ctx context.Context, username string, mode *string, patch domain.OverridePatch) (*domain.Override, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return r.overrides.Merge(ctx, username, mode, patch)
}

// audit failures are logged only; the override write they describe has already committed.
func (r *Resolver) audit(ctx context.Context, username, action, detail string) {
	if err := r.events.Record(ctx, username, action, detail); err != nil {
		r.logger.Error().Err(err).Str("username", username).Str("action", action).Msg("failed to record override event")
	}
}

func normalizeUsername(username string) (string, error) {
	name := domain.CanonicalName(username)
	if name == "" || strings.ContainsAny(name, "/ ") {
		return "", &domain.ValidationError{Field: "username", Reason: fmt.Sprintf("invalid username %q", username)}
	}
	return name, nil
}

// rankingFor finds the mode's entry, accepting upstream keys that are synonyms of the mode.
func rankingFor(profile *domain.PlayerProfile, mode string) (domain.RankingEntry, bool) {
	if entry, ok := profile.Rankings[mode]; ok {
		return entry, true
	}
	for key, entry := range profile.Rankings {
		if scraper.NormalizeMode(key) == mode {
			return entry, true
		}
	}
	return domain.RankingEntry{}, false
}
