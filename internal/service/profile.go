package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"tier-resolver/internal/api"
	"tier-resolver/internal/cache"
	"tier-resolver/internal/domain"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type IdentityChecker interface {
	Exists(ctx context.Context, username string) (bool, error)
}

type RankingFetcher interface {
	GetProfile(ctx context.Context, username string) ([]byte, error)
}

// ProfileService fronts the primary ranking API with the profile cache.
type ProfileService struct {
	identity IdentityChecker
	ranking  RankingFetcher
	cache    cache.ProfileCache
	logger   zerolog.Logger
}

func NewProfileService(identity IdentityChecker, ranking RankingFetcher, profiles cache.ProfileCache, logger zerolog.Logger) *ProfileService {
	return &ProfileService{identity: identity, ranking: ranking, cache: profiles, logger: logger}
}

// FetchProfile returns the player's profile. Players that fail the identity
// check or are unknown upstream get a synthetic unregistered profile together
// with ErrInvalidUsername or ErrNotRegistered. Only confirmed payloads are cached.
func (s *ProfileService) FetchProfile(ctx context.Context, username string) (*domain.PlayerProfile, error) {
	if raw, ok := s.cache.Get(ctx, username); ok {
		profile, err := parseProfile(raw)
		if err == nil {
			return profile, nil
		}
		s.logger.Warn().Err(err).Str("username", username).Msg("dropping unreadable cached profile")
		s.cache.Delete(ctx, username)
	}

	valid, err := s.identity.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to verify username: %w", err)
	}
	if !valid {
		s.logger.Debug().Str("username", username).Msg("username failed identity check")
		return domain.UnregisteredProfile(username), domain.ErrInvalidUsername
	}

	raw, err := s.ranking.GetProfile(ctx, username)
	if errors.Is(err, domain.ErrNotRegistered) {
		return domain.UnregisteredProfile(username), domain.ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: profile is not valid json", domain.ErrParse)
	}
	if name := gjson.GetBytes(raw, "name"); !name.Exists() || name.String() == "" {
		s.logger.Debug().Str("username", username).Msg("profile payload has no name")
		return domain.UnregisteredProfile(username), domain.ErrNotRegistered
	}

	profile, err := parseProfile(raw)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, username, raw)
	return profile, nil
}

func parseProfile(raw []byte) (*domain.PlayerProfile, error) {
	var resp api.ProfileResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if resp.Name == "" {
		return nil, fmt.Errorf("%w: profile has no name", domain.ErrParse)
	}
	rankings := resp.Rankings
	if rankings == nil {
		rankings = map[string]domain.RankingEntry{}
	}
	return &domain.PlayerProfile{
		Name:       resp.Name,
		Region:     resp.Region,
		Rankings:   rankings,
		Points:     resp.Points,
		Registered: true,
	}, nil
}
