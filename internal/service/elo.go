package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"tier-resolver/internal/domain"
	"tier-resolver/internal/ladder"

	"github.com/rs/zerolog"
)

type EloFetcher interface {
	GetElo(ctx context.Context, username string) (string, error)
}

type EloService struct {
	elo    EloFetcher
	logger zerolog.Logger
}

func NewEloService(elo EloFetcher, logger zerolog.Logger) *EloService {
	return &EloService{elo: elo, logger: logger}
}

// GetEloTier maps the player's live ELO onto the tier ladder. Offline players,
// empty values and unparseable values all yield no tier.
func (s *EloService) GetEloTier(ctx context.Context, username string) (ladder.Step, bool) {
	raw, err := s.elo.GetElo(ctx, username)
	if errors.Is(err, domain.ErrOffline) {
		s.logger.Debug().Str("username", username).Msg("player offline, no elo")
		return ladder.Step{}, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("username", username).Str("source", string(domain.SourceElo)).Msg("failed to fetch elo")
		return ladder.Step{}, false
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return ladder.Step{}, false
	}
	elo, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(elo) {
		s.logger.Warn().Str("username", username).Str("elo", raw).Msg("elo value is not a number")
		return ladder.Step{}, false
	}
	return ladder.EloToTier(elo), true
}
