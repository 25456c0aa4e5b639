package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"tier-resolver/internal/db"
	"tier-resolver/internal/domain"

	"github.com/rs/zerolog"
)

// OverrideRepository is the override store. Merges are serialized so concurrent
// read-modify-write cycles on the same row never lose an update.
type OverrideRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
	writeMu sync.Mutex
}

func NewOverrideRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *OverrideRepository {
	return &OverrideRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Get returns the row for (username, mode), or nil when none exists. A nil mode reads the global row.
func (r *OverrideRepository) Get(ctx context.Context, username string, mode *string) (*domain.Override, error) {
	row, err := r.queries.GetOverride(ctx, db.GetOverrideParams{
		Username: username,
		Gamemode: nullString(mode),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(row), nil
}

func (r *OverrideRepository) List(ctx context.Context, username string) ([]domain.Override, error) {
	rows, err := r.queries.ListOverrides(ctx, username)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Override, len(rows))
	for i, row := range rows {
		result[i] = *toDomain(row)
	}
	return result, nil
}

// Merge overlays the non-nil fields of patch onto the stored row and writes it back.
func (r *OverrideRepository) Merge(ctx context.Context, username string, mode *string, patch domain.OverridePatch) (*domain.Override, error) {
	return r.MergeFunc(ctx, username, mode, func(*domain.Override) (domain.OverridePatch, bool) {
		return patch, true
	})
}

// MergeFunc derives the patch from the current row while holding the write lock
// and transaction, so the decision and the write see the same row. When fn
// reports false nothing is written and the current row is returned.
func (r *OverrideRepository) MergeFunc(ctx context.Context, username string, mode *string, fn func(prev *domain.Override) (domain.OverridePatch, bool)) (*domain.Override, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	var prev *domain.Override
	row, err := qtx.GetOverride(ctx, db.GetOverrideParams{Username: username, Gamemode: nullString(mode)})
	switch {
	case err == nil:
		prev = toDomain(row)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to read override: %w", err)
	}

	patch, ok := fn(prev)
	if !ok {
		return prev, nil
	}
	merged := patch.Apply(username, mode, prev)

	if err := qtx.UpsertOverride(ctx, db.UpsertOverrideParams{
		Username:   merged.Username,
		Gamemode:   nullString(merged.Mode),
		Tier:       nullInt(merged.Tier),
		TierHigh:   nullBool(merged.TierHigh),
		Combatrank: nullString(merged.CombatRank),
		Points:     nullInt(merged.Points),
		RankPinned: nullBool(merged.RankPinned),
	}); err != nil {
		return nil, fmt.Errorf("failed to upsert override: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit override: %w", err)
	}

	r.logger.Debug().
		Str("username", username).
		Str("mode", modeLabel(mode)).
		Msg("override merged")

	return &merged, nil
}

// DeleteAll removes every row of the player, global and per-mode alike.
func (r *OverrideRepository) DeleteAll(ctx context.Context, username string) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	n, err := r.queries.DeleteOverrides(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to delete overrides: %w", err)
	}
	r.logger.Debug().Str("username", username).Int64("rows", n).Msg("overrides deleted")
	return n, nil
}

func toDomain(row db.Override) *domain.Override {
	o := &domain.Override{Username: row.Username}
	if row.Gamemode.Valid {
		o.Mode = domain.Ptr(row.Gamemode.String)
	}
	if row.Tier.Valid {
		o.Tier = domain.Ptr(int(row.Tier.Int64))
	}
	if row.TierHigh.Valid {
		o.TierHigh = domain.Ptr(row.TierHigh.Bool)
	}
	if row.Combatrank.Valid {
		o.CombatRank = domain.Ptr(row.Combatrank.String)
	}
	if row.Points.Valid {
		o.Points = domain.Ptr(int(row.Points.Int64))
	}
	if row.RankPinned.Valid {
		o.RankPinned = domain.Ptr(row.RankPinned.Bool)
	}
	return o
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func modeLabel(mode *string) string {
	if mode == nil {
		return "global"
	}
	return *mode
}
