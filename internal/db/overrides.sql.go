package db

import (
	"context"
	"database/sql"
)

const getOverride = `
SELECT username, gamemode, tier, tier_high, combatrank, points, rank_pinned
FROM overrides
WHERE username = ? AND gamemode IS ?
`

type GetOverrideParams struct {
	Username string
	Gamemode sql.NullString
}

func (q *Queries) GetOverride(ctx context.Context, arg GetOverrideParams) (Override, error) {
	row := q.db.QueryRowContext(ctx, getOverride, arg.Username, arg.Gamemode)
	var i Override
	err := row.Scan(
		&i.Username,
		&i.Gamemode,
		&i.Tier,
		&i.TierHigh,
		&i.Combatrank,
		&i.Points,
		&i.RankPinned,
	)
	return i, err
}

const listOverrides = `
SELECT username, gamemode, tier, tier_high, combatrank, points, rank_pinned
FROM overrides
WHERE username = ?
ORDER BY gamemode IS NOT NULL, gamemode
`

func (q *Queries) ListOverrides(ctx context.Context, username string) ([]Override, error) {
	rows, err := q.db.QueryContext(ctx, listOverrides, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Override
	for rows.Next() {
		var i Override
		if err := rows.Scan(
			&i.Username,
			&i.Gamemode,
			&i.Tier,
			&i.TierHigh,
			&i.Combatrank,
			&i.Points,
			&i.RankPinned,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertModeOverride = `
INSERT INTO overrides (username, gamemode, tier, tier_high, combatrank, points, rank_pinned)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (username, gamemode) DO UPDATE SET
    tier = excluded.tier,
    tier_high = excluded.tier_high,
    combatrank = excluded.combatrank,
    points = excluded.points,
    rank_pinned = excluded.rank_pinned
`

const upsertGlobalOverride = `
INSERT INTO overrides (username, gamemode, tier, tier_high, combatrank, points, rank_pinned)
VALUES (?, NULL, ?, ?, ?, ?, ?)
ON CONFLICT (username) WHERE gamemode IS NULL DO UPDATE SET
    tier = excluded.tier,
    tier_high = excluded.tier_high,
    combatrank = excluded.combatrank,
    points = excluded.points,
    rank_pinned = excluded.rank_pinned
`

type UpsertOverrideParams struct {
	Username   string
	Gamemode   sql.NullString
	Tier       sql.NullInt64
	TierHigh   sql.NullBool
	Combatrank sql.NullString
	Points     sql.NullInt64
	RankPinned sql.NullBool
}

// UpsertOverride writes a full row. A null Gamemode targets the player's global row.
func (q *Queries) UpsertOverride(ctx context.Context, arg UpsertOverrideParams) error {
	if !arg.Gamemode.Valid {
		_, err := q.db.ExecContext(ctx, upsertGlobalOverride,
			arg.Username,
			arg.Tier,
			arg.TierHigh,
			arg.Combatrank,
			arg.Points,
			arg.RankPinned,
		)
		return err
	}
	_, err := q.db.ExecContext(ctx, upsertModeOverride,
		arg.Username,
		arg.Gamemode,
		arg.Tier,
		arg.TierHigh,
		arg.Combatrank,
		arg.Points,
		arg.RankPinned,
	)
	return err
}

const deleteOverrides = `
DELETE FROM overrides WHERE username = ?
`

func (q *Queries) DeleteOverrides(ctx context.Context, username string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOverrides, username)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
