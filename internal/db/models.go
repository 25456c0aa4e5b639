package db

import (
	"database/sql"
	"time"
)

type Override struct {
	Username   string
	Gamemode   sql.NullString
	Tier       sql.NullInt64
	TierHigh   sql.NullBool
	Combatrank sql.NullString
	Points     sql.NullInt64
	RankPinned sql.NullBool
}

type OverrideEvent struct {
	ID        string
	Username  string
	Action    string
	Detail    string
	CreatedAt time.Time
}
