package db

import (
	"context"
	"time"
)

const insertOverrideEvent = `
INSERT INTO override_events (id, username, action, detail, created_at)
VALUES (?, ?, ?, ?, ?)
`

type InsertOverrideEventParams struct {
	ID        string
	Username  string
	Action    string
	Detail    string
	CreatedAt time.Time
}

func (q *Queries) InsertOverrideEvent(ctx context.Context, arg InsertOverrideEventParams) error {
	_, err := q.db.ExecContext(ctx, insertOverrideEvent,
		arg.ID,
		arg.Username,
		arg.Action,
		arg.Detail,
		arg.CreatedAt,
	)
	return err
}

const listOverrideEvents = `
SELECT id, username, action, detail, created_at
FROM override_events
WHERE username = ?
ORDER BY created_at DESC
LIMIT ?
`

type ListOverrideEventsParams struct {
	Username string
	Limit    int64
}

func (q *Queries) ListOverrideEvents(ctx context.Context, arg ListOverrideEventsParams) ([]OverrideEvent, error) {
	rows, err := q.db.QueryContext(ctx, listOverrideEvents, arg.Username, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OverrideEvent
	for rows.Next() {
		var i OverrideEvent
		if err := rows.Scan(
			&i.ID,
			&i.Username,
			&i.Action,
			&i.Detail,
			&i.CreatedAt,
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
