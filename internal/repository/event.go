package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tier-resolver/internal/db"
	"tier-resolver/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type EventRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *EventRepository) Record(ctx context.Context, username, action, detail string) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	if err := r.queries.InsertOverrideEvent(ctx, db.InsertOverrideEventParams{
		ID:        id,
		Username:  username,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to insert override event: %w", err)
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, username string, limit int) ([]domain.OverrideEvent, error) {
	rows, err := r.queries.ListOverrideEvents(ctx, db.ListOverrideEventsParams{
		Username: username,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}

	result := make([]domain.OverrideEvent, len(rows))
	for i, e := range rows {
		result[i] = domain.OverrideEvent{
			ID:        e.ID,
			Username:  e.Username,
			Action:    e.Action,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		}
	}
	return result, nil
}
