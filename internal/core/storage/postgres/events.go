package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
)

// CreateEvent inserts an immutable event row. CreatedAt and Timestamp default
// to now when unset. Unknown metric or profile ids map to storage.ErrNotFound,
// a reused event id to storage.ErrConflict.
func (a *Adapter) CreateEvent(ctx context.Context, event *v1.Event) error {
	dataJSON, err := marshalObject(event.Data)
	if err != nil {
		return err
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = a.now()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = event.CreatedAt
	}

	_, err = a.stmtCreateEvent.ExecContext(ctx,
		event.ID,
		event.MetricID,
		event.ProfileID,
		dataJSON,
		event.Timestamp.UTC(),
		event.CreatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError("create event", err)
	}

	slog.Debug("[Postgres] Saved event",
		"event_id", event.ID,
		"metric_id", event.MetricID,
		"profile_id", event.ProfileID)
	return nil
}

func (a *Adapter) FindEventByID(ctx context.Context, id string) (*v1.Event, error) {
	e, err := scanEventRow(a.stmtFindEventByID.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return e, nil
}
