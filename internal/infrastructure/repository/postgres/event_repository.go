package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	qb "github.com/trackmetrics/pitchsync/internal/platform/querybuilder"
)

// eventInsertChunk keeps multi-row inserts under the wire placeholder cap.
const eventInsertChunk = 500

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ReplaceByMatch(ctx context.Context, matchID string, items []event.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("events").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete events match=%s: %w", matchID, err)
	}

	for start := 0; start < len(items); start += eventInsertChunk {
		end := start + eventInsertChunk
		if end > len(items) {
			end = len(items)
		}
		models := make([]eventInsertModel, 0, end-start)
		for _, item := range items[start:end] {
			models = append(models, eventToInsertModel(item))
		}

		query, args, err := qb.InsertModels("events", models, "")
		if err != nil {
			return fmt.Errorf("build insert events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert events match=%s: %w", matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace events tx: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByMatch(ctx context.Context, matchID string) ([]event.Event, error) {
	query, args, err := qb.Select("*").
		From("events").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}
	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) ListByMatchAndKind(ctx context.Context, matchID, kind string) ([]event.Event, error) {
	query, args, err := qb.Select("*").
		From("events").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("kind", kind),
		).
		OrderBy("event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events by kind query: %w", err)
	}
	return r.selectEvents(ctx, query, args)
}

func (r *EventRepository) UpdateSyncedFrames(ctx context.Context, matchID string, frameByEventID map[int64]int64) error {
	if len(frameByEventID) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx update synced frames: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for eventID, frameID := range frameByEventID {
		query, args, err := qb.Update("events").
			Set("synced_frame", frameID).
			Where(
				qb.Eq("match_id", matchID),
				qb.Eq("event_id", eventID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update synced frame query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update synced frame event=%d: %w", eventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update synced frames tx: %w", err)
	}
	return nil
}

func (r *EventRepository) selectEvents(ctx context.Context, query string, args []any) ([]event.Event, error) {
	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventToDomain(row))
	}
	return out, nil
}
