package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	qb "github.com/trackmetrics/pitchsync/internal/platform/querybuilder"
)

// A full match carries six figures of frames; inserts go in chunks inside
// one transaction.
const trackingInsertChunk = 1000

type TrackingRepository struct {
	db *sqlx.DB
}

func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

func (r *TrackingRepository) ReplaceByMatch(ctx context.Context, matchID string, items []tracking.Frame) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace frames: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("tracking_frames").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete frames query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete frames match=%s: %w", matchID, err)
	}

	for start := 0; start < len(items); start += trackingInsertChunk {
		end := start + trackingInsertChunk
		if end > len(items) {
			end = len(items)
		}
		models := make([]trackingFrameInsertModel, 0, end-start)
		for _, item := range items[start:end] {
			model, err := frameToInsertModel(item)
			if err != nil {
				return err
			}
			models = append(models, model)
		}

		query, args, err := qb.InsertModels("tracking_frames", models, "")
		if err != nil {
			return fmt.Errorf("build insert frames query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert frames match=%s: %w", matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace frames tx: %w", err)
	}
	return nil
}

func (r *TrackingRepository) ListByMatch(ctx context.Context, matchID string, window tracking.FrameRange) ([]tracking.Frame, error) {
	builder := qb.Select("*").From("tracking_frames")

	conditions := []qb.Condition{qb.Eq("match_id", matchID)}
	if window.PeriodID > 0 {
		conditions = append(conditions, qb.Eq("period_id", window.PeriodID))
	}
	if window.FromFrame > 0 {
		conditions = append(conditions, qb.Gte("frame_id", window.FromFrame))
	}
	if window.ToFrame > 0 {
		conditions = append(conditions, qb.Lte("frame_id", window.ToFrame))
	}
	builder = builder.Where(conditions...).OrderBy("frame_id")
	if window.Limit > 0 {
		builder = builder.Limit(window.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list frames query: %w", err)
	}

	var rows []trackingFrameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}

	out := make([]tracking.Frame, 0, len(rows))
	for _, row := range rows {
		item, err := frameToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TrackingRepository) CountByMatch(ctx context.Context, matchID string) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("tracking_frames").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count frames query: %w", err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count frames: %w", err)
	}
	return count, nil
}

func (r *TrackingRepository) GetFrame(ctx context.Context, matchID string, frameID int64) (tracking.Frame, bool, error) {
	query, args, err := qb.Select("*").
		From("tracking_frames").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("frame_id", frameID),
		).
		ToSQL()
	if err != nil {
		return tracking.Frame{}, false, fmt.Errorf("build get frame query: %w", err)
	}

	var row trackingFrameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tracking.Frame{}, false, nil
		}
		return tracking.Frame{}, false, fmt.Errorf("get frame: %w", err)
	}

	item, err := frameToDomain(row)
	if err != nil {
		return tracking.Frame{}, false, err
	}
	return item, true, nil
}
