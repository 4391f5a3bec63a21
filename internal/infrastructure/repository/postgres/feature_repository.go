package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	qb "github.com/trackmetrics/pitchsync/internal/platform/querybuilder"
)

const featureInsertChunk = 1000

// FeatureRepository stores every computed-feature family. Replace writes run
// delete-then-insert in one transaction so a recompute is atomic.
type FeatureRepository struct {
	db *sqlx.DB
}

func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

func (r *FeatureRepository) ReplaceDistances(ctx context.Context, matchID string, items []feature.DistanceSummary) error {
	models := make([]distanceSummaryTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, distanceToInsertModel(item))
	}
	return replaceRows(ctx, r.db, "feature_distances", matchID, models)
}

func (r *FeatureRepository) ListDistances(ctx context.Context, matchID string) ([]feature.DistanceSummary, error) {
	query, args, err := qb.Select("*").
		From("feature_distances").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list distances query: %w", err)
	}

	var rows []distanceSummaryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list distances: %w", err)
	}

	out := make([]feature.DistanceSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, distanceToDomain(row))
	}
	return out, nil
}

func (r *FeatureRepository) ReplacePressure(ctx context.Context, matchID string, items []feature.PressureSample) error {
	models := make([]pressureSampleTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, pressureSampleTableModel(item))
	}
	return replaceRows(ctx, r.db, "feature_pressure", matchID, models)
}

func (r *FeatureRepository) ListPressure(ctx context.Context, matchID string, frameID int64) ([]feature.PressureSample, error) {
	conditions := []qb.Condition{qb.Eq("match_id", matchID)}
	if frameID > 0 {
		conditions = append(conditions, qb.Eq("frame_id", frameID))
	}
	query, args, err := qb.Select("*").
		From("feature_pressure").
		Where(conditions...).
		OrderBy("frame_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list pressure query: %w", err)
	}

	var rows []pressureSampleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list pressure: %w", err)
	}

	out := make([]feature.PressureSample, 0, len(rows))
	for _, row := range rows {
		out = append(out, feature.PressureSample(row))
	}
	return out, nil
}

func (r *FeatureRepository) ReplacePossession(ctx context.Context, matchID string, items []feature.PossessionSpan) error {
	models := make([]possessionSpanTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, possessionSpanTableModel(item))
	}
	return replaceRows(ctx, r.db, "feature_possession", matchID, models)
}

func (r *FeatureRepository) ListPossession(ctx context.Context, matchID string) ([]feature.PossessionSpan, error) {
	query, args, err := qb.Select("*").
		From("feature_possession").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("period_id", "start_frame").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list possession query: %w", err)
	}

	var rows []possessionSpanTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list possession: %w", err)
	}

	out := make([]feature.PossessionSpan, 0, len(rows))
	for _, row := range rows {
		out = append(out, feature.PossessionSpan(row))
	}
	return out, nil
}

func (r *FeatureRepository) ReplaceThreat(ctx context.Context, matchID string, items []feature.ThreatValue) error {
	models := make([]threatValueTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, threatValueTableModel(item))
	}
	return replaceRows(ctx, r.db, "feature_threat", matchID, models)
}

func (r *FeatureRepository) ListThreat(ctx context.Context, matchID string) ([]feature.ThreatValue, error) {
	query, args, err := qb.Select("*").
		From("feature_threat").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("event_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list threat query: %w", err)
	}

	var rows []threatValueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list threat: %w", err)
	}

	out := make([]feature.ThreatValue, 0, len(rows))
	for _, row := range rows {
		out = append(out, feature.ThreatValue(row))
	}
	return out, nil
}

func replaceRows[T any](ctx context.Context, db *sqlx.DB, table, matchID string, models []T) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace %s: %w", table, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom(table).
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete %s match=%s: %w", table, matchID, err)
	}

	for start := 0; start < len(models); start += featureInsertChunk {
		end := start + featureInsertChunk
		if end > len(models) {
			end = len(models)
		}

		query, args, err := qb.InsertModels(table, models[start:end], "")
		if err != nil {
			return fmt.Errorf("build insert %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s match=%s: %w", table, matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s tx: %w", table, err)
	}
	return nil
}
