package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
	qb "github.com/trackmetrics/pitchsync/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	home, err := encodeTeam(item.HomeTeam)
	if err != nil {
		return err
	}
	away, err := encodeTeam(item.AwayTeam)
	if err != nil {
		return err
	}
	periods, err := encodePeriods(item.Periods)
	if err != nil {
		return err
	}

	insertModel := matchInsertModel{
		ID:          item.ID,
		Provider:    item.Provider,
		HomeTeam:    home,
		AwayTeam:    away,
		PitchLength: item.PitchLength,
		PitchWidth:  item.PitchWidth,
		FrameRate:   item.FrameRate,
		Periods:     periods,
		Status:      item.Status,
		LoadedAt:    item.LoadedAt,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    provider = EXCLUDED.provider,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    pitch_length = EXCLUDED.pitch_length,
    pitch_width = EXCLUDED.pitch_width,
    frame_rate = EXCLUDED.frame_rate,
    periods = EXCLUDED.periods,
    status = EXCLUDED.status,
    loaded_at = EXCLUDED.loaded_at,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match %s: %w", item.ID, err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").
		From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}

	item, err := matchToDomain(row)
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").
		From("matches").
		OrderBy("loaded_at DESC", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := matchToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID, status string) error {
	query, args, err := qb.Update("matches").
		Set("status", status).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	return nil
}
