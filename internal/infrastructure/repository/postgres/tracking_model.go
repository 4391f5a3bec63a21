package postgres

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/bytedance/sonic"

	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

type trackingFrameTableModel struct {
	MatchID        string          `db:"match_id"`
	FrameID        int64           `db:"frame_id"`
	PeriodID       int             `db:"period_id"`
	TimestampMS    int64           `db:"timestamp_ms"`
	BallX          sql.NullFloat64 `db:"ball_x"`
	BallY          sql.NullFloat64 `db:"ball_y"`
	BallStatus     string          `db:"ball_status"`
	PossessionSide string          `db:"possession_side"`
	Positions      []byte          `db:"positions"`
}

type trackingFrameInsertModel struct {
	MatchID        string          `db:"match_id"`
	FrameID        int64           `db:"frame_id"`
	PeriodID       int             `db:"period_id"`
	TimestampMS    int64           `db:"timestamp_ms"`
	BallX          sql.NullFloat64 `db:"ball_x"`
	BallY          sql.NullFloat64 `db:"ball_y"`
	BallStatus     string          `db:"ball_status"`
	PossessionSide string          `db:"possession_side"`
	Positions      []byte          `db:"positions"`
}

// positionDoc is one tracked point inside the positions JSONB document.
// Players missing from a frame are omitted rather than stored as NaN, which
// JSON cannot carry.
type positionDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func frameToInsertModel(item tracking.Frame) (trackingFrameInsertModel, error) {
	docs := make(map[string]positionDoc, len(item.Positions))
	for playerID, pos := range item.Positions {
		if pos.Missing() {
			continue
		}
		docs[playerID] = positionDoc{X: pos.X, Y: pos.Y}
	}
	positions, err := sonic.Marshal(docs)
	if err != nil {
		return trackingFrameInsertModel{}, fmt.Errorf("encode frame %d positions: %w", item.FrameID, err)
	}

	return trackingFrameInsertModel{
		MatchID:        item.MatchID,
		FrameID:        item.FrameID,
		PeriodID:       item.PeriodID,
		TimestampMS:    item.TimestampMS,
		BallX:          nullableCoordinate(item.Ball.X),
		BallY:          nullableCoordinate(item.Ball.Y),
		BallStatus:     item.Ball.Status,
		PossessionSide: item.Ball.PossessionSide,
		Positions:      positions,
	}, nil
}

func frameToDomain(row trackingFrameTableModel) (tracking.Frame, error) {
	var docs map[string]positionDoc
	if err := sonic.Unmarshal(row.Positions, &docs); err != nil {
		return tracking.Frame{}, fmt.Errorf("decode frame %d positions: %w", row.FrameID, err)
	}

	positions := make(map[string]tracking.Position, len(docs))
	for playerID, doc := range docs {
		positions[playerID] = tracking.Position{X: doc.X, Y: doc.Y}
	}

	return tracking.Frame{
		MatchID:     row.MatchID,
		FrameID:     row.FrameID,
		PeriodID:    row.PeriodID,
		TimestampMS: row.TimestampMS,
		Ball: tracking.Ball{
			Position:       coordinateFromNull(row.BallX, row.BallY),
			Status:         row.BallStatus,
			PossessionSide: row.PossessionSide,
		},
		Positions: positions,
	}, nil
}

func nullableCoordinate(value float64) sql.NullFloat64 {
	if math.IsNaN(value) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: value, Valid: true}
}

func coordinateFromNull(x, y sql.NullFloat64) tracking.Position {
	if !x.Valid || !y.Valid {
		return tracking.MissingPosition()
	}
	return tracking.Position{X: x.Float64, Y: y.Float64}
}
