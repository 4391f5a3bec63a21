package postgres

import "github.com/trackmetrics/pitchsync/internal/domain/feature"

type distanceSummaryTableModel struct {
	MatchID      string  `db:"match_id"`
	PlayerID     string  `db:"player_id"`
	TotalM       float64 `db:"total_m"`
	WalkM        float64 `db:"walk_m"`
	JogM         float64 `db:"jog_m"`
	RunM         float64 `db:"run_m"`
	SprintM      float64 `db:"sprint_m"`
	TopSpeedMS   float64 `db:"top_speed_ms"`
	FramesMasked int64   `db:"frames_masked"`
}

func distanceToInsertModel(item feature.DistanceSummary) distanceSummaryTableModel {
	return distanceSummaryTableModel{
		MatchID:      item.MatchID,
		PlayerID:     item.PlayerID,
		TotalM:       item.TotalM,
		WalkM:        item.BandM[feature.BandWalk],
		JogM:         item.BandM[feature.BandJog],
		RunM:         item.BandM[feature.BandRun],
		SprintM:      item.BandM[feature.BandSprint],
		TopSpeedMS:   item.TopSpeedMS,
		FramesMasked: item.FramesMasked,
	}
}

func distanceToDomain(row distanceSummaryTableModel) feature.DistanceSummary {
	return feature.DistanceSummary{
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		TotalM:   row.TotalM,
		BandM: map[string]float64{
			feature.BandWalk:   row.WalkM,
			feature.BandJog:    row.JogM,
			feature.BandRun:    row.RunM,
			feature.BandSprint: row.SprintM,
		},
		TopSpeedMS:   row.TopSpeedMS,
		FramesMasked: row.FramesMasked,
	}
}

type pressureSampleTableModel struct {
	MatchID  string  `db:"match_id"`
	FrameID  int64   `db:"frame_id"`
	PlayerID string  `db:"player_id"`
	Pressure float64 `db:"pressure"`
}

type possessionSpanTableModel struct {
	MatchID    string `db:"match_id"`
	TeamID     string `db:"team_id"`
	PeriodID   int    `db:"period_id"`
	StartFrame int64  `db:"start_frame"`
	EndFrame   int64  `db:"end_frame"`
}

type threatValueTableModel struct {
	MatchID string  `db:"match_id"`
	EventID int64   `db:"event_id"`
	Kind    string  `db:"kind"`
	XT      float64 `db:"xt"`
	XTDelta float64 `db:"xt_delta"`
	XG      float64 `db:"xg"`
}
