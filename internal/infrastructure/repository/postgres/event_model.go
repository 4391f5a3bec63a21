package postgres

import (
	"database/sql"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
)

// Coordinates are stored as float8 and keep NaN for missing values; Postgres
// accepts the literal and it round-trips through lib/pq.
type eventTableModel struct {
	MatchID      string       `db:"match_id"`
	EventID      int64        `db:"event_id"`
	TypeID       int          `db:"type_id"`
	ProviderKind string       `db:"provider_kind"`
	Kind         string       `db:"kind"`
	PeriodID     int          `db:"period_id"`
	Minutes      int          `db:"minutes"`
	Seconds      float64      `db:"seconds"`
	PlayerID     string       `db:"player_id"`
	PlayerName   string       `db:"player_name"`
	TeamID       string       `db:"team_id"`
	Outcome      int          `db:"outcome"`
	StartX       float64      `db:"start_x"`
	StartY       float64      `db:"start_y"`
	EndX         float64      `db:"end_x"`
	EndY         float64      `db:"end_y"`
	ToPlayerID   string       `db:"to_player_id"`
	ToPlayerName string       `db:"to_player_name"`
	TDFrame      int64        `db:"td_frame"`
	SyncedFrame  int64        `db:"synced_frame"`
	DateTime     sql.NullTime `db:"event_datetime"`
	CreatedAt    time.Time    `db:"created_at"`
}

type eventInsertModel struct {
	MatchID      string       `db:"match_id"`
	EventID      int64        `db:"event_id"`
	TypeID       int          `db:"type_id"`
	ProviderKind string       `db:"provider_kind"`
	Kind         string       `db:"kind"`
	PeriodID     int          `db:"period_id"`
	Minutes      int          `db:"minutes"`
	Seconds      float64      `db:"seconds"`
	PlayerID     string       `db:"player_id"`
	PlayerName   string       `db:"player_name"`
	TeamID       string       `db:"team_id"`
	Outcome      int          `db:"outcome"`
	StartX       float64      `db:"start_x"`
	StartY       float64      `db:"start_y"`
	EndX         float64      `db:"end_x"`
	EndY         float64      `db:"end_y"`
	ToPlayerID   string       `db:"to_player_id"`
	ToPlayerName string       `db:"to_player_name"`
	TDFrame      int64        `db:"td_frame"`
	SyncedFrame  int64        `db:"synced_frame"`
	DateTime     sql.NullTime `db:"event_datetime"`
}

func eventToInsertModel(item event.Event) eventInsertModel {
	return eventInsertModel{
		MatchID:      item.MatchID,
		EventID:      item.ID,
		TypeID:       item.TypeID,
		ProviderKind: item.ProviderKind,
		Kind:         item.Kind,
		PeriodID:     item.PeriodID,
		Minutes:      item.Minutes,
		Seconds:      item.Seconds,
		PlayerID:     item.PlayerID,
		PlayerName:   item.PlayerName,
		TeamID:       item.TeamID,
		Outcome:      item.Outcome,
		StartX:       item.StartX,
		StartY:       item.StartY,
		EndX:         item.EndX,
		EndY:         item.EndY,
		ToPlayerID:   item.ToPlayerID,
		ToPlayerName: item.ToPlayerName,
		TDFrame:      item.TDFrame,
		SyncedFrame:  item.SyncedFrame,
		DateTime:     nullableTime(item.DateTime),
	}
}

func eventToDomain(row eventTableModel) event.Event {
	out := event.Event{
		ID:           row.EventID,
		MatchID:      row.MatchID,
		TypeID:       row.TypeID,
		ProviderKind: row.ProviderKind,
		Kind:         row.Kind,
		PeriodID:     row.PeriodID,
		Minutes:      row.Minutes,
		Seconds:      row.Seconds,
		PlayerID:     row.PlayerID,
		PlayerName:   row.PlayerName,
		TeamID:       row.TeamID,
		Outcome:      row.Outcome,
		StartX:       row.StartX,
		StartY:       row.StartY,
		EndX:         row.EndX,
		EndY:         row.EndY,
		ToPlayerID:   row.ToPlayerID,
		ToPlayerName: row.ToPlayerName,
		TDFrame:      row.TDFrame,
		SyncedFrame:  row.SyncedFrame,
	}
	if row.DateTime.Valid {
		out.DateTime = row.DateTime.Time.UTC()
	}
	return out
}

func nullableTime(value time.Time) sql.NullTime {
	if value.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value, Valid: true}
}
