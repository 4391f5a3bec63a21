package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
)

type matchTableModel struct {
	ID          string    `db:"id"`
	Provider    string    `db:"provider"`
	HomeTeam    []byte    `db:"home_team"`
	AwayTeam    []byte    `db:"away_team"`
	PitchLength float64   `db:"pitch_length"`
	PitchWidth  float64   `db:"pitch_width"`
	FrameRate   int       `db:"frame_rate"`
	Periods     []byte    `db:"periods"`
	Status      string    `db:"status"`
	LoadedAt    time.Time `db:"loaded_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	ID          string    `db:"id"`
	Provider    string    `db:"provider"`
	HomeTeam    []byte    `db:"home_team"`
	AwayTeam    []byte    `db:"away_team"`
	PitchLength float64   `db:"pitch_length"`
	PitchWidth  float64   `db:"pitch_width"`
	FrameRate   int       `db:"frame_rate"`
	Periods     []byte    `db:"periods"`
	Status      string    `db:"status"`
	LoadedAt    time.Time `db:"loaded_at"`
}

// Teams and periods are stored as JSONB documents; they are only ever read
// back whole, never filtered on.
type teamDoc struct {
	ID         string      `json:"id"`
	ExternalID string      `json:"external_id,omitempty"`
	Name       string      `json:"name"`
	Side       string      `json:"side"`
	Players    []playerDoc `json:"players"`
}

type playerDoc struct {
	ID          string `json:"id"`
	ExternalID  string `json:"external_id,omitempty"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirt_number"`
	Position    string `json:"position,omitempty"`
	StartFrame  int64  `json:"start_frame"`
	EndFrame    int64  `json:"end_frame"`
}

type periodDoc struct {
	ID                 int       `json:"id"`
	StartFrame         int64     `json:"start_frame"`
	EndFrame           int64     `json:"end_frame"`
	TrackingStartAt    time.Time `json:"tracking_start_at"`
	EventStartAt       time.Time `json:"event_start_at"`
	PlayingDirectionLR bool      `json:"playing_direction_lr"`
}

func encodeTeam(item match.Team) ([]byte, error) {
	players := make([]playerDoc, 0, len(item.Players))
	for _, p := range item.Players {
		players = append(players, playerDoc(p))
	}
	doc := teamDoc{
		ID:         item.ID,
		ExternalID: item.ExternalID,
		Name:       item.Name,
		Side:       item.Side,
		Players:    players,
	}
	out, err := sonic.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode team %s: %w", item.ID, err)
	}
	return out, nil
}

func decodeTeam(raw []byte) (match.Team, error) {
	var doc teamDoc
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return match.Team{}, fmt.Errorf("decode team: %w", err)
	}
	players := make([]match.Player, 0, len(doc.Players))
	for _, p := range doc.Players {
		players = append(players, match.Player(p))
	}
	return match.Team{
		ID:         doc.ID,
		ExternalID: doc.ExternalID,
		Name:       doc.Name,
		Side:       doc.Side,
		Players:    players,
	}, nil
}

func encodePeriods(items []match.Period) ([]byte, error) {
	docs := make([]periodDoc, 0, len(items))
	for _, p := range items {
		docs = append(docs, periodDoc(p))
	}
	out, err := sonic.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode periods: %w", err)
	}
	return out, nil
}

func decodePeriods(raw []byte) ([]match.Period, error) {
	var docs []periodDoc
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode periods: %w", err)
	}
	out := make([]match.Period, 0, len(docs))
	for _, doc := range docs {
		out = append(out, match.Period(doc))
	}
	return out, nil
}

func matchToDomain(row matchTableModel) (match.Match, error) {
	home, err := decodeTeam(row.HomeTeam)
	if err != nil {
		return match.Match{}, err
	}
	away, err := decodeTeam(row.AwayTeam)
	if err != nil {
		return match.Match{}, err
	}
	periods, err := decodePeriods(row.Periods)
	if err != nil {
		return match.Match{}, err
	}
	return match.Match{
		ID:          row.ID,
		Provider:    row.Provider,
		HomeTeam:    home,
		AwayTeam:    away,
		PitchLength: row.PitchLength,
		PitchWidth:  row.PitchWidth,
		FrameRate:   row.FrameRate,
		Periods:     periods,
		Status:      row.Status,
		LoadedAt:    row.LoadedAt,
	}, nil
}
