package httpapi

import (
	"math"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/usecase"
)

type matchDTO struct {
	ID          string      `json:"id"`
	Provider    string      `json:"provider"`
	HomeTeam    teamDTO     `json:"homeTeam"`
	AwayTeam    teamDTO     `json:"awayTeam"`
	PitchLength float64     `json:"pitchLength"`
	PitchWidth  float64     `json:"pitchWidth"`
	FrameRate   int         `json:"frameRate"`
	Periods     []periodDTO `json:"periods"`
	Status      string      `json:"status"`
	LoadedAt    time.Time   `json:"loadedAt"`
}

type teamDTO struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Side    string      `json:"side"`
	Players []playerDTO `json:"players"`
}

type playerDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShirtNumber int    `json:"shirtNumber"`
	Position    string `json:"position,omitempty"`
}

type periodDTO struct {
	ID              int       `json:"id"`
	StartFrame      int64     `json:"startFrame"`
	EndFrame        int64     `json:"endFrame"`
	TrackingStartAt time.Time `json:"trackingStartAt"`
	EventStartAt    time.Time `json:"eventStartAt"`
}

type matchSummaryDTO struct {
	Match      matchDTO `json:"match"`
	EventCount int      `json:"eventCount"`
	FrameCount int      `json:"frameCount"`
}

// Missing coordinates surface as null rather than NaN, which JSON cannot
// encode.
type eventDTO struct {
	ID           int64      `json:"id"`
	Kind         string     `json:"kind,omitempty"`
	ProviderKind string     `json:"providerKind"`
	PeriodID     int        `json:"periodId"`
	Minutes      int        `json:"minutes"`
	Seconds      float64    `json:"seconds"`
	TeamID       string     `json:"teamId,omitempty"`
	PlayerID     string     `json:"playerId,omitempty"`
	PlayerName   string     `json:"playerName,omitempty"`
	ToPlayerID   string     `json:"toPlayerId,omitempty"`
	Outcome      string     `json:"outcome,omitempty"`
	StartX       *float64   `json:"startX"`
	StartY       *float64   `json:"startY"`
	EndX         *float64   `json:"endX"`
	EndY         *float64   `json:"endY"`
	TDFrame      *int64     `json:"tdFrame"`
	SyncedFrame  *int64     `json:"syncedFrame"`
	DateTime     *time.Time `json:"datetime"`
}

type frameDTO struct {
	FrameID     int64               `json:"frameId"`
	PeriodID    int                 `json:"periodId"`
	TimestampMS int64               `json:"timestampMs"`
	Ball        ballDTO             `json:"ball"`
	Positions   map[string]pointDTO `json:"positions"`
}

type ballDTO struct {
	X              *float64 `json:"x"`
	Y              *float64 `json:"y"`
	Status         string   `json:"status"`
	PossessionSide string   `json:"possessionSide,omitempty"`
}

type pointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type distanceDTO struct {
	PlayerID     string             `json:"playerId"`
	TotalM       float64            `json:"totalM"`
	BandM        map[string]float64 `json:"bandM"`
	TopSpeedMS   float64            `json:"topSpeedMs"`
	FramesMasked int64              `json:"framesMasked"`
}

type pressureDTO struct {
	FrameID  int64   `json:"frameId"`
	PlayerID string  `json:"playerId"`
	Pressure float64 `json:"pressure"`
}

type possessionDTO struct {
	TeamID     string `json:"teamId"`
	PeriodID   int    `json:"periodId"`
	StartFrame int64  `json:"startFrame"`
	EndFrame   int64  `json:"endFrame"`
}

type threatDTO struct {
	EventID int64    `json:"eventId"`
	Kind    string   `json:"kind"`
	XT      float64  `json:"xt"`
	XTDelta *float64 `json:"xtDelta,omitempty"`
	XG      *float64 `json:"xg,omitempty"`
}

type syncResultDTO struct {
	MatchID      string `json:"matchId"`
	Periods      int    `json:"periods"`
	SyncedEvents int    `json:"syncedEvents"`
}

type featureReportDTO struct {
	MatchID         string `json:"matchId"`
	DistancePlayers int    `json:"distancePlayers"`
	PressureSamples int    `json:"pressureSamples"`
	PossessionSpans int    `json:"possessionSpans"`
	ThreatEvents    int    `json:"threatEvents"`
}

func matchToDTO(item match.Match) matchDTO {
	periods := make([]periodDTO, 0, len(item.Periods))
	for _, p := range item.Periods {
		periods = append(periods, periodDTO{
			ID:              p.ID,
			StartFrame:      p.StartFrame,
			EndFrame:        p.EndFrame,
			TrackingStartAt: p.TrackingStartAt,
			EventStartAt:    p.EventStartAt,
		})
	}
	return matchDTO{
		ID:          item.ID,
		Provider:    item.Provider,
		HomeTeam:    teamToDTO(item.HomeTeam),
		AwayTeam:    teamToDTO(item.AwayTeam),
		PitchLength: item.PitchLength,
		PitchWidth:  item.PitchWidth,
		FrameRate:   item.FrameRate,
		Periods:     periods,
		Status:      item.Status,
		LoadedAt:    item.LoadedAt,
	}
}

func teamToDTO(item match.Team) teamDTO {
	players := make([]playerDTO, 0, len(item.Players))
	for _, p := range item.Players {
		players = append(players, playerDTO{
			ID:          p.ID,
			Name:        p.Name,
			ShirtNumber: p.ShirtNumber,
			Position:    p.Position,
		})
	}
	return teamDTO{
		ID:      item.ID,
		Name:    item.Name,
		Side:    item.Side,
		Players: players,
	}
}

func summaryToDTO(item usecase.MatchSummary) matchSummaryDTO {
	return matchSummaryDTO{
		Match:      matchToDTO(item.Match),
		EventCount: item.EventCount,
		FrameCount: item.FrameCount,
	}
}

func eventToDTO(item event.Event) eventDTO {
	return eventDTO{
		ID:           item.ID,
		Kind:         item.Kind,
		ProviderKind: item.ProviderKind,
		PeriodID:     item.PeriodID,
		Minutes:      item.Minutes,
		Seconds:      item.Seconds,
		TeamID:       item.TeamID,
		PlayerID:     item.PlayerID,
		PlayerName:   item.PlayerName,
		ToPlayerID:   item.ToPlayerID,
		Outcome:      eventOutcome(item),
		StartX:       coordinatePtr(item.StartX),
		StartY:       coordinatePtr(item.StartY),
		EndX:         coordinatePtr(item.EndX),
		EndY:         coordinatePtr(item.EndY),
		TDFrame:      framePtr(item.TDFrame),
		SyncedFrame:  framePtr(item.SyncedFrame),
		DateTime:     timePtr(item.DateTime),
	}
}

// eventOutcome renders the outward vocabulary of each typed view.
func eventOutcome(item event.Event) string {
	switch item.Kind {
	case event.KindShot:
		return event.NewShot(item).ShotOutcome
	case event.KindPass:
		return event.NewPass(item).PassOutcome
	case event.KindDribble:
		if event.NewDribble(item).Successful {
			return "successful"
		}
		return "unsuccessful"
	default:
		return ""
	}
}

func frameToDTO(item tracking.Frame) frameDTO {
	positions := make(map[string]pointDTO, len(item.Positions))
	for playerID, pos := range item.Positions {
		if pos.Missing() {
			continue
		}
		positions[playerID] = pointDTO{X: pos.X, Y: pos.Y}
	}
	return frameDTO{
		FrameID:     item.FrameID,
		PeriodID:    item.PeriodID,
		TimestampMS: item.TimestampMS,
		Ball: ballDTO{
			X:              coordinatePtr(item.Ball.X),
			Y:              coordinatePtr(item.Ball.Y),
			Status:         item.Ball.Status,
			PossessionSide: item.Ball.PossessionSide,
		},
		Positions: positions,
	}
}

func distanceToDTO(item feature.DistanceSummary) distanceDTO {
	return distanceDTO{
		PlayerID:     item.PlayerID,
		TotalM:       item.TotalM,
		BandM:        item.BandM,
		TopSpeedMS:   item.TopSpeedMS,
		FramesMasked: item.FramesMasked,
	}
}

func threatToDTO(item feature.ThreatValue) threatDTO {
	out := threatDTO{
		EventID: item.EventID,
		Kind:    item.Kind,
		XT:      item.XT,
	}
	if item.Kind == event.KindShot {
		xg := item.XG
		out.XG = &xg
	}
	if item.Kind == event.KindPass {
		delta := item.XTDelta
		out.XTDelta = &delta
	}
	return out
}

func coordinatePtr(value float64) *float64 {
	if math.IsNaN(value) {
		return nil
	}
	return &value
}

func framePtr(value int64) *int64 {
	if value <= 0 {
		return nil
	}
	return &value
}

func timePtr(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	return &value
}
