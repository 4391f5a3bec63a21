package memory

import (
	"math"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

// MatchIDDemo is the synthetic match served when the API runs without a
// database.
const MatchIDDemo = "demo-match-1"

var demoKickoff = time.Date(2026, 3, 7, 19, 30, 0, 0, time.UTC)

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:       MatchIDDemo,
			Provider: "metrica",
			HomeTeam: match.Team{
				ID:   "demo-home",
				Name: "Demo Home",
				Side: match.SideHome,
				Players: []match.Player{
					{ID: "demo-h1", Name: "Home Keeper", ShirtNumber: 1, StartFrame: 1, EndFrame: 600},
					{ID: "demo-h7", Name: "Home Winger", ShirtNumber: 7, StartFrame: 1, EndFrame: 600},
					{ID: "demo-h9", Name: "Home Striker", ShirtNumber: 9, StartFrame: 1, EndFrame: 600},
				},
			},
			AwayTeam: match.Team{
				ID:   "demo-away",
				Name: "Demo Away",
				Side: match.SideAway,
				Players: []match.Player{
					{ID: "demo-a1", Name: "Away Keeper", ShirtNumber: 1, StartFrame: 1, EndFrame: 600},
					{ID: "demo-a4", Name: "Away Back", ShirtNumber: 4, StartFrame: 1, EndFrame: 600},
					{ID: "demo-a10", Name: "Away Playmaker", ShirtNumber: 10, StartFrame: 1, EndFrame: 600},
				},
			},
			PitchLength: match.DefaultPitchLength,
			PitchWidth:  match.DefaultPitchWidth,
			FrameRate:   10,
			Periods: []match.Period{
				{
					ID:              1,
					StartFrame:      1,
					EndFrame:        600,
					TrackingStartAt: demoKickoff,
					EventStartAt:    demoKickoff,
				},
			},
			Status:   match.StatusLoaded,
			LoadedAt: demoKickoff,
		},
	}
}

// SeedEvents is one home attack ending in a shot, with one away
// interception in the middle.
func SeedEvents() []event.Event {
	return []event.Event{
		{ID: 1, MatchID: MatchIDDemo, Kind: event.KindPass, ProviderKind: "PASS", PeriodID: 1, Seconds: 5, TeamID: "demo-home", PlayerID: "demo-h7", ToPlayerID: "demo-h9", Outcome: event.OutcomeSuccess, StartX: -20, StartY: 8, EndX: 5, EndY: -3, TDFrame: 51, SyncedFrame: event.MissingFrame, DateTime: demoKickoff.Add(5 * time.Second)},
		{ID: 2, MatchID: MatchIDDemo, Kind: event.KindDribble, ProviderKind: "CARRY", PeriodID: 1, Seconds: 8, TeamID: "demo-home", PlayerID: "demo-h9", Outcome: event.OutcomeSuccess, StartX: 5, StartY: -3, EndX: 22, EndY: 2, TDFrame: 81, SyncedFrame: event.MissingFrame, DateTime: demoKickoff.Add(8 * time.Second)},
		{ID: 3, MatchID: MatchIDDemo, Kind: event.KindPass, ProviderKind: "PASS", PeriodID: 1, Seconds: 15, TeamID: "demo-away", PlayerID: "demo-a10", Outcome: event.OutcomeFail, StartX: 10, StartY: 0, EndX: -12, EndY: 6, TDFrame: 151, SyncedFrame: event.MissingFrame, DateTime: demoKickoff.Add(15 * time.Second)},
		{ID: 4, MatchID: MatchIDDemo, Kind: event.KindShot, ProviderKind: "SHOT", PeriodID: 1, Seconds: 24, TeamID: "demo-home", PlayerID: "demo-h9", Outcome: event.OutcomeSuccess, StartX: 40, StartY: 4, EndX: 53, EndY: 0, TDFrame: 241, SyncedFrame: event.MissingFrame, DateTime: demoKickoff.Add(24 * time.Second)},
	}
}

// SeedFrames generates 600 frames (one minute at 10 Hz) of smooth synthetic
// movement around the seeded events.
func SeedFrames() []tracking.Frame {
	out := make([]tracking.Frame, 0, 600)
	for i := 1; i <= 600; i++ {
		t := float64(i-1) / 10.0
		ballX := -20 + t
		if ballX > 50 {
			ballX = 50
		}

		out = append(out, tracking.Frame{
			MatchID:     MatchIDDemo,
			FrameID:     int64(i),
			PeriodID:    1,
			TimestampMS: int64(i-1) * 100,
			Ball: tracking.Ball{
				Position: tracking.Position{X: ballX, Y: 4 * math.Sin(t/4)},
				Status:   tracking.BallStatusAlive,
			},
			Positions: map[string]tracking.Position{
				"demo-h1":  {X: -48, Y: 2 * math.Sin(t / 6)},
				"demo-h7":  {X: -20 + 0.8*t, Y: 8 - 0.2*t},
				"demo-h9":  {X: -5 + 1.1*t, Y: -3 + 0.15*t},
				"demo-a1":  {X: 48, Y: 2 * math.Sin(t / 5)},
				"demo-a4":  {X: 25 - 0.5*t, Y: 3 * math.Cos(t/7)},
				"demo-a10": {X: 10 - 0.3*t, Y: 5 * math.Sin(t / 8)},
			},
		})
	}
	return out
}
