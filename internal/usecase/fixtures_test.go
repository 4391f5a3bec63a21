package usecase

import (
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

// fixtureKickoff anchors both period clocks of the fixture match.
var fixtureKickoff = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

// fixtureMatch is a one-period match sampled at 10 fps: home TMA attacking
// left-to-right with P1 and P2, away TMB with P11 and P12.
func fixtureMatch(status string) match.Match {
	return match.Match{
		ID:       "m1",
		Provider: "metrica",
		HomeTeam: match.Team{
			ID:   "TMA",
			Name: "Team A",
			Side: match.SideHome,
			Players: []match.Player{
				{ID: "P1", Name: "Home One", ShirtNumber: 1},
				{ID: "P2", Name: "Home Two", ShirtNumber: 2},
			},
		},
		AwayTeam: match.Team{
			ID:   "TMB",
			Name: "Team B",
			Side: match.SideAway,
			Players: []match.Player{
				{ID: "P11", Name: "Away One", ShirtNumber: 11},
				{ID: "P12", Name: "Away Two", ShirtNumber: 12},
			},
		},
		PitchLength: match.DefaultPitchLength,
		PitchWidth:  match.DefaultPitchWidth,
		FrameRate:   10,
		Periods: []match.Period{
			{
				ID:                 1,
				StartFrame:         1,
				EndFrame:           100,
				TrackingStartAt:    fixtureKickoff,
				EventStartAt:       fixtureKickoff,
				PlayingDirectionLR: true,
			},
		},
		Status: status,
	}
}

// fixtureFrames returns the first n frames of the fixture match: frame N
// carries timestamp (N-1)*100ms, the ball is alive at the center spot and
// both sides hold their kickoff positions, home on the left half.
func fixtureFrames(n int) []tracking.Frame {
	out := make([]tracking.Frame, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, tracking.Frame{
			MatchID:     "m1",
			FrameID:     int64(i + 1),
			PeriodID:    1,
			TimestampMS: int64(i) * 100,
			Ball: tracking.Ball{
				Position: tracking.Position{X: 0, Y: 0},
				Status:   tracking.BallStatusAlive,
			},
			Positions: map[string]tracking.Position{
				"P1":  {X: -10, Y: 0},
				"P2":  {X: -20, Y: 5},
				"P11": {X: 10, Y: 3},
				"P12": {X: 20, Y: -8},
			},
		})
	}
	return out
}
