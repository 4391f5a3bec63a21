package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusLoaded = "LOADED"
	StatusSynced = "SYNCED"

	SideHome = "home"
	SideAway = "away"

	// DefaultPitchLength and DefaultPitchWidth are applied when provider
	// metadata does not carry pitch dimensions.
	DefaultPitchLength = 106.0
	DefaultPitchWidth  = 68.0
)

// Match is one loaded game: two teams, period bounds and the sampling
// parameters shared by the event and tracking streams.
type Match struct {
	ID          string
	Provider    string
	HomeTeam    Team
	AwayTeam    Team
	PitchLength float64
	PitchWidth  float64
	FrameRate   int
	Periods     []Period
	Status      string
	LoadedAt    time.Time
}

// Period holds the frame bounds of one playing period. Start datetimes are
// kept per stream because event and tracking clocks are independent until
// synchronization.
type Period struct {
	ID                 int
	StartFrame         int64
	EndFrame           int64
	TrackingStartAt    time.Time
	EventStartAt       time.Time
	PlayingDirectionLR bool
}

type Team struct {
	ID         string
	ExternalID string
	Name       string
	Side       string
	Players    []Player
}

type Player struct {
	ID          string
	ExternalID  string
	Name        string
	ShirtNumber int
	Position    string
	StartFrame  int64
	EndFrame    int64
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusLoaded
	}
	return status
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeam.Side != SideHome || m.AwayTeam.Side != SideAway {
		return fmt.Errorf("match requires one home and one away team")
	}
	if m.FrameRate <= 0 {
		return fmt.Errorf("match frame rate must be greater than zero")
	}
	if m.PitchLength <= 0 || m.PitchWidth <= 0 {
		return fmt.Errorf("match pitch dimensions must be greater than zero")
	}
	lastPeriod := 0
	for _, period := range m.Periods {
		if period.ID <= lastPeriod {
			return fmt.Errorf("match period ids must be strictly increasing")
		}
		if period.EndFrame < period.StartFrame {
			return fmt.Errorf("match period %d frame bounds are inverted", period.ID)
		}
		lastPeriod = period.ID
	}
	return nil
}

// PeriodByFrame returns the period containing frameID, or false when the
// frame falls outside every period (e.g. between halves).
func (m Match) PeriodByFrame(frameID int64) (Period, bool) {
	for _, period := range m.Periods {
		if frameID >= period.StartFrame && frameID <= period.EndFrame {
			return period, true
		}
	}
	return Period{}, false
}

// TeamBySide resolves a side constant to the team playing it.
func (m Match) TeamBySide(side string) (Team, bool) {
	switch side {
	case SideHome:
		return m.HomeTeam, true
	case SideAway:
		return m.AwayTeam, true
	default:
		return Team{}, false
	}
}

// SideOfTeam maps a team id back to home/away.
func (m Match) SideOfTeam(teamID string) (string, bool) {
	switch teamID {
	case m.HomeTeam.ID:
		return SideHome, true
	case m.AwayTeam.ID:
		return SideAway, true
	default:
		return "", false
	}
}
