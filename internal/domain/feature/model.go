package feature

// Velocity bands for covered-distance attribution, in m/s.
const (
	BandWalk   = "walk"   // < 2
	BandJog    = "jog"    // 2 - 4
	BandRun    = "run"    // 4 - 5.5
	BandSprint = "sprint" // >= 5.5
)

// DistanceSummary aggregates a player's covered distance for one match.
type DistanceSummary struct {
	MatchID      string
	PlayerID     string
	TotalM       float64
	BandM        map[string]float64
	TopSpeedMS   float64
	FramesMasked int64 // frames dropped by the unrealistic-speed mask
}

// PressureSample is the summed pressure on one player at one frame,
// clipped to 0..100.
type PressureSample struct {
	MatchID  string
	FrameID  int64
	PlayerID string
	Pressure float64
}

// PossessionSpan is a contiguous stretch of one team's possession.
type PossessionSpan struct {
	MatchID    string
	TeamID     string
	PeriodID   int
	StartFrame int64
	EndFrame   int64
}

// ThreatValue carries the model outputs for one on-ball event. XG is only
// set for shots.
type ThreatValue struct {
	MatchID string
	EventID int64
	Kind    string
	XT      float64
	XTDelta float64 // passes: xT(end) - xT(start)
	XG      float64
}
