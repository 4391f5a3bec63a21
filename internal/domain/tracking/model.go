package tracking

import "math"

const (
	BallStatusAlive = "alive"
	BallStatusDead  = "dead"
)

// Position is one tracked point. Missing provider cells are represented by
// NaN coordinates so gaps survive smoothing without inventing data.
type Position struct {
	X float64
	Y float64
}

// Missing reports whether the position was absent from the source data.
func (p Position) Missing() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

func (p Position) DistanceTo(other Position) float64 {
	if p.Missing() || other.Missing() {
		return math.NaN()
	}
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Hypot(dx, dy)
}

// MissingPosition returns the sentinel for an absent coordinate pair.
func MissingPosition() Position {
	return Position{X: math.NaN(), Y: math.NaN()}
}

type Ball struct {
	Position
	Status         string
	PossessionSide string // "home", "away" or empty when unknown
}

// Frame is one tracking sample: ball plus every visible player position.
type Frame struct {
	MatchID     string
	FrameID     int64
	PeriodID    int
	TimestampMS int64
	Ball        Ball
	Positions   map[string]Position // keyed by player id
}

// PlayerPosition returns the tracked position of a player, or a missing
// sentinel when the player is not in the frame.
func (f Frame) PlayerPosition(playerID string) Position {
	if pos, ok := f.Positions[playerID]; ok {
		return pos
	}
	return MissingPosition()
}

// Seconds is the frame clock position in seconds within its period.
func (f Frame) Seconds() float64 {
	return float64(f.TimestampMS) / 1000.0
}
