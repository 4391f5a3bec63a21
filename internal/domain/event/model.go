package event

import (
	"fmt"
	"strings"
	"time"
)

// Canonical on-ball event kinds. Provider kinds outside this set keep an
// empty canonical kind and never participate in synchronization or features.
const (
	KindPass    = "pass"
	KindShot    = "shot"
	KindDribble = "dribble"
)

// Outcome is tri-state: pass/dribble outcomes are inferred from the
// following event and may stay unspecified at the end of a stream.
const (
	OutcomeUnspecified = 0
	OutcomeFail        = 1
	OutcomeSuccess     = 2
)

// MissingFrame marks an event without a synchronized tracking frame.
const MissingFrame int64 = -1

// Event is one discrete on-ball action in provider-independent form.
// Coordinates are meters from pitch center, home attacking left-to-right.
type Event struct {
	ID           int64
	MatchID      string
	TypeID       int
	ProviderKind string
	Kind         string
	PeriodID     int
	Minutes      int
	Seconds      float64
	PlayerID     string
	PlayerName   string
	TeamID       string
	Outcome      int
	StartX       float64
	StartY       float64
	EndX         float64
	EndY         float64
	ToPlayerID   string
	ToPlayerName string
	TDFrame      int64
	SyncedFrame  int64
	DateTime     time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.MatchID) == "" {
		return fmt.Errorf("event match id is required")
	}
	if e.PeriodID <= 0 {
		return fmt.Errorf("event period id must be greater than zero")
	}
	switch e.Kind {
	case "", KindPass, KindShot, KindDribble:
	default:
		return fmt.Errorf("invalid canonical event kind: %s", e.Kind)
	}
	switch e.Outcome {
	case OutcomeUnspecified, OutcomeFail, OutcomeSuccess:
	default:
		return fmt.Errorf("invalid event outcome: %d", e.Outcome)
	}
	return nil
}

// IsOnBall reports whether the event has a canonical kind.
func (e Event) IsOnBall() bool {
	return e.Kind != ""
}

// IsSynced reports whether synchronization assigned a tracking frame.
func (e Event) IsSynced() bool {
	return e.SyncedFrame != MissingFrame && e.SyncedFrame > 0
}

// PeriodSeconds is the event clock position in seconds within its period.
func (e Event) PeriodSeconds() float64 {
	return float64(e.Minutes)*60 + e.Seconds
}
