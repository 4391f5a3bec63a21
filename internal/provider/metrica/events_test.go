package metrica

import (
	"math"
	"testing"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
)

func TestParseEvents(t *testing.T) {
	events, err := ParseEvents([]byte(sampleEventsJSON), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("unexpected event count: %d", len(events))
	}

	first := events[0]
	if first.Kind != event.KindPass || first.ProviderKind != "pass" {
		t.Fatalf("unexpected first event kind: %+v", first)
	}
	if first.Outcome != event.OutcomeFail {
		t.Fatalf("incomplete pass should fail, got %d", first.Outcome)
	}
	if first.StartX != 0 || first.StartY != 0 {
		t.Fatalf("unexpected rescaled start: (%f, %f)", first.StartX, first.StartY)
	}
	if !math.IsNaN(first.EndX) {
		t.Fatalf("null end coordinate should be NaN, got %f", first.EndX)
	}
	if first.TDFrame != 10 || first.SyncedFrame != event.MissingFrame {
		t.Fatalf("unexpected frames: td=%d synced=%d", first.TDFrame, first.SyncedFrame)
	}
	wantTime := time.Date(2024, 5, 1, 18, 0, 2, 0, time.UTC)
	if !first.DateTime.Equal(wantTime) {
		t.Fatalf("unexpected datetime: %s", first.DateTime)
	}

	second := events[1]
	if second.Minutes != 1 || math.Abs(second.Seconds-5.5) > 1e-9 {
		t.Fatalf("unexpected clock: %d:%f", second.Minutes, second.Seconds)
	}
	if second.StartX != -25 || second.StartY != 25 {
		t.Fatalf("unexpected rescaled start: (%f, %f)", second.StartX, second.StartY)
	}
	if second.PlayerID != "P2" || second.ToPlayerID != "P1" {
		t.Fatalf("unexpected players: %s -> %s", second.PlayerID, second.ToPlayerID)
	}
}

func TestParseEventsOutcomeInference(t *testing.T) {
	events, err := ParseEvents([]byte(sampleEventsJSON), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pass without subtypes, immediately followed by a same-team carry.
	if events[1].Outcome != event.OutcomeSuccess {
		t.Fatalf("expected inferred success, got %d", events[1].Outcome)
	}

	// Carry immediately followed by an opponent shot.
	if events[2].Kind != event.KindDribble {
		t.Fatalf("carry should map to dribble, got %s", events[2].Kind)
	}
	if events[2].Outcome != event.OutcomeFail {
		t.Fatalf("expected inferred failure, got %d", events[2].Outcome)
	}

	// Shot with a GOAL subtype is decided without a successor.
	if events[3].Kind != event.KindShot || events[3].Outcome != event.OutcomeSuccess {
		t.Fatalf("unexpected shot outcome: %+v", events[3])
	}
}

func TestParseEventsPassBeforeSameTeamBallLostFails(t *testing.T) {
	source := `{"data":[
	  {"team":{"id":"TMA"},"type":{"id":5,"name":"PASS"},"period":1,
	   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":0.6,"y":0.5},
	   "from":{"id":"P1"}},
	  {"team":{"id":"TMA"},"type":{"id":7,"name":"BALL LOST"},"period":1,
	   "start":{"frame":21,"time":3.1,"x":0.6,"y":0.5},"end":{"frame":22,"time":3.2,"x":0.6,"y":0.5}}
	]}`
	events, err := ParseEvents([]byte(source), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].Outcome != event.OutcomeFail {
		t.Fatalf("pass before a same-team ball lost should fail, got %d", events[0].Outcome)
	}
}

func TestParseEventsPassBeforeSameTeamRecoverySucceeds(t *testing.T) {
	// The same team recovering right after the pass keeps possession, even
	// though the opponent produces the next canonical event.
	source := `{"data":[
	  {"team":{"id":"TMA"},"type":{"id":5,"name":"PASS"},"period":1,
	   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":0.6,"y":0.5},
	   "from":{"id":"P1"}},
	  {"team":{"id":"TMA"},"type":{"id":8,"name":"RECOVERY"},"period":1,
	   "start":{"frame":21,"time":3.1,"x":0.6,"y":0.5},"end":{"frame":22,"time":3.2,"x":0.6,"y":0.5}},
	  {"team":{"id":"TMB"},"type":{"id":5,"name":"PASS"},"period":1,
	   "start":{"frame":30,"time":4.0,"x":0.4,"y":0.5},"end":{"frame":35,"time":4.5,"x":0.3,"y":0.5}}
	]}`
	events, err := ParseEvents([]byte(source), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].Outcome != event.OutcomeSuccess {
		t.Fatalf("pass before a same-team recovery should succeed, got %d", events[0].Outcome)
	}
}

func TestParseEventsTrailingPassStaysUnspecified(t *testing.T) {
	source := `{"data":[
	  {"team":{"id":"TMA"},"type":{"id":5,"name":"PASS"},"period":1,
	   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":0.6,"y":0.5},
	   "from":{"id":"P1"}}
	]}`
	events, err := ParseEvents([]byte(source), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].Outcome != event.OutcomeUnspecified {
		t.Fatalf("trailing pass should stay unspecified, got %d", events[0].Outcome)
	}
}

func TestParseEventsRejectsUnknownPeriod(t *testing.T) {
	source := `{"data":[
	  {"team":{"id":"TMA"},"type":{"id":5,"name":"PASS"},"period":9,
	   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":0.6,"y":0.5}}
	]}`
	if _, err := ParseEvents([]byte(source), testMatch()); err == nil {
		t.Fatal("expected error for unknown period")
	}
}

func TestParseEventsOffBallKindStaysEmpty(t *testing.T) {
	source := `{"data":[
	  {"team":{"id":"TMA"},"type":{"id":9,"name":"SET PIECE"},"period":1,
	   "start":{"frame":10,"time":2.0,"x":0.5,"y":0.5},"end":{"frame":20,"time":3.0,"x":0.6,"y":0.5}}
	]}`
	events, err := ParseEvents([]byte(source), testMatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].Kind != "" || events[0].IsOnBall() {
		t.Fatalf("set piece should not be on-ball: %+v", events[0])
	}
	if events[0].ProviderKind != "set piece" {
		t.Fatalf("provider kind should survive: %s", events[0].ProviderKind)
	}
}
