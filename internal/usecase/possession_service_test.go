package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

func newPossessionService(matchRepo *fakeMatchRepo, eventRepo *fakeEventRepo, trackingRepo *fakeTrackingRepo, featureRepo *fakeFeatureRepo, cfg PossessionConfig) *PossessionService {
	return NewPossessionService(
		matchRepo,
		eventRepo,
		trackingRepo,
		featureRepo,
		cache.NewStore(time.Minute),
		logging.NewNop(),
		cfg,
	)
}

func controlledAt(id int64, teamID string, frame int64) event.Event {
	return event.Event{
		ID:          id,
		MatchID:     "m1",
		Kind:        event.KindPass,
		PeriodID:    1,
		TeamID:      teamID,
		PlayerID:    "P1",
		TDFrame:     event.MissingFrame,
		SyncedFrame: frame,
	}
}

func TestComputePossessionPartitionsPeriod(t *testing.T) {
	frames := fixtureFrames(100)
	frames[69].Ball.Status = tracking.BallStatusDead // frame 70

	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusSynced))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	featureRepo := newFakeFeatureRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", frames)
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		controlledAt(1, "TMA", 10),
		controlledAt(2, "TMA", 30),
		controlledAt(3, "TMB", 50),
	})
	service := newPossessionService(matchRepo, eventRepo, trackingRepo, featureRepo, PossessionConfig{})

	out, err := service.ComputePossession(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []feature.PossessionSpan{
		{MatchID: "m1", TeamID: "TMA", PeriodID: 1, StartFrame: 10, EndFrame: 49},
		// The away span is cut by the dead ball at frame 70, not the
		// period end.
		{MatchID: "m1", TeamID: "TMB", PeriodID: 1, StartFrame: 50, EndFrame: 69},
	}
	if len(out) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(out), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("span %d: expected %+v, got %+v", i, want[i], out[i])
		}
	}
}

func TestComputePossessionMergesShortSpans(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusSynced))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	featureRepo := newFakeFeatureRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", fixtureFrames(100))
	// The away touch lasts 5 frames; at 10 fps a 1s minimum needs 10.
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		controlledAt(1, "TMA", 10),
		controlledAt(2, "TMB", 40),
		controlledAt(3, "TMA", 45),
	})
	service := newPossessionService(matchRepo, eventRepo, trackingRepo, featureRepo, PossessionConfig{MinDuration: time.Second})

	out, err := service.ComputePossession(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("expected the touch to merge away, got %d spans: %+v", len(out), out)
	}
	if out[0].TeamID != "TMA" || out[0].StartFrame != 10 || out[0].EndFrame != 100 {
		t.Fatalf("unexpected merged span: %+v", out[0])
	}
}

func TestComputePossessionIgnoresUnsyncedEvents(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusSynced))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	featureRepo := newFakeFeatureRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", fixtureFrames(100))
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		controlledAt(1, "TMA", 10),
		controlledAt(2, "TMB", event.MissingFrame),
	})
	service := newPossessionService(matchRepo, eventRepo, trackingRepo, featureRepo, PossessionConfig{})

	out, err := service.ComputePossession(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].TeamID != "TMA" || out[0].EndFrame != 100 {
		t.Fatalf("unsynced events must not flip possession: %+v", out)
	}
}

func TestComputePossessionRequiresSyncedMatch(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	service := newPossessionService(matchRepo, newFakeEventRepo(), newFakeTrackingRepo(), newFakeFeatureRepo(), PossessionConfig{})

	_, err := service.ComputePossession(context.Background(), "m1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
