package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

func newPressureService(matchRepo *fakeMatchRepo, eventRepo *fakeEventRepo, trackingRepo *fakeTrackingRepo, featureRepo *fakeFeatureRepo) *PressureService {
	return NewPressureService(
		matchRepo,
		eventRepo,
		trackingRepo,
		featureRepo,
		cache.NewStore(time.Minute),
		logging.NewNop(),
		PressureConfig{},
	)
}

func TestPressureOnCloserOpponentPressesHarder(t *testing.T) {
	target := tracking.Position{X: 0, Y: 0}
	cfg := PressureConfig{}.normalized()

	near := pressureOn(target, []tracking.Position{{X: 2, Y: 0}}, 1, cfg)
	far := pressureOn(target, []tracking.Position{{X: 4.5, Y: 0}}, 1, cfg)
	if near <= far {
		t.Fatalf("closer opponent must press harder: near=%f far=%f", near, far)
	}
	if far <= 0 {
		t.Fatalf("opponent inside the oval must register, got %f", far)
	}
}

func TestPressureOnOvalShorterBehind(t *testing.T) {
	target := tracking.Position{X: 0, Y: 0}
	cfg := PressureConfig{}.normalized()

	// 4m ahead is inside the 9m reach; 4m behind is past the 3m reach.
	ahead := pressureOn(target, []tracking.Position{{X: 4, Y: 0}}, 1, cfg)
	behind := pressureOn(target, []tracking.Position{{X: -4, Y: 0}}, 1, cfg)
	if ahead <= 0 {
		t.Fatalf("opponent ahead should press, got %f", ahead)
	}
	if behind != 0 {
		t.Fatalf("opponent behind the oval should not press, got %f", behind)
	}
}

func TestPressureOnClipsAtHundred(t *testing.T) {
	target := tracking.Position{X: 0, Y: 0}
	cfg := PressureConfig{}.normalized()

	opponents := []tracking.Position{{X: 0.5, Y: 0}, {X: 0, Y: 0.5}, {X: 0.5, Y: 0.5}}
	if got := pressureOn(target, opponents, 1, cfg); got != 100 {
		t.Fatalf("expected pressure clipped to 100, got %f", got)
	}
}

func TestComputePressureSamplesSyncedEvents(t *testing.T) {
	frames := fixtureFrames(10)
	for i := range frames {
		// P11 presses two meters ahead of P1 along the home attack.
		frames[i].Positions["P11"] = tracking.Position{X: -8, Y: 0}
	}
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusSynced))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	featureRepo := newFakeFeatureRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", frames)
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		{ID: 1, MatchID: "m1", Kind: event.KindPass, PeriodID: 1, TeamID: "TMA", PlayerID: "P1", TDFrame: event.MissingFrame, SyncedFrame: 1},
		{ID: 2, MatchID: "m1", Kind: event.KindPass, PeriodID: 1, TeamID: "TMA", PlayerID: "P1", TDFrame: event.MissingFrame, SyncedFrame: event.MissingFrame},
	})
	service := newPressureService(matchRepo, eventRepo, trackingRepo, featureRepo)

	out, err := service.ComputePressure(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("only the synced event should be sampled, got %d", len(out))
	}
	if out[0].FrameID != 1 || out[0].PlayerID != "P1" {
		t.Fatalf("unexpected sample: %+v", out[0])
	}

	// One defender two meters ahead inside a 9m reach.
	want := math.Pow(1-2.0/9.0, pressureExponent) * 100
	if math.Abs(out[0].Pressure-want) > 1e-9 {
		t.Fatalf("expected pressure %f, got %f", want, out[0].Pressure)
	}
}

func TestComputePressureRequiresSyncedMatch(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	service := newPressureService(matchRepo, newFakeEventRepo(), newFakeTrackingRepo(), newFakeFeatureRepo())

	_, err := service.ComputePressure(context.Background(), "m1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
