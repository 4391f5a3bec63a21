package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

func newSyncService(t *testing.T, matchRepo *fakeMatchRepo, eventRepo *fakeEventRepo, trackingRepo *fakeTrackingRepo) *SyncService {
	t.Helper()
	service, err := NewSyncService(
		matchRepo,
		eventRepo,
		trackingRepo,
		cache.NewStore(time.Minute),
		logging.NewNop(),
		SyncConfig{Window: 5 * time.Second, TimeWeight: 1, DistWeight: 1, MaxWorkers: 2},
	)
	if err != nil {
		t.Fatalf("create sync service: %v", err)
	}
	t.Cleanup(service.Close)
	return service
}

func syncEvent(id int64, kind string, seconds float64) event.Event {
	return event.Event{
		ID:          id,
		MatchID:     "m1",
		Kind:        kind,
		PeriodID:    1,
		Seconds:     seconds,
		TeamID:      "TMA",
		PlayerID:    "P1",
		TDFrame:     event.MissingFrame,
		SyncedFrame: event.MissingFrame,
	}
}

func TestSyncMatchAlignsExactClocks(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", fixtureFrames(100))
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		syncEvent(1, event.KindPass, 2.0),
		syncEvent(2, event.KindShot, 5.0),
	})
	service := newSyncService(t, matchRepo, eventRepo, trackingRepo)

	result, err := service.SyncMatch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Periods != 1 || result.SyncedEvents != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	events, _ := eventRepo.ListByMatch(context.Background(), "m1")
	// Frame N carries timestamp (N-1)*100ms, so clock 2.0s is frame 21.
	if events[0].SyncedFrame != 21 {
		t.Fatalf("pass at 2.0s should land on frame 21, got %d", events[0].SyncedFrame)
	}
	if events[1].SyncedFrame != 51 {
		t.Fatalf("shot at 5.0s should land on frame 51, got %d", events[1].SyncedFrame)
	}
	stored, _, _ := matchRepo.GetByID(context.Background(), "m1")
	if stored.Status != match.StatusSynced {
		t.Fatalf("expected status %s, got %s", match.StatusSynced, stored.Status)
	}
}

func TestSyncMatchRecoversShiftedClockFromBallDistance(t *testing.T) {
	frames := fixtureFrames(100)
	for i := range frames {
		// Ball sweeps across the pitch so every frame has a distinct spot.
		frames[i].Ball.X = float64(frames[i].FrameID)
	}
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", frames)

	// The event clock says 2.0s but the ball is at the event spot half a
	// second later; the distance term must win inside the window.
	e := syncEvent(1, event.KindPass, 2.0)
	e.StartX = 26
	e.StartY = 0
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{e})
	service := newSyncService(t, matchRepo, eventRepo, trackingRepo)

	if _, err := service.SyncMatch(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, _ := eventRepo.ListByMatch(context.Background(), "m1")
	if events[0].SyncedFrame != 26 {
		t.Fatalf("expected frame 26, got %d", events[0].SyncedFrame)
	}
}

func TestSyncMatchKeepsAssignmentsMonotonic(t *testing.T) {
	frames := fixtureFrames(100)
	for i := range frames {
		frames[i].Ball.X = float64(frames[i].FrameID)
	}
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", frames)

	// The ball pulls the first event late and the second one early; the
	// aligned frames must still follow event order.
	first := syncEvent(1, event.KindPass, 3.0)
	first.StartX = 60
	second := syncEvent(2, event.KindPass, 3.1)
	second.StartX = 20
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{first, second})
	service := newSyncService(t, matchRepo, eventRepo, trackingRepo)

	if _, err := service.SyncMatch(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, _ := eventRepo.ListByMatch(context.Background(), "m1")
	if events[1].SyncedFrame < events[0].SyncedFrame {
		t.Fatalf("assignments moved backwards: %d then %d", events[0].SyncedFrame, events[1].SyncedFrame)
	}
}

func TestSyncMatchFallsBackToNearestFrame(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	eventRepo := newFakeEventRepo()
	trackingRepo := newFakeTrackingRepo()
	_ = trackingRepo.ReplaceByMatch(context.Background(), "m1", fixtureFrames(100))
	// Way past the last frame (9.9s): no candidate survives the window.
	_ = eventRepo.ReplaceByMatch(context.Background(), "m1", []event.Event{
		syncEvent(1, event.KindPass, 50.0),
	})
	service := newSyncService(t, matchRepo, eventRepo, trackingRepo)

	if _, err := service.SyncMatch(context.Background(), "m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, _ := eventRepo.ListByMatch(context.Background(), "m1")
	if events[0].SyncedFrame != 100 {
		t.Fatalf("expected nearest frame 100, got %d", events[0].SyncedFrame)
	}
}

func TestSyncMatchRequiresTrackingData(t *testing.T) {
	matchRepo := newFakeMatchRepo(fixtureMatch(match.StatusLoaded))
	service := newSyncService(t, matchRepo, newFakeEventRepo(), newFakeTrackingRepo())

	_, err := service.SyncMatch(context.Background(), "m1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSyncMatchNotFound(t *testing.T) {
	service := newSyncService(t, newFakeMatchRepo(), newFakeEventRepo(), newFakeTrackingRepo())

	_, err := service.SyncMatch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlignEventsHonorsFrameHint(t *testing.T) {
	frames := fixtureFrames(100)
	// Clock 2.0s but the provider hint points eight seconds later, outside
	// the plain window; the hint must widen the candidate range.
	e := syncEvent(1, event.KindShot, 2.0)
	e.TDFrame = 100
	e.StartX = 40
	frames[99].Ball.X = 40

	out := alignEvents([]event.Event{e}, frames, SyncConfig{
		Window:     1 * time.Second,
		TimeWeight: 0.1,
		DistWeight: 1,
	}.normalized())

	if out[1] != 100 {
		t.Fatalf("expected hinted frame 100, got %d", out[1])
	}
}

func TestAlignEventsHintCannotMoveBehindPredecessor(t *testing.T) {
	frames := fixtureFrames(100)
	for i := range frames {
		frames[i].Ball.X = float64(frames[i].FrameID)
	}

	// The second event's hint points to the very first frame, well before
	// the first event's window; the widened range must not let the DP
	// assign it a frame behind its predecessor.
	first := syncEvent(1, event.KindPass, 4.0)
	first.StartX = 41
	second := syncEvent(2, event.KindPass, 4.1)
	second.StartX = 1
	second.TDFrame = 1

	out := alignEvents([]event.Event{first, second}, frames, SyncConfig{
		Window:     1 * time.Second,
		TimeWeight: 0.1,
		DistWeight: 1,
	}.normalized())

	if out[2] < out[1] {
		t.Fatalf("hinted event moved behind its predecessor: %d then %d", out[1], out[2])
	}
}
