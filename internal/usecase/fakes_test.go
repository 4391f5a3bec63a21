package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

type fakeMatchRepo struct {
	mu    sync.Mutex
	items map[string]match.Match
}

func newFakeMatchRepo(items ...match.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{items: make(map[string]match.Match)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeMatchRepo) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[matchID]
	return item, ok, nil
}

func (r *fakeMatchRepo) List(_ context.Context) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, matchID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item := r.items[matchID]
	item.Status = status
	r.items[matchID] = item
	return nil
}

type fakeEventRepo struct {
	mu    sync.Mutex
	items map[string][]event.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{items: make(map[string][]event.Event)}
}

func (r *fakeEventRepo) ReplaceByMatch(_ context.Context, matchID string, items []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[matchID] = append([]event.Event(nil), items...)
	return nil
}

func (r *fakeEventRepo) ListByMatch(_ context.Context, matchID string) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.items[matchID]...), nil
}

func (r *fakeEventRepo) ListByMatchAndKind(_ context.Context, matchID, kind string) ([]event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Event, 0)
	for _, item := range r.items[matchID] {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) UpdateSyncedFrames(_ context.Context, matchID string, frameByEventID map[int64]int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[matchID]
	for i := range items {
		if frameID, ok := frameByEventID[items[i].ID]; ok {
			items[i].SyncedFrame = frameID
		}
	}
	r.items[matchID] = items
	return nil
}

type fakeTrackingRepo struct {
	mu    sync.Mutex
	items map[string][]tracking.Frame
}

func newFakeTrackingRepo() *fakeTrackingRepo {
	return &fakeTrackingRepo{items: make(map[string][]tracking.Frame)}
}

func (r *fakeTrackingRepo) ReplaceByMatch(_ context.Context, matchID string, items []tracking.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[matchID] = append([]tracking.Frame(nil), items...)
	return nil
}

func (r *fakeTrackingRepo) ListByMatch(_ context.Context, matchID string, window tracking.FrameRange) ([]tracking.Frame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tracking.Frame, 0)
	for _, item := range r.items[matchID] {
		if window.PeriodID > 0 && item.PeriodID != window.PeriodID {
			continue
		}
		if window.FromFrame > 0 && item.FrameID < window.FromFrame {
			continue
		}
		if window.ToFrame > 0 && item.FrameID > window.ToFrame {
			continue
		}
		out = append(out, item)
		if window.Limit > 0 && len(out) >= window.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeTrackingRepo) CountByMatch(_ context.Context, matchID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items[matchID])), nil
}

func (r *fakeTrackingRepo) GetFrame(_ context.Context, matchID string, frameID int64) (tracking.Frame, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items[matchID] {
		if item.FrameID == frameID {
			return item, true, nil
		}
	}
	return tracking.Frame{}, false, nil
}

type fakeFeatureRepo struct {
	mu         sync.Mutex
	distances  map[string][]feature.DistanceSummary
	pressure   map[string][]feature.PressureSample
	possession map[string][]feature.PossessionSpan
	threat     map[string][]feature.ThreatValue
}

func newFakeFeatureRepo() *fakeFeatureRepo {
	return &fakeFeatureRepo{
		distances:  make(map[string][]feature.DistanceSummary),
		pressure:   make(map[string][]feature.PressureSample),
		possession: make(map[string][]feature.PossessionSpan),
		threat:     make(map[string][]feature.ThreatValue),
	}
}

func (r *fakeFeatureRepo) ReplaceDistances(_ context.Context, matchID string, items []feature.DistanceSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.distances[matchID] = append([]feature.DistanceSummary(nil), items...)
	return nil
}

func (r *fakeFeatureRepo) ListDistances(_ context.Context, matchID string) ([]feature.DistanceSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feature.DistanceSummary(nil), r.distances[matchID]...), nil
}

func (r *fakeFeatureRepo) ReplacePressure(_ context.Context, matchID string, items []feature.PressureSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pressure[matchID] = append([]feature.PressureSample(nil), items...)
	return nil
}

func (r *fakeFeatureRepo) ListPressure(_ context.Context, matchID string, frameID int64) ([]feature.PressureSample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]feature.PressureSample, 0)
	for _, item := range r.pressure[matchID] {
		if frameID > 0 && item.FrameID != frameID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *fakeFeatureRepo) ReplacePossession(_ context.Context, matchID string, items []feature.PossessionSpan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.possession[matchID] = append([]feature.PossessionSpan(nil), items...)
	return nil
}

func (r *fakeFeatureRepo) ListPossession(_ context.Context, matchID string) ([]feature.PossessionSpan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feature.PossessionSpan(nil), r.possession[matchID]...), nil
}

func (r *fakeFeatureRepo) ReplaceThreat(_ context.Context, matchID string, items []feature.ThreatValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threat[matchID] = append([]feature.ThreatValue(nil), items...)
	return nil
}

func (r *fakeFeatureRepo) ListThreat(_ context.Context, matchID string) ([]feature.ThreatValue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]feature.ThreatValue(nil), r.threat[matchID]...), nil
}

type fakeRawRepo struct {
	mu    sync.Mutex
	items []rawdata.Payload
}

func (r *fakeRawRepo) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
	return nil
}

type fakeProvider struct {
	bundle ProviderMatchBundle
	err    error
	calls  int
}

func (p *fakeProvider) FetchMatchBundle(_ context.Context, _ string) (ProviderMatchBundle, error) {
	p.calls++
	if p.err != nil {
		return ProviderMatchBundle{}, p.err
	}
	return p.bundle, nil
}
