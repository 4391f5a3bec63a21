package memory

import (
	"context"
	"sync"

	"github.com/trackmetrics/pitchsync/internal/domain/feature"
)

type FeatureRepository struct {
	mu         sync.RWMutex
	distances  map[string][]feature.DistanceSummary
	pressure   map[string][]feature.PressureSample
	possession map[string][]feature.PossessionSpan
	threat     map[string][]feature.ThreatValue
}

func NewFeatureRepository() *FeatureRepository {
	return &FeatureRepository{
		distances:  make(map[string][]feature.DistanceSummary),
		pressure:   make(map[string][]feature.PressureSample),
		possession: make(map[string][]feature.PossessionSpan),
		threat:     make(map[string][]feature.ThreatValue),
	}
}

func (r *FeatureRepository) ReplaceDistances(_ context.Context, matchID string, items []feature.DistanceSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.distances[matchID] = append([]feature.DistanceSummary(nil), items...)
	return nil
}

func (r *FeatureRepository) ListDistances(_ context.Context, matchID string) ([]feature.DistanceSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]feature.DistanceSummary(nil), r.distances[matchID]...), nil
}

func (r *FeatureRepository) ReplacePressure(_ context.Context, matchID string, items []feature.PressureSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pressure[matchID] = append([]feature.PressureSample(nil), items...)
	return nil
}

func (r *FeatureRepository) ListPressure(_ context.Context, matchID string, frameID int64) ([]feature.PressureSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feature.PressureSample, 0)
	for _, item := range r.pressure[matchID] {
		if frameID > 0 && item.FrameID != frameID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *FeatureRepository) ReplacePossession(_ context.Context, matchID string, items []feature.PossessionSpan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.possession[matchID] = append([]feature.PossessionSpan(nil), items...)
	return nil
}

func (r *FeatureRepository) ListPossession(_ context.Context, matchID string) ([]feature.PossessionSpan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]feature.PossessionSpan(nil), r.possession[matchID]...), nil
}

func (r *FeatureRepository) ReplaceThreat(_ context.Context, matchID string, items []feature.ThreatValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.threat[matchID] = append([]feature.ThreatValue(nil), items...)
	return nil
}

func (r *FeatureRepository) ListThreat(_ context.Context, matchID string) ([]feature.ThreatValue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]feature.ThreatValue(nil), r.threat[matchID]...), nil
}
