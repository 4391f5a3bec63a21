package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

type TrackingRepository struct {
	mu    sync.RWMutex
	items map[string][]tracking.Frame
}

func NewTrackingRepository() *TrackingRepository {
	return &TrackingRepository{items: make(map[string][]tracking.Frame)}
}

func (r *TrackingRepository) ReplaceByMatch(_ context.Context, matchID string, items []tracking.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := append([]tracking.Frame(nil), items...)
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].FrameID < frames[j].FrameID })
	r.items[matchID] = frames
	return nil
}

func (r *TrackingRepository) ListByMatch(_ context.Context, matchID string, window tracking.FrameRange) ([]tracking.Frame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

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

func (r *TrackingRepository) CountByMatch(_ context.Context, matchID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.items[matchID])), nil
}

func (r *TrackingRepository) GetFrame(_ context.Context, matchID string, frameID int64) (tracking.Frame, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frames := r.items[matchID]
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].FrameID >= frameID })
	if idx < len(frames) && frames[idx].FrameID == frameID {
		return frames[idx], true, nil
	}
	return tracking.Frame{}, false, nil
}
