package memory

import (
	"context"
	"sync"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[string][]event.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{items: make(map[string][]event.Event)}
}

func (r *EventRepository) ReplaceByMatch(_ context.Context, matchID string, items []event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[matchID] = append([]event.Event(nil), items...)
	return nil
}

func (r *EventRepository) ListByMatch(_ context.Context, matchID string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]event.Event(nil), r.items[matchID]...), nil
}

func (r *EventRepository) ListByMatchAndKind(_ context.Context, matchID, kind string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]event.Event, 0)
	for _, item := range r.items[matchID] {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *EventRepository) UpdateSyncedFrames(_ context.Context, matchID string, frameByEventID map[int64]int64) error {
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
