package memory

import (
	"context"
	"sync"

	"github.com/trackmetrics/pitchsync/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	orders []string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	orders := make([]string, 0, len(matches))

	for _, m := range matches {
		items[m.ID] = m
		orders = append(orders, m.ID)
	}

	return &MatchRepository{
		items:  items,
		orders: orders,
	}
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return m, true, nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[matchID]
	if !ok {
		return nil
	}
	m.Status = status
	r.items[matchID] = m
	return nil
}
