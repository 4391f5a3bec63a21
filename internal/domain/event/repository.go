package event

import "context"

// Repository exposes event read/write operations. ReplaceByMatch implements
// reload semantics: loading a match again replaces its event rows.
type Repository interface {
	ReplaceByMatch(ctx context.Context, matchID string, items []Event) error
	ListByMatch(ctx context.Context, matchID string) ([]Event, error)
	ListByMatchAndKind(ctx context.Context, matchID, kind string) ([]Event, error)
	UpdateSyncedFrames(ctx context.Context, matchID string, frameByEventID map[int64]int64) error
}
