package tracking

import "context"

// FrameRange narrows frame reads; zero values mean unbounded.
type FrameRange struct {
	PeriodID  int
	FromFrame int64
	ToFrame   int64
	Limit     int
}

// Repository exposes tracking frame read/write operations.
type Repository interface {
	ReplaceByMatch(ctx context.Context, matchID string, items []Frame) error
	ListByMatch(ctx context.Context, matchID string, window FrameRange) ([]Frame, error)
	CountByMatch(ctx context.Context, matchID string) (int64, error)
	GetFrame(ctx context.Context, matchID string, frameID int64) (Frame, bool, error)
}
