package match

import "context"

// Repository exposes match read/write operations.
type Repository interface {
	Upsert(ctx context.Context, item Match) error
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	UpdateStatus(ctx context.Context, matchID, status string) error
}
