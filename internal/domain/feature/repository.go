package feature

import "context"

// Repository exposes computed-feature read/write operations. Writes replace
// the previous computation for the match so recomputes stay idempotent.
type Repository interface {
	ReplaceDistances(ctx context.Context, matchID string, items []DistanceSummary) error
	ListDistances(ctx context.Context, matchID string) ([]DistanceSummary, error)
	ReplacePressure(ctx context.Context, matchID string, items []PressureSample) error
	ListPressure(ctx context.Context, matchID string, frameID int64) ([]PressureSample, error)
	ReplacePossession(ctx context.Context, matchID string, items []PossessionSpan) error
	ListPossession(ctx context.Context, matchID string) ([]PossessionSpan, error)
	ReplaceThreat(ctx context.Context, matchID string, items []ThreatValue) error
	ListThreat(ctx context.Context, matchID string) ([]ThreatValue, error)
}
