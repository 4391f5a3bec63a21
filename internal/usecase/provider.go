package usecase

import (
	"context"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
)

// ProviderMatchBundle is everything a data provider returns for one game:
// parsed metadata, both data streams and the raw documents they came from.
type ProviderMatchBundle struct {
	Match       match.Match
	Events      []event.Event
	Frames      []tracking.Frame
	RawPayloads []rawdata.Payload
}

// MatchDataProvider fetches and parses one game from an external source.
type MatchDataProvider interface {
	FetchMatchBundle(ctx context.Context, gameID string) (ProviderMatchBundle, error)
}
