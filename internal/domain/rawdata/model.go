package rawdata

import "time"

// Payload retains one raw provider document (metadata XML, event JSON or
// tracking CSV) exactly as fetched, for replay and parser debugging.
type Payload struct {
	Source      string
	EntityType  string // "metadata", "events" or "tracking"
	EntityKey   string
	MatchID     string
	PayloadBody string
	PayloadHash string
	FetchedAt   *time.Time
}
