package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

type PossessionConfig struct {
	MinDuration time.Duration
}

// PossessionService derives team possession spans from the synchronized
// event stream.
type PossessionService struct {
	matchRepo    match.Repository
	eventRepo    event.Repository
	trackingRepo tracking.Repository
	featureRepo  feature.Repository
	cache        *cache.Store
	logger       *logging.Logger
	cfg          PossessionConfig
}

func NewPossessionService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	trackingRepo tracking.Repository,
	featureRepo feature.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
	cfg PossessionConfig,
) *PossessionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PossessionService{
		matchRepo:    matchRepo,
		eventRepo:    eventRepo,
		trackingRepo: trackingRepo,
		featureRepo:  featureRepo,
		cache:        cacheStore,
		logger:       logger,
		cfg:          cfg,
	}
}

// ComputePossession builds possession spans: a team possesses the ball from
// its first controlled on-ball event until the opponent's next controlled
// event, a dead ball, or the period end. Spans shorter than the configured
// minimum are merged into the preceding span.
func (s *PossessionService) ComputePossession(ctx context.Context, matchID string) ([]feature.PossessionSpan, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "PossessionService.ComputePossession")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if item.Status != match.StatusSynced {
		return nil, fmt.Errorf("%w: match %s is not synchronized", ErrInvalidInput, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}
	frames, err := s.trackingRepo.ListByMatch(ctx, matchID, tracking.FrameRange{})
	if err != nil {
		return nil, fmt.Errorf("list match frames: %w", err)
	}

	deadFrames := make([]int64, 0, len(frames))
	for _, frame := range frames {
		if frame.Ball.Status == tracking.BallStatusDead {
			deadFrames = append(deadFrames, frame.FrameID)
		}
	}
	sort.Slice(deadFrames, func(i, j int) bool { return deadFrames[i] < deadFrames[j] })

	out := make([]feature.PossessionSpan, 0, 64)
	for _, period := range item.Periods {
		spans := buildPeriodSpans(matchID, period, controlledEvents(events, period.ID), deadFrames)
		spans = mergeShortSpans(spans, minSpanFrames(s.cfg.MinDuration, item.FrameRate))
		out = append(out, spans...)
	}

	if err := s.featureRepo.ReplacePossession(ctx, matchID, out); err != nil {
		return nil, fmt.Errorf("replace possession spans: %w", err)
	}
	s.cache.Delete(ctx, "features:possession:"+matchID)
	s.logger.InfoContext(ctx, "possession computed", "match_id", matchID, "spans", len(out))
	return out, nil
}

func (s *PossessionService) ListPossession(ctx context.Context, matchID string) ([]feature.PossessionSpan, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, "features:possession:"+matchID, func(ctx context.Context) (any, error) {
		items, loadErr := s.featureRepo.ListPossession(ctx, matchID)
		if loadErr != nil {
			return nil, fmt.Errorf("list possession spans: %w", loadErr)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]feature.PossessionSpan)
	if !ok {
		return nil, fmt.Errorf("unexpected cached possession type %T", value)
	}
	return items, nil
}

// controlledEvents returns the synced on-ball events of one period in frame
// order. Only controlled actions (pass, dribble, shot) start or end spans.
func controlledEvents(events []event.Event, periodID int) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.PeriodID != periodID || !e.IsOnBall() || !e.IsSynced() || e.TeamID == "" {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SyncedFrame < out[j].SyncedFrame })
	return out
}

func buildPeriodSpans(matchID string, period match.Period, events []event.Event, deadFrames []int64) []feature.PossessionSpan {
	if len(events) == 0 {
		return nil
	}

	out := make([]feature.PossessionSpan, 0, len(events))
	current := feature.PossessionSpan{
		MatchID:    matchID,
		TeamID:     events[0].TeamID,
		PeriodID:   period.ID,
		StartFrame: events[0].SyncedFrame,
	}

	for _, e := range events[1:] {
		if e.TeamID == current.TeamID {
			continue
		}

		current.EndFrame = clampSpanEnd(current.StartFrame, e.SyncedFrame-1, deadFrames)
		out = append(out, current)
		current = feature.PossessionSpan{
			MatchID:    matchID,
			TeamID:     e.TeamID,
			PeriodID:   period.ID,
			StartFrame: e.SyncedFrame,
		}
	}

	current.EndFrame = clampSpanEnd(current.StartFrame, period.EndFrame, deadFrames)
	out = append(out, current)
	return out
}

// clampSpanEnd cuts a span at the first dead-ball frame after its start.
func clampSpanEnd(startFrame, endFrame int64, deadFrames []int64) int64 {
	if endFrame < startFrame {
		return startFrame
	}

	idx := sort.Search(len(deadFrames), func(i int) bool { return deadFrames[i] > startFrame })
	if idx < len(deadFrames) && deadFrames[idx] <= endFrame {
		return deadFrames[idx] - 1
	}
	return endFrame
}

// mergeShortSpans folds spans below the minimum length into the preceding
// span, so momentary touches do not flip possession.
func mergeShortSpans(spans []feature.PossessionSpan, minFrames int64) []feature.PossessionSpan {
	if minFrames <= 0 || len(spans) == 0 {
		return spans
	}

	out := make([]feature.PossessionSpan, 0, len(spans))
	for _, span := range spans {
		if span.EndFrame-span.StartFrame+1 >= minFrames || len(out) == 0 {
			out = append(out, span)
			continue
		}
		out[len(out)-1].EndFrame = span.EndFrame
	}

	// Adjacent spans may now share a team; collapse them.
	collapsed := out[:0]
	for _, span := range out {
		if len(collapsed) > 0 && collapsed[len(collapsed)-1].TeamID == span.TeamID {
			collapsed[len(collapsed)-1].EndFrame = span.EndFrame
			continue
		}
		collapsed = append(collapsed, span)
	}
	return collapsed
}

func minSpanFrames(minDuration time.Duration, frameRate int) int64 {
	if minDuration <= 0 || frameRate <= 0 {
		return 0
	}
	return int64(minDuration.Seconds() * float64(frameRate))
}
