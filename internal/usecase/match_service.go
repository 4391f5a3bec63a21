package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

type LoadMatchInput struct {
	GameID string
}

// MatchSummary is the load result reported outward.
type MatchSummary struct {
	Match      match.Match
	EventCount int
	FrameCount int
}

// MatchService runs the load pipeline: fetch, normalize, persist.
type MatchService struct {
	provider     MatchDataProvider
	matchRepo    match.Repository
	eventRepo    event.Repository
	trackingRepo tracking.Repository
	rawRepo      rawdata.Repository
	cache        *cache.Store
	logger       *logging.Logger
	now          func() time.Time
}

func NewMatchService(
	provider MatchDataProvider,
	matchRepo match.Repository,
	eventRepo event.Repository,
	trackingRepo tracking.Repository,
	rawRepo rawdata.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		provider:     provider,
		matchRepo:    matchRepo,
		eventRepo:    eventRepo,
		trackingRepo: trackingRepo,
		rawRepo:      rawRepo,
		cache:        cacheStore,
		logger:       logger,
		now:          time.Now,
	}
}

// LoadMatch fetches one game from the provider, normalizes both streams and
// persists them. Reloading the same match replaces its events and frames.
func (s *MatchService) LoadMatch(ctx context.Context, input LoadMatchInput) (MatchSummary, error) {
	gameID := strings.TrimSpace(input.GameID)
	if gameID == "" {
		return MatchSummary{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "MatchService.LoadMatch")
	defer span.End()

	bundle, err := s.provider.FetchMatchBundle(ctx, gameID)
	if err != nil {
		return MatchSummary{}, fmt.Errorf("fetch match bundle: %w", err)
	}

	normalizePlayingDirection(&bundle)
	deriveEventDatetimes(&bundle)

	bundle.Match.Status = match.StatusLoaded
	bundle.Match.LoadedAt = s.now().UTC()
	if err := bundle.Match.Validate(); err != nil {
		return MatchSummary{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// The raw payload archive is best effort: a failed write must not lose
	// the parsed match.
	if len(bundle.RawPayloads) > 0 {
		if err := s.rawRepo.UpsertMany(ctx, bundle.RawPayloads); err != nil {
			s.logger.WarnContext(ctx, "store raw payloads failed", "match_id", bundle.Match.ID, "error", err)
		}
	}

	if err := s.matchRepo.Upsert(ctx, bundle.Match); err != nil {
		return MatchSummary{}, fmt.Errorf("upsert match: %w", err)
	}
	if err := s.eventRepo.ReplaceByMatch(ctx, bundle.Match.ID, bundle.Events); err != nil {
		return MatchSummary{}, fmt.Errorf("replace match events: %w", err)
	}
	if err := s.trackingRepo.ReplaceByMatch(ctx, bundle.Match.ID, bundle.Frames); err != nil {
		return MatchSummary{}, fmt.Errorf("replace match frames: %w", err)
	}

	s.invalidateMatchCache(ctx, bundle.Match.ID)
	s.logger.InfoContext(ctx, "match loaded",
		"match_id", bundle.Match.ID,
		"game_id", gameID,
		"events", len(bundle.Events),
		"frames", len(bundle.Frames),
	)

	return MatchSummary{
		Match:      bundle.Match,
		EventCount: len(bundle.Events),
		FrameCount: len(bundle.Frames),
	}, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "MatchService.GetMatch")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, "match:"+matchID, func(ctx context.Context) (any, error) {
		item, exists, loadErr := s.matchRepo.GetByID(ctx, matchID)
		if loadErr != nil {
			return nil, fmt.Errorf("get match by id: %w", loadErr)
		}
		if !exists {
			return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}
		return item, nil
	})
	if err != nil {
		return match.Match{}, err
	}

	item, ok := value.(match.Match)
	if !ok {
		return match.Match{}, fmt.Errorf("unexpected cached match type %T", value)
	}
	return item, nil
}

func (s *MatchService) ListMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "MatchService.ListMatches")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, "matches:list", func(ctx context.Context) (any, error) {
		items, loadErr := s.matchRepo.List(ctx)
		if loadErr != nil {
			return nil, fmt.Errorf("list matches: %w", loadErr)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]match.Match)
	if !ok {
		return nil, fmt.Errorf("unexpected cached match list type %T", value)
	}
	return items, nil
}

func (s *MatchService) ListEvents(ctx context.Context, matchID, kind string) ([]event.Event, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}

	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case "":
		items, err := s.eventRepo.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("list match events: %w", err)
		}
		return items, nil
	case event.KindPass, event.KindShot, event.KindDribble:
		items, err := s.eventRepo.ListByMatchAndKind(ctx, matchID, kind)
		if err != nil {
			return nil, fmt.Errorf("list match events by kind: %w", err)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrInvalidInput, kind)
	}
}

func (s *MatchService) ListFrames(ctx context.Context, matchID string, window tracking.FrameRange) ([]tracking.Frame, error) {
	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}
	if window.ToFrame > 0 && window.ToFrame < window.FromFrame {
		return nil, fmt.Errorf("%w: frame range is inverted", ErrInvalidInput)
	}

	items, err := s.trackingRepo.ListByMatch(ctx, matchID, window)
	if err != nil {
		return nil, fmt.Errorf("list match frames: %w", err)
	}
	return items, nil
}

func (s *MatchService) invalidateMatchCache(ctx context.Context, matchID string) {
	s.cache.DeletePrefix(ctx, "match:"+matchID)
	s.cache.Delete(ctx, "matches:list")
}

// normalizePlayingDirection mirrors periods where the home team defends the
// right half, so home always attacks left-to-right. The side is inferred
// from the mean home x in the first frames of each period.
func normalizePlayingDirection(bundle *ProviderMatchBundle) {
	for idx := range bundle.Match.Periods {
		period := &bundle.Match.Periods[idx]
		if homeAttacksLeftToRight(bundle, period.ID) {
			period.PlayingDirectionLR = true
			continue
		}

		for i := range bundle.Frames {
			if bundle.Frames[i].PeriodID != period.ID {
				continue
			}
			mirrorFrame(&bundle.Frames[i])
		}
		for i := range bundle.Events {
			if bundle.Events[i].PeriodID != period.ID {
				continue
			}
			bundle.Events[i].StartX = -bundle.Events[i].StartX
			bundle.Events[i].StartY = -bundle.Events[i].StartY
			bundle.Events[i].EndX = -bundle.Events[i].EndX
			bundle.Events[i].EndY = -bundle.Events[i].EndY
		}
		period.PlayingDirectionLR = true
	}
}

// homeAttacksLeftToRight samples the first frames of the period: a home
// side lined up on the left half (negative mean x) attacks left-to-right.
func homeAttacksLeftToRight(bundle *ProviderMatchBundle, periodID int) bool {
	const sampleFrames = 5

	sum := 0.0
	count := 0
	sampled := 0
	for _, frame := range bundle.Frames {
		if frame.PeriodID != periodID {
			continue
		}
		for _, player := range bundle.Match.HomeTeam.Players {
			pos := frame.PlayerPosition(player.ID)
			if pos.Missing() {
				continue
			}
			sum += pos.X
			count++
		}
		sampled++
		if sampled >= sampleFrames {
			break
		}
	}

	if count == 0 {
		return true
	}
	return sum/float64(count) <= 0
}

func mirrorFrame(frame *tracking.Frame) {
	for playerID, pos := range frame.Positions {
		if pos.Missing() {
			continue
		}
		frame.Positions[playerID] = tracking.Position{X: -pos.X, Y: -pos.Y}
	}
	if !frame.Ball.Missing() {
		frame.Ball.X = -frame.Ball.X
		frame.Ball.Y = -frame.Ball.Y
	}
}

// deriveEventDatetimes anchors events carrying a provider frame hint to the
// tracking clock: start + (frame - periodStartFrame) / frameRate.
func deriveEventDatetimes(bundle *ProviderMatchBundle) {
	if bundle.Match.FrameRate <= 0 {
		return
	}
	for i := range bundle.Events {
		e := &bundle.Events[i]
		if e.TDFrame == event.MissingFrame || e.TDFrame <= 0 {
			continue
		}
		period, ok := bundle.Match.PeriodByFrame(e.TDFrame)
		if !ok || period.ID != e.PeriodID {
			continue
		}
		offset := float64(e.TDFrame-period.StartFrame) / float64(bundle.Match.FrameRate)
		e.DateTime = period.TrackingStartAt.Add(time.Duration(math.Round(offset * float64(time.Second))))
	}
}
