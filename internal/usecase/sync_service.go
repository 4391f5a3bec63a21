package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

type SyncConfig struct {
	Window     time.Duration
	TimeWeight float64
	DistWeight float64
	GapPenalty float64
	MaxWorkers int
}

func (c SyncConfig) normalized() SyncConfig {
	if c.Window <= 0 {
		c.Window = 5 * time.Second
	}
	if c.TimeWeight <= 0 && c.DistWeight <= 0 {
		c.TimeWeight = 1
		c.DistWeight = 1
	}
	if c.GapPenalty < 0 {
		c.GapPenalty = 0
	}
	if c.MaxWorkers < 1 {
		c.MaxWorkers = 1
	}
	return c
}

// SyncResult reports one synchronization run.
type SyncResult struct {
	MatchID      string
	Periods      int
	SyncedEvents int
}

// SyncService aligns on-ball events to tracking frames. Periods are
// independent, so they are aligned in parallel on a bounded worker pool.
type SyncService struct {
	matchRepo    match.Repository
	eventRepo    event.Repository
	trackingRepo tracking.Repository
	cache        *cache.Store
	logger       *logging.Logger
	cfg          SyncConfig
	workers      *ants.Pool
}

func NewSyncService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	trackingRepo tracking.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
	cfg SyncConfig,
) (*SyncService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	cfg = cfg.normalized()

	workers, err := ants.NewPool(cfg.MaxWorkers)
	if err != nil {
		return nil, fmt.Errorf("create sync worker pool: %w", err)
	}

	return &SyncService{
		matchRepo:    matchRepo,
		eventRepo:    eventRepo,
		trackingRepo: trackingRepo,
		cache:        cacheStore,
		logger:       logger,
		cfg:          cfg,
		workers:      workers,
	}, nil
}

// Close releases the worker pool.
func (s *SyncService) Close() {
	s.workers.Release()
}

// SyncMatch assigns every canonical on-ball event its best tracking frame
// and marks the match SYNCED. Re-running replaces previous assignments.
func (s *SyncService) SyncMatch(ctx context.Context, matchID string) (SyncResult, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return SyncResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncMatch")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return SyncResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	frameCount, err := s.trackingRepo.CountByMatch(ctx, matchID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("count match frames: %w", err)
	}
	if frameCount == 0 {
		return SyncResult{}, fmt.Errorf("%w: match %s has no tracking data", ErrInvalidInput, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("list match events: %w", err)
	}

	eventsByPeriod := make(map[int][]event.Event, len(item.Periods))
	for _, e := range events {
		if !e.IsOnBall() {
			continue
		}
		eventsByPeriod[e.PeriodID] = append(eventsByPeriod[e.PeriodID], e)
	}

	assigned := make(map[int64]int64, len(events))
	var assignedMu sync.Mutex
	var wg sync.WaitGroup
	errs := make([]error, 0, len(item.Periods))
	var errsMu sync.Mutex
	periodsAligned := 0

	for _, period := range item.Periods {
		periodEvents := eventsByPeriod[period.ID]
		if len(periodEvents) == 0 {
			continue
		}
		periodsAligned++

		period := period
		wg.Add(1)
		submitErr := s.workers.Submit(func() {
			defer wg.Done()

			frames, loadErr := s.trackingRepo.ListByMatch(ctx, matchID, tracking.FrameRange{PeriodID: period.ID})
			if loadErr != nil {
				errsMu.Lock()
				errs = append(errs, fmt.Errorf("list frames period=%d: %w", period.ID, loadErr))
				errsMu.Unlock()
				return
			}

			result := alignEvents(periodEvents, frames, s.cfg)
			assignedMu.Lock()
			for eventID, frameID := range result {
				assigned[eventID] = frameID
			}
			assignedMu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			errsMu.Lock()
			errs = append(errs, fmt.Errorf("submit period %d: %w", period.ID, submitErr))
			errsMu.Unlock()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		return SyncResult{}, errs[0]
	}

	if len(assigned) > 0 {
		if err := s.eventRepo.UpdateSyncedFrames(ctx, matchID, assigned); err != nil {
			return SyncResult{}, fmt.Errorf("update synced frames: %w", err)
		}
	}
	if err := s.matchRepo.UpdateStatus(ctx, matchID, match.StatusSynced); err != nil {
		return SyncResult{}, fmt.Errorf("update match status: %w", err)
	}

	s.cache.DeletePrefix(ctx, "match:"+matchID)
	s.cache.Delete(ctx, "matches:list")
	s.logger.InfoContext(ctx, "match synchronized",
		"match_id", matchID,
		"periods", periodsAligned,
		"synced_events", len(assigned),
	)

	return SyncResult{
		MatchID:      matchID,
		Periods:      periodsAligned,
		SyncedEvents: len(assigned),
	}, nil
}

// alignEvents maps each event of one period to a tracking frame with a
// windowed monotonic dynamic program: candidate frames lie within the
// configured window of the event clock, the per-pair cost combines clock
// distance and ball-to-event distance, and assigned frames never move
// backwards in event order.
func alignEvents(events []event.Event, frames []tracking.Frame, cfg SyncConfig) map[int64]int64 {
	if len(events) == 0 || len(frames) == 0 {
		return nil
	}

	events = append([]event.Event(nil), events...)
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].PeriodSeconds() != events[j].PeriodSeconds() {
			return events[i].PeriodSeconds() < events[j].PeriodSeconds()
		}
		return events[i].ID < events[j].ID
	})
	frames = append([]tracking.Frame(nil), frames...)
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].FrameID < frames[j].FrameID })

	frameSeconds := make([]float64, len(frames))
	for i, frame := range frames {
		frameSeconds[i] = frame.Seconds()
	}

	window := cfg.Window.Seconds()
	candidates := make([][2]int, len(events))
	for i, e := range events {
		candidates[i] = candidateRange(frameSeconds, eventClock(e), window)
		// A provider frame hint widens the window so the DP can consider
		// it, but the DP output wins.
		if e.TDFrame > 0 {
			hintIdx := sort.Search(len(frames), func(idx int) bool { return frames[idx].FrameID >= e.TDFrame })
			if hintIdx < len(frames) {
				if hintIdx < candidates[i][0] {
					candidates[i][0] = hintIdx
				}
				if hintIdx > candidates[i][1] {
					candidates[i][1] = hintIdx
				}
			}
		}
	}

	// A hint can widen a window to before the previous event's earliest
	// candidate; clamp so no event can be assigned a frame earlier than
	// its predecessor's range allows.
	for i := 1; i < len(events); i++ {
		if candidates[i][0] < candidates[i-1][0] {
			candidates[i][0] = candidates[i-1][0]
		}
		if candidates[i][1] < candidates[i][0] {
			candidates[i][1] = candidates[i][0]
		}
	}

	// best[i][j-lo_i] is the cheapest alignment of events[0..i] ending with
	// event i on frame j. The transition allows any non-decreasing frame,
	// with a penalty per skipped frame.
	best := make([][]float64, len(events))
	parent := make([][]int, len(events))
	for i := range events {
		lo, hi := candidates[i][0], candidates[i][1]
		best[i] = make([]float64, hi-lo+1)
		parent[i] = make([]int, hi-lo+1)
	}

	for j := candidates[0][0]; j <= candidates[0][1]; j++ {
		best[0][j-candidates[0][0]] = pairCost(events[0], frames[j], frameSeconds[j], cfg)
		parent[0][j-candidates[0][0]] = -1
	}

	const inf = 1e18
	for i := 1; i < len(events); i++ {
		prevLo, prevHi := candidates[i-1][0], candidates[i-1][1]
		lo, hi := candidates[i][0], candidates[i][1]

		// Prefix minimum of best[i-1][k] - gap*k over k <= j.
		runningMin := inf
		runningArg := -1
		k := prevLo
		for j := lo; j <= hi; j++ {
			for ; k <= prevHi && k <= j; k++ {
				adjusted := best[i-1][k-prevLo] - cfg.GapPenalty*float64(k)
				if adjusted < runningMin {
					runningMin = adjusted
					runningArg = k
				}
			}
			// The clamp above guarantees lo >= prevLo, so at least one
			// previous candidate precedes every j.
			best[i][j-lo] = pairCost(events[i], frames[j], frameSeconds[j], cfg) + runningMin + cfg.GapPenalty*float64(j)
			parent[i][j-lo] = runningArg
		}
	}

	last := len(events) - 1
	lastLo := candidates[last][0]
	bestIdx := 0
	for idx := range best[last] {
		if best[last][idx] < best[last][bestIdx] {
			bestIdx = idx
		}
	}

	out := make(map[int64]int64, len(events))
	j := lastLo + bestIdx
	for i := last; i >= 0; i-- {
		out[events[i].ID] = frames[j].FrameID
		j = parent[i][j-candidates[i][0]]
	}
	return out
}

func eventClock(e event.Event) float64 {
	return e.PeriodSeconds()
}

// candidateRange returns the index range of frames within the window of
// the given clock position. An exhausted window degrades to the single
// nearest-time frame.
func candidateRange(frameSeconds []float64, clock, window float64) [2]int {
	lo := sort.SearchFloat64s(frameSeconds, clock-window)
	hi := sort.SearchFloat64s(frameSeconds, clock+window) - 1

	if lo > hi {
		nearest := lo
		if nearest >= len(frameSeconds) {
			nearest = len(frameSeconds) - 1
		}
		if nearest > 0 && clock-frameSeconds[nearest-1] < frameSeconds[nearest]-clock {
			nearest--
		}
		return [2]int{nearest, nearest}
	}
	if lo < 0 {
		lo = 0
	}
	if hi >= len(frameSeconds) {
		hi = len(frameSeconds) - 1
	}
	return [2]int{lo, hi}
}

// pairCost scores one event/frame pairing. A dead or missing ball
// contributes no distance term, leaving the clock to decide.
func pairCost(e event.Event, frame tracking.Frame, frameClock float64, cfg SyncConfig) float64 {
	dt := eventClock(e) - frameClock
	if dt < 0 {
		dt = -dt
	}
	cost := cfg.TimeWeight * dt

	start := tracking.Position{X: e.StartX, Y: e.StartY}
	if !start.Missing() && !frame.Ball.Missing() {
		cost += cfg.DistWeight * frame.Ball.DistanceTo(start)
	}
	return cost
}
