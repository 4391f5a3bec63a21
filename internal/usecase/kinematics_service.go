package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

type KinematicsConfig struct {
	SmoothingWindow int
	MaxSpeedMS      float64
}

func (c KinematicsConfig) normalized() KinematicsConfig {
	if c.SmoothingWindow < 1 || c.SmoothingWindow%2 == 0 {
		c.SmoothingWindow = 7
	}
	if c.MaxSpeedMS <= 0 {
		c.MaxSpeedMS = 12
	}
	return c
}

// KinematicsService derives covered distance, velocity bands and top speed
// per player from the tracking stream.
type KinematicsService struct {
	matchRepo    match.Repository
	trackingRepo tracking.Repository
	featureRepo  feature.Repository
	cache        *cache.Store
	logger       *logging.Logger
	cfg          KinematicsConfig
}

func NewKinematicsService(
	matchRepo match.Repository,
	trackingRepo tracking.Repository,
	featureRepo feature.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
	cfg KinematicsConfig,
) *KinematicsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &KinematicsService{
		matchRepo:    matchRepo,
		trackingRepo: trackingRepo,
		featureRepo:  featureRepo,
		cache:        cacheStore,
		logger:       logger,
		cfg:          cfg.normalized(),
	}
}

// ComputeDistances recomputes and stores distance summaries for every
// rostered player. Velocities come from central differences over smoothed
// positions; steps faster than the speed mask are dropped, not clamped.
func (s *KinematicsService) ComputeDistances(ctx context.Context, matchID string) ([]feature.DistanceSummary, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "KinematicsService.ComputeDistances")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	frames, err := s.trackingRepo.ListByMatch(ctx, matchID, tracking.FrameRange{})
	if err != nil {
		return nil, fmt.Errorf("list match frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: match %s has no tracking data", ErrInvalidInput, matchID)
	}
	sort.SliceStable(frames, func(i, j int) bool { return frames[i].FrameID < frames[j].FrameID })

	players := make([]match.Player, 0, len(item.HomeTeam.Players)+len(item.AwayTeam.Players))
	players = append(players, item.HomeTeam.Players...)
	players = append(players, item.AwayTeam.Players...)

	out := make([]feature.DistanceSummary, 0, len(players))
	for _, player := range players {
		summary := feature.DistanceSummary{
			MatchID:  matchID,
			PlayerID: player.ID,
			BandM: map[string]float64{
				feature.BandWalk:   0,
				feature.BandJog:    0,
				feature.BandRun:    0,
				feature.BandSprint: 0,
			},
		}
		for _, period := range item.Periods {
			s.accumulatePeriod(&summary, player.ID, period.ID, frames)
		}
		out = append(out, summary)
	}

	if err := s.featureRepo.ReplaceDistances(ctx, matchID, out); err != nil {
		return nil, fmt.Errorf("replace distance summaries: %w", err)
	}
	s.cache.Delete(ctx, "features:distance:"+matchID)
	s.logger.InfoContext(ctx, "distances computed", "match_id", matchID, "players", len(out))
	return out, nil
}

func (s *KinematicsService) ListDistances(ctx context.Context, matchID string) ([]feature.DistanceSummary, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, "features:distance:"+matchID, func(ctx context.Context) (any, error) {
		items, loadErr := s.featureRepo.ListDistances(ctx, matchID)
		if loadErr != nil {
			return nil, fmt.Errorf("list distance summaries: %w", loadErr)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]feature.DistanceSummary)
	if !ok {
		return nil, fmt.Errorf("unexpected cached distance type %T", value)
	}
	return items, nil
}

// accumulatePeriod walks one period of alive-ball frames for one player.
// Velocity across the halftime break would be meaningless, hence per period.
func (s *KinematicsService) accumulatePeriod(summary *feature.DistanceSummary, playerID string, periodID int, frames []tracking.Frame) {
	positions := make([]tracking.Position, 0, len(frames))
	times := make([]float64, 0, len(frames))
	for _, frame := range frames {
		if frame.PeriodID != periodID || frame.Ball.Status != tracking.BallStatusAlive {
			continue
		}
		positions = append(positions, frame.PlayerPosition(playerID))
		times = append(times, frame.Seconds())
	}
	if len(positions) < 2 {
		return
	}

	smoothed := smoothPositions(positions, s.cfg.SmoothingWindow)
	speeds := centralSpeeds(smoothed, times)

	for i := 1; i < len(smoothed); i++ {
		if smoothed[i].Missing() || smoothed[i-1].Missing() {
			continue
		}
		speed := speeds[i]
		if math.IsNaN(speed) {
			continue
		}
		if speed > s.cfg.MaxSpeedMS {
			summary.FramesMasked++
			continue
		}

		step := smoothed[i].DistanceTo(smoothed[i-1])
		summary.TotalM += step
		summary.BandM[speedBand(speed)] += step
		if speed > summary.TopSpeedMS {
			summary.TopSpeedMS = speed
		}
	}
}

func speedBand(speed float64) string {
	switch {
	case speed < 2:
		return feature.BandWalk
	case speed < 4:
		return feature.BandJog
	case speed < 5.5:
		return feature.BandRun
	default:
		return feature.BandSprint
	}
}

// smoothPositions applies a centered moving average with an odd window.
// Missing samples stay missing and are excluded from neighboring averages.
func smoothPositions(positions []tracking.Position, window int) []tracking.Position {
	if window <= 1 {
		return positions
	}

	half := window / 2
	out := make([]tracking.Position, len(positions))
	for i := range positions {
		if positions[i].Missing() {
			out[i] = tracking.MissingPosition()
			continue
		}

		sumX, sumY := 0.0, 0.0
		count := 0
		for j := i - half; j <= i+half; j++ {
			if j < 0 || j >= len(positions) || positions[j].Missing() {
				continue
			}
			sumX += positions[j].X
			sumY += positions[j].Y
			count++
		}
		out[i] = tracking.Position{X: sumX / float64(count), Y: sumY / float64(count)}
	}
	return out
}

// centralSpeeds returns per-sample speed in m/s using central differences,
// with one-sided differences at the series ends.
func centralSpeeds(positions []tracking.Position, times []float64) []float64 {
	out := make([]float64, len(positions))
	for i := range positions {
		prev := i - 1
		next := i + 1
		if prev < 0 {
			prev = i
		}
		if next >= len(positions) {
			next = i
		}
		if prev == next {
			out[i] = math.NaN()
			continue
		}

		dt := times[next] - times[prev]
		if dt <= 0 {
			out[i] = math.NaN()
			continue
		}
		d := positions[next].DistanceTo(positions[prev])
		if math.IsNaN(d) {
			out[i] = math.NaN()
			continue
		}
		out[i] = d / dt
	}
	return out
}
