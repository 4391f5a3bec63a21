package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

type PressureConfig struct {
	MaxAheadM  float64
	MaxBehindM float64
}

func (c PressureConfig) normalized() PressureConfig {
	if c.MaxAheadM <= 0 {
		c.MaxAheadM = 9
	}
	if c.MaxBehindM <= 0 {
		c.MaxBehindM = 3
	}
	return c
}

const pressureExponent = 1.75

// PressureService scores the defensive pressure on the ball carrier at each
// synchronized on-ball event.
type PressureService struct {
	matchRepo    match.Repository
	eventRepo    event.Repository
	trackingRepo tracking.Repository
	featureRepo  feature.Repository
	cache        *cache.Store
	logger       *logging.Logger
	cfg          PressureConfig
}

func NewPressureService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	trackingRepo tracking.Repository,
	featureRepo feature.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
	cfg PressureConfig,
) *PressureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PressureService{
		matchRepo:    matchRepo,
		eventRepo:    eventRepo,
		trackingRepo: trackingRepo,
		featureRepo:  featureRepo,
		cache:        cacheStore,
		logger:       logger,
		cfg:          cfg.normalized(),
	}
}

// ComputePressure samples pressure on the acting player at every synced
// on-ball event. The match must have been synchronized first.
func (s *PressureService) ComputePressure(ctx context.Context, matchID string) ([]feature.PressureSample, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "PressureService.ComputePressure")
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

	out := make([]feature.PressureSample, 0, len(events))
	for _, e := range events {
		if !e.IsOnBall() || !e.IsSynced() || e.PlayerID == "" {
			continue
		}
		side, ok := item.SideOfTeam(e.TeamID)
		if !ok {
			continue
		}

		frame, found, frameErr := s.trackingRepo.GetFrame(ctx, matchID, e.SyncedFrame)
		if frameErr != nil {
			return nil, fmt.Errorf("get frame %d: %w", e.SyncedFrame, frameErr)
		}
		if !found {
			continue
		}

		target := frame.PlayerPosition(e.PlayerID)
		if target.Missing() {
			continue
		}

		opponents, opponentsOk := item.TeamBySide(opponentSide(side))
		if !opponentsOk {
			continue
		}
		positions := make([]tracking.Position, 0, len(opponents.Players))
		for _, player := range opponents.Players {
			pos := frame.PlayerPosition(player.ID)
			if pos.Missing() {
				continue
			}
			positions = append(positions, pos)
		}

		out = append(out, feature.PressureSample{
			MatchID:  matchID,
			FrameID:  e.SyncedFrame,
			PlayerID: e.PlayerID,
			Pressure: pressureOn(target, positions, attackDirection(side), s.cfg),
		})
	}

	if err := s.featureRepo.ReplacePressure(ctx, matchID, out); err != nil {
		return nil, fmt.Errorf("replace pressure samples: %w", err)
	}
	s.cache.DeletePrefix(ctx, "features:pressure:"+matchID)
	s.logger.InfoContext(ctx, "pressure computed", "match_id", matchID, "samples", len(out))
	return out, nil
}

func (s *PressureService) ListPressure(ctx context.Context, matchID string, frameID int64) ([]feature.PressureSample, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	key := fmt.Sprintf("features:pressure:%s:%d", matchID, frameID)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, loadErr := s.featureRepo.ListPressure(ctx, matchID, frameID)
		if loadErr != nil {
			return nil, fmt.Errorf("list pressure samples: %w", loadErr)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]feature.PressureSample)
	if !ok {
		return nil, fmt.Errorf("unexpected cached pressure type %T", value)
	}
	return items, nil
}

// attackDirection is the x direction the side plays toward. Streams are
// normalized so home always attacks left-to-right.
func attackDirection(side string) float64 {
	if side == match.SideHome {
		return 1
	}
	return -1
}

func opponentSide(side string) string {
	if side == match.SideHome {
		return match.SideAway
	}
	return match.SideHome
}

// pressureOn sums opponent contributions inside the pressure oval around
// the target. The oval reaches maxAhead meters toward the opponent goal and
// maxBehind meters the other way; a defender at distance d inside boundary
// r contributes (1 - d/r)^1.75 * 100. The sum is clipped to 100.
func pressureOn(target tracking.Position, opponents []tracking.Position, attackDir float64, cfg PressureConfig) float64 {
	total := 0.0
	for _, opp := range opponents {
		d := target.DistanceTo(opp)
		if math.IsNaN(d) || d == 0 {
			continue
		}

		cosTheta := ((opp.X - target.X) * attackDir) / d
		boundary := cfg.MaxBehindM + (cfg.MaxAheadM-cfg.MaxBehindM)*(1+cosTheta)/2
		if d > boundary {
			continue
		}
		total += math.Pow(1-d/boundary, pressureExponent) * 100
	}

	if total > 100 {
		return 100
	}
	return total
}
