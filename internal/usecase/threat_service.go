package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/trackmetrics/pitchsync/internal/domain/event"
	"github.com/trackmetrics/pitchsync/internal/domain/feature"
	"github.com/trackmetrics/pitchsync/internal/domain/match"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

// goalMouthWidth is the regulation goal width in meters.
const goalMouthWidth = 7.32

// threatModel is a logistic model over distance and angle to goal:
// p = sigmoid(intercept + bDistance*d + bAngle*a + bInteraction*d*a).
type threatModel struct {
	intercept    float64
	bDistance    float64
	bAngle       float64
	bInteraction float64
}

func (m threatModel) score(distance, angle float64) float64 {
	z := m.intercept + m.bDistance*distance + m.bAngle*angle + m.bInteraction*distance*angle
	return 1 / (1 + math.Exp(-z))
}

// Fixed coefficients; xG only applies to shots, xT covers every controlled
// on-ball action from its start location.
var (
	xgShotModel = threatModel{intercept: -1.15, bDistance: -0.095, bAngle: 1.25, bInteraction: -0.005}

	xtModelByKind = map[string]threatModel{
		event.KindShot:    {intercept: -0.95, bDistance: -0.090, bAngle: 1.10, bInteraction: -0.004},
		event.KindPass:    {intercept: -2.10, bDistance: -0.045, bAngle: 0.85, bInteraction: -0.003},
		event.KindDribble: {intercept: -2.40, bDistance: -0.050, bAngle: 0.90, bInteraction: -0.003},
	}
)

// ThreatService scores on-ball events with expected-threat and, for shots,
// expected-goal values.
type ThreatService struct {
	matchRepo   match.Repository
	eventRepo   event.Repository
	featureRepo feature.Repository
	cache       *cache.Store
	logger      *logging.Logger
}

func NewThreatService(
	matchRepo match.Repository,
	eventRepo event.Repository,
	featureRepo feature.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *ThreatService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ThreatService{
		matchRepo:   matchRepo,
		eventRepo:   eventRepo,
		featureRepo: featureRepo,
		cache:       cacheStore,
		logger:      logger,
	}
}

// ComputeThreat recomputes threat values for every canonical on-ball event.
// Events with missing start coordinates are skipped.
func (s *ThreatService) ComputeThreat(ctx context.Context, matchID string) ([]feature.ThreatValue, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "ThreatService.ComputeThreat")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	events, err := s.eventRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events: %w", err)
	}

	out := make([]feature.ThreatValue, 0, len(events))
	for _, e := range events {
		if !e.IsOnBall() {
			continue
		}
		side, ok := item.SideOfTeam(e.TeamID)
		if !ok {
			continue
		}
		if math.IsNaN(e.StartX) || math.IsNaN(e.StartY) {
			continue
		}

		goalX := item.PitchLength / 2 * attackDirection(side)
		model, ok := xtModelByKind[e.Kind]
		if !ok {
			continue
		}

		distance, angle := goalGeometry(e.StartX, e.StartY, goalX)
		value := feature.ThreatValue{
			MatchID: matchID,
			EventID: e.ID,
			Kind:    e.Kind,
			XT:      model.score(distance, angle),
		}
		if e.Kind == event.KindShot {
			value.XG = xgShotModel.score(distance, angle)
		}
		if e.Kind == event.KindPass && !math.IsNaN(e.EndX) && !math.IsNaN(e.EndY) {
			endDistance, endAngle := goalGeometry(e.EndX, e.EndY, goalX)
			value.XTDelta = model.score(endDistance, endAngle) - value.XT
		}
		out = append(out, value)
	}

	if err := s.featureRepo.ReplaceThreat(ctx, matchID, out); err != nil {
		return nil, fmt.Errorf("replace threat values: %w", err)
	}
	s.cache.Delete(ctx, "features:threat:"+matchID)
	s.logger.InfoContext(ctx, "threat computed", "match_id", matchID, "events", len(out))
	return out, nil
}

func (s *ThreatService) ListThreat(ctx context.Context, matchID string) ([]feature.ThreatValue, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	value, err := s.cache.GetOrLoad(ctx, "features:threat:"+matchID, func(ctx context.Context) (any, error) {
		items, loadErr := s.featureRepo.ListThreat(ctx, matchID)
		if loadErr != nil {
			return nil, fmt.Errorf("list threat values: %w", loadErr)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]feature.ThreatValue)
	if !ok {
		return nil, fmt.Errorf("unexpected cached threat type %T", value)
	}
	return items, nil
}

// goalGeometry returns the distance to the goal center and the angle
// subtended by the goal mouth from (x, y), attacking the goal at goalX.
func goalGeometry(x, y, goalX float64) (float64, float64) {
	dx := math.Abs(goalX - x)
	distance := math.Hypot(dx, y)

	half := goalMouthWidth / 2
	angle := math.Atan2(goalMouthWidth*dx, dx*dx+y*y-half*half)
	if angle < 0 {
		angle += math.Pi
	}
	return distance, angle
}
