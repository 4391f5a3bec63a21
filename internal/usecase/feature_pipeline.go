package usecase

import (
	"context"
	"fmt"

	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

// FeatureReport summarizes one full feature computation run.
type FeatureReport struct {
	MatchID         string
	DistancePlayers int
	PressureSamples int
	PossessionSpans int
	ThreatEvents    int
}

// FeaturePipeline runs every feature stage for a match in dependency order:
// kinematics needs tracking only, the rest need synchronization.
type FeaturePipeline struct {
	kinematics *KinematicsService
	pressure   *PressureService
	possession *PossessionService
	threat     *ThreatService
	logger     *logging.Logger
}

func NewFeaturePipeline(
	kinematics *KinematicsService,
	pressure *PressureService,
	possession *PossessionService,
	threat *ThreatService,
	logger *logging.Logger,
) *FeaturePipeline {
	if logger == nil {
		logger = logging.Default()
	}
	return &FeaturePipeline{
		kinematics: kinematics,
		pressure:   pressure,
		possession: possession,
		threat:     threat,
		logger:     logger,
	}
}

func (p *FeaturePipeline) ComputeAll(ctx context.Context, matchID string) (FeatureReport, error) {
	ctx, span := startUsecaseSpan(ctx, "FeaturePipeline.ComputeAll")
	defer span.End()

	distances, err := p.kinematics.ComputeDistances(ctx, matchID)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("compute distances: %w", err)
	}
	pressure, err := p.pressure.ComputePressure(ctx, matchID)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("compute pressure: %w", err)
	}
	possession, err := p.possession.ComputePossession(ctx, matchID)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("compute possession: %w", err)
	}
	threat, err := p.threat.ComputeThreat(ctx, matchID)
	if err != nil {
		return FeatureReport{}, fmt.Errorf("compute threat: %w", err)
	}

	report := FeatureReport{
		MatchID:         matchID,
		DistancePlayers: len(distances),
		PressureSamples: len(pressure),
		PossessionSpans: len(possession),
		ThreatEvents:    len(threat),
	}
	p.logger.InfoContext(ctx, "features computed",
		"match_id", matchID,
		"distance_players", report.DistancePlayers,
		"pressure_samples", report.PressureSamples,
		"possession_spans", report.PossessionSpans,
		"threat_events", report.ThreatEvents,
	)
	return report, nil
}
