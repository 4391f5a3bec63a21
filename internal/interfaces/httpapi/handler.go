package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/trackmetrics/pitchsync/internal/domain/tracking"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
	"github.com/trackmetrics/pitchsync/internal/usecase"
)

// ReadinessPinger reports whether the backing store is reachable. A nil
// pinger means the API runs on in-memory repositories and is always ready.
type ReadinessPinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	matchService      *usecase.MatchService
	syncService       *usecase.SyncService
	featurePipeline   *usecase.FeaturePipeline
	kinematicsService *usecase.KinematicsService
	pressureService   *usecase.PressureService
	possessionService *usecase.PossessionService
	threatService     *usecase.ThreatService
	readiness         ReadinessPinger
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	syncService *usecase.SyncService,
	featurePipeline *usecase.FeaturePipeline,
	kinematicsService *usecase.KinematicsService,
	pressureService *usecase.PressureService,
	possessionService *usecase.PossessionService,
	threatService *usecase.ThreatService,
	readiness ReadinessPinger,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:      matchService,
		syncService:       syncService,
		featurePipeline:   featurePipeline,
		kinematicsService: kinematicsService,
		pressureService:   pressureService,
		possessionService: possessionService,
		threatService:     threatService,
		readiness:         readiness,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.readiness != nil {
		if err := h.readiness.PingContext(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness probe failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: database unreachable", usecase.ErrDependencyUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

type loadMatchRequest struct {
	GameID string `json:"gameId" validate:"required"`
}

func (h *Handler) LoadMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadMatch")
	defer span.End()

	var req loadMatchRequest
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: gameId is required", usecase.ErrInvalidInput))
		return
	}

	summary, err := h.matchService.LoadMatch(ctx, usecase.LoadMatchInput{GameID: strings.TrimSpace(req.GameID)})
	if err != nil {
		h.logger.ErrorContext(ctx, "load match failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, summaryToDTO(summary))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.ListMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(item))
}

func (h *Handler) ListEventsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventsByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	kind := strings.TrimSpace(r.URL.Query().Get("kind"))

	events, err := h.matchService.ListEvents(ctx, matchID, kind)
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "match_id", matchID, "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFramesByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFramesByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	window, err := frameRangeFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	frames, err := h.matchService.ListFrames(ctx, matchID, window)
	if err != nil {
		h.logger.WarnContext(ctx, "list frames failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]frameDTO, 0, len(frames))
	for _, f := range frames {
		items = append(items, frameToDTO(f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListDistancesByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDistancesByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	summaries, err := h.kinematicsService.ListDistances(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list distances failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]distanceDTO, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, distanceToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPressureByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPressureByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	frameID, err := optionalInt64Query(r, "frame")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	samples, err := h.pressureService.ListPressure(ctx, matchID, frameID)
	if err != nil {
		h.logger.WarnContext(ctx, "list pressure failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pressureDTO, 0, len(samples))
	for _, s := range samples {
		items = append(items, pressureDTO{FrameID: s.FrameID, PlayerID: s.PlayerID, Pressure: s.Pressure})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListPossessionByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPossessionByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	spans, err := h.possessionService.ListPossession(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list possession failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]possessionDTO, 0, len(spans))
	for _, s := range spans {
		items = append(items, possessionDTO{TeamID: s.TeamID, PeriodID: s.PeriodID, StartFrame: s.StartFrame, EndFrame: s.EndFrame})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListThreatByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListThreatByMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	values, err := h.threatService.ListThreat(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list threat failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]threatDTO, 0, len(values))
	for _, v := range values {
		items = append(items, threatToDTO(v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSync")
	defer span.End()

	matchID := r.PathValue("matchID")
	result, err := h.syncService.SyncMatch(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{
		MatchID:      result.MatchID,
		Periods:      result.Periods,
		SyncedEvents: result.SyncedEvents,
	})
}

func (h *Handler) RunFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFeatures")
	defer span.End()

	matchID := r.PathValue("matchID")
	report, err := h.featurePipeline.ComputeAll(ctx, matchID)
	if err != nil {
		h.logger.ErrorContext(ctx, "feature pipeline failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, featureReportDTO{
		MatchID:         report.MatchID,
		DistancePlayers: report.DistancePlayers,
		PressureSamples: report.PressureSamples,
		PossessionSpans: report.PossessionSpans,
		ThreatEvents:    report.ThreatEvents,
	})
}

func frameRangeFromQuery(r *http.Request) (tracking.FrameRange, error) {
	var window tracking.FrameRange

	period, err := optionalIntQuery(r, "period")
	if err != nil {
		return window, err
	}
	from, err := optionalInt64Query(r, "from")
	if err != nil {
		return window, err
	}
	to, err := optionalInt64Query(r, "to")
	if err != nil {
		return window, err
	}
	limit, err := optionalIntQuery(r, "limit")
	if err != nil {
		return window, err
	}

	window.PeriodID = period
	window.FromFrame = from
	window.ToFrame = to
	window.Limit = limit
	return window, nil
}

func optionalInt64Query(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: query parameter %q must be a non-negative integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func optionalIntQuery(r *http.Request, name string) (int, error) {
	value, err := optionalInt64Query(r, name)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}
