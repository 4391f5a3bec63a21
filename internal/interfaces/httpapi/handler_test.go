package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/trackmetrics/pitchsync/internal/infrastructure/repository/memory"
	"github.com/trackmetrics/pitchsync/internal/platform/cache"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
	"github.com/trackmetrics/pitchsync/internal/usecase"
)

const testInternalToken = "test-internal-token"

type stubProvider struct{}

func (stubProvider) FetchMatchBundle(_ context.Context, gameID string) (usecase.ProviderMatchBundle, error) {
	return usecase.ProviderMatchBundle{}, usecase.ErrNotFound
}

// newTestRouter wires the full API against seeded in-memory repositories.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches())
	eventRepo := memory.NewEventRepository()
	trackingRepo := memory.NewTrackingRepository()
	featureRepo := memory.NewFeatureRepository()
	rawRepo := memory.NewRawDataRepository()

	ctx := context.Background()
	if err := eventRepo.ReplaceByMatch(ctx, memory.MatchIDDemo, memory.SeedEvents()); err != nil {
		t.Fatalf("seed events: %v", err)
	}
	if err := trackingRepo.ReplaceByMatch(ctx, memory.MatchIDDemo, memory.SeedFrames()); err != nil {
		t.Fatalf("seed frames: %v", err)
	}

	cacheStore := cache.NewStore(time.Minute)
	logger := logging.NewNop()

	matchService := usecase.NewMatchService(stubProvider{}, matchRepo, eventRepo, trackingRepo, rawRepo, cacheStore, logger)
	syncService, err := usecase.NewSyncService(matchRepo, eventRepo, trackingRepo, cacheStore, logger, usecase.SyncConfig{})
	if err != nil {
		t.Fatalf("create sync service: %v", err)
	}
	t.Cleanup(syncService.Close)

	kinematics := usecase.NewKinematicsService(matchRepo, trackingRepo, featureRepo, cacheStore, logger, usecase.KinematicsConfig{})
	pressure := usecase.NewPressureService(matchRepo, eventRepo, trackingRepo, featureRepo, cacheStore, logger, usecase.PressureConfig{})
	possession := usecase.NewPossessionService(matchRepo, eventRepo, trackingRepo, featureRepo, cacheStore, logger, usecase.PossessionConfig{})
	threat := usecase.NewThreatService(matchRepo, eventRepo, featureRepo, cacheStore, logger)
	pipeline := usecase.NewFeaturePipeline(kinematics, pressure, possession, threat, logger)

	handler := NewHandler(matchService, syncService, pipeline, kinematics, pressure, possession, threat, nil, logger)
	return NewRouter(handler, logger, []string{"*"}, testInternalToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestGetMatchReturnsSeededMatch(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+memory.MatchIDDemo, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["id"].(string); got != memory.MatchIDDemo {
		t.Fatalf("unexpected match id: %q", got)
	}
}

func TestGetMatchNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/no-such-match", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListEventsFiltersByKind(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+memory.MatchIDDemo+"/events?kind=pass", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 pass events, got %v", body["data"])
	}
	first, _ := items[0].(map[string]any)
	if got, _ := first["kind"].(string); got != "pass" {
		t.Fatalf("unexpected event kind: %q", got)
	}
}

func TestListFramesHonorsLimit(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+memory.MatchIDDemo+"/frames?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	items, ok := body["data"].([]any)
	if !ok || len(items) != 5 {
		t.Fatalf("expected 5 frames, got %v", len(items))
	}
}

func TestListFramesRejectsBadQuery(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/"+memory.MatchIDDemo+"/frames?from=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestLoadMatchRejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/matches", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRunSyncRequiresInternalToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/"+memory.MatchIDDemo+"/sync", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunSyncThenFeatures(t *testing.T) {
	router := newTestRouter(t)

	syncReq := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/"+memory.MatchIDDemo+"/sync", nil)
	syncReq.Header.Set("X-Internal-Token", testInternalToken)
	syncRec := httptest.NewRecorder()
	router.ServeHTTP(syncRec, syncReq)

	if syncRec.Code != http.StatusOK {
		t.Fatalf("sync: expected status 200, got %d: %s", syncRec.Code, syncRec.Body.String())
	}
	syncBody := decodeEnvelope(t, syncRec)
	syncData, _ := syncBody["data"].(map[string]any)
	if got, _ := syncData["syncedEvents"].(float64); got != 4 {
		t.Fatalf("expected 4 synced events, got %v", syncData["syncedEvents"])
	}

	featReq := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/"+memory.MatchIDDemo+"/features", nil)
	featReq.Header.Set("X-Internal-Token", testInternalToken)
	featRec := httptest.NewRecorder()
	router.ServeHTTP(featRec, featReq)

	if featRec.Code != http.StatusOK {
		t.Fatalf("features: expected status 200, got %d: %s", featRec.Code, featRec.Body.String())
	}
	featBody := decodeEnvelope(t, featRec)
	featData, _ := featBody["data"].(map[string]any)
	if got, _ := featData["threatEvents"].(float64); got != 4 {
		t.Fatalf("expected 4 threat events, got %v", featData["threatEvents"])
	}
	if got, _ := featData["distancePlayers"].(float64); got != 6 {
		t.Fatalf("expected 6 distance summaries, got %v", featData["distancePlayers"])
	}

	threatReq := httptest.NewRequest(http.MethodGet, "/v1/matches/"+memory.MatchIDDemo+"/threat", nil)
	threatRec := httptest.NewRecorder()
	router.ServeHTTP(threatRec, threatReq)

	if threatRec.Code != http.StatusOK {
		t.Fatalf("threat: expected status 200, got %d: %s", threatRec.Code, threatRec.Body.String())
	}
	threatBody := decodeEnvelope(t, threatRec)
	values, ok := threatBody["data"].([]any)
	if !ok || len(values) != 4 {
		t.Fatalf("expected 4 threat values, got %v", threatBody["data"])
	}
}
