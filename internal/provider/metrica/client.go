package metrica

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/trackmetrics/pitchsync/internal/domain/rawdata"
	"github.com/trackmetrics/pitchsync/internal/platform/logging"
	"github.com/trackmetrics/pitchsync/internal/platform/resilience"
	"github.com/trackmetrics/pitchsync/internal/usecase"
)

const (
	// ProviderName identifies this source on matches and raw payloads.
	ProviderName = "metrica"

	defaultBaseURL = "https://raw.githubusercontent.com/metrica-sports/sample-data/master"
	defaultTimeout = 30 * time.Second

	maxDocumentBytes = 256 << 20
)

var gameIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
var errMetricaTransient = crerr.New("metrica transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client downloads the three public documents of a Metrica open-data game
// (metadata XML, events JSON, tracking CSV) and parses them into the
// provider-independent bundle.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			MaxResponseBodySize: maxDocumentBytes,
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// FetchMatchBundle downloads and parses one game. The three documents are
// fetched concurrently; parsing waits for metadata because events and
// tracking both need pitch dimensions and period bounds from it.
func (c *Client) FetchMatchBundle(ctx context.Context, gameID string) (usecase.ProviderMatchBundle, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" || !gameIDRegex.MatchString(gameID) {
		return usecase.ProviderMatchBundle{}, fmt.Errorf("invalid game id %q", gameID)
	}

	metadataPath := fmt.Sprintf("/data/%s/%s_metadata.xml", gameID, gameID)
	eventsPath := fmt.Sprintf("/data/%s/%s_events.json", gameID, gameID)
	trackingPath := fmt.Sprintf("/data/%s/%s_tracking.txt", gameID, gameID)

	var metadataRaw, eventsRaw, trackingRaw []byte
	fetchPool := pool.New().WithErrors().WithContext(ctx)
	fetchPool.Go(func(ctx context.Context) error {
		raw, err := c.download(ctx, metadataPath)
		if err != nil {
			return fmt.Errorf("fetch metadata game_id=%s: %w", gameID, err)
		}
		metadataRaw = raw
		return nil
	})
	fetchPool.Go(func(ctx context.Context) error {
		raw, err := c.download(ctx, eventsPath)
		if err != nil {
			return fmt.Errorf("fetch events game_id=%s: %w", gameID, err)
		}
		eventsRaw = raw
		return nil
	})
	fetchPool.Go(func(ctx context.Context) error {
		raw, err := c.download(ctx, trackingPath)
		if err != nil {
			return fmt.Errorf("fetch tracking game_id=%s: %w", gameID, err)
		}
		trackingRaw = raw
		return nil
	})
	if err := fetchPool.Wait(); err != nil {
		return usecase.ProviderMatchBundle{}, err
	}

	parsedMatch, err := ParseMetadata(metadataRaw)
	if err != nil {
		return usecase.ProviderMatchBundle{}, fmt.Errorf("parse metadata game_id=%s: %w", gameID, err)
	}

	bundle := usecase.ProviderMatchBundle{Match: parsedMatch}
	parsePool := pool.New().WithErrors().WithContext(ctx)
	parsePool.Go(func(_ context.Context) error {
		events, parseErr := ParseEvents(eventsRaw, parsedMatch)
		if parseErr != nil {
			return fmt.Errorf("parse events game_id=%s: %w", gameID, parseErr)
		}
		bundle.Events = events
		return nil
	})
	parsePool.Go(func(_ context.Context) error {
		frames, parseErr := ParseTracking(trackingRaw, parsedMatch)
		if parseErr != nil {
			return fmt.Errorf("parse tracking game_id=%s: %w", gameID, parseErr)
		}
		bundle.Frames = frames
		return nil
	})
	if err := parsePool.Wait(); err != nil {
		return usecase.ProviderMatchBundle{}, err
	}

	fetchedAt := c.now().UTC()
	bundle.RawPayloads = []rawdata.Payload{
		buildPayload("metadata", metadataPath, parsedMatch.ID, metadataRaw, fetchedAt),
		buildPayload("events", eventsPath, parsedMatch.ID, eventsRaw, fetchedAt),
		buildPayload("tracking", trackingPath, parsedMatch.ID, trackingRaw, fetchedAt),
	}

	c.logger.InfoContext(ctx, "fetched metrica game",
		"game_id", gameID,
		"events", len(bundle.Events),
		"frames", len(bundle.Frames),
	)
	return bundle, nil
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "metrica circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errMetricaTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.doOnce(fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errMetricaTransient, err)
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: provider status=%d", errMetricaTransient, status)
		} else {
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "metrica request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// doOnce performs a single GET. The response body is copied out through a
// pooled buffer because fasthttp reuses it after release.
func (c *Client) doOnce(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "*/*")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.Write(resp.Body()); err != nil {
		return nil, 0, err
	}

	raw := make([]byte, len(buf.B))
	copy(raw, buf.B)
	return raw, resp.StatusCode(), nil
}

func buildPayload(entityType, path, matchID string, raw []byte, fetchedAt time.Time) rawdata.Payload {
	sum := sha256.Sum256(raw)
	return rawdata.Payload{
		Source:      ProviderName,
		EntityType:  entityType,
		EntityKey:   path,
		MatchID:     matchID,
		PayloadBody: string(raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   &fetchedAt,
	}
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
