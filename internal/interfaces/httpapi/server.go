package httpapi

import (
	"net/http"

	"github.com/trackmetrics/pitchsync/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerMatchRoutes(mux, handler)
	registerFeatureRoutes(mux, handler)
	registerInternalRoutes(mux, handler, internalToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/matches", handler.LoadMatch)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListEventsByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/frames", handler.ListFramesByMatch)
}

func registerFeatureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/distance", handler.ListDistancesByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/pressure", handler.ListPressureByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/possession", handler.ListPossessionByMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/threat", handler.ListThreatByMatch)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /v1/internal/matches/{matchID}/sync", RequireInternalToken(internalToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/matches/{matchID}/features", RequireInternalToken(internalToken, http.HandlerFunc(handler.RunFeatures)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
