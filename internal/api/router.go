package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/roach88/scorebook/internal/engine"
)

// RequestTimeout bounds every request handled by the router.
const RequestTimeout = 30 * time.Second

// NewRouter builds the HTTP handler for an engine. An empty origins list
// allows any origin.
func NewRouter(e *engine.Engine, origins []string, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h := NewHandler(e, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Method(http.MethodGet, "/metrics", e.Metrics().Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/matches", h.CreateMatch)
		r.Get("/matches", h.ListMatches)

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.GetMatch)
			r.Post("/toss", h.RecordToss)
			r.Post("/deliveries", h.RecordDelivery)
			r.Post("/abandon", h.AbandonMatch)
			r.Get("/scorecard", h.GetScorecard)
			r.Get("/replay", h.ReplayMatch)
		})

		r.Get("/players/{playerID}/stats", h.GetPlayerStats)
		r.Get("/flows/{flowToken}/deliveries", h.FlowDeliveries)
	})
	return r
}

// requestLogger logs one line per request at Debug, or Warn for 5xx.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
