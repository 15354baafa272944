package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/roach88//scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/scoring"
)

// Handler serves the engine's operations.
type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

// NewHandler creates a handler for e.
func NewHandler(e *engine.Engine, logger *slog.Logger) *Handler {
	return &Handler{engine: e, logger: logger}
}

// TossRequest is the body of POST /matches/{matchID}/toss.
type TossRequest struct {
	WinnerTeamID int64                `json:"winner_team_id"`
	Decision     scoring.TossDecision `json:"decision"`
}

// AbandonRequest is the body of POST /matches/{matchID}/abandon.
type AbandonRequest struct {
	Reason string `json:"reason"`
}

// HealthCheck reports whether the store is reachable.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.engine.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "scorebook",
	})
}

// CreateMatch registers an upcoming match.
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var nm scoring.NewMatch
	if err := decode(r, &nm); err != nil {
		h.respondError(w, err)
		return
	}
	m, err := h.engine.CreateMatch(r.Context(), nm)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, m)
}

// ListMatches lists matches, optionally filtered by ?status=.
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	status := scoring.Status(r.URL.Query().Get("status"))
	matches, err := h.engine.ListMatches(r.Context(), status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if matches == nil {
		matches = []scoring.Match{}
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"matches": matches,
		"count":   len(matches),
	})
}

// GetMatch returns the committed match snapshot.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	m, err := h.engine.GetMatchSnapshot(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, m)
}

// RecordToss records the toss.
func (h *Handler) RecordToss(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req TossRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	m, err := h.engine.RecordToss(r.Context(), id, req.WinnerTeamID, req.Decision)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, m)
}

// RecordDelivery records one delivery.
func (h *Handler) RecordDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var in scoring.DeliveryInput
	if err := decode(r, &in); err != nil {
		h.respondError(w, err)
		return
	}
	res, err := h.engine.RecordDelivery(r.Context(), id, in)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, res)
}

// AbandonMatch ends a match as a no result.
func (h *Handler) AbandonMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	var req AbandonRequest
	if err := decode(r, &req); err != nil {
		h.respondError(w, err)
		return
	}
	m, err := h.engine.AbandonMatch(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, m)
}

// GetScorecard returns the full scorecard.
func (h *Handler) GetScorecard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	sc, err := h.engine.GetScorecard(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, sc)
}

// ReplayMatch rebuilds the match from its ledger and reports differences.
func (h *Handler) ReplayMatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	rep, err := h.engine.ReplayMatch(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, rep)
}

// FlowDeliveries lists the ledger entries one request wrote.
func (h *Handler) FlowDeliveries(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "flowToken")
	deliveries, err := h.engine.FlowDeliveries(r.Context(), token)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"flow_token": token,
		"deliveries": deliveries,
		"count":      len(deliveries),
	})
}

// GetPlayerStats returns a player's career statistics.
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		h.respondError(w, err)
		return
	}
	s, err := h.engine.GetPlayerStats(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, s)
}
