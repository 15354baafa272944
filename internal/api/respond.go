package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roach88/scorebook/internal/scoring"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	MatchID int64             `json:"match_id,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusOf maps an error to its HTTP status code.
func StatusOf(err error) int {
	switch scoring.CodeOf(err) {
	case scoring.ErrCodeValidation:
		return http.StatusBadRequest
	case scoring.ErrCodeNotFound:
		return http.StatusNotFound
	case scoring.ErrCodeSequence, scoring.ErrCodeInvalidState, scoring.ErrCodeDuplicateAggregation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode response", "error", err)
	}
}

// respondError writes err as an ErrorResponse. Scoring errors keep their
// code and details; other errors are reported as INTERNAL without their
// message.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	resp := ErrorResponse{Error: http.StatusText(status)}

	var se *scoring.Error
	if errors.As(err, &se) {
		resp.Code = string(se.Code)
		resp.Message = se.Message
		resp.MatchID = se.MatchID
		resp.Details = se.Details
	} else {
		resp.Code = "INTERNAL"
		resp.Message = "internal error"
		h.logger.Error("request failed", "error", err)
	}
	h.respondJSON(w, status, resp)
}

// decode reads a JSON body, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return scoring.NewValidationError(0, "body", "invalid JSON body: %v", err)
	}
	return nil
}

// idParam parses a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, scoring.NewValidationError(0, name, "%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
