// Package api exposes the scoring engine over HTTP/JSON.
//
// Routes live under /api/v1. Scoring errors map to status codes by their
// category: VALIDATION is 400, NOT_FOUND is 404, and SEQUENCE,
// INVALID_STATE and DUPLICATE_AGGREGATION are 409. Anything else is a 500.
// Prometheus metrics are served on /metrics and a store check on /health.
package api
