package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/scorebook/internal/canon"
	"github.com/roach88/scorebook/internal/scoring"
)

// marshalShot converts shot metadata to canonical JSON TEXT, or NULL.
func marshalShot(shot *scoring.Shot) (sql.NullString, error) {
	if shot == nil {
		return sql.NullString{}, nil
	}
	m := map[string]any{}
	if shot.Type != "" {
		m["type"] = shot.Type
	}
	if shot.Region != "" {
		m["region"] = shot.Region
	}
	if shot.Boundary != nil {
		m["boundary"] = *shot.Boundary
	}
	data, err := canon.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal shot: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalShot parses the shot column.
func unmarshalShot(data sql.NullString) (*scoring.Shot, error) {
	if !data.Valid || data.String == "" {
		return nil, nil
	}
	var shot scoring.Shot
	if err := json.Unmarshal([]byte(data.String), &shot); err != nil {
		return nil, fmt.Errorf("unmarshal shot: %w", err)
	}
	return &shot, nil
}

// formatTime stores timestamps as RFC 3339 TEXT in UTC; the zero time is
// stored as the empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
