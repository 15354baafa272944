package scoring

import (
	"errors"
	"fmt"
)

// Error represents a rejected scoring operation.
//
// Every rejection carries one of the ErrorCode categories so callers (the
// HTTP layer, the CLI) can map it without string matching.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// MatchID identifies the affected match, 0 when not known.
	MatchID int64

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes scoring errors.
type ErrorCode string

const (
	// ErrCodeInvalidState indicates the match status forbids the operation.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodeSequence indicates a delivery out of innings/over/ball order.
	ErrCodeSequence ErrorCode = "SEQUENCE"

	// ErrCodeValidation indicates a malformed or contradictory input.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeDuplicateAggregation indicates a match already folded into a
	// player's career statistics.
	ErrCodeDuplicateAggregation ErrorCode = "DUPLICATE_AGGREGATION"

	// ErrCodeNotFound indicates an unknown match or player.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MatchID != 0 {
		return fmt.Sprintf("%s: %s (match=%d)", e.Code, e.Message, e.MatchID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// CodeOf returns the category of err, or "" if err is not a scoring error.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsInvalidState returns true if the operation was illegal for the match status.
func IsInvalidState(err error) bool { return hasCode(err, ErrCodeInvalidState) }

// IsSequence returns true if a delivery was out of order.
func IsSequence(err error) bool { return hasCode(err, ErrCodeSequence) }

// IsValidation returns true if the input was malformed.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsDuplicateAggregation returns true if a match was folded twice for a player.
func IsDuplicateAggregation(err error) bool { return hasCode(err, ErrCodeDuplicateAggregation) }

// IsNotFound returns true if the match or player does not exist.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// NewInvalidStateError reports an operation the match status does not allow.
func NewInvalidStateError(matchID int64, status Status, op string) *Error {
	return &Error{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("cannot %s: match is %s", op, status),
		MatchID: matchID,
		Details: map[string]string{"status": string(status), "operation": op},
	}
}

// NewSequenceError reports a delivery that is not the next expected one.
func NewSequenceError(matchID int64, expected, got string) *Error {
	return &Error{
		Code:    ErrCodeSequence,
		Message: fmt.Sprintf("expected delivery %s, got %s", expected, got),
		MatchID: matchID,
		Details: map[string]string{"expected": expected, "got": got},
	}
}

// NewValidationError reports a malformed input field.
func NewValidationError(matchID int64, field, format string, args ...any) *Error {
	e := &Error{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
		MatchID: matchID,
	}
	if field != "" {
		e.Details = map[string]string{"field": field}
	}
	return e
}

// NewDuplicateAggregationError reports a second fold of the same match.
func NewDuplicateAggregationError(matchID, playerID int64) *Error {
	return &Error{
		Code:    ErrCodeDuplicateAggregation,
		Message: fmt.Sprintf("match already aggregated for player %d", playerID),
		MatchID: matchID,
		Details: map[string]string{"player_id": fmt.Sprintf("%d", playerID)},
	}
}

// NewNotFoundError reports an unknown entity.
func NewNotFoundError(kind string, id int64) *Error {
	e := &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %d not found", kind, id),
		Details: map[string]string{"kind": kind},
	}
	if kind == "match" {
		e.MatchID = id
	}
	return e
}
