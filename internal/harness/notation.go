package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/scorebook/internal/scoring"
)

// Ball is one parsed ball token.
//
// Notation:
//
//	0-6, .      runs off the bat ("." is a dot ball)
//	wd, 3wd     wide, with the total wide runs
//	nb, nb4     no-ball, with runs off the bat
//	b2, lb1     byes and leg byes
//	W:bowled    a wicket; the part before W is the runs, "1W:run_out"
//	W:caught:230              with the fielder
//	1W:run_out:230:non_striker the non-striker is out
//	4!SEQUENCE  the delivery must be rejected with this error code
type Ball struct {
	Token string

	RunsScored int
	Extras     int
	ExtrasType scoring.ExtrasType

	Wicket        bool
	Dismissal     scoring.DismissalType
	FielderID     int64
	NonStrikerOut bool

	// Reject is the error code the engine must answer with, empty for a
	// delivery that must be accepted.
	Reject scoring.ErrorCode
}

// ParseBall parses one ball token.
func ParseBall(token string) (Ball, error) {
	b := Ball{Token: token, ExtrasType: scoring.ExtrasNone, Dismissal: scoring.DismissalNone}
	rest := token

	if base, code, ok := strings.Cut(rest, "!"); ok {
		if code == "" {
			return Ball{}, fmt.Errorf("ball %q: empty error code", token)
		}
		b.Reject = scoring.ErrorCode(code)
		rest = base
	}

	runs, wicket, hasWicket := strings.Cut(rest, "W")
	if hasWicket {
		if err := b.parseWicket(wicket); err != nil {
			return Ball{}, fmt.Errorf("ball %q: %w", token, err)
		}
	}
	if err := b.parseRuns(runs, hasWicket); err != nil {
		return Ball{}, fmt.Errorf("ball %q: %w", token, err)
	}
	return b, nil
}

func (b *Ball) parseRuns(s string, wicket bool) error {
	switch {
	case s == "" && wicket, s == ".":
		return nil
	case s == "":
		return fmt.Errorf("empty ball")
	case strings.HasSuffix(s, "wd"):
		b.ExtrasType = scoring.ExtrasWide
		return countPrefix(strings.TrimSuffix(s, "wd"), &b.Extras)
	case strings.HasPrefix(s, "nb"):
		b.ExtrasType = scoring.ExtrasNoBall
		b.Extras = 1
		if n := strings.TrimPrefix(s, "nb"); n != "" {
			return atoi(n, &b.RunsScored)
		}
		return nil
	case strings.HasPrefix(s, "lb"):
		b.ExtrasType = scoring.ExtrasLegBye
		return countPrefix(strings.TrimPrefix(s, "lb"), &b.Extras)
	case strings.HasPrefix(s, "b"):
		b.ExtrasType = scoring.ExtrasBye
		return countPrefix(strings.TrimPrefix(s, "b"), &b.Extras)
	default:
		return atoi(s, &b.RunsScored)
	}
}

// countPrefix parses an optional count, 1 when empty.
func countPrefix(s string, dst *int) error {
	if s == "" {
		*dst = 1
		return nil
	}
	return atoi(s, dst)
}

func atoi(s string, dst *int) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid run count %q", s)
	}
	*dst = n
	return nil
}

func (b *Ball) parseWicket(s string) error {
	parts := strings.Split(strings.TrimPrefix(s, ":"), ":")
	if !strings.HasPrefix(s, ":") || parts[0] == "" {
		return fmt.Errorf("wicket needs a dismissal type, e.g. W:bowled")
	}
	b.Wicket = true
	b.Dismissal = scoring.DismissalType(parts[0])
	if _, ok := scoring.DismissalRuleFor(b.Dismissal); !ok {
		return fmt.Errorf("unknown dismissal %q", parts[0])
	}
	for _, p := range parts[1:] {
		if p == "non_striker" {
			b.NonStrikerOut = true
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid fielder %q", p)
		}
		b.FielderID = id
	}
	return nil
}
