package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BallsPerOver is the number of legal deliveries in one over.
const BallsPerOver = 6

// Overs is a legal-ball count in cricket notation: Whole completed overs
// plus Balls (0-5) legal deliveries of the over in progress.
type Overs struct {
	Whole int
	Balls int
}

// OversFromBalls converts a legal-ball count to overs notation.
func OversFromBalls(legalBalls int) Overs {
	if legalBalls < 0 {
		legalBalls = 0
	}
	return Overs{Whole: legalBalls / BallsPerOver, Balls: legalBalls % BallsPerOver}
}

// LegalBalls returns the total number of legal deliveries.
func (o Overs) LegalBalls() int {
	return o.Whole*BallsPerOver + o.Balls
}

// String renders the notation, e.g. "18.4" or "20.0".
func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.Whole, o.Balls)
}

// ParseOvers parses "18.4" or "20" notation.
func ParseOvers(s string) (Overs, error) {
	s = strings.TrimSpace(s)
	whole, balls, found := strings.Cut(s, ".")
	w, err := strconv.Atoi(whole)
	if err != nil || w < 0 {
		return Overs{}, fmt.Errorf("invalid overs %q", s)
	}
	if !found {
		return Overs{Whole: w}, nil
	}
	b, err := strconv.Atoi(balls)
	if err != nil || b < 0 || b >= BallsPerOver {
		return Overs{}, fmt.Errorf("invalid overs %q: balls must be 0-5", s)
	}
	return Overs{Whole: w, Balls: b}, nil
}

// MarshalJSON encodes overs as a string so 18.4 is never mistaken for a float.
func (o Overs) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts the string form produced by MarshalJSON.
func (o *Overs) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("overs: %w", err)
	}
	parsed, err := ParseOvers(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// RunRate returns runs per over for a legal-ball count, 0 when no balls.
func RunRate(runs, legalBalls int) float64 {
	if legalBalls == 0 {
		return 0
	}
	return float64(runs) * BallsPerOver / float64(legalBalls)
}
