package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedBand reports a band string that cannot be parsed. Rows with
// malformed bands are skipped; a program can still match without a priced tier.
type ErrMalformedBand struct {
	Band string
}

func (e *ErrMalformedBand) Error() string {
	return fmt.Sprintf("malformed pricing band %q", e.Band)
}

// Band is a half-open numeric range [Lo, Hi) parsed from strings like
// "65-70" and "1.25-1.35". A trailing "+" ("1.35+") means unbounded above.
type Band struct {
	Lo float64
	Hi float64 // +Inf when open-ended
}

// ParseBand parses a band string.
func ParseBand(s string) (Band, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Band{}, &ErrMalformedBand{Band: s}
	}

	if strings.HasSuffix(s, "+") {
		lo, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil {
			return Band{}, &ErrMalformedBand{Band: s}
		}
		return Band{Lo: lo, Hi: math.Inf(1)}, nil
	}

	lo, rest, ok := splitRange(s)
	if !ok {
		return Band{}, &ErrMalformedBand{Band: s}
	}
	hi, err := strconv.ParseFloat(rest, 64)
	if err != nil || hi < lo {
		return Band{}, &ErrMalformedBand{Band: s}
	}
	return Band{Lo: lo, Hi: hi}, nil
}

// splitRange splits "lo-hi" on the separating hyphen, tolerating a leading
// minus sign on lo.
func splitRange(s string) (float64, string, bool) {
	for i := 1; i < len(s); i++ {
		if s[i] != '-' {
			continue
		}
		lo, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			continue
		}
		return lo, s[i+1:], true
	}
	return 0, "", false
}

// Contains reports whether v falls inside the half-open range [Lo, Hi).
// An open-ended band contains everything at or above Lo.
func (b Band) Contains(v float64) bool {
	if v < b.Lo {
		return false
	}
	if math.IsInf(b.Hi, 1) {
		return true
	}
	return v < b.Hi
}
