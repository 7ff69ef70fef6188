package geography

import (
	"strings"

	"lenderlink-backend/internal/models"
)

// CoverageMode distinguishes a lender that operates everywhere from one
// restricted to listed states. Derived once from the row count so the
// "zero rows means nationwide" convention lives in exactly one place.
type CoverageMode int

const (
	Nationwide CoverageMode = iota
	Restricted
)

// Coverage is a lender's resolved state footprint.
type Coverage struct {
	Mode   CoverageMode
	States map[string]struct{}
}

// ResolveCoverage derives a Coverage from the lender's state rows.
func ResolveCoverage(rows []models.LenderState) Coverage {
	if len(rows) == 0 {
		return Coverage{Mode: Nationwide}
	}
	states := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		states[strings.ToUpper(r.StateCode)] = struct{}{}
	}
	return Coverage{Mode: Restricted, States: states}
}

// CoversState reports whether the lender operates in the given state.
func (c Coverage) CoversState(stateCode string) bool {
	if c.Mode == Nationwide {
		return true
	}
	_, ok := c.States[strings.ToUpper(stateCode)]
	return ok
}

// Covers applies the two-level geography rule for one program: a program
// metro override, when present and the scenario's metro is known, replaces
// the lender's state coverage entirely; otherwise state coverage decides.
func Covers(coverage Coverage, metros []models.ProgramMetro, stateCode, metroCode string) bool {
	if len(metros) > 0 && metroCode != "" {
		for _, m := range metros {
			if strings.EqualFold(m.MetroCode, metroCode) {
				return true
			}
		}
		return false
	}
	return coverage.CoversState(stateCode)
}
