package matching

import (
	"context"
	"encoding/json"
	"sort"

	"lenderlink-backend/internal/criteria"
	"lenderlink-backend/internal/geography"
	"lenderlink-backend/internal/models"
	"lenderlink-backend/internal/pricing"
	"lenderlink-backend/internal/refdata"
	"lenderlink-backend/internal/scoring"
)

// Match types returned to callers. A SOFT match passed every hard criterion
// but scored below scoring.SoftMatchThreshold; callers only see SOFT matches
// when they ask for them.
const (
	MatchTypeHard = "HARD"
	MatchTypeSoft = "SOFT"
)

// RankedMatch is one qualifying program with its lender, score, reasons, and
// optional pricing tier.
type RankedMatch struct {
	Lender        models.Lender
	Program       models.Program
	MatchType     string
	Score         int
	Reasons       []string
	UnmetCriteria []string
	Pricing       *models.PricingMatrixRow
}

// Service orchestrates matching: geography filter, criteria evaluation,
// scoring, pricing enrichment, deterministic ranking. It holds no mutable
// state, so concurrent scenarios need no coordination.
type Service struct {
	Store refdata.Store
}

// FindMatches evaluates the scenario against every active program of every
// active lender. A scenario matching zero programs yields an empty slice, not
// an error; only refdata.ErrUnavailable is surfaced.
func (s *Service) FindMatches(ctx context.Context, scenario *models.Scenario, includeSoft bool) ([]RankedMatch, error) {
	lenders, err := s.Store.ListActiveLenders(ctx)
	if err != nil {
		return nil, err
	}

	stateCode := scenario.State()
	metroCode := scenario.Metro()

	var matches []RankedMatch
	for _, lender := range lenders {
		states, err := s.Store.ListLenderStates(ctx, lender.LenderID)
		if err != nil {
			return nil, err
		}
		coverage := geography.ResolveCoverage(states)

		programs, err := s.Store.ListActivePrograms(ctx, lender.LenderID)
		if err != nil {
			return nil, err
		}

		for _, program := range programs {
			metros, err := s.Store.ListProgramMetros(ctx, program.ProgramID, program.ProgramVersion)
			if err != nil {
				return nil, err
			}
			if !geography.Covers(coverage, metros, stateCode, metroCode) {
				continue
			}

			crits, err := s.Store.ListCriteria(ctx, program.ProgramID, program.ProgramVersion)
			if err != nil {
				return nil, err
			}
			ev := criteria.Evaluate(scenario, crits)
			if !ev.Passed {
				continue
			}

			res := scoring.Score(ev, stateCode)
			matchType := MatchTypeHard
			if res.Score < scoring.SoftMatchThreshold {
				matchType = MatchTypeSoft
				if !includeSoft {
					continue
				}
			}

			m := RankedMatch{
				Lender:        lender,
				Program:       program,
				MatchType:     matchType,
				Score:         res.Score,
				Reasons:       res.Reasons,
				UnmetCriteria: softMissed(ev),
			}

			tier, err := s.resolvePricing(ctx, scenario, program)
			if err != nil {
				return nil, err
			}
			m.Pricing = tier
			matches = append(matches, m)
		}
	}

	sortMatches(matches)
	return matches, nil
}

// resolvePricing picks the pricing tier for the scenario's LTV and DSCR.
// Missing attributes or no containing band simply leave pricing off the
// match; a store failure is surfaced, not swallowed.
func (s *Service) resolvePricing(ctx context.Context, scenario *models.Scenario, program models.Program) (*models.PricingMatrixRow, error) {
	ltv, okLTV := attrNumber(scenario, models.AttrLTV)
	dscr, okDSCR := attrNumber(scenario, models.AttrDSCR)
	if !okLTV || !okDSCR {
		return nil, nil
	}
	rows, err := s.Store.ListPricingRows(ctx, program.ProgramID, program.ProgramVersion)
	if err != nil {
		return nil, err
	}
	return pricing.ResolveTier(rows, ltv, dscr), nil
}

// softMissed lists the preferred-range misses of a passing evaluation, the
// "unmet criteria" reported on SOFT-leaning matches.
func softMissed(ev criteria.Evaluation) []string {
	var out []string
	for _, r := range ev.Results {
		if r.Status == criteria.StatusSoftMiss {
			out = append(out, r.Name)
		}
	}
	return out
}

// sortMatches orders by score desc, then lender profile score desc, then
// lender name asc, then program name asc. Fully deterministic so repeated
// calls over unchanged data rank identically.
func sortMatches(matches []RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Lender.ProfileScore != matches[j].Lender.ProfileScore {
			return matches[i].Lender.ProfileScore > matches[j].Lender.ProfileScore
		}
		if matches[i].Lender.Name != matches[j].Lender.Name {
			return matches[i].Lender.Name < matches[j].Lender.Name
		}
		return matches[i].Program.Name < matches[j].Program.Name
	})
}

func attrNumber(scenario *models.Scenario, name string) (float64, bool) {
	switch v := scenario.Attributes[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
