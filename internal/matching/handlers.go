package matching

import (
	"context"
	"errors"

	"lenderlink-backend/internal/models"
	"lenderlink-backend/internal/pkg/response"
	"lenderlink-backend/internal/refdata"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ScenarioLookup resolves the scenario being matched.
type ScenarioLookup interface {
	GetScenario(ctx context.Context, id uuid.UUID) (*models.Scenario, error)
}

// Handlers bundles matching handlers.
type Handlers struct {
	Service   *Service
	Scenarios ScenarioLookup
}

type matchRequest struct {
	IncludeSoftMatches bool `json:"includeSoftMatches"`
}

type programMatchJSON struct {
	ProgramID      uuid.UUID                `json:"programId"`
	ProgramVersion int                      `json:"programVersion"`
	ProgramName    string                   `json:"programName"`
	MatchType      string                   `json:"matchType"`
	MatchScore     int                      `json:"matchScore"`
	Reasons        []string                 `json:"reasons"`
	UnmetCriteria  []string                 `json:"unmetCriteria"`
	Pricing        *models.PricingMatrixRow `json:"pricing,omitempty"`
}

type lenderMatchJSON struct {
	LenderID         uuid.UUID          `json:"lenderId"`
	LenderName       string             `json:"lenderName"`
	MatchScore       int                `json:"matchScore"`
	MatchingPrograms []programMatchJSON `json:"matchingPrograms"`
}

type matchResponseJSON struct {
	Matches         []lenderMatchJSON `json:"matches"`
	TotalMatches    int               `json:"totalMatches"`
	ConfidenceScore int               `json:"confidenceScore"`
}

// Match POST /api/v1/scenarios/:id/match
func (h *Handlers) Match(c *fiber.Ctx) error {
	scenarioID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid scenario ID format (must be a valid UUID)", 400, nil)
	}

	var req matchRequest
	// Empty body means hard matches only
	_ = c.BodyParser(&req)

	scenario, err := h.Scenarios.GetScenario(c.Context(), scenarioID)
	if err != nil {
		if err.Error() == "Scenario not found" {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	matches, err := h.Service.FindMatches(c.Context(), scenario, req.IncludeSoftMatches)
	if err != nil {
		if errors.Is(err, refdata.ErrUnavailable) {
			return response.Error(c, "Reference data unavailable", 503, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}

	return response.Success(c, "Matches found successfully", buildMatchResponse(matches), nil)
}

// buildMatchResponse groups ranked program matches by lender, preserving rank
// order. A lender's matchScore is its best program's score; confidenceScore
// is the best score overall.
func buildMatchResponse(matches []RankedMatch) matchResponseJSON {
	out := matchResponseJSON{Matches: []lenderMatchJSON{}}

	index := map[uuid.UUID]int{}
	for _, m := range matches {
		pm := programMatchJSON{
			ProgramID:      m.Program.ProgramID,
			ProgramVersion: m.Program.ProgramVersion,
			ProgramName:    m.Program.Name,
			MatchType:      m.MatchType,
			MatchScore:     m.Score,
			Reasons:        m.Reasons,
			UnmetCriteria:  m.UnmetCriteria,
			Pricing:        m.Pricing,
		}
		if pm.UnmetCriteria == nil {
			pm.UnmetCriteria = []string{}
		}

		i, seen := index[m.Lender.LenderID]
		if !seen {
			out.Matches = append(out.Matches, lenderMatchJSON{
				LenderID:   m.Lender.LenderID,
				LenderName: m.Lender.Name,
				MatchScore: m.Score,
			})
			i = len(out.Matches) - 1
			index[m.Lender.LenderID] = i
		}
		out.Matches[i].MatchingPrograms = append(out.Matches[i].MatchingPrograms, pm)
		if m.Score > out.Matches[i].MatchScore {
			out.Matches[i].MatchScore = m.Score
		}
		if m.Score > out.ConfidenceScore {
			out.ConfidenceScore = m.Score
		}
		out.TotalMatches++
	}

	return out
}
