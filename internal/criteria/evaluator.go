package criteria

import (
	"fmt"
	"strings"

	"lenderlink-backend/internal/models"
)

// CriterionStatus is the outcome of evaluating one criterion.
type CriterionStatus string

const (
	// StatusPassed: hard bounds held and value is inside the preferred range.
	StatusPassed CriterionStatus = "passed"
	// StatusSoftMiss: hard bounds held but value is outside the preferred range.
	StatusSoftMiss CriterionStatus = "soft_miss"
	// StatusSkipped: optional criterion with no matching scenario attribute.
	StatusSkipped CriterionStatus = "skipped"
	// StatusFailed: hard bound violated, required attribute missing, or the
	// value could not be coerced. Disqualifies the program.
	StatusFailed CriterionStatus = "failed"
)

// CriterionResult is the per-criterion diagnostic from an evaluation.
type CriterionResult struct {
	Name      string                   `json:"name"`
	Status    CriterionStatus          `json:"status"`
	Reason    string                   `json:"reason,omitempty"`
	Value     interface{}              `json:"value,omitempty"`
	Criterion *models.ProgramCriterion `json:"-"`
}

// Evaluation is the outcome of one scenario against one program's criteria.
type Evaluation struct {
	Passed  bool
	Results []CriterionResult
}

// SoftMisses counts criteria that held on hard bounds but missed the
// preferred range.
func (e Evaluation) SoftMisses() int {
	n := 0
	for _, r := range e.Results {
		if r.Status == StatusSoftMiss {
			n++
		}
	}
	return n
}

// UnmetCriteria returns the reasons of every failed criterion.
func (e Evaluation) UnmetCriteria() []string {
	var out []string
	for _, r := range e.Results {
		if r.Status == StatusFailed {
			out = append(out, fmt.Sprintf("%s: %s", r.Name, r.Reason))
		}
	}
	return out
}

// Evaluate runs every active criterion against the scenario's attributes.
// All criteria are evaluated even after a failure so diagnostics are
// complete; Passed is true iff no criterion failed.
func Evaluate(scenario *models.Scenario, criteria []models.ProgramCriterion) Evaluation {
	ev := Evaluation{Passed: true}

	for i := range criteria {
		c := &criteria[i]
		if !c.Active {
			continue
		}

		raw, found := resolveAttribute(scenario, c.Name)
		if !found {
			if c.Required {
				ev.Passed = false
				ev.Results = append(ev.Results, CriterionResult{
					Name: c.Name, Status: StatusFailed, Reason: "missing required field", Criterion: c,
				})
			} else {
				ev.Results = append(ev.Results, CriterionResult{
					Name: c.Name, Status: StatusSkipped, Criterion: c,
				})
			}
			continue
		}

		v, err := Coerce(c.Name, c.DataType, raw)
		if err != nil {
			ev.Passed = false
			ev.Results = append(ev.Results, CriterionResult{
				Name: c.Name, Status: StatusFailed, Reason: fmt.Sprintf("TypeMismatch: %v", err), Value: raw, Criterion: c,
			})
			continue
		}

		if ok, reason := SatisfiesHard(c, v); !ok {
			ev.Passed = false
			ev.Results = append(ev.Results, CriterionResult{
				Name: c.Name, Status: StatusFailed, Reason: reason, Value: raw, Criterion: c,
			})
			continue
		}

		status := StatusPassed
		if !WithinSoft(c, v) {
			status = StatusSoftMiss
		}
		ev.Results = append(ev.Results, CriterionResult{
			Name: c.Name, Status: status, Value: raw, Criterion: c,
		})
	}

	return ev
}

// resolveAttribute finds the scenario attribute a criterion refers to.
// Criteria are named after the bound they impose ("min_loan_amount",
// "max_ltv", "property_types") while scenarios carry the plain attribute
// ("loan_amount", "ltv", "property_type"), so fall back to the stripped name.
func resolveAttribute(scenario *models.Scenario, name string) (interface{}, bool) {
	if v, ok := scenario.Attributes[name]; ok {
		return v, true
	}
	stripped := strings.TrimPrefix(strings.TrimPrefix(name, "min_"), "max_")
	if v, ok := scenario.Attributes[stripped]; ok {
		return v, true
	}
	if singular := strings.TrimSuffix(stripped, "s"); singular != stripped {
		if v, ok := scenario.Attributes[singular]; ok {
			return v, true
		}
	}
	return nil, false
}
