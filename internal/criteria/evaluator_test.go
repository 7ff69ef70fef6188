package criteria

import (
	"testing"

	"lenderlink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func scenarioWith(attrs map[string]interface{}) *models.Scenario {
	return &models.Scenario{Attributes: datatypes.JSONMap(attrs)}
}

func rentalCriteria() []models.ProgramCriterion {
	return []models.ProgramCriterion{
		{Name: "min_loan_amount", DataType: models.CriterionDecimal, HardMin: f(150000), HardMax: f(3000000), Required: true, Active: true},
		{Name: "min_fico", DataType: models.CriterionInteger, HardMin: f(660), SoftMin: f(700), Required: true, Active: true},
		{Name: "property_types", DataType: models.CriterionEnum, EnumValues: []string{"SFR", "Condo"}, Required: false, Active: true},
	}
}

func TestEvaluate_AllPass(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   595000.0,
		"fico":          720.0,
		"property_type": "SFR",
	})
	ev := Evaluate(scn, rentalCriteria())
	require.True(t, ev.Passed)
	require.Len(t, ev.Results, 3)
	for _, r := range ev.Results {
		assert.Equal(t, StatusPassed, r.Status, r.Name)
	}
	assert.Equal(t, 0, ev.SoftMisses())
}

func TestEvaluate_SoftMissKeepsPassed(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   595000.0,
		"fico":          680.0,
		"property_type": "SFR",
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.True(t, ev.Passed)
	assert.Equal(t, 1, ev.SoftMisses())
}

func TestEvaluate_HardFail(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   50000.0,
		"fico":          720.0,
		"property_type": "SFR",
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.False(t, ev.Passed)
	unmet := ev.UnmetCriteria()
	require.Len(t, unmet, 1)
	assert.Contains(t, unmet[0], "min_loan_amount")
}

// Every criterion is still evaluated after a failure so diagnostics are complete.
func TestEvaluate_CollectsAllFailures(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   50000.0,
		"fico":          600.0,
		"property_type": "Mixed-Use",
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.False(t, ev.Passed)
	assert.Len(t, ev.UnmetCriteria(), 3)
}

func TestEvaluate_MissingRequired(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount": 595000.0,
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.False(t, ev.Passed)

	var ficoResult *CriterionResult
	for i := range ev.Results {
		if ev.Results[i].Name == "min_fico" {
			ficoResult = &ev.Results[i]
		}
	}
	require.NotNil(t, ficoResult)
	assert.Equal(t, StatusFailed, ficoResult.Status)
	assert.Equal(t, "missing required field", ficoResult.Reason)
}

// Optional criterion with no matching attribute is skipped, not failed.
func TestEvaluate_OptionalAbsentSkipped(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount": 595000.0,
		"fico":        720.0,
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.True(t, ev.Passed)

	for _, r := range ev.Results {
		if r.Name == "property_types" {
			assert.Equal(t, StatusSkipped, r.Status)
		}
	}
}

// A coercion failure hard-fails that criterion with a TypeMismatch reason,
// never a crash.
func TestEvaluate_TypeMismatch(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   595000.0,
		"fico":          "seven-twenty",
		"property_type": "SFR",
	})
	ev := Evaluate(scn, rentalCriteria())
	assert.False(t, ev.Passed)
	unmet := ev.UnmetCriteria()
	require.Len(t, unmet, 1)
	assert.Contains(t, unmet[0], "TypeMismatch")
}

func TestEvaluate_InactiveCriterionIgnored(t *testing.T) {
	crits := rentalCriteria()
	crits[1].Active = false
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   595000.0,
		"property_type": "SFR",
	})
	ev := Evaluate(scn, crits)
	assert.True(t, ev.Passed)
	assert.Len(t, ev.Results, 2)
}

func TestResolveAttribute_NameFallbacks(t *testing.T) {
	scn := scenarioWith(map[string]interface{}{
		"loan_amount":   595000.0,
		"property_type": "SFR",
		"custom_field":  "yes",
	})

	v, ok := resolveAttribute(scn, "min_loan_amount")
	require.True(t, ok)
	assert.Equal(t, 595000.0, v)

	v, ok = resolveAttribute(scn, "property_types")
	require.True(t, ok)
	assert.Equal(t, "SFR", v)

	_, ok = resolveAttribute(scn, "min_dscr")
	assert.False(t, ok)

	v, ok = resolveAttribute(scn, "custom_field")
	require.True(t, ok)
	assert.Equal(t, "yes", v)
}
