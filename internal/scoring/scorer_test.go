package scoring

import (
	"encoding/json"
	"testing"

	"lenderlink-backend/internal/criteria"
	"lenderlink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func f(v float64) *float64 { return &v }

func evaluate(attrs map[string]interface{}, crits []models.ProgramCriterion) criteria.Evaluation {
	scn := &models.Scenario{Attributes: datatypes.JSONMap(attrs)}
	return criteria.Evaluate(scn, crits)
}

func rentalCriteria() []models.ProgramCriterion {
	return []models.ProgramCriterion{
		{Name: "min_loan_amount", DataType: models.CriterionDecimal, HardMin: f(150000), HardMax: f(3000000), Required: true, Active: true},
		{Name: "min_fico", DataType: models.CriterionInteger, HardMin: f(660), SoftMin: f(700), Required: true, Active: true},
	}
}

func TestScore_FullScoreWithReasons(t *testing.T) {
	ev := evaluate(map[string]interface{}{
		"loan_amount": 595000.0,
		"fico":        720.0,
	}, rentalCriteria())
	require.True(t, ev.Passed)

	res := Score(ev, "TX")
	assert.Equal(t, 100, res.Score)
	assert.Contains(t, res.Reasons, "Operates in TX")
	assert.Contains(t, res.Reasons, "Can handle loan amount of $595,000")
}

// json.Number attributes (scenarios reloaded from the database) phrase the
// same reasons as plain float64 ones.
func TestScore_JSONNumberReasons(t *testing.T) {
	ev := evaluate(map[string]interface{}{
		"loan_amount": json.Number("595000"),
		"fico":        json.Number("680"),
	}, rentalCriteria())
	require.True(t, ev.Passed)

	res := Score(ev, "TX")
	assert.Equal(t, 100-SoftMissPenalty, res.Score)
	assert.Contains(t, res.Reasons, "Can handle loan amount of $595,000")
	assert.Contains(t, res.Reasons, "FICO 680 is below preferred 700 but meets minimum 660")
}

func TestScore_SoftMissPenalty(t *testing.T) {
	ev := evaluate(map[string]interface{}{
		"loan_amount": 595000.0,
		"fico":        680.0,
	}, rentalCriteria())
	require.True(t, ev.Passed)

	res := Score(ev, "TX")
	assert.Equal(t, 100-SoftMissPenalty, res.Score)
	assert.Contains(t, res.Reasons, "FICO 680 is below preferred 700 but meets minimum 660")
}

// Moving a value from inside the soft range to outside it strictly decreases
// the score and never changes Passed.
func TestScore_Monotonicity(t *testing.T) {
	inside := evaluate(map[string]interface{}{"loan_amount": 595000.0, "fico": 705.0}, rentalCriteria())
	outside := evaluate(map[string]interface{}{"loan_amount": 595000.0, "fico": 695.0}, rentalCriteria())
	require.True(t, inside.Passed)
	require.True(t, outside.Passed)

	assert.Greater(t, Score(inside, "TX").Score, Score(outside, "TX").Score)
}

// The penalty is uniform per criterion until criteria carry explicit weights.
func TestScore_UniformPenaltyPerCriterion(t *testing.T) {
	crits := append(rentalCriteria(), models.ProgramCriterion{
		Name: "min_dscr", DataType: models.CriterionDecimal, HardMin: f(1.0), SoftMin: f(1.2), Required: true, Active: true,
	})

	oneMiss := evaluate(map[string]interface{}{"loan_amount": 595000.0, "fico": 680.0, "dscr": 1.3}, crits)
	twoMisses := evaluate(map[string]interface{}{"loan_amount": 595000.0, "fico": 680.0, "dscr": 1.1}, crits)

	assert.Equal(t, 100-SoftMissPenalty, Score(oneMiss, "TX").Score)
	assert.Equal(t, 100-2*SoftMissPenalty, Score(twoMisses, "TX").Score)
}

func TestScore_ClampsAtZero(t *testing.T) {
	var crits []models.ProgramCriterion
	attrs := map[string]interface{}{}
	names := []string{"min_a", "min_b", "min_c", "min_d", "min_e", "min_f", "min_g", "min_h", "min_i", "min_j", "min_k"}
	for _, name := range names {
		crits = append(crits, models.ProgramCriterion{
			Name: name, DataType: models.CriterionDecimal, HardMin: f(0), SoftMin: f(10), Required: true, Active: true,
		})
		attrs[name] = 5.0
	}

	ev := evaluate(attrs, crits)
	require.True(t, ev.Passed)
	require.Equal(t, len(names), ev.SoftMisses())
	assert.Equal(t, 0, Score(ev, "TX").Score)
}

func TestSoftMissReason_AboveMax(t *testing.T) {
	crits := []models.ProgramCriterion{
		{Name: "max_ltv", DataType: models.CriterionDecimal, HardMax: f(80), SoftMax: f(75), Required: true, Active: true},
	}
	ev := evaluate(map[string]interface{}{"ltv": 78.0}, crits)
	require.True(t, ev.Passed)

	res := Score(ev, "TX")
	assert.Equal(t, 100-SoftMissPenalty, res.Score)
	assert.Contains(t, res.Reasons, "LTV 78 is above preferred 75 but within maximum 80")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "595,000", formatMoney(595000))
	assert.Equal(t, "3,000,000", formatMoney(3000000))
	assert.Equal(t, "950", formatMoney(950))
	assert.Equal(t, "-1,500", formatMoney(-1500))
}
