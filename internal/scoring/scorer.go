package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"lenderlink-backend/internal/criteria"
	"lenderlink-backend/internal/models"
)

// SoftMissPenalty is deducted from the confidence score for every criterion
// whose value holds on hard bounds but misses the preferred range. Weighting
// is uniform until criteria carry an explicit per-criterion weight.
const SoftMissPenalty = 10

// SoftMatchThreshold separates HARD matches from SOFT ones: a program whose
// hard criteria all pass but whose score falls below this line is only
// returned when the caller asks for soft matches.
const SoftMatchThreshold = 70

// Result is a scored, explained match for one program.
type Result struct {
	Score   int
	Reasons []string
}

// Score turns an evaluation that passed its hard criteria into a 0-100
// confidence score with human-readable reasons. stateCode is the scenario's
// state, already confirmed covered by geography.
func Score(ev criteria.Evaluation, stateCode string) Result {
	score := 100
	var reasons []string

	if stateCode != "" {
		reasons = append(reasons, fmt.Sprintf("Operates in %s", strings.ToUpper(stateCode)))
	}

	for _, r := range ev.Results {
		switch r.Status {
		case criteria.StatusPassed:
			if reason := passReason(r); reason != "" {
				reasons = append(reasons, reason)
			}
		case criteria.StatusSoftMiss:
			score -= SoftMissPenalty
			reasons = append(reasons, softMissReason(r))
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return Result{Score: score, Reasons: reasons}
}

func passReason(r criteria.CriterionResult) string {
	attr := attributeOf(r.Name)
	n, numeric := asNumber(r.Value)
	switch attr {
	case models.AttrLoanAmount:
		if numeric {
			return fmt.Sprintf("Can handle loan amount of $%s", formatMoney(n))
		}
	case models.AttrFico:
		if numeric {
			return fmt.Sprintf("FICO %s meets requirements", formatNum(n))
		}
	case models.AttrDSCR:
		if numeric {
			return fmt.Sprintf("DSCR %s meets requirements", formatNum(n))
		}
	case models.AttrLTV:
		if numeric {
			return fmt.Sprintf("LTV %s%% is acceptable", formatNum(n))
		}
	case models.AttrPropertyType:
		if s, ok := r.Value.(string); ok {
			return fmt.Sprintf("Accepts %s properties", s)
		}
	}
	return ""
}

// softMissReason phrases a preferred-range miss, e.g.
// "FICO 680 is below preferred 700 but meets minimum 660".
func softMissReason(r criteria.CriterionResult) string {
	label := labelOf(r.Name)
	n, numeric := asNumber(r.Value)
	c := r.Criterion
	if !numeric || c == nil {
		return fmt.Sprintf("%s is outside the preferred range", label)
	}

	if c.SoftMin != nil && n < *c.SoftMin {
		if c.HardMin != nil {
			return fmt.Sprintf("%s %s is below preferred %s but meets minimum %s",
				label, formatNum(n), formatNum(*c.SoftMin), formatNum(*c.HardMin))
		}
		return fmt.Sprintf("%s %s is below preferred %s", label, formatNum(n), formatNum(*c.SoftMin))
	}
	if c.SoftMax != nil && n > *c.SoftMax {
		if c.HardMax != nil {
			return fmt.Sprintf("%s %s is above preferred %s but within maximum %s",
				label, formatNum(n), formatNum(*c.SoftMax), formatNum(*c.HardMax))
		}
		return fmt.Sprintf("%s %s is above preferred %s", label, formatNum(n), formatNum(*c.SoftMax))
	}
	return fmt.Sprintf("%s %s is outside the preferred range", label, formatNum(n))
}

// attributeOf reduces a criterion name to the scenario attribute it bounds.
func attributeOf(name string) string {
	s := strings.TrimPrefix(strings.TrimPrefix(name, "min_"), "max_")
	return strings.TrimSuffix(s, "s")
}

var labels = map[string]string{
	models.AttrLoanAmount:   "Loan amount",
	models.AttrFico:         "FICO",
	models.AttrDSCR:         "DSCR",
	models.AttrLTV:          "LTV",
	models.AttrPropertyType: "Property type",
}

func labelOf(name string) string {
	attr := attributeOf(name)
	if l, ok := labels[attr]; ok {
		return l
	}
	return strings.ReplaceAll(attr, "_", " ")
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func formatNum(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// formatMoney renders a dollar figure with thousands separators.
func formatMoney(n float64) string {
	s := strconv.FormatInt(int64(n), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
