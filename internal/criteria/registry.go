package criteria

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lenderlink-backend/internal/models"
)

// TypeCoercionError reports a scenario value that cannot be interpreted as a
// criterion's declared data type. It fails that single criterion, never the
// whole evaluation.
type TypeCoercionError struct {
	Criterion string
	DataType  models.CriterionDataType
	Value     interface{}
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("value %v for %q cannot be read as %s", e.Value, e.Criterion, e.DataType)
}

// Value is a scenario value coerced to a criterion's data type. Exactly one
// of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind models.CriterionDataType
	Num  float64
	Str  string
	Bool bool
}

// Coerce converts a raw scenario attribute (JSON-decoded string/number/bool)
// into a typed Value for the given data type.
func Coerce(name string, dt models.CriterionDataType, raw interface{}) (Value, error) {
	switch dt {
	case models.CriterionDecimal:
		n, ok := toNumber(raw)
		if !ok {
			return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
		}
		return Value{Kind: dt, Num: n}, nil

	case models.CriterionInteger:
		n, ok := toNumber(raw)
		if !ok || n != math.Trunc(n) {
			return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
		}
		return Value{Kind: dt, Num: n}, nil

	case models.CriterionEnum:
		s, ok := raw.(string)
		if !ok {
			return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
		}
		return Value{Kind: dt, Str: s}, nil

	case models.CriterionBool:
		switch v := raw.(type) {
		case bool:
			return Value{Kind: dt, Bool: v}, nil
		case string:
			b, err := strconv.ParseBool(strings.ToLower(v))
			if err != nil {
				return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
			}
			return Value{Kind: dt, Bool: b}, nil
		default:
			return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
		}

	default:
		return Value{}, &TypeCoercionError{Criterion: name, DataType: dt, Value: raw}
	}
}

func toNumber(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
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
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// SatisfiesHard tests the coerced value against the criterion's hard
// constraint. Bounds are inclusive. A criterion with no bounds at all is
// vacuously satisfied. Returns the violated-bound description when false.
func SatisfiesHard(c *models.ProgramCriterion, v Value) (bool, string) {
	switch c.DataType {
	case models.CriterionDecimal, models.CriterionInteger:
		if c.HardMin != nil && v.Num < *c.HardMin {
			return false, fmt.Sprintf("%v is below minimum %v", formatNum(v.Num), formatNum(*c.HardMin))
		}
		if c.HardMax != nil && v.Num > *c.HardMax {
			return false, fmt.Sprintf("%v exceeds maximum %v", formatNum(v.Num), formatNum(*c.HardMax))
		}
		return true, ""

	case models.CriterionEnum:
		if len(c.EnumValues) == 0 {
			return true, ""
		}
		for _, allowed := range c.EnumValues {
			if strings.EqualFold(allowed, v.Str) {
				return true, ""
			}
		}
		return false, fmt.Sprintf("%q is not an allowed value", v.Str)

	case models.CriterionBool:
		if c.BoolConstraint == nil {
			return true, ""
		}
		if v.Bool != *c.BoolConstraint {
			return false, fmt.Sprintf("must be %v", *c.BoolConstraint)
		}
		return true, ""

	default:
		return false, fmt.Sprintf("unknown data type %q", c.DataType)
	}
}

// WithinSoft tests the coerced value against the criterion's preferred range.
// Only numeric types carry soft bounds; enum and bool criteria (and criteria
// without soft bounds) are always within.
func WithinSoft(c *models.ProgramCriterion, v Value) bool {
	switch c.DataType {
	case models.CriterionDecimal, models.CriterionInteger:
		if c.SoftMin != nil && v.Num < *c.SoftMin {
			return false
		}
		if c.SoftMax != nil && v.Num > *c.SoftMax {
			return false
		}
		return true
	default:
		return true
	}
}

func formatNum(n float64) string {
	if n == math.Trunc(n) {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
