package aggregate

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount coerces a stored monetary value. Numbers are used as-is, strings are
// parsed and default to zero on failure, anything else is zero.
func Amount(v any) decimal.Decimal {
	switch t := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return t
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case float32:
		return Amount(float64(t))
	case int:
		return decimal.NewFromInt(int64(t))
	case int32:
		return decimal.NewFromInt32(t)
	case int64:
		return decimal.NewFromInt(t)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	case *string:
		if t == nil {
			return decimal.Zero
		}
		return Amount(*t)
	case *float64:
		if t == nil {
			return decimal.Zero
		}
		return Amount(*t)
	default:
		return decimal.Zero
	}
}

// Float converts a coerced amount for the metrics layer
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
