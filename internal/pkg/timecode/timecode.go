// Package timecode decodes the compact time encoding stored on timesheet rows.
//
// Values below 100 are minutes. From 100 upwards the hundreds are whole hours
// and the last two digits are minutes, so 112 is 1h12m and 30 is 30m. The
// encoding is lossy (175 decodes to 1h75m) and must not be read as a clock time.
package timecode

import (
	"math"
	"strconv"
	"strings"
)

// Decode converts a stored time value into fractional hours.
// nil, unparsable and non-positive values decode to 0.
func Decode(v any) float64 {
	n, ok := number(v)
	if !ok {
		return 0
	}
	return DecodeFloat(n)
}

// DecodeFloat converts an already numeric time value into fractional hours
func DecodeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	rounded := math.Round(v)
	if rounded <= 0 {
		return 0
	}
	if rounded < 100 {
		return rounded / 60
	}
	hours := math.Floor(rounded / 100)
	minutes := math.Mod(rounded, 100)
	return hours + minutes/60
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case *float64:
		if t == nil {
			return 0, false
		}
		return *t, true
	case *string:
		if t == nil {
			return 0, false
		}
		return number(*t)
	default:
		return 0, false
	}
}
