// Package coerce reads numbers out of loosely-typed values without ever
// treating strings or booleans as numbers.
package coerce

import (
	"encoding/json"
	"math"
)

// Number returns v as a float64 when v holds any Go numeric kind or a
// json.Number. Strings, booleans, nil and containers are not numbers.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
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

// Integer returns v as an int. isNumber is false when v is not numeric at
// all; integral is false when v is numeric but has a fractional part, is not
// finite, or lies outside the int range. Out-of-range values saturate at the
// int bounds.
func Integer(v interface{}) (n int, isNumber, integral bool) {
	switch i := v.(type) {
	case int:
		return i, true, true
	case int64:
		if i > math.MaxInt || i < math.MinInt {
			return saturate(float64(i)), true, false
		}
		return int(i), true, true
	case int32:
		return int(i), true, true
	case uint:
		if uint64(i) > math.MaxInt {
			return math.MaxInt, true, false
		}
		return int(i), true, true
	case uint64:
		if i > math.MaxInt {
			return math.MaxInt, true, false
		}
		return int(i), true, true
	case json.Number:
		if parsed, err := i.Int64(); err == nil {
			return Integer(parsed)
		}
	}

	f, ok := Number(v)
	if !ok {
		return 0, false, false
	}
	if math.IsNaN(f) {
		return 0, true, false
	}
	if !inIntRange(f) {
		return saturate(f), true, false
	}
	return int(math.Trunc(f)), true, f == math.Trunc(f)
}

// inIntRange reports whether f is finite and truncates to a representable int.
// float64(math.MaxInt) rounds up to 2^63, which is itself out of range.
func inIntRange(f float64) bool {
	return f < float64(math.MaxInt) && f >= float64(math.MinInt)
}

func saturate(f float64) int {
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt
	case f <= float64(math.MinInt):
		return math.MinInt
	}
	return int(f)
}
