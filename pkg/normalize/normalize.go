// Package normalize derives display-safe scalar values from records that may
// be partial or malformed. Every function here is total: malformed input
// yields 0 instead of an error, so rendering code can call them
// unconditionally on records that were never validated.
package normalize

import (
	"math"

	"github.com/scrypster/strata/internal/coerce"
	"github.com/scrypster/strata/pkg/types"
)

// Field names read from raw records.
const (
	FieldConfidence    = "confidence"
	FieldChildrenCount = "childrenCount"
	FieldHasChildren   = "hasChildren"
)

// Confidence clamps v into [0, 1]. Absent, nil, NaN and non-numeric values
// (including numeric strings) return 0.
func Confidence(v interface{}) float64 {
	f, ok := coerce.Number(v)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}

// RecordConfidence returns the normalized "confidence" field of record.
// A nil record is treated as empty.
func RecordConfidence(record map[string]interface{}) float64 {
	return Confidence(record[FieldConfidence])
}

// ChildrenCount returns the display children count for record.
//
// A numeric "childrenCount" always wins, even when it disagrees with
// "hasChildren"; negative values clamp to 0 and fractions truncate. Without
// a numeric count, hasChildren == true yields 1 and anything else yields 0.
func ChildrenCount(record map[string]interface{}) int {
	if n, isNumber, _ := coerce.Integer(record[FieldChildrenCount]); isNumber {
		return nonNegative(n)
	}
	if has, ok := record[FieldHasChildren].(bool); ok && has {
		return 1
	}
	return 0
}

// EntityConfidence is Confidence for a typed entity.
func EntityConfidence(e *types.Entity) float64 {
	if e == nil || e.Confidence == nil {
		return 0
	}
	return Confidence(*e.Confidence)
}

// EntityChildrenCount is ChildrenCount for a typed entity.
func EntityChildrenCount(e *types.Entity) int {
	if e == nil {
		return 0
	}
	if e.ChildrenCount != nil {
		return nonNegative(*e.ChildrenCount)
	}
	if e.HasChildren != nil && *e.HasChildren {
		return 1
	}
	return 0
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
