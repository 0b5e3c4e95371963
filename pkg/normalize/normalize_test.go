package normalize_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/strata/pkg/normalize"
	"github.com/scrypster/strata/pkg/types"
)

func TestConfidence_ClampsNumbers(t *testing.T) {
	inputs := []float64{-100, -1, -0.0001, 0, 0.25, 0.5, 0.9999, 1, 1.0001, 2, 1e9}

	for _, x := range inputs {
		want := math.Max(0, math.Min(1, x))
		got := normalize.RecordConfidence(map[string]interface{}{"confidence": x})
		assert.Equal(t, want, got, "confidence %v", x)
	}
}

func TestConfidence_NonNumbersAreZero(t *testing.T) {
	inputs := []interface{}{nil, "a string", "0.5", map[string]interface{}{}, []interface{}{1}, true, math.NaN()}

	for _, v := range inputs {
		assert.Equal(t, 0.0, normalize.RecordConfidence(map[string]interface{}{"confidence": v}), "confidence %#v", v)
	}
}

func TestConfidence_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, normalize.RecordConfidence(map[string]interface{}{}))
	assert.Equal(t, 0.0, normalize.RecordConfidence(nil))
	assert.Equal(t, 0.0, normalize.RecordConfidence(map[string]interface{}{"confidence": 0}))
	assert.Equal(t, 1.0, normalize.RecordConfidence(map[string]interface{}{"confidence": 1}))
	assert.Equal(t, 0.42, normalize.Confidence(json.Number("0.42")))
	assert.Equal(t, 1.0, normalize.Confidence(math.Inf(1)))
	assert.Equal(t, 0.0, normalize.Confidence(math.Inf(-1)))
}

func TestChildrenCount(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]interface{}
		want   int
	}{
		{"empty record", map[string]interface{}{}, 0},
		{"nil record", nil, 0},
		{"zero", map[string]interface{}{"childrenCount": 0}, 0},
		{"positive", map[string]interface{}{"childrenCount": 7}, 7},
		{"large", map[string]interface{}{"childrenCount": 100000}, 100000},
		{"negative clamps", map[string]interface{}{"childrenCount": -3}, 0},
		{"negative clamps even with hasChildren", map[string]interface{}{"childrenCount": -1, "hasChildren": true}, 0},
		{"json float", map[string]interface{}{"childrenCount": 4.0}, 4},
		{"json number", map[string]interface{}{"childrenCount": json.Number("9")}, 9},
		{"fraction truncates", map[string]interface{}{"childrenCount": 2.9}, 2},
		{"hasChildren true", map[string]interface{}{"hasChildren": true}, 1},
		{"hasChildren false", map[string]interface{}{"hasChildren": false}, 0},
		{"null count falls back", map[string]interface{}{"childrenCount": nil, "hasChildren": true}, 1},
		{"string count falls back", map[string]interface{}{"childrenCount": "5", "hasChildren": true}, 1},
		{"string hasChildren ignored", map[string]interface{}{"hasChildren": "true"}, 0},
		{"explicit zero beats hasChildren", map[string]interface{}{"childrenCount": 0, "hasChildren": true}, 0},
		{"explicit count beats hasChildren false", map[string]interface{}{"childrenCount": 5, "hasChildren": false}, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalize.ChildrenCount(tc.record))
		})
	}
}

func TestChildrenCount_NonNegativeIntegers(t *testing.T) {
	for n := 0; n <= 50; n++ {
		assert.Equal(t, n, normalize.ChildrenCount(map[string]interface{}{"childrenCount": n}))
	}
	for n := -50; n < 0; n++ {
		assert.Equal(t, 0, normalize.ChildrenCount(map[string]interface{}{"childrenCount": n}))
	}
}

func TestEntityHelpers(t *testing.T) {
	conf := 1.7
	zero := 0
	yes := true

	e := &types.Entity{Confidence: &conf, ChildrenCount: &zero, HasChildren: &yes}
	assert.Equal(t, 1.0, normalize.EntityConfidence(e))
	assert.Equal(t, 0, normalize.EntityChildrenCount(e))

	e = &types.Entity{HasChildren: &yes}
	assert.Equal(t, 0.0, normalize.EntityConfidence(e))
	assert.Equal(t, 1, normalize.EntityChildrenCount(e))

	assert.Equal(t, 0.0, normalize.EntityConfidence(nil))
	assert.Equal(t, 0, normalize.EntityChildrenCount(nil))
}
