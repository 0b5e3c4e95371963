package validation_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/strata/pkg/validation"
)

func TestIdentifierRules(t *testing.T) {
	assert.Nil(t, validation.IdentifierRules.Apply("id", "a"))
	assert.Nil(t, validation.IdentifierRules.Apply("id", " "), "identifiers are not trimmed")

	fe := validation.IdentifierRules.Apply("id", "")
	require.NotNil(t, fe)
	assert.Equal(t, validation.CodeEmptyIdentifier, fe.Code)
	assert.Equal(t, "id", fe.Path)

	fe = validation.IdentifierRules.Apply("id", 42)
	require.NotNil(t, fe)
	assert.Equal(t, validation.CodeInvalidType, fe.Code)
}

func TestPathRules(t *testing.T) {
	for _, ok := range []string{"/", "/a", "/a/b/c", "//", "/../x"} {
		assert.Nil(t, validation.PathRules.Apply("path", ok), "path %q", ok)
	}
	for _, bad := range []interface{}{"", "a", "a/b", " /a", 3, nil, []interface{}{"/a"}} {
		fe := validation.PathRules.Apply("path", bad)
		require.NotNil(t, fe, "path %#v", bad)
		assert.Equal(t, validation.CodeInvalidPathFormat, fe.Code)
	}
}

func TestConfidenceRules(t *testing.T) {
	for _, ok := range []interface{}{0, 0.0, 0.5, 1, 1.0, json.Number("0.3"), float32(0.9)} {
		assert.Nil(t, validation.ConfidenceRules.Apply("confidence", ok), "confidence %#v", ok)
	}

	for _, bad := range []interface{}{-0.01, 1.5, -1, 2, math.NaN(), math.Inf(1)} {
		fe := validation.ConfidenceRules.Apply("confidence", bad)
		require.NotNil(t, fe, "confidence %#v", bad)
		assert.Equal(t, validation.CodeConfidenceOutOfRange, fe.Code)
	}

	fe := validation.ConfidenceRules.Apply("confidence", "0.5")
	require.NotNil(t, fe)
	assert.Equal(t, validation.CodeInvalidType, fe.Code)
}

func TestTimestampRules(t *testing.T) {
	valid := []string{
		"2024-01-15T10:30:00",
		"2024-01-15T10:30:00Z",
		"2024-01-15T10:30:00.123456+02:00",
		"2024-01-15T10:30:00garbage",
	}
	for _, ts := range valid {
		assert.Nil(t, validation.TimestampRules.Apply("createdAt", ts), "timestamp %q", ts)
	}

	invalid := []interface{}{
		"",
		"2024-01-15",
		"2024-01-15 10:30:00",
		"24-01-15T10:30:00",
		"2024-1-15T10:30:00",
		"x2024-01-15T10:30:00",
		1705314600,
	}
	for _, ts := range invalid {
		fe := validation.TimestampRules.Apply("createdAt", ts)
		require.NotNil(t, fe, "timestamp %#v", ts)
		assert.Equal(t, validation.CodeInvalidTimestampFormat, fe.Code)
	}
}

func TestNonNegativeIntegerRules(t *testing.T) {
	assert.Nil(t, validation.NonNegativeIntegerRules.Apply("n", 0))
	assert.Nil(t, validation.NonNegativeIntegerRules.Apply("n", 3.0))
	assert.Nil(t, validation.NonNegativeIntegerRules.Apply("n", json.Number("8")))

	tests := []struct {
		in   interface{}
		code validation.Code
	}{
		{-1, validation.CodeNegativeInteger},
		{1.5, validation.CodeNotAnInteger},
		{1e20, validation.CodeNotAnInteger},
		{-1e20, validation.CodeNotAnInteger},
		{json.Number("18446744073709551615"), validation.CodeNotAnInteger},
		{uint64(math.MaxUint64), validation.CodeNotAnInteger},
		{uint64(1 << 63), validation.CodeNotAnInteger},
		{"3", validation.CodeInvalidType},
		{true, validation.CodeInvalidType},
	}
	for _, tc := range tests {
		fe := validation.NonNegativeIntegerRules.Apply("n", tc.in)
		require.NotNil(t, fe, "value %#v", tc.in)
		assert.Equal(t, tc.code, fe.Code, "value %#v", tc.in)
	}
}

func TestEntityTypeRules(t *testing.T) {
	assert.Nil(t, validation.EntityTypeRules.Apply("type", "lens"))

	for _, bad := range []interface{}{"", "Actor", "not-a-real-type", 1} {
		fe := validation.EntityTypeRules.Apply("type", bad)
		require.NotNil(t, fe, "type %#v", bad)
		assert.Equal(t, validation.CodeUnknownEntityType, fe.Code)
	}
}

func TestRule_CustomPredicate(t *testing.T) {
	short := validation.Rule{
		Code:      validation.CodeInvalidType,
		Message:   "must be short",
		Predicate: func(v interface{}) bool { s, _ := v.(string); return len(s) < 4 },
	}

	assert.Nil(t, short.Apply("x", "abc"))
	fe := short.Apply("x", "abcd")
	require.NotNil(t, fe)
	assert.Equal(t, "x: must be short (InvalidType)", fe.Error())
}
