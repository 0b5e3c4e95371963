package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/scrypster/strata/internal/coerce"
	"github.com/scrypster/strata/pkg/types"
)

// timestampPrefixPattern only checks the YYYY-MM-DDTHH:MM:SS prefix.
// Fractional seconds and zone suffixes are neither required nor rejected.
var timestampPrefixPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)

// scalars evaluates the tag-based format checks. validator.Validate is safe
// for concurrent use once registration is done.
var scalars = newScalarValidator()

func newScalarValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("timestamp_prefix", validateTimestampPrefix); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("entity_type", validateEntityType); err != nil {
		panic(err)
	}
	return v
}

func validateTimestampPrefix(fl validator.FieldLevel) bool {
	return timestampPrefixPattern.MatchString(fl.Field().String())
}

func validateEntityType(fl validator.FieldLevel) bool {
	return types.IsValidEntityType(fl.Field().String())
}

// Rule is one predicate together with the diagnostic reported when the
// predicate does not hold.
type Rule struct {
	Code      Code
	Message   string
	Predicate func(value interface{}) bool
}

// Apply returns a FieldError at path when value fails the rule.
func (r Rule) Apply(path string, value interface{}) *FieldError {
	if r.Predicate(value) {
		return nil
	}
	return &FieldError{Path: path, Code: r.Code, Message: r.Message}
}

// Rules are applied in order; the first failure is reported.
type Rules []Rule

// Apply returns the first failure, or nil when every rule holds.
func (rs Rules) Apply(path string, value interface{}) *FieldError {
	for _, r := range rs {
		if fe := r.Apply(path, value); fe != nil {
			return fe
		}
	}
	return nil
}

// Primitive rules
var (
	IdentifierRules = Rules{
		{CodeInvalidType, "must be a string", isString},
		{CodeEmptyIdentifier, "must be a non-empty identifier", stringTag("required")},
	}

	NameRules = Rules{
		{CodeInvalidType, "must be a string", isString},
		{CodeEmptyString, "must not be empty", stringTag("required")},
	}

	PathRules = Rules{
		{CodeInvalidPathFormat, "must be a string starting with \"/\"", stringTag("required,startswith=/")},
	}

	ConfidenceRules = Rules{
		{CodeInvalidType, "must be a number", isNumber},
		{CodeConfidenceOutOfRange, "must be between 0 and 1", numberTag("gte=0,lte=1")},
	}

	TimestampRules = Rules{
		{CodeInvalidTimestampFormat, "must start with YYYY-MM-DDTHH:MM:SS", stringTag("timestamp_prefix")},
	}

	EntityTypeRules = Rules{
		{CodeUnknownEntityType, "must be a registered entity type", stringTag("entity_type")},
	}

	NonNegativeIntegerRules = Rules{
		{CodeInvalidType, "must be a number", isNumber},
		{CodeNotAnInteger, "must be an integer that fits in int", isIntegral},
		{CodeNegativeInteger, "must not be negative", integerTag("gte=0")},
	}

	BooleanRules = Rules{
		{CodeInvalidType, "must be a boolean", isBool},
	}

	StringRules = Rules{
		{CodeInvalidType, "must be a string", isString},
	}

	MappingRules = Rules{
		{CodeInvalidType, "must be an object", isMapping},
	}

	SequenceRules = Rules{
		{CodeInvalidType, "must be an array", isSequence},
	}
)

// literalTag narrows the type field to a single entity type.
func literalTag(tag types.EntityType) Rule {
	return Rule{
		Code:    CodeTypeMismatch,
		Message: "must be " + string(tag),
		Predicate: func(value interface{}) bool {
			s, ok := value.(string)
			return ok && types.EntityType(s) == tag
		},
	}
}

func stringTag(tag string) func(interface{}) bool {
	return func(value interface{}) bool {
		s, ok := value.(string)
		return ok && scalars.Var(s, tag) == nil
	}
}

func numberTag(tag string) func(interface{}) bool {
	return func(value interface{}) bool {
		f, ok := coerce.Number(value)
		return ok && scalars.Var(f, tag) == nil
	}
}

func integerTag(tag string) func(interface{}) bool {
	return func(value interface{}) bool {
		n, isNumber, _ := coerce.Integer(value)
		return isNumber && scalars.Var(n, tag) == nil
	}
}

func isString(value interface{}) bool {
	_, ok := value.(string)
	return ok
}

func isNumber(value interface{}) bool {
	_, ok := coerce.Number(value)
	return ok
}

func isIntegral(value interface{}) bool {
	_, _, integral := coerce.Integer(value)
	return integral
}

func isBool(value interface{}) bool {
	_, ok := value.(bool)
	return ok
}

func isMapping(value interface{}) bool {
	_, ok := value.(map[string]interface{})
	return ok
}

func isSequence(value interface{}) bool {
	_, ok := asSequence(value)
	return ok
}

func asSequence(value interface{}) ([]interface{}, bool) {
	switch s := value.(type) {
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}
