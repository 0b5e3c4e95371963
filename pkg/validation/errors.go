package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Code names the rule a field violated.
type Code string

// Rule violation codes
const (
	CodeEmptyIdentifier        Code = "EmptyIdentifier"
	CodeInvalidPathFormat      Code = "InvalidPathFormat"
	CodeConfidenceOutOfRange   Code = "ConfidenceOutOfRange"
	CodeInvalidTimestampFormat Code = "InvalidTimestampFormat"
	CodeUnknownEntityType      Code = "UnknownEntityType"

	CodeRequired        Code = "Required"
	CodeInvalidType     Code = "InvalidType"
	CodeEmptyString     Code = "EmptyString"
	CodeNotAnInteger    Code = "NotAnInteger"
	CodeNegativeInteger Code = "NegativeInteger"
	CodeTypeMismatch    Code = "TypeMismatch"

	// Only reported in strict mode
	CodeChildrenCountMismatch Code = "ChildrenCountMismatch"
	CodePathDepthMismatch     Code = "PathDepthMismatch"
)

var (
	// ErrInvalidRecord matches every rejection produced by this package.
	ErrInvalidRecord = errors.New("invalid record")

	ErrEmptyIdentifier        = errors.New("empty identifier")
	ErrInvalidPathFormat      = errors.New("invalid path format")
	ErrConfidenceOutOfRange   = errors.New("confidence out of range")
	ErrInvalidTimestampFormat = errors.New("invalid timestamp format")
	ErrUnknownEntityType      = errors.New("unknown entity type")
)

var codeSentinels = map[Code]error{
	CodeEmptyIdentifier:        ErrEmptyIdentifier,
	CodeInvalidPathFormat:      ErrInvalidPathFormat,
	CodeConfidenceOutOfRange:   ErrConfidenceOutOfRange,
	CodeInvalidTimestampFormat: ErrInvalidTimestampFormat,
	CodeUnknownEntityType:      ErrUnknownEntityType,
}

// FieldError is a single rejected field: where it is, which rule it broke,
// and a human-readable message.
type FieldError struct {
	Path    string `json:"path"` // e.g. "children[2].confidence"
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Path, e.Message, e.Code)
}

// Is matches ErrInvalidRecord and the sentinel registered for the code.
func (e *FieldError) Is(target error) bool {
	if target == ErrInvalidRecord {
		return true
	}
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

// Errors is the rejection of one record. It holds at least one FieldError,
// in field-check order.
type Errors []*FieldError

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no validation errors"
	case 1:
		return es[0].Error()
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(es), strings.Join(parts, "; "))
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// First returns the first reported violation, or nil.
func (es Errors) First() *FieldError {
	if len(es) == 0 {
		return nil
	}
	return es[0]
}

// HasCode reports whether any violation carries code.
func (es Errors) HasCode(code Code) bool {
	for _, e := range es {
		if e.Code == code {
			return true
		}
	}
	return false
}

// err converts an empty set to a nil error so callers never see a typed nil.
func (es Errors) err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// AsErrors extracts the field errors from err, if it carries any.
func AsErrors(err error) (Errors, bool) {
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return Errors{fe}, true
	}
	return nil, false
}
