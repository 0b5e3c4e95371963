// Package validation decides whether loosely-typed records are well-formed
// entities. Rules are declared per field and applied in a fixed order; a
// rejected record is reported as Errors carrying the field path and the
// violated rule. Everything in this package is pure and safe for concurrent
// use.
package validation

import (
	"fmt"

	"github.com/scrypster/strata/internal/coerce"
	"github.com/scrypster/strata/pkg/types"
)

// Entity field names, in check order.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldType          = "type"
	FieldParentID      = "parentId"
	FieldPath          = "path"
	FieldPathDepth     = "pathDepth"
	FieldConfidence    = "confidence"
	FieldMetadata      = "metadata"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
	FieldHasChildren   = "hasChildren"
	FieldChildrenCount = "childrenCount"
)

// EntityShape is the generic entity schema.
var EntityShape = &Shape{
	Name: "entity",
	Fields: []Field{
		{Name: FieldID, Required: true, Rules: IdentifierRules},
		{Name: FieldName, Required: true, Rules: NameRules},
		{Name: FieldType, Required: true, Rules: EntityTypeRules},
		{Name: FieldParentID, Rules: IdentifierRules},
		{Name: FieldPath, Required: true, Rules: PathRules},
		{Name: FieldPathDepth, Required: true, Rules: NonNegativeIntegerRules},
		{Name: FieldConfidence, Rules: ConfidenceRules},
		{Name: FieldMetadata, Rules: MappingRules},
		{Name: FieldCreatedAt, Rules: TimestampRules},
		{Name: FieldUpdatedAt, Rules: TimestampRules},
		{Name: FieldHasChildren, Rules: BooleanRules},
		{Name: FieldChildrenCount, Rules: NonNegativeIntegerRules},
	},
	Strict: []Refinement{checkPathDepth, checkChildrenAgreement},
}

// Options tune how records are checked.
type Options struct {
	// CollectAll reports every violation instead of stopping at the first.
	CollectAll bool

	// Strict also checks that pathDepth matches the segments of path and
	// that hasChildren agrees with childrenCount when both are present.
	Strict bool
}

// Validator checks records against the entity and view shapes.
type Validator struct {
	opts Options
}

// New creates a validator with the given options.
func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

// Options returns the options the validator was built with.
func (v *Validator) Options() Options {
	return v.opts
}

var defaultValidator = New(Options{})

// Check applies shape to record and returns every reported violation.
func (v *Validator) Check(shape *Shape, record map[string]interface{}) Errors {
	c := &collector{opts: v.opts}
	shape.check(record, "", c)
	return c.errs
}

// CheckEntity returns the violations of record against the generic entity shape.
func (v *Validator) CheckEntity(record map[string]interface{}) Errors {
	return v.Check(EntityShape, record)
}

// ValidateEntity validates record as a generic entity and returns it typed.
func (v *Validator) ValidateEntity(record map[string]interface{}) (*types.Entity, error) {
	var entity types.Entity
	if err := v.validateInto(EntityShape, record, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// ValidateEntity validates record with the default options.
func ValidateEntity(record map[string]interface{}) (*types.Entity, error) {
	return defaultValidator.ValidateEntity(record)
}

func checkPathDepth(record map[string]interface{}, prefix string) *FieldError {
	path, _ := record[FieldPath].(string)
	depth, _, _ := coerce.Integer(record[FieldPathDepth])
	if want := pathSegments(path); depth != want {
		return &FieldError{
			Path:    joinPath(prefix, FieldPathDepth),
			Code:    CodePathDepthMismatch,
			Message: fmt.Sprintf("is %d but path has %d segments", depth, want),
		}
	}
	return nil
}

func checkChildrenAgreement(record map[string]interface{}, prefix string) *FieldError {
	has, hasOK := record[FieldHasChildren].(bool)
	count, countOK, _ := coerce.Integer(record[FieldChildrenCount])
	if !hasOK || !countOK {
		return nil
	}
	if has != (count > 0) {
		return &FieldError{
			Path:    joinPath(prefix, FieldChildrenCount),
			Code:    CodeChildrenCountMismatch,
			Message: fmt.Sprintf("is %d but hasChildren is %t", count, has),
		}
	}
	return nil
}
