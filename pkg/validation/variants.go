package validation

import (
	"fmt"

	"github.com/scrypster/strata/pkg/types"
)

// Variant is the entity shape narrowed to one entity type.
type Variant struct {
	Tag   types.EntityType
	shape *Shape
}

// Shape returns the narrowed schema.
func (vr Variant) Shape() *Shape {
	return vr.shape
}

// Validate validates record against the variant with the default options.
func (vr Variant) Validate(record map[string]interface{}) (*types.Entity, error) {
	return defaultValidator.ValidateVariant(vr, record)
}

func newVariant(tag types.EntityType) Variant {
	rules := append(Rules{}, EntityTypeRules...)
	rules = append(rules, literalTag(tag))

	shape := EntityShape.withFieldRules(FieldType, rules)
	shape.Name = string(tag)
	return Variant{Tag: tag, shape: shape}
}

// One variant per registered entity type. A new kind only needs an entry in
// types.ValidEntityTypes.
var (
	variants     = buildVariants()
	variantIndex = indexVariants(variants)
)

func buildVariants() []Variant {
	out := make([]Variant, 0, len(types.ValidEntityTypes))
	for _, tag := range types.ValidEntityTypes {
		out = append(out, newVariant(tag))
	}
	return out
}

func indexVariants(vs []Variant) map[types.EntityType]Variant {
	idx := make(map[types.EntityType]Variant, len(vs))
	for _, vr := range vs {
		idx[vr.Tag] = vr
	}
	return idx
}

// Variants returns every variant in registry order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

// VariantFor returns the variant for tag, or ErrUnknownEntityType.
func VariantFor(tag types.EntityType) (Variant, error) {
	vr, ok := variantIndex[tag]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, tag)
	}
	return vr, nil
}

// ValidateVariant validates record against one variant.
func (v *Validator) ValidateVariant(vr Variant, record map[string]interface{}) (*types.Entity, error) {
	if vr.shape == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, vr.Tag)
	}
	var entity types.Entity
	if err := v.validateInto(vr.shape, record, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// ValidateTagged dispatches on the record's "type" field to exactly one
// variant. An unregistered or missing type is rejected before any variant
// is consulted.
func (v *Validator) ValidateTagged(record map[string]interface{}) (*types.Entity, error) {
	vr, fe := v.dispatch(record)
	if fe != nil {
		return nil, Errors{fe}
	}
	return v.ValidateVariant(vr, record)
}

// ValidateTagged validates record with the default options.
func ValidateTagged(record map[string]interface{}) (*types.Entity, error) {
	return defaultValidator.ValidateTagged(record)
}

func (v *Validator) dispatch(record map[string]interface{}) (Variant, *FieldError) {
	raw, present := record[FieldType]
	if !present || raw == nil {
		return Variant{}, &FieldError{Path: FieldType, Code: CodeUnknownEntityType, Message: "is missing"}
	}
	tag, ok := raw.(string)
	if !ok {
		return Variant{}, &FieldError{Path: FieldType, Code: CodeUnknownEntityType, Message: "must be a registered entity type"}
	}
	vr, ok := variantIndex[types.EntityType(tag)]
	if !ok {
		return Variant{}, &FieldError{Path: FieldType, Code: CodeUnknownEntityType, Message: fmt.Sprintf("%q is not a registered entity type", tag)}
	}
	return vr, nil
}
