package validation

import (
	"fmt"

	"github.com/scrypster/strata/pkg/types"
)

// View field names.
const (
	FieldChildren      = "children"
	FieldHasMore       = "hasMore"
	FieldTotalChildren = "totalChildren"
	FieldNodes         = "nodes"
	FieldTotalCount    = "totalCount"
	FieldNextCursor    = "nextCursor"
	FieldEntities      = "entities"
	FieldQuery         = "query"
	FieldFilters       = "filters"
)

// BreadcrumbShape is the ancestor-trail projection of an entity.
var BreadcrumbShape = &Shape{
	Name: "breadcrumb",
	Fields: []Field{
		{Name: FieldID, Required: true, Rules: IdentifierRules},
		{Name: FieldName, Required: true, Rules: NameRules},
		{Name: FieldType, Required: true, Rules: EntityTypeRules},
		{Name: FieldPath, Required: true, Rules: PathRules},
		{Name: FieldPathDepth, Required: true, Rules: NonNegativeIntegerRules},
		{Name: FieldHasChildren, Rules: BooleanRules},
		{Name: FieldChildrenCount, Rules: NonNegativeIntegerRules},
	},
	Strict: []Refinement{checkPathDepth, checkChildrenAgreement},
}

// HierarchyNodeShape is a node with its eagerly loaded children.
var HierarchyNodeShape = &Shape{
	Name: "hierarchy node",
	Fields: []Field{
		{Name: FieldID, Required: true, Rules: IdentifierRules},
		{Name: FieldName, Required: true, Rules: NameRules},
		{Name: FieldType, Required: true, Rules: EntityTypeRules},
		{Name: FieldPath, Required: true, Rules: PathRules},
		{Name: FieldPathDepth, Required: true, Rules: NonNegativeIntegerRules},
		{Name: FieldChildren, Required: true, Rules: SequenceRules, Elements: EntityShape},
		{Name: FieldHasMore, Required: true, Rules: BooleanRules},
		{Name: FieldTotalChildren, Rules: NonNegativeIntegerRules},
		{Name: FieldConfidence, Rules: ConfidenceRules},
	},
	Strict: []Refinement{checkPathDepth},
}

// HierarchyResponseShape is one page of sibling entities.
var HierarchyResponseShape = &Shape{
	Name: "hierarchy response",
	Fields: []Field{
		{Name: FieldNodes, Required: true, Rules: SequenceRules, Elements: EntityShape},
		{Name: FieldTotalCount, Required: true, Rules: NonNegativeIntegerRules},
		{Name: FieldHasMore, Required: true, Rules: BooleanRules},
		{Name: FieldNextCursor, Rules: StringRules},
	},
}

// SearchResultShape is the envelope of a search query.
var SearchResultShape = &Shape{
	Name: "search result",
	Fields: []Field{
		{Name: FieldEntities, Required: true, Rules: SequenceRules, Elements: EntityShape},
		{Name: FieldTotalCount, Required: true, Rules: NonNegativeIntegerRules},
		{Name: FieldQuery, Required: true, Rules: StringRules},
		{Name: FieldFilters, Rules: MappingRules},
	},
}

// ValidateBreadcrumb validates record as a breadcrumb item.
func (v *Validator) ValidateBreadcrumb(record map[string]interface{}) (*types.BreadcrumbItem, error) {
	var out types.BreadcrumbItem
	if err := v.validateInto(BreadcrumbShape, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateHierarchyNode validates record as a hierarchy node.
func (v *Validator) ValidateHierarchyNode(record map[string]interface{}) (*types.HierarchyNode, error) {
	var out types.HierarchyNode
	if err := v.validateInto(HierarchyNodeShape, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateHierarchyResponse validates record as a hierarchy page.
func (v *Validator) ValidateHierarchyResponse(record map[string]interface{}) (*types.HierarchyResponse, error) {
	var out types.HierarchyResponse
	if err := v.validateInto(HierarchyResponseShape, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateSearchResult validates record as a search result envelope.
func (v *Validator) ValidateSearchResult(record map[string]interface{}) (*types.SearchResult, error) {
	var out types.SearchResult
	if err := v.validateInto(SearchResultShape, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateBreadcrumb validates record with the default options.
func ValidateBreadcrumb(record map[string]interface{}) (*types.BreadcrumbItem, error) {
	return defaultValidator.ValidateBreadcrumb(record)
}

// ValidateHierarchyNode validates record with the default options.
func ValidateHierarchyNode(record map[string]interface{}) (*types.HierarchyNode, error) {
	return defaultValidator.ValidateHierarchyNode(record)
}

// ValidateHierarchyResponse validates record with the default options.
func ValidateHierarchyResponse(record map[string]interface{}) (*types.HierarchyResponse, error) {
	return defaultValidator.ValidateHierarchyResponse(record)
}

// ValidateSearchResult validates record with the default options.
func ValidateSearchResult(record map[string]interface{}) (*types.SearchResult, error) {
	return defaultValidator.ValidateSearchResult(record)
}

func (v *Validator) validateInto(shape *Shape, record map[string]interface{}, out interface{}) error {
	if err := v.Check(shape, record).err(); err != nil {
		return err
	}
	if err := decode(record, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", shape.Name, err)
	}
	return nil
}
