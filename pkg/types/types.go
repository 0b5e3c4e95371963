// Package types defines the entity shapes produced by the strata intake layer.
// Records arrive as open maps from remote APIs and message buses; once they
// pass validation they are represented by the structs in this package.
package types

// EntityType is the discriminator carried in an entity's "type" field.
type EntityType string

// Entity type constants - the closed set of kinds in the hierarchy
const (
	// Participants
	EntityTypeActor        EntityType = "actor"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeStakeholder  EntityType = "stakeholder"

	// Strategy
	EntityTypeInitiative  EntityType = "initiative"
	EntityTypeOutcome     EntityType = "outcome"
	EntityTypeHorizon     EntityType = "horizon"
	EntityTypeOpportunity EntityType = "opportunity"
	EntityTypeAction      EntityType = "action"
	EntityTypeEvidence    EntityType = "evidence"

	// Presentation
	EntityTypeLens   EntityType = "lens"
	EntityTypeLayer  EntityType = "layer"
	EntityTypeFilter EntityType = "filter"
)

// ValidEntityTypes lists every registered entity type in declaration order.
// Nothing outside this list is ever accepted as an entity type.
var ValidEntityTypes = []EntityType{
	EntityTypeActor,
	EntityTypeOrganization,
	EntityTypeInitiative,
	EntityTypeOutcome,
	EntityTypeHorizon,
	EntityTypeEvidence,
	EntityTypeStakeholder,
	EntityTypeOpportunity,
	EntityTypeAction,
	EntityTypeLens,
	EntityTypeLayer,
	EntityTypeFilter,
}

var entityTypeIndex = func() map[EntityType]struct{} {
	idx := make(map[EntityType]struct{}, len(ValidEntityTypes))
	for _, t := range ValidEntityTypes {
		idx[t] = struct{}{}
	}
	return idx
}()

// IsValid reports whether t is a registered entity type. Matching is exact
// and case-sensitive.
func (t EntityType) IsValid() bool {
	_, ok := entityTypeIndex[t]
	return ok
}

// String implements fmt.Stringer.
func (t EntityType) String() string {
	return string(t)
}

// IsValidEntityType checks if the given entity type is valid
func IsValidEntityType(entityType string) bool {
	return EntityType(entityType).IsValid()
}
