package types

// Entity represents one node in the hierarchy after it has been validated.
// Optional fields are pointers so that an absent field can be told apart
// from its zero value.
type Entity struct {
	// Core identification fields
	ID       string     `json:"id"`                 // Opaque identifier assigned by the origin system
	Name     string     `json:"name"`               // Display name
	Type     EntityType `json:"type"`               // Discriminator (see EntityType constants)
	ParentID *string    `json:"parentId,omitempty"` // Owning entity; nil for roots

	// Position in the hierarchical namespace
	Path      string `json:"path"`      // Always starts with "/"
	PathDepth int    `json:"pathDepth"` // Number of segments in Path, as declared by the origin

	// Scoring and metadata
	Confidence *float64               `json:"confidence,omitempty"` // In [0, 1] when present
	Metadata   map[string]interface{} `json:"metadata,omitempty"`   // Opaque to this layer

	// Timestamps are kept as the origin sent them (ISO-8601 prefixed)
	CreatedAt *string `json:"createdAt,omitempty"`
	UpdatedAt *string `json:"updatedAt,omitempty"`

	// Children hints
	HasChildren   *bool `json:"hasChildren,omitempty"`
	ChildrenCount *int  `json:"childrenCount,omitempty"`
}

// IsRoot reports whether the entity has no parent.
func (e *Entity) IsRoot() bool {
	return e.ParentID == nil
}

// Breadcrumb projects the entity into the reduced shape used for ancestor trails.
func (e *Entity) Breadcrumb() BreadcrumbItem {
	return BreadcrumbItem{
		ID:            e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Path:          e.Path,
		PathDepth:     e.PathDepth,
		HasChildren:   e.HasChildren,
		ChildrenCount: e.ChildrenCount,
	}
}
