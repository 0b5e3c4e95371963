package types

// BreadcrumbItem is the reduced entity projection used to render ancestor trails.
type BreadcrumbItem struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          EntityType `json:"type"`
	Path          string     `json:"path"`
	PathDepth     int        `json:"pathDepth"`
	HasChildren   *bool      `json:"hasChildren,omitempty"`
	ChildrenCount *int       `json:"childrenCount,omitempty"`
}

// HierarchyNode is a node returned together with its eagerly loaded children.
// HasMore is set when Children was truncated by the origin.
type HierarchyNode struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          EntityType `json:"type"`
	Path          string     `json:"path"`
	PathDepth     int        `json:"pathDepth"`
	Children      []Entity   `json:"children"`
	HasMore       bool       `json:"hasMore"`
	TotalChildren *int       `json:"totalChildren,omitempty"`
	Confidence    *float64   `json:"confidence,omitempty"`
}

// HierarchyResponse is one page of sibling entities.
type HierarchyResponse struct {
	Nodes      []Entity `json:"nodes"`
	TotalCount int      `json:"totalCount"`
	HasMore    bool     `json:"hasMore"`
	NextCursor *string  `json:"nextCursor,omitempty"` // Opaque continuation token
}

// SearchResult is the envelope returned for a search query.
type SearchResult struct {
	Entities   []Entity               `json:"entities"`
	TotalCount int                    `json:"totalCount"`
	Query      string                 `json:"query"`
	Filters    map[string]interface{} `json:"filters,omitempty"`
}
