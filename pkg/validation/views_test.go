package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/strata/pkg/types"
	"github.com/scrypster/strata/pkg/validation"
)

func child(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      "Child " + id,
		"type":      "outcome",
		"parentId":  "init-1",
		"path":      "/init-1/" + id,
		"pathDepth": 2,
	}
}

func TestValidateBreadcrumb(t *testing.T) {
	record := map[string]interface{}{
		"id":            "org-1",
		"name":          "Org",
		"type":          "organization",
		"path":          "/org-1",
		"pathDepth":     1,
		"hasChildren":   true,
		"childrenCount": 12,
		"confidence":    "not checked on breadcrumbs",
	}

	crumb, err := validation.ValidateBreadcrumb(record)
	require.NoError(t, err)
	assert.Equal(t, types.EntityTypeOrganization, crumb.Type)
	require.NotNil(t, crumb.ChildrenCount)
	assert.Equal(t, 12, *crumb.ChildrenCount)

	_, err = validation.ValidateBreadcrumb(with(record, "path", "org-1"))
	assert.ErrorIs(t, err, validation.ErrInvalidPathFormat)
}

func TestValidateHierarchyNode(t *testing.T) {
	record := map[string]interface{}{
		"id":            "init-1",
		"name":          "Initiative",
		"type":          "initiative",
		"path":          "/init-1",
		"pathDepth":     1,
		"children":      []interface{}{child("c-2"), child("c-1"), child("c-3")},
		"hasMore":       true,
		"totalChildren": 10,
		"confidence":    0.4,
	}

	node, err := validation.ValidateHierarchyNode(record)
	require.NoError(t, err)
	require.Len(t, node.Children, 3)

	var ids []string
	for _, c := range node.Children {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c-2", "c-1", "c-3"}, ids, "origin order is preserved")
	assert.True(t, node.HasMore)
	require.NotNil(t, node.TotalChildren)
	assert.Equal(t, 10, *node.TotalChildren)
}

func TestValidateHierarchyNode_ChildDiagnostics(t *testing.T) {
	bad := child("c-2")
	bad["confidence"] = 3

	record := map[string]interface{}{
		"id":        "init-1",
		"name":      "Initiative",
		"type":      "initiative",
		"path":      "/init-1",
		"pathDepth": 1,
		"children":  []interface{}{child("c-1"), bad, "not an object"},
		"hasMore":   false,
	}

	_, err := validation.ValidateHierarchyNode(record)
	require.Error(t, err)
	errs, _ := validation.AsErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "children[1].confidence", errs[0].Path)
	assert.Equal(t, validation.CodeConfidenceOutOfRange, errs[0].Code)

	all := validation.New(validation.Options{CollectAll: true})
	_, err = all.ValidateHierarchyNode(record)
	errs, _ = validation.AsErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "children[2]", errs[1].Path)
	assert.Equal(t, validation.CodeInvalidType, errs[1].Code)
}

func TestValidateHierarchyNode_RequiredContainers(t *testing.T) {
	v := validation.New(validation.Options{CollectAll: true})
	record := map[string]interface{}{
		"id":        "init-1",
		"name":      "Initiative",
		"type":      "initiative",
		"path":      "/init-1",
		"pathDepth": 1,
		"children":  map[string]interface{}{},
	}

	errs := v.Check(validation.HierarchyNodeShape, record)
	require.Len(t, errs, 2)
	assert.Equal(t, "children", errs[0].Path)
	assert.Equal(t, validation.CodeInvalidType, errs[0].Code)
	assert.Equal(t, "hasMore", errs[1].Path)
	assert.Equal(t, validation.CodeRequired, errs[1].Code)
}

func TestValidateHierarchyResponse(t *testing.T) {
	record := map[string]interface{}{
		"nodes":      []map[string]interface{}{child("a"), child("b")},
		"totalCount": 40,
		"hasMore":    true,
		"nextCursor": "opaque::cursor==",
	}

	page, err := validation.ValidateHierarchyResponse(record)
	require.NoError(t, err)
	assert.Len(t, page.Nodes, 2)
	assert.Equal(t, 40, page.TotalCount)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "opaque::cursor==", *page.NextCursor)

	tests := []struct {
		name string
		key  string
		val  interface{}
		code validation.Code
	}{
		{"negative total", "totalCount", -1, validation.CodeNegativeInteger},
		{"total beyond int range", "totalCount", json.Number("18446744073709551615"), validation.CodeNotAnInteger},
		{"hasMore not bool", "hasMore", "true", validation.CodeInvalidType},
		{"cursor not string", "nextCursor", 5, validation.CodeInvalidType},
		{"nodes not a list", "nodes", "a,b", validation.CodeInvalidType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := map[string]interface{}{
				"nodes":      []interface{}{child("a")},
				"totalCount": 1,
				"hasMore":    false,
			}
			r[tc.key] = tc.val
			_, err := validation.ValidateHierarchyResponse(r)
			require.Error(t, err)
			errs, _ := validation.AsErrors(err)
			assert.Equal(t, tc.key, errs.First().Path)
			assert.Equal(t, tc.code, errs.First().Code)
		})
	}
}

func TestValidateSearchResult(t *testing.T) {
	record := map[string]interface{}{
		"entities":   []interface{}{child("x"), child("y")},
		"totalCount": 2,
		"query":      "",
		"filters":    map[string]interface{}{"type": []interface{}{"outcome"}},
	}

	result, err := validation.ValidateSearchResult(record)
	require.NoError(t, err)
	assert.Len(t, result.Entities, 2)
	assert.Equal(t, "", result.Query)
	assert.Contains(t, result.Filters, "type")

	delete(record, "query")
	_, err = validation.ValidateSearchResult(record)
	require.Error(t, err)
	errs, _ := validation.AsErrors(err)
	assert.Equal(t, validation.CodeRequired, errs.First().Code)

	record["query"] = "q"
	record["entities"] = []interface{}{with(child("x"), "type", "widget")}
	_, err = validation.ValidateSearchResult(record)
	assert.ErrorIs(t, err, validation.ErrUnknownEntityType)
}
