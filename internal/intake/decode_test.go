package intake_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrypster/strata/internal/intake"
	"github.com/scrypster/strata/pkg/validation"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, intake.FormatJSON, intake.DetectFormat("records.ndjson", nil))
	assert.Equal(t, intake.FormatJSON, intake.DetectFormat("records.JSON", nil))
	assert.Equal(t, intake.FormatYAML, intake.DetectFormat("records.yml", nil))
	assert.Equal(t, intake.FormatJSON, intake.DetectFormat("-", []byte("  [ {} ]")))
	assert.Equal(t, intake.FormatYAML, intake.DetectFormat("-", []byte("id: a\n")))
}

func TestParseFormat(t *testing.T) {
	f, err := intake.ParseFormat("NDJSON")
	require.NoError(t, err)
	assert.Equal(t, intake.FormatJSON, f)

	_, err = intake.ParseFormat("csv")
	assert.ErrorIs(t, err, intake.ErrUnsupportedFormat)
}

func TestDecodePayload_JSONVariants(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ids     []string
	}{
		{"single object", `{"id":"a"}`, []string{"a"}},
		{"array", `[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}},
		{"ndjson", "{\"id\":\"a\"}\n{\"id\":\"b\"}\n{\"id\":\"c\"}\n", []string{"a", "b", "c"}},
		{"empty", "   ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := intake.DecodePayload([]byte(tc.payload), intake.FormatJSON)
			require.NoError(t, err)

			var ids []string
			for _, r := range records {
				ids = append(ids, r["id"].(string))
			}
			assert.Equal(t, tc.ids, ids)
		})
	}
}

func TestDecodePayload_JSONKeepsNumbers(t *testing.T) {
	records, err := intake.DecodePayload([]byte(`{"pathDepth": 2, "confidence": 0.5}`), intake.FormatAuto)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, json.Number("2"), records[0]["pathDepth"])
	assert.Equal(t, json.Number("0.5"), records[0]["confidence"])
}

func TestDecodePayload_YAML(t *testing.T) {
	payload := `
- id: a
  pathDepth: 1
  createdAt: 2024-01-02T03:04:05Z
  metadata:
    owner: ops
- id: b
---
id: c
`
	records, err := intake.DecodePayload([]byte(payload), intake.FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 1, records[0]["pathDepth"])
	assert.Equal(t, "2024-01-02T03:04:05Z", records[0]["createdAt"], "timestamps stay strings")
	assert.Equal(t, map[string]interface{}{"owner": "ops"}, records[0]["metadata"])
	assert.Equal(t, "c", records[2]["id"])
}

func TestDecodePayload_YAMLNonStringKeys(t *testing.T) {
	payload := `
id: a
name: A
type: actor
path: /a
pathDepth: 1
metadata:
  1: one
  owner: x
  nested:
    - true: yes
`
	records, err := intake.DecodePayload([]byte(payload), intake.FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 1)

	metadata, ok := records[0]["metadata"].(map[string]interface{})
	require.True(t, ok, "metadata is %T", records[0]["metadata"])
	assert.Equal(t, "one", metadata["1"])
	assert.Equal(t, "x", metadata["owner"])
	assert.Equal(t, []interface{}{map[string]interface{}{"true": "yes"}}, metadata["nested"])

	_, err = validation.ValidateEntity(records[0])
	assert.NoError(t, err)

	records, err = intake.DecodePayload([]byte("1: one\nid: b\n"), intake.FormatYAML)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "one", records[0]["1"])
	assert.Equal(t, "b", records[0]["id"])
}

func TestDecodePayload_Errors(t *testing.T) {
	_, err := intake.DecodePayload([]byte(`[{"id":"a"}, 3]`), intake.FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payload element 1")

	_, err = intake.DecodePayload([]byte(`{"id":`), intake.FormatJSON)
	assert.Error(t, err)

	_, err = intake.DecodePayload([]byte("just a string"), intake.FormatYAML)
	assert.Error(t, err)

	_, err = intake.DecodePayload([]byte("{}"), intake.Format("xml"))
	assert.ErrorIs(t, err, intake.ErrUnsupportedFormat)
}
