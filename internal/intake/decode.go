package intake

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a payload.
type Format string

// Payload formats
const (
	FormatAuto Format = ""
	FormatJSON Format = "json" // a single object, an array of objects, or NDJSON
	FormatYAML Format = "yaml" // one or more documents, each a mapping or a list of mappings
)

// ErrUnsupportedFormat is returned for unknown payload formats.
var ErrUnsupportedFormat = errors.New("unsupported payload format")

// DetectFormat picks a format from the file name, falling back to the first
// non-space byte of the payload.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json", "ndjson", "jsonl":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// DecodePayload splits a payload into raw records. Records are returned in
// payload order. JSON numbers are kept as json.Number.
func DecodePayload(data []byte, format Format) ([]map[string]interface{}, error) {
	if format == FormatAuto {
		format = DetectFormat("", data)
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func decodeJSON(data []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var records []map[string]interface{}
	for {
		var value interface{}
		err := dec.Decode(&value)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON payload: %w", err)
		}
		if records, err = appendRecords(records, value); err != nil {
			return nil, err
		}
	}
}

func decodeYAML(data []byte) ([]map[string]interface{}, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var records []map[string]interface{}
	for {
		var value interface{}
		err := dec.Decode(&value)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML payload: %w", err)
		}
		if value == nil {
			continue
		}
		if records, err = appendRecords(records, stringKeys(value)); err != nil {
			return nil, err
		}
	}
}

// stringKeys rewrites the map[interface{}]interface{} that yaml.v3 produces
// for mappings with non-string keys into map[string]interface{}, at any depth.
func stringKeys(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = stringKeys(item)
		}
		return out
	case map[string]interface{}:
		for key, item := range v {
			v[key] = stringKeys(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = stringKeys(item)
		}
		return v
	}
	return value
}

func appendRecords(records []map[string]interface{}, value interface{}) ([]map[string]interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		return append(records, v), nil
	case []interface{}:
		base := len(records)
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("payload element %d is %T, not an object", base+i, item)
			}
			records = append(records, m)
		}
		return records, nil
	}
	return nil, fmt.Errorf("payload element %d is %T, not an object", len(records), value)
}
