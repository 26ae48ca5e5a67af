package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeAttributeValue turns a stored attribute value into the value handed
// to attribute filters. Values holding a JSON object or array are decoded
// (numbers stay json.Number); anything else is returned as the raw string.
func DecodeAttributeValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return raw
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	return v
}

// EncodeAttributeValue is the inverse of DecodeAttributeValue. Strings are
// stored as-is, everything else as compact JSON.
func EncodeAttributeValue(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case nil:
		return "", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode attribute value: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
