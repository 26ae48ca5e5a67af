package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

func TestDecodeAttributeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want any
	}{
		{name: "plain string", raw: "hello", want: "hello"},
		{name: "number stays string", raw: "42", want: "42"},
		{name: "empty", raw: "", want: ""},
		{name: "object", raw: `{"a":1}`, want: map[string]any{"a": json.Number("1")}},
		{name: "array", raw: `["x","y"]`, want: []any{"x", "y"}},
		{name: "broken json", raw: `{"a":`, want: `{"a":`},
		{name: "trailing data", raw: `[1] [2]`, want: `[1] [2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, models.DecodeAttributeValue(tt.raw))
		})
	}
}

func TestEncodeAttributeValue_RestoresStoredForm(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"hello", `{"a":1,"b":"<x>"}`, `["x",2]`} {
		got, err := models.EncodeAttributeValue(models.DecodeAttributeValue(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	}
}

func TestDraftFrom_AlwaysDraft(t *testing.T) {
	t.Parallel()

	for _, status := range []models.Status{
		models.StatusDraft, models.StatusPublish, models.StatusFuture, models.StatusPrivate, models.StatusPending,
	} {
		src := &models.Record{ID: 3, Type: "post", Title: "T", Status: status, MenuOrder: 4, Password: "pw"}
		d := models.DraftFrom(src, "page", "body")

		assert.Equal(t, models.StatusDraft, d.Status)
		assert.Equal(t, "page", d.Type)
		assert.Equal(t, "body", d.Body)
		assert.Equal(t, 4, d.MenuOrder)
		assert.Equal(t, "pw", d.Password)
	}
}
