package blocks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/blocks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

func TestMerge_PrependsInForestOrder(t *testing.T) {
	t.Parallel()

	template := []models.TemplateNode{{Name: "heading"}, {Name: "paragraph"}}

	got, err := blocks.Merge(template, "<original/>")
	require.NoError(t, err)
	assert.Equal(t, "<!-- wp:heading /--><!-- wp:paragraph /--><original/>", got)
}

func TestMerge_EmptyTemplateKeepsBody(t *testing.T) {
	t.Parallel()

	for _, template := range [][]models.TemplateNode{nil, {}, {{Name: ""}}} {
		got, err := blocks.Merge(template, "body")
		require.NoError(t, err)
		assert.Equal(t, "body", got)
	}
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		forest []models.TemplateNode
		want   string
	}{
		{
			name:   "core namespace is dropped",
			forest: []models.TemplateNode{{Name: "core/paragraph"}},
			want:   "<!-- wp:paragraph /-->",
		},
		{
			name:   "custom namespace is kept",
			forest: []models.TemplateNode{{Name: "gatherpress/event-date"}},
			want:   "<!-- wp:gatherpress/event-date /-->",
		},
		{
			name:   "attributes sorted by key",
			forest: []models.TemplateNode{{Name: "heading", Attributes: map[string]any{"level": 2, "content": "Hi"}}},
			want:   `<!-- wp:heading {"content":"Hi","level":2} /-->`,
		},
		{
			name:   "unsafe characters escaped",
			forest: []models.TemplateNode{{Name: "paragraph", Attributes: map[string]any{"placeholder": `a--b <i>"x"</i> & y`}}},
			want:   `<!-- wp:paragraph {"placeholder":"a\u002d\u002db \u003ci\u003e\u0022x\u0022\u003c/i\u003e \u0026 y"} /-->`,
		},
		{
			name:   "trailing backslash follows host escaping",
			forest: []models.TemplateNode{{Name: "paragraph", Attributes: map[string]any{"path": `a\`}}},
			want:   `<!-- wp:paragraph {"path":"a\\u0022} /-->`,
		},
		{
			name: "children wrapped by the parent",
			forest: []models.TemplateNode{{
				Name:       "group",
				Attributes: map[string]any{"layout": map[string]any{"type": "constrained"}},
				Children:   []models.TemplateNode{{Name: "heading"}, {Name: "paragraph"}},
			}},
			want: `<!-- wp:group {"layout":{"type":"constrained"}} --><!-- wp:heading /--><!-- wp:paragraph /--><!-- /wp:group -->`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := blocks.Serialize(tt.forest)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialize_UnencodableAttribute(t *testing.T) {
	t.Parallel()

	_, err := blocks.Serialize([]models.TemplateNode{{Name: "x", Attributes: map[string]any{"ch": make(chan int)}}})
	require.Error(t, err)
}
