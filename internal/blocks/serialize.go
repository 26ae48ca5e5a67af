// Package blocks renders template trees into block markup, the comment
// delimited format record bodies are stored in:
//
//	<!-- wp:heading {"level":2} /-->
//	<!-- wp:group --><!-- wp:paragraph /--><!-- /wp:group -->
package blocks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

const defaultNamespace = "core/"

// attrEscaper keeps serialized attributes from closing the HTML comment
// around them or confusing HTML parsers. Like the host editor's own
// serializer it also rewrites the closing quote of a string ending in a
// backslash ("a\\" becomes "a\\u0022), so such output is not valid JSON.
var attrEscaper = strings.NewReplacer(
	`--`, `\u002d\u002d`,
	`\"`, `\u0022`,
)

// Merge prepends the markup of template to body. body is returned unchanged
// when template renders to nothing.
func Merge(template []models.TemplateNode, body string) (string, error) {
	markup, err := Serialize(template)
	if err != nil {
		return "", err
	}
	if markup == "" {
		return body, nil
	}
	return markup + body, nil
}

// Serialize renders a forest of nodes in order. Nodes without a name are
// skipped together with their children.
func Serialize(forest []models.TemplateNode) (string, error) {
	var b strings.Builder
	for i := range forest {
		if err := writeNode(&b, &forest[i]); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeNode(b *strings.Builder, n *models.TemplateNode) error {
	if n.Name == "" {
		return nil
	}

	name := strings.TrimPrefix(n.Name, defaultNamespace)
	attrs, err := serializeAttributes(n.Attributes)
	if err != nil {
		return fmt.Errorf("block %s: %w", n.Name, err)
	}

	b.WriteString("<!-- wp:")
	b.WriteString(name)
	b.WriteByte(' ')
	if attrs != "" {
		b.WriteString(attrs)
		b.WriteByte(' ')
	}

	if len(n.Children) == 0 {
		b.WriteString("/-->")
		return nil
	}

	b.WriteString("-->")
	for i := range n.Children {
		if err := writeNode(b, &n.Children[i]); err != nil {
			return err
		}
	}
	b.WriteString("<!-- /wp:")
	b.WriteString(name)
	b.WriteString(" -->")
	return nil
}

// serializeAttributes encodes attrs as JSON with sorted keys. <, > and & come
// out as \u003c, \u003e and \u0026 from the encoder itself.
func serializeAttributes(attrs map[string]any) (string, error) {
	if len(attrs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(attrs); err != nil {
		return "", fmt.Errorf("encode attributes: %w", err)
	}
	return attrEscaper.Replace(strings.TrimSuffix(buf.String(), "\n")), nil
}
