package neo4j

import (
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// flattenRecord renders one result row as a single fact line. Nodes and
// relationships are rendered by their display text so the language model
// receives readable context rather than raw graph structure.
func flattenRecord(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s := flattenValue(v); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func flattenValue(v any) string {
	switch val := v.(type) {
	case dbtype.Node:
		return nodeText(val)
	case dbtype.Relationship:
		return "-[" + val.Type + "]->"
	case dbtype.Path:
		var sb strings.Builder
		for i, n := range val.Nodes {
			if i > 0 && i-1 < len(val.Relationships) {
				sb.WriteString(" -[" + val.Relationships[i-1].Type + "]-> ")
			}
			sb.WriteString(nodeText(n))
		}
		return sb.String()
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// nodeText prefers a human-readable property over the element id. The
// display name comes before the lowercased merge id.
func nodeText(n dbtype.Node) string {
	for _, key := range []string{"name", "title", "text", "id"} {
		if v, ok := n.Props[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return n.ElementId
}
