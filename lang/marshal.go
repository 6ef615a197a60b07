package lang

import (
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/lang/tree"
)

// Record is the flat form of one node, as written by [FormatJSON] and
// exposed to queries as an element of "nodes".
type Record struct {
	ID     uint32 `json:"id" msgpack:"id" expr:"id"`
	Parent uint32 `json:"parent" msgpack:"parent" expr:"parent"`
	Name   string `json:"name" msgpack:"name" expr:"name"`
	Data   string `json:"data,omitempty" msgpack:"data,omitempty" expr:"data"`
	Kind   string `json:"kind,omitempty" msgpack:"kind,omitempty" expr:"kind"`
	Path   string `json:"path" msgpack:"path" expr:"path"`
}

// Records returns the flat form of every node in creation order.
func Records(reg *tree.Registry) []Record {
	recs := make([]Record, 0, reg.Len())

	for n := range reg.All() {
		rec := Record{
			ID:     uint32(n.ID),
			Parent: uint32(n.Parent),
			Name:   n.Name,
			Path:   reg.Path(n.ID),
		}

		if n.HasData() {
			rec.Data = n.Data
			rec.Kind = n.Scalar.String()
		}

		recs = append(recs, rec)
	}

	return recs
}

// ToMap converts the registry to nested native Go values.
//
// The result maps the root entry's name to its value. Blocks become
// map[string]any, integers become int64, and literals become strings with
// escapes resolved. Within a block, a repeated name keeps its last value. An
// empty document yields an empty map.
func ToMap(reg *tree.Registry) map[string]any {
	root := reg.Root()
	if root.Name == "" {
		return map[string]any{}
	}

	return map[string]any{root.Name: nativeValue(reg, root, toMap)}
}

// ToMapSlice converts the registry like [ToMap], but keeps blocks as
// [yaml.MapSlice] so that entries stay in source order. A repeated name keeps
// the position of its first occurrence and the value of its last.
func ToMapSlice(reg *tree.Registry) yaml.MapSlice {
	root := reg.Root()
	if root.Name == "" {
		return yaml.MapSlice{}
	}

	return yaml.MapSlice{{Key: root.Name, Value: nativeValue(reg, root, toMapSlice)}}
}

// blockFunc builds the native form of a block from its children.
type blockFunc func(reg *tree.Registry, children []tree.Node) any

func nativeValue(reg *tree.Registry, n tree.Node, block blockFunc) any {
	if n.HasData() {
		return Scalar(n)
	}

	ids := reg.Children(n.ID)
	if len(ids) == 0 {
		return nil
	}

	children := make([]tree.Node, 0, len(ids))

	for _, id := range ids {
		if c, ok := reg.Node(id); ok {
			children = append(children, c)
		}
	}

	return block(reg, children)
}

func toMap(reg *tree.Registry, children []tree.Node) any {
	m := make(map[string]any, len(children))

	for _, c := range children {
		m[c.Name] = nativeValue(reg, c, toMap)
	}

	return m
}

func toMapSlice(reg *tree.Registry, children []tree.Node) any {
	ms := make(yaml.MapSlice, 0, len(children))
	index := make(map[string]int, len(children))

	for _, c := range children {
		v := nativeValue(reg, c, toMapSlice)

		if i, ok := index[c.Name]; ok {
			ms[i].Value = v

			continue
		}

		index[c.Name] = len(ms)
		ms = append(ms, yaml.MapItem{Key: c.Name, Value: v})
	}

	return ms
}

// Scalar returns the native value of a node's data: int64 for integers that
// fit, otherwise the string with escapes resolved. Nodes without data yield
// nil.
func Scalar(n tree.Node) any {
	switch n.Scalar {
	case token.Integer:
		if i, err := strconv.ParseInt(n.Data, 0, 64); err == nil {
			return i
		}

		return n.Data

	case token.Literal:
		return Unescape(n.Data)

	default:
		return nil
	}
}

// Unescape resolves backslash escapes in literal text: each backslash is
// dropped and the byte after it is kept as is.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}

// Escape is the inverse of [Unescape]: it prefixes every quote and backslash
// with a backslash.
func Escape(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)

	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			sb.WriteByte('\\')
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}
