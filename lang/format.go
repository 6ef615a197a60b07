package lang

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	ltree "github.com/charmbracelet/lipgloss/tree"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/lang/tree"
)

// write copies s to w, wrapping any failure in ErrWriteOutput.
func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// WriteNodes writes one line per node in creation order:
//
//	(id, parent_id, name, data)
//
// The root's parent_id is 0. Data is written as it appears in the source,
// without the quotes of literals.
func WriteNodes(w io.Writer, reg *tree.Registry) error {
	var sb strings.Builder

	for n := range reg.All() {
		sb.WriteString(n.String())
		sb.WriteByte('\n')
	}

	return write(w, sb.String())
}

// FormatJSON writes the flat node list as a JSON array of [Record].
func FormatJSON(w io.Writer, reg *tree.Registry, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(Records(reg), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(Records(reg))
	}

	if err != nil {
		return ErrUnsupportedValue.Wrap(err)
	}

	return write(w, string(data)+"\n")
}

// FormatYAML writes the nested structure as YAML, keeping source order. A
// zero indent selects flow style.
func FormatYAML(
	ctx context.Context,
	w io.Writer,
	reg *tree.Registry,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMapSlice(reg), opts...)
	if err != nil {
		return ErrUnsupportedValue.Wrap(err)
	}

	return write(w, string(data))
}

// FormatTOML writes the nested structure as a TOML document.
func FormatTOML(w io.Writer, reg *tree.Registry) error {
	var sb strings.Builder

	if err := toml.NewEncoder(&sb).Encode(ToMap(reg)); err != nil {
		return ErrUnsupportedValue.Wrap(err)
	}

	return write(w, sb.String())
}

// FormatMsgPack writes the nested structure as MessagePack with map keys in
// sorted order.
func FormatMsgPack(w io.Writer, reg *tree.Registry) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(ToMap(reg)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Format writes the registry in native cfgtree syntax. With a positive indent
// each entry is written on its own line; otherwise the document is written on
// a single line. Parsing the output yields the same nodes.
func Format(w io.Writer, reg *tree.Registry, indent int) error {
	root := reg.Root()
	if root.Name == "" {
		return nil
	}

	f := formatter{reg: reg, indent: indent}
	f.entry(root, 0)
	f.buf.WriteByte('\n')

	return write(w, f.buf.String())
}

type formatter struct {
	reg    *tree.Registry
	buf    strings.Builder
	indent int
}

func (f *formatter) entry(n tree.Node, depth int) {
	f.buf.WriteString(n.Name)
	f.buf.WriteString(" = ")

	if n.HasData() {
		f.buf.WriteString(formatScalar(n))

		return
	}

	f.buf.WriteByte('{')

	for _, id := range f.reg.Children(n.ID) {
		c, ok := f.reg.Node(id)
		if !ok {
			continue
		}

		f.separate(depth + 1)
		f.entry(c, depth+1)
	}

	f.separate(depth)
	f.buf.WriteByte('}')
}

func (f *formatter) separate(depth int) {
	if f.indent <= 0 {
		f.buf.WriteByte(' ')

		return
	}

	f.buf.WriteByte('\n')
	f.buf.WriteString(strings.Repeat(" ", depth*f.indent))
}

// formatScalar renders node data as it must appear in source.
func formatScalar(n tree.Node) string {
	if n.Scalar == token.Literal {
		return `"` + n.Data + `"`
	}

	return n.Data
}

// TreeStyle holds the styles used by [RenderTree].
type TreeStyle struct {
	Root       lipgloss.Style
	Block      lipgloss.Style
	Name       lipgloss.Style
	Value      lipgloss.Style
	Enumerator lipgloss.Style
}

// DefaultTreeStyle returns the styles used when none are given.
func DefaultTreeStyle() TreeStyle {
	return TreeStyle{
		Root:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		Block:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Name:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Value:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Enumerator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1),
	}
}

// RenderTree renders the registry as an indented tree with box-drawing
// branches. Scalar entries are shown as "name = value".
func RenderTree(reg *tree.Registry, style TreeStyle) string {
	root := reg.Root()
	if root.Name == "" {
		return ""
	}

	if root.HasData() {
		return style.Name.Render(root.Name) + " = " +
			style.Value.Render(formatScalar(root))
	}

	t := renderBlock(reg, root, style).
		Enumerator(ltree.RoundedEnumerator).
		EnumeratorStyle(style.Enumerator).
		RootStyle(style.Root)

	return t.String()
}

func renderBlock(reg *tree.Registry, n tree.Node, style TreeStyle) *ltree.Tree {
	t := ltree.Root(n.Name)

	for _, id := range reg.Children(n.ID) {
		c, ok := reg.Node(id)
		if !ok {
			continue
		}

		if c.HasData() {
			t.Child(style.Name.Render(c.Name) + " = " +
				style.Value.Render(formatScalar(c)))

			continue
		}

		sub := renderBlock(reg, c, style).
			Enumerator(ltree.RoundedEnumerator).
			EnumeratorStyle(style.Enumerator).
			RootStyle(style.Block)

		t.Child(sub)
	}

	return t
}
