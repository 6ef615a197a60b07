package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/tree"
)

// Fmt parses a document and writes it in the chosen format.
type Fmt struct {
	Native  Native  `cmd:"" default:"withargs" help:"Format as native cfgtree syntax (default)."`
	Nodes   Nodes   `cmd:""                    help:"Format as node lines."`
	JSON    JSON    `cmd:""                    help:"Format as a JSON array of nodes."`
	YAML    YAML    `cmd:""                    help:"Format as YAML."`
	TOML    TOML    `cmd:""                    help:"Format as TOML."`
	MsgPack MsgPack `cmd:"" name:"msgpack"     help:"Format as MessagePack."`
	Tree    Tree    `cmd:""                    help:"Format as a rendered tree."`
}

// format parses the document at path and passes it to write, tagging any
// error with the format name.
func format(
	ctx context.Context,
	path, name string,
	write func(io.Writer, *tree.Registry) error,
) error {
	reg, err := parse(ctx, path)
	if err != nil {
		return err
	}

	if err := write(stdout(ctx), reg); err != nil {
		return lang.WrapError(err).
			With(slog.String("format", name))
	}

	return nil
}

// Native formats input as native cfgtree syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width; 0 writes a single line." short:"i"`

	source
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	return format(ctx, f.Source, "native", func(w io.Writer, reg *tree.Registry) error {
		return lang.Format(w, reg, f.Indent)
	})
}

// Nodes formats input as node lines, like the parse command.
type Nodes struct {
	source
}

// Run executes the nodes command.
func (n *Nodes) Run(ctx context.Context) error {
	return format(ctx, n.Source, "nodes", lang.WriteNodes)
}

// JSON formats input as a JSON array of node records.
type JSON struct {
	Indent int `default:"2" help:"Indent width; 0 writes compact JSON." short:"i"`

	source
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Source, "json", func(w io.Writer, reg *tree.Registry) error {
		return lang.FormatJSON(w, reg, j.Indent)
	})
}

// YAML formats input as a nested YAML document.
type YAML struct {
	Indent int `default:"2" help:"Indent width; 0 selects flow style." short:"i"`

	source
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Source, "yaml", func(w io.Writer, reg *tree.Registry) error {
		return lang.FormatYAML(ctx, w, reg, y.Indent)
	})
}

// TOML formats input as a TOML document.
type TOML struct {
	source
}

// Run executes the toml command.
func (t *TOML) Run(ctx context.Context) error {
	return format(ctx, t.Source, "toml", lang.FormatTOML)
}

// MsgPack formats input as MessagePack.
type MsgPack struct {
	source
}

// Run executes the msgpack command.
func (m *MsgPack) Run(ctx context.Context) error {
	return format(ctx, m.Source, "msgpack", lang.FormatMsgPack)
}

// Tree renders input as a tree with box-drawing branches.
type Tree struct {
	source
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	return format(ctx, t.Source, "tree", func(w io.Writer, reg *tree.Registry) error {
		out := lang.RenderTree(reg, lang.DefaultTreeStyle())
		if out == "" {
			return nil
		}

		if _, err := io.WriteString(w, out+"\n"); err != nil {
			return lang.ErrWriteOutput.Wrap(err)
		}

		return nil
	})
}
