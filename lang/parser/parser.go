// Package parser builds a node registry from a cfgtree token sequence.
//
// The grammar is:
//
//	document := entry*
//	entry    := SYMBOL '=' (block | scalar)
//	block    := '{' entry* '}'
//	scalar   := INTEGER | LITERAL
//
// The root node (id 1) is created before the first token is read and takes
// the name of the first entry. Each token is checked against its one-token
// lookahead, and enclosing blocks are tracked on an explicit stack. The first
// error aborts the parse; no partial registry is returned.
package parser

import (
	"log/slog"

	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/lang/tree"
	"github.com/ardnew/cfgtree/log"
)

// Option configures a parse.
type Option func(*parser)

// WithLogger traces node creation at trace level.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

type parser struct {
	toks   []token.Token
	pos    int
	reg    *tree.Registry
	stack  []tree.ID // owners of the enclosing blocks
	cur    tree.ID   // node receiving the next name or data
	logger log.Logger
}

// Parse builds a registry from toks. Whitespace and EndOfLine tokens must
// already be removed, as [lexer.Tokenize] does. A missing End token is
// implied.
//
// [lexer.Tokenize]: github.com/ardnew/cfgtree/lang/lexer.Tokenize
func Parse(toks []token.Token, opts ...Option) (*tree.Registry, error) {
	p := &parser{
		toks: toks,
		reg:  tree.New(),
		cur:  tree.RootID,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	if err := p.run(); err != nil {
		return nil, err
	}

	p.logger.Trace("parse complete", slog.Int("nodes", p.reg.Len()))

	return p.reg, nil
}

func (p *parser) run() error {
	if t := p.peek(); t.Kind != token.Symbol && t.Kind != token.End {
		return newError(ErrExpectedToken, "a symbol", t)
	}

	for {
		t := p.next()

		var err error

		switch {
		case t.Kind == token.End:
			if len(p.stack) > 0 {
				return newError(ErrExpectedToken, "}", t)
			}

			return nil

		case t.Kind == token.Symbol:
			err = p.symbol(t)

		case t.IsPunct("="):
			err = p.assign()

		case t.IsPunct("{"):
			err = p.openBlock()

		case t.IsPunct("}"):
			err = p.closeBlock(t)

		case t.IsScalar():
			err = p.scalar(t)

		default:
			err = newError(ErrExpectedToken, "a symbol", t)
		}

		if err != nil {
			return err
		}
	}
}

// symbol names the current node; an assignment must follow.
func (p *parser) symbol(t token.Token) error {
	if err := p.reg.SetName(p.cur, t.Text, t.Offset); err != nil {
		return err
	}

	if next := p.peek(); !next.IsPunct("=") {
		return newError(ErrExpectedToken, "=", next)
	}

	return nil
}

// assign requires a block or a scalar to follow.
func (p *parser) assign() error {
	if next := p.peek(); !next.IsPunct("{") && !next.IsScalar() {
		return newError(ErrExpectedToken, "{ or scalar", next)
	}

	return nil
}

// openBlock descends into a block whose first entry becomes current.
func (p *parser) openBlock() error {
	if next := p.peek(); next.Kind != token.Symbol {
		return newError(ErrExpectedSymbol, "a symbol", next)
	}

	p.stack = append(p.stack, p.cur)

	return p.add(p.cur)
}

// closeBlock ascends to the owner of the innermost open block.
func (p *parser) closeBlock(t token.Token) error {
	if len(p.stack) == 0 {
		return newError(ErrExpectedToken, "end of input", t)
	}

	p.cur = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	return p.follow()
}

// scalar assigns data to the current node.
func (p *parser) scalar(t token.Token) error {
	if err := p.reg.SetData(p.cur, t.Kind, t.Text); err != nil {
		return err
	}

	return p.follow()
}

// follow handles the token after a completed entry: a sibling entry, the
// close of the enclosing block, or end of input.
func (p *parser) follow() error {
	next := p.peek()

	switch {
	case next.Kind == token.Symbol:
		if len(p.stack) == 0 {
			return newError(ErrNoParent, "end of input (one root entry)", next)
		}

		return p.add(p.stack[len(p.stack)-1])

	case next.IsPunct("}"), next.Kind == token.End:
		return nil

	default:
		return newError(ErrExpectedSymbolOrClose, "a symbol or }", next)
	}
}

// add creates a child of parent and makes it current.
func (p *parser) add(parent tree.ID) error {
	id, err := p.reg.Add(parent)
	if err != nil {
		return err
	}

	p.logger.Trace("node",
		slog.Uint64("id", uint64(id)),
		slog.Uint64("parent", uint64(parent)),
		slog.Int("depth", len(p.stack)))

	p.cur = id

	return nil
}

func (p *parser) next() token.Token {
	t := p.peek()

	if p.pos < len(p.toks) {
		p.pos++
	}

	return t
}

// peek returns the next token without consuming it. Past the last token it
// returns a synthesized End.
func (p *parser) peek() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}

	offset := 0

	if n := len(p.toks); n > 0 {
		last := p.toks[n-1]
		offset = last.Offset + len(last.Text)

		if last.Kind == token.Literal {
			offset += 2 // quotes
		}
	}

	return token.Make(token.End, "", offset)
}
