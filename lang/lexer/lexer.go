// Package lexer converts cfgtree source text into tokens.
//
// The lexer makes a single forward pass over the input and never backtracks.
// The byte that terminates one token is held as lookahead and becomes the
// first byte examined for the next token. Whitespace and line ends are
// classified internally and never returned.
package lexer

import (
	"log/slog"

	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/log"
)

const eof = -1

// Lexer produces tokens from a source string.
type Lexer struct {
	src    string
	pos    int // offset of ch
	ch     int // lookahead byte, or eof
	logger log.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger traces each significant token at trace level.
func WithLogger(logger log.Logger) Option {
	return func(l *Lexer) { l.logger = logger }
}

// New returns a Lexer positioned at the start of src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{src: src}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	l.load()

	return l
}

// Tokenize returns the significant tokens of src, terminated by exactly one
// End token. The first lexical error aborts tokenizing.
func Tokenize(src string, opts ...Option) ([]token.Token, error) {
	l := New(src, opts...)

	var toks []token.Token

	for {
		t, err := l.Next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, t)

		if t.Kind == token.End {
			return toks, nil
		}
	}
}

// Next returns the next significant token. Once the input is exhausted it
// returns an End token on every call.
func (l *Lexer) Next() (token.Token, error) {
	for {
		t, err := l.scan()
		if err != nil {
			return token.Token{}, err
		}

		if t.Kind == token.Whitespace || t.Kind == token.EndOfLine {
			continue
		}

		l.logger.Trace("token",
			slog.String("kind", t.Kind.String()),
			slog.String("text", t.Text),
			slog.Int("offset", t.Offset))

		return t, nil
	}
}

// Offset returns the offset of the lookahead byte.
func (l *Lexer) Offset() int { return l.pos }

func (l *Lexer) load() {
	if l.pos < len(l.src) {
		l.ch = int(l.src[l.pos])
	} else {
		l.ch = eof
	}
}

func (l *Lexer) advance() {
	if l.ch != eof {
		l.pos++
		l.load()
	}
}

func (l *Lexer) scan() (token.Token, error) {
	start := l.pos

	switch c := l.ch; {
	case c == eof:
		return token.Make(token.End, "", start), nil

	case isAlpha(c) || c == '_':
		for isAlnum(l.ch) || l.ch == '_' {
			l.advance()
		}

		return token.Make(token.Symbol, l.src[start:l.pos], start), nil

	case c == '\n':
		l.advance()

		return token.Make(token.EndOfLine, "", start), nil

	case isSpace(c):
		l.advance()

		for l.ch == ' ' {
			l.advance()
		}

		return token.Make(token.Whitespace, "", start), nil

	case c == '"':
		return l.literal()

	case isDigit(c):
		return l.integer()

	case isPunct(c):
		l.advance()

		if l.ch == '=' {
			l.advance()
		}

		return token.Make(token.Punctuation, l.src[start:l.pos], start), nil

	default:
		l.advance()

		return token.Make(token.Invalid, l.src[start:l.pos], start), nil
	}
}

// literal scans a quoted literal. The token text excludes the quotes. A
// backslash keeps the following byte verbatim, so an escaped quote does not
// terminate the literal.
func (l *Lexer) literal() (token.Token, error) {
	open := l.pos

	l.advance()

	start := l.pos

	for {
		switch l.ch {
		case eof:
			return token.Token{}, &Error{
				Kind:   ErrUnterminatedLiteral,
				Offset: open,
				Char:   eof,
			}

		case '\\':
			l.advance()

			if l.ch == eof {
				continue
			}

		case '"':
			text := l.src[start:l.pos]
			l.advance()

			return token.Make(token.Literal, text, open), nil
		}

		l.advance()
	}
}

// integer scans a decimal or hexadecimal integer. A leading zero must be
// followed by a hex marker, whitespace, or end of input.
func (l *Lexer) integer() (token.Token, error) {
	start := l.pos

	if l.ch == '0' {
		l.advance()

		switch {
		case l.ch == 'x' || l.ch == 'X':
			l.advance()

			if !isHex(l.ch) {
				return token.Token{}, l.illegal()
			}

			for isHex(l.ch) {
				l.advance()
			}

			return token.Make(token.Integer, l.src[start:l.pos], start), nil

		case l.ch == eof || l.ch == '\n' || isSpace(l.ch):
			return token.Make(token.Integer, l.src[start:l.pos], start), nil

		default:
			return token.Token{}, l.illegal()
		}
	}

	for isDigit(l.ch) {
		l.advance()
	}

	return token.Make(token.Integer, l.src[start:l.pos], start), nil
}

func (l *Lexer) illegal() *Error {
	return &Error{Kind: ErrIllegalNumeral, Offset: l.pos, Char: l.ch}
}

func isAlpha(c int) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c int) bool { return c >= '0' && c <= '9' }
func isAlnum(c int) bool { return isAlpha(c) || isDigit(c) }

func isHex(c int) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// isSpace reports whitespace other than line feed.
func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

// isPunct reports printable ASCII that is neither alphanumeric nor space. The
// quote and underscore are claimed by literals and symbols before this test.
func isPunct(c int) bool {
	return c > ' ' && c < 0x7f && !isAlnum(c)
}
