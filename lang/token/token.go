// Package token defines the lexical units produced by the cfgtree lexer.
package token

import "strconv"

// Kind classifies a token.
type Kind int

const (
	Invalid     Kind = iota // invalid
	Symbol                  // symbol
	Integer                 // integer
	Literal                 // literal
	Punctuation             // punctuation
	Whitespace              // whitespace
	EndOfLine               // end of line
	End                     // end of input
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"

	case Symbol:
		return "symbol"

	case Integer:
		return "integer"

	case Literal:
		return "literal"

	case Punctuation:
		return "punctuation"

	case Whitespace:
		return "whitespace"

	case EndOfLine:
		return "end of line"

	case End:
		return "end of input"

	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IsScalar reports whether tokens of this kind can be assigned as data.
func (k Kind) IsScalar() bool { return k == Integer || k == Literal }

// Token is a single classified lexical unit.
//
// Text is empty for Whitespace, EndOfLine, and End tokens. Offset is the
// byte position of the token's first character in the source.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// Make returns a token of the given kind, text, and offset.
func Make(kind Kind, text string, offset int) Token {
	return Token{Kind: kind, Text: text, Offset: offset}
}

// Is reports whether t has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct reports whether t is the punctuation token p.
func (t Token) IsPunct(p string) bool { return t.Is(Punctuation, p) }

// IsScalar reports whether t is an Integer or Literal token.
func (t Token) IsScalar() bool { return t.Kind.IsScalar() }

// String renders the token for diagnostics: its text, or its kind name when
// the token carries no text.
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}

	return t.Text
}

// GoString renders the token with its kind and offset, for test failures and
// trace output.
func (t Token) GoString() string {
	return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")@" +
		strconv.Itoa(t.Offset)
}
