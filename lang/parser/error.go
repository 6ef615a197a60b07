package parser

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/cfgtree/lang/token"
)

// Sentinel errors matched by [Error.Is].
var (
	ErrExpectedToken         = errors.New("unexpected token")
	ErrExpectedSymbol        = errors.New("block must begin with a symbol")
	ErrExpectedSymbolOrClose = errors.New("expected symbol or closing brace")
	ErrNoParent              = errors.New("entry has no parent")
)

// Error reports a syntax error at the offending token.
type Error struct {
	// Kind is one of the package sentinels.
	Kind error
	// Expected describes what the grammar allows at this position.
	Expected string
	// Actual is the offending token.
	Actual token.Token
}

func newError(kind error, expected string, actual token.Token) *Error {
	return &Error{Kind: kind, Expected: expected, Actual: actual}
}

// Offset returns the byte offset of the offending token.
func (e *Error) Offset() int { return e.Actual.Offset }

func (e *Error) Error() string {
	return "at " + strconv.Itoa(e.Actual.Offset) +
		": expected " + e.Expected + ", got " + describe(e.Actual)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool { return e.Kind == target }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Kind.Error()),
		slog.String("expected", e.Expected),
		slog.String("actual", describe(e.Actual)),
		slog.Int("offset", e.Actual.Offset),
	)
}

// describe renders a token as it appears in diagnostics. Literals are quoted
// so they are not mistaken for symbols.
func describe(t token.Token) string {
	if t.Kind == token.Literal {
		return strconv.Quote(t.Text)
	}

	return t.String()
}
