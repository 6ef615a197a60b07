package lexer

import (
	"errors"
	"log/slog"
	"strconv"
)

// Sentinel errors matched by [Error.Is].
var (
	ErrIllegalNumeral      = errors.New("illegal numeral")
	ErrUnterminatedLiteral = errors.New("unterminated literal")
)

// Error reports a lexical error at a byte offset in the source.
type Error struct {
	// Kind is one of the package sentinels.
	Kind error
	// Offset is the byte offset of the offending character. For an
	// unterminated literal it is the offset of the opening quote.
	Offset int
	// Char is the offending byte, or -1 at end of input.
	Char int
}

func (e *Error) Error() string {
	msg := "at " + strconv.Itoa(e.Offset) + ": " + e.Kind.Error()

	if e.Char >= 0 {
		msg += " " + strconv.QuoteRune(rune(e.Char))
	}

	return msg
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool { return e.Kind == target }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Kind.Error()),
		slog.Int("offset", e.Offset),
	}

	if e.Char >= 0 {
		attrs = append(attrs, slog.String("char", string(rune(e.Char))))
	}

	return slog.GroupValue(attrs...)
}
