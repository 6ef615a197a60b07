package lang

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ardnew/cfgtree/lang/lexer"
	"github.com/ardnew/cfgtree/lang/parser"
)

// Position is a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Locate converts a byte offset in src to a line and column. Offsets past the
// end of src are clamped to the end.
func Locate(src string, offset int) Position {
	offset = max(0, min(offset, len(src)))

	line := 1 + strings.Count(src[:offset], "\n")
	col := offset + 1

	if i := strings.LastIndexByte(src[:offset], '\n'); i >= 0 {
		col = offset - i
	}

	return Position{Offset: offset, Line: line, Column: col}
}

// ErrorOffset returns the source offset carried by a lexer or parser error
// anywhere in err's chain.
func ErrorOffset(err error) (int, bool) {
	var le *lexer.Error
	if errors.As(err, &le) {
		return le.Offset, true
	}

	var pe *parser.Error
	if errors.As(err, &pe) {
		return pe.Offset(), true
	}

	return 0, false
}

// Diagnose renders err against src as a one-line summary followed by the
// offending source line and a caret under the error column:
//
//	line 1, column 5: at 4: expected { or scalar, got =
//	  1 | a = = 1
//	          ^
//
// Errors without a source offset are rendered as their message alone.
func Diagnose(src string, err error) string {
	if err == nil {
		return ""
	}

	offset, ok := ErrorOffset(err)
	if !ok {
		return err.Error()
	}

	pos := Locate(src, offset)

	var buf strings.Builder

	buf.WriteString("line ")
	buf.WriteString(strconv.Itoa(pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(pos.Column))
	buf.WriteString(": ")
	buf.WriteString(err.Error())
	buf.WriteByte('\n')

	lines := strings.Split(src, "\n")
	if pos.Line > len(lines) {
		return buf.String()
	}

	num := strconv.Itoa(pos.Line)

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(strings.TrimRight(lines[pos.Line-1], "\r"))
	buf.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(num)+5+pos.Column-1))
	buf.WriteString("^\n")

	return buf.String()
}
