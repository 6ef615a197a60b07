package lexer

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/cfgtree/lang/token"
	"github.com/ardnew/cfgtree/log"
)

func tok(kind token.Kind, text string, offset int) token.Token {
	return token.Make(kind, text, offset)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Token
	}{
		{
			name: "empty",
			src:  "",
			want: []token.Token{tok(token.End, "", 0)},
		},
		{
			name: "only whitespace and line feeds",
			src:  " \t\n\r\n  \v\f\n",
			want: []token.Token{tok(token.End, "", 10)},
		},
		{
			name: "scalar entry",
			src:  "x = 5",
			want: []token.Token{
				tok(token.Symbol, "x", 0),
				tok(token.Punctuation, "=", 2),
				tok(token.Integer, "5", 4),
				tok(token.End, "", 5),
			},
		},
		{
			name: "nested block",
			src:  "root = {\n  a = 1\n  b = \"x\"\n}\n",
			want: []token.Token{
				tok(token.Symbol, "root", 0),
				tok(token.Punctuation, "=", 5),
				tok(token.Punctuation, "{", 7),
				tok(token.Symbol, "a", 11),
				tok(token.Punctuation, "=", 13),
				tok(token.Integer, "1", 15),
				tok(token.Symbol, "b", 19),
				tok(token.Punctuation, "=", 21),
				tok(token.Literal, "x", 23),
				tok(token.Punctuation, "}", 27),
				tok(token.End, "", 29),
			},
		},
		{
			name: "symbol with digits and underscores",
			src:  "_a1_b2",
			want: []token.Token{
				tok(token.Symbol, "_a1_b2", 0),
				tok(token.End, "", 6),
			},
		},
		{
			name: "hex integer",
			src:  "0x1A",
			want: []token.Token{
				tok(token.Integer, "0x1A", 0),
				tok(token.End, "", 4),
			},
		},
		{
			name: "upper hex marker",
			src:  "0XfF ",
			want: []token.Token{
				tok(token.Integer, "0XfF", 0),
				tok(token.End, "", 5),
			},
		},
		{
			name: "zero followed by space",
			src:  "0 1",
			want: []token.Token{
				tok(token.Integer, "0", 0),
				tok(token.Integer, "1", 2),
				tok(token.End, "", 3),
			},
		},
		{
			name: "zero followed by line feed",
			src:  "0\n",
			want: []token.Token{
				tok(token.Integer, "0", 0),
				tok(token.End, "", 2),
			},
		},
		{
			name: "zero followed by tab",
			src:  "0\t1",
			want: []token.Token{
				tok(token.Integer, "0", 0),
				tok(token.Integer, "1", 2),
				tok(token.End, "", 3),
			},
		},
		{
			name: "zero followed by carriage return",
			src:  "0\r\n",
			want: []token.Token{
				tok(token.Integer, "0", 0),
				tok(token.End, "", 3),
			},
		},
		{
			name: "zero at end of input",
			src:  "a = 0",
			want: []token.Token{
				tok(token.Symbol, "a", 0),
				tok(token.Punctuation, "=", 2),
				tok(token.Integer, "0", 4),
				tok(token.End, "", 5),
			},
		},
		{
			name: "decimal stops at non-digit",
			src:  "12ab",
			want: []token.Token{
				tok(token.Integer, "12", 0),
				tok(token.Symbol, "ab", 2),
				tok(token.End, "", 4),
			},
		},
		{
			name: "two-character punctuation",
			src:  "a <= b != c",
			want: []token.Token{
				tok(token.Symbol, "a", 0),
				tok(token.Punctuation, "<=", 2),
				tok(token.Symbol, "b", 5),
				tok(token.Punctuation, "!=", 7),
				tok(token.Symbol, "c", 10),
				tok(token.End, "", 11),
			},
		},
		{
			name: "double equals",
			src:  "==",
			want: []token.Token{
				tok(token.Punctuation, "==", 0),
				tok(token.End, "", 2),
			},
		},
		{
			name: "separated equals",
			src:  "a = = 1",
			want: []token.Token{
				tok(token.Symbol, "a", 0),
				tok(token.Punctuation, "=", 2),
				tok(token.Punctuation, "=", 4),
				tok(token.Integer, "1", 6),
				tok(token.End, "", 7),
			},
		},
		{
			name: "empty literal",
			src:  `""`,
			want: []token.Token{
				tok(token.Literal, "", 0),
				tok(token.End, "", 2),
			},
		},
		{
			name: "literal keeps raw bytes",
			src:  "\"a b\n{}=\"",
			want: []token.Token{
				tok(token.Literal, "a b\n{}=", 0),
				tok(token.End, "", 9),
			},
		},
		{
			name: "escaped quote",
			src:  `"say \"hi\""`,
			want: []token.Token{
				tok(token.Literal, `say \"hi\"`, 0),
				tok(token.End, "", 12),
			},
		},
		{
			name: "invalid bytes continue",
			src:  "a\x00b\xffc",
			want: []token.Token{
				tok(token.Symbol, "a", 0),
				tok(token.Invalid, "\x00", 1),
				tok(token.Symbol, "b", 2),
				tok(token.Invalid, "\xff", 3),
				tok(token.Symbol, "c", 4),
				tok(token.End, "", 5),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Tokenize(%q)\n got: %#v\nwant: %#v", tt.src, got, tt.want)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   error
		offset int
		char   int
	}{
		{"leading zero", "05", ErrIllegalNumeral, 1, '5'},
		{"leading zero then symbol", "a = 0b", ErrIllegalNumeral, 5, 'b'},
		{"leading zero then brace", "0}", ErrIllegalNumeral, 1, '}'},
		{"hex without digits", "0x", ErrIllegalNumeral, 2, eof},
		{"hex marker then symbol", "0xg", ErrIllegalNumeral, 2, 'g'},
		{"unterminated", `"abc`, ErrUnterminatedLiteral, 0, eof},
		{"unterminated after entry", `a = "abc`, ErrUnterminatedLiteral, 4, eof},
		{"trailing backslash", `"abc\`, ErrUnterminatedLiteral, 0, eof},
		{"escaped closing quote", `"abc\"`, ErrUnterminatedLiteral, 0, eof},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("Tokenize(%q) = %v, want error", tt.src, toks)
			}

			if toks != nil {
				t.Errorf("Tokenize(%q) returned tokens with error", tt.src)
			}

			if !errors.Is(err, tt.kind) {
				t.Errorf("error %v is not %v", err, tt.kind)
			}

			var le *Error
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *Error", err)
			}

			if le.Offset != tt.offset || le.Char != tt.char {
				t.Errorf("got offset=%d char=%d, want offset=%d char=%d",
					le.Offset, le.Char, tt.offset, tt.char)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: ErrIllegalNumeral, Offset: 1, Char: '5'}, "at 1: illegal numeral '5'"},
		{&Error{Kind: ErrUnterminatedLiteral, Offset: 0, Char: eof}, "at 0: unterminated literal"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestLexer_Next_RepeatsEnd(t *testing.T) {
	l := New("a")

	for i, want := range []token.Kind{token.Symbol, token.End, token.End, token.End} {
		got, err := l.Next()
		if err != nil {
			t.Fatalf("Next() #%d error: %v", i, err)
		}

		if got.Kind != want {
			t.Errorf("Next() #%d = %v, want %v", i, got.Kind, want)
		}
	}
}

func TestLexer_NeverReturnsInsignificantTokens(t *testing.T) {
	src := "a = {\n\tb = 0x10\n  c = \"d\" }\n\n"

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	ends := 0

	for _, tk := range toks {
		switch tk.Kind {
		case token.Whitespace, token.EndOfLine:
			t.Errorf("insignificant token returned: %#v", tk)
		case token.End:
			ends++
		}

		if tk.Kind != token.End && tk.Kind != token.Literal &&
			!strings.HasPrefix(src[tk.Offset:], tk.Text) {
			t.Errorf("token %#v does not match source at its offset", tk)
		}
	}

	if ends != 1 || toks[len(toks)-1].Kind != token.End {
		t.Errorf("want exactly one trailing End, got %d", ends)
	}
}

func TestWithLogger_TracesTokens(t *testing.T) {
	var buf bytes.Buffer

	logger := log.Make(&buf, log.WithLevel(log.LevelTrace), log.WithPretty(false))

	if _, err := Tokenize("a = 1", WithLogger(logger)); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(buf.String(), "msg=token"); got != 4 {
		t.Errorf("traced %d tokens, want 4:\n%s", got, buf.String())
	}
}

func BenchmarkTokenize(b *testing.B) {
	var sb strings.Builder

	for i := range 200 {
		sb.WriteString("section = {\n")
		sb.WriteString("  name = \"entry\"\n")
		sb.WriteString("  count = 0x")
		sb.WriteString(strings.Repeat("F", i%8+1))
		sb.WriteString("\n  nested = { depth = 12345 }\n}\n")
	}

	src := sb.String()

	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := Tokenize(src); err != nil {
			b.Fatal(err)
		}
	}
}
