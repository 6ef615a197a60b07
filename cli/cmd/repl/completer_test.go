package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/tree"
)

const doc = `app = {
  name = "demo"
  server = { host = "localhost" port = 8080 }
  server = { extra = 1 }
  retries = 3
}`

func mustParse(t *testing.T, src string) *tree.Registry {
	t.Helper()

	reg, err := lang.ParseString(t.Context(), src)
	if err != nil {
		t.Fatal(err)
	}

	return reg
}

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "len(fo", 6, "fo", 4, 6},
		{"after_comma", "max(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"after_quote", `"fo`, 3, "fo", 1, 3},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "log_level", 9, "log_level", 0, 9},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"empty_after_dot", "config.", 7, "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x == a.b.", 9, "a.b"},
		{"partial_word", "app.serv", 4, "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	reg := mustParse(t, doc)

	tests := []struct {
		parent string
		want   []string
	}{
		{"app", []string{"name", "server", "retries"}},
		{"app.server", []string{"host", "port"}},
		{"app.name", nil},
		{"app.missing", nil},
		{"other", nil},
	}

	for _, tt := range tests {
		if got := childCandidates(reg, tt.parent); !slices.Equal(got, tt.want) {
			t.Errorf("childCandidates(%q) = %q, want %q", tt.parent, got, tt.want)
		}
	}

	top := childCandidates(reg, "")
	for _, want := range []string{"app", "nodes", "node", "children", "path", "len", "filter"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level candidates missing %q", want)
		}
	}
}

func TestIsFunction(t *testing.T) {
	for name, want := range map[string]bool{
		"len":   true,
		"node":  true,
		"path":  true,
		"nodes": false,
		"app":   false,
	} {
		if got := isFunction(name); got != want {
			t.Errorf("isFunction(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestListNodes(t *testing.T) {
	out := listNodes(mustParse(t, doc))

	for _, want := range []string{"app.name = ", "demo", "app.server.port = ", "8080", "app.server.extra = "} {
		if !strings.Contains(out, want) {
			t.Errorf("listNodes missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "app.server = ") {
		t.Errorf("listNodes includes a block:\n%s", out)
	}
}
