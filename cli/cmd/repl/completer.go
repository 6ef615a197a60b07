package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/cfgtree/lang"
	"github.com/ardnew/cfgtree/lang/tree"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "tree", "clear", "quit"}

// queryFuncs are the functions every query environment defines.
var queryFuncs = []string{"node", "children", "path"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, and expr-lang operator or
// punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '"':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. It returns an empty word when the cursor sits on a
// boundary (after a space, after a dot, at the start of the line).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the current word.
// For input "x + server.http.ho" with the word "ho", the parent path is
// "server.http". It returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// lookupPath returns the node at a dotted path from the root, following the
// first child of each name.
func lookupPath(reg *tree.Registry, path string) (tree.Node, bool) {
	segments := strings.Split(path, ".")

	n := reg.Root()
	if n.Name == "" || n.Name != segments[0] {
		return tree.Node{}, false
	}

	for _, seg := range segments[1:] {
		var found bool

		for _, id := range reg.Children(n.ID) {
			if c, ok := reg.Node(id); ok && c.Name == seg {
				n, found = c, true

				break
			}
		}

		if !found {
			return tree.Node{}, false
		}
	}

	return n, true
}

// childCandidates returns the names that complete a word below parent. At the
// top level these are the root entry, the query builtins, and the expr-lang
// builtin functions. Below a block they are the names of its children, each
// listed once.
func childCandidates(reg *tree.Registry, parent string) []string {
	if parent == "" {
		var names []string

		if root := reg.Root(); root.Name != "" {
			names = append(names, root.Name)
		}

		names = append(names, "nodes")
		names = append(names, queryFuncs...)

		for _, fn := range builtin.Builtins {
			names = append(names, fn.Name)
		}

		return names
	}

	n, ok := lookupPath(reg, parent)
	if !ok || n.HasData() {
		return nil
	}

	var names []string

	for _, id := range reg.Children(n.ID) {
		if c, ok := reg.Node(id); ok && !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}

	return names
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, along with the candidate list and the word
// boundaries. An empty word matches nothing at the top level and every child
// after a dot.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.reg, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is callable in a query.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	return slices.Contains(queryFuncs, name)
}

// listNodes renders every scalar node as "path = value", in creation order.
func listNodes(reg *tree.Registry) string {
	var b strings.Builder

	for n := range reg.All() {
		if !n.HasData() {
			continue
		}

		b.WriteString("  ")
		b.WriteString(reg.Path(n.ID))
		b.WriteString(" = ")
		b.WriteString(hintStyle.Render(lang.FormatResult(lang.Scalar(n))))
		b.WriteByte('\n')
	}

	return b.String()
}
