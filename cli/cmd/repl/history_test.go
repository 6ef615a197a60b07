package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func entries(h *History) []HistoryEntry {
	out := make([]HistoryEntry, h.Len())
	for i := range out {
		out[i], _ = h.Entry(i)
	}

	return out
}

func TestHistory_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{"app.name", modeQuery},
		{"tree", modeCtrl},
		{"  ", modeQuery},
		{"app.name", modeQuery},
		{"len(nodes)", modeQuery},
		{"app.name", modeQuery},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	want := []HistoryEntry{
		{"tree", modeCtrl},
		{"len(nodes)", modeQuery},
		{"app.name", modeQuery},
	}

	if got := entries(h); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	again := NewHistory(path)
	if err := again.Load(); err != nil {
		t.Fatal(err)
	}

	if got := entries(again); !slices.Equal(got, want) {
		t.Errorf("reloaded entries = %v, want %v", got, want)
	}
}

func TestHistory_LoadsUnprefixedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	if err := os.WriteFile(path, []byte("plain\nC:quit\n\nQ:x.y\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"plain", modeQuery}, {"quit", modeCtrl}, {"x.y", modeQuery}}
	if got := entries(h); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("a", modeQuery); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}

	if _, err := h.Entry(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}
