package selection

import (
	"regexp"
	"testing"

	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/match"
)

func resultsOf(texts ...string) []match.Result {
	out := make([]match.Result, len(texts))
	for i, t := range texts {
		out[i] = match.Result{Entry: &item.Entry{Text: []byte(t), Index: uint32(i)}}
	}
	return out
}

func TestCursorMovementClamps(t *testing.T) {
	m := NewModel(0, false)
	m.Replace(resultsOf("a", "b", "c"))
	m.MoveCursor(-5)
	if m.Cursor() != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", m.Cursor())
	}
	m.MoveCursor(10)
	if m.Cursor() != 2 {
		t.Fatalf("expected cursor clamped to 2, got %d", m.Cursor())
	}
}

func TestSingleSelectReplacesPrevious(t *testing.T) {
	m := NewModel(0, false)
	view := resultsOf("a", "b")
	m.Replace(view)
	m.Select(view[0])
	m.Select(view[1])
	if m.MarkedCount() != 1 {
		t.Fatalf("expected single-select mode to keep only 1 item, got %d", m.MarkedCount())
	}
	if !m.IsSelected(view[1].Entry.Index) {
		t.Fatal("expected the most recent selection to win in single-select mode")
	}
}

func TestMultiSelectCap(t *testing.T) {
	m := NewModel(2, false)
	view := resultsOf("a", "b", "c")
	m.Replace(view)
	for _, r := range view {
		m.Select(r)
	}
	if m.MarkedCount() != 2 {
		t.Fatalf("expected multi-select cap of 2, got %d", m.MarkedCount())
	}
}

func TestToggleAndDeselect(t *testing.T) {
	m := NewModel(-1, false)
	view := resultsOf("a", "b")
	m.Replace(view)
	m.Toggle(view[0])
	if !m.IsSelected(view[0].Entry.Index) {
		t.Fatal("expected item to be selected after toggle")
	}
	m.Toggle(view[0])
	if m.IsSelected(view[0].Entry.Index) {
		t.Fatal("expected item to be deselected after second toggle")
	}
}

func TestSelectAllRespectsCap(t *testing.T) {
	m := NewModel(2, false)
	m.Replace(resultsOf("a", "b", "c", "d"))
	m.SelectAll()
	if m.MarkedCount() != 2 {
		t.Fatalf("expected select-all to respect the cap, got %d", m.MarkedCount())
	}
}

func TestMarkedOrderedBySelectionTime(t *testing.T) {
	m := NewModel(-1, false)
	view := resultsOf("a", "b", "c")
	m.Replace(view)
	m.Select(view[2])
	m.Select(view[0])
	m.Select(view[1])
	marked := m.Marked()
	if len(marked) != 3 {
		t.Fatalf("expected 3 marked items, got %d", len(marked))
	}
	wantOrder := []uint32{2, 0, 1}
	for i, idx := range wantOrder {
		if marked[i].Entry.Index != idx {
			t.Errorf("marked[%d].Index = %d, want %d", i, marked[i].Entry.Index, idx)
		}
	}
}

func TestTacReversesDisplayOrder(t *testing.T) {
	m := NewModel(0, true)
	m.Replace(resultsOf("a", "b", "c"))
	first, ok := m.At(0)
	if !ok || string(first.Entry.Text) != "c" {
		t.Fatalf("expected tac display position 0 to be the last view entry, got %+v", first)
	}
}

func TestHeaderCombinesLinesAndText(t *testing.T) {
	m := NewModel(0, false)
	m.SetHeaderLines([]string{"col1", "col2"})
	m.SetHeaderText([]string{"note"})
	header := m.Header()
	want := []string{"col1", "col2", "note"}
	if len(header) != len(want) {
		t.Fatalf("expected header %v, got %v", want, header)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}
}

func TestPreSelectN(t *testing.T) {
	m := NewModel(-1, false)
	m.Replace(resultsOf("a", "b", "c"))
	m.PreSelectN(2)
	if m.MarkedCount() != 2 {
		t.Fatalf("expected 2 pre-selected items, got %d", m.MarkedCount())
	}
}

func TestPreSelectPattern(t *testing.T) {
	m := NewModel(-1, false)
	m.Replace(resultsOf("foo.go", "bar.txt", "baz.go"))
	m.PreSelectPattern(regexp.MustCompile(`\.go$`))
	if m.MarkedCount() != 2 {
		t.Fatalf("expected 2 items matching *.go, got %d", m.MarkedCount())
	}
}

func TestPreSelectSet(t *testing.T) {
	m := NewModel(-1, false)
	m.Replace(resultsOf("a", "b", "c"))
	m.PreSelectSet(map[string]struct{}{"a": {}, "c": {}})
	if m.MarkedCount() != 2 {
		t.Fatalf("expected 2 items from the literal set, got %d", m.MarkedCount())
	}
	if m.IsSelected(1) {
		t.Fatal("expected 'b' (index 1) not to be pre-selected")
	}
}
