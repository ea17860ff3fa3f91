package render

import (
	"testing"

	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/selection"
	"github.com/lotabout/skim/internal/theme"
)

// fakeCanvas records every cell painted, keyed by (x, y), so tests can
// assert on what a draw call produced without a real terminal.
type fakeCanvas struct {
	cells map[[2]int]rune
}

func newFakeCanvas() *fakeCanvas { return &fakeCanvas{cells: make(map[[2]int]rune)} }

func (c *fakeCanvas) SetCell(x, y int, r rune, sp theme.Spec) {
	c.cells[[2]int{x, y}] = r
}

func TestRuneWidthExpandsTabToNextStop(t *testing.T) {
	if w := RuneWidth('\t', 0, 8); w != 8 {
		t.Errorf("expected a tab at column 0 to expand to 8, got %d", w)
	}
	if w := RuneWidth('\t', 5, 8); w != 3 {
		t.Errorf("expected a tab at column 5 to expand to the next stop (3 cells), got %d", w)
	}
}

func TestDisplayWidthAsciiMatchesRuneCount(t *testing.T) {
	if w := DisplayWidth([]rune("hello"), 8); w != 5 {
		t.Errorf("expected ascii width 5, got %d", w)
	}
}

func TestTrimRightCutsAtWidth(t *testing.T) {
	kept, overflow := TrimRight([]rune("hello world"), 5, 8)
	if string(kept) != "hello" {
		t.Errorf("expected 'hello', got %q", string(kept))
	}
	if overflow == 0 {
		t.Error("expected a nonzero overflow width")
	}
}

func TestExpandTabsRendersSpaces(t *testing.T) {
	out, width := ExpandTabs([]rune("a\tb"), 0, 4)
	if out != "a   b" {
		t.Errorf("expected 'a' + 3 spaces + 'b', got %q", out)
	}
	if width != 5 {
		t.Errorf("expected total width 5, got %d", width)
	}
}

func TestDrawListPaintsCurrentRowText(t *testing.T) {
	layout := ComputeLayout(40, 10, [4]int{}, 0, nil)
	model := selection.NewModel(0, false)
	e := &item.Entry{Text: []byte("hello"), Index: 0}
	r := match.Result{Entry: e, Offsets: [][2]int32{{0, 2}}}
	model.Replace([]match.Result{r})

	f := Frame{
		Layout:  layout,
		Theme:   theme.Dark256Theme(),
		Tabstop: 8,
		Prompt:  "> ",
		Query:   []rune("he"),
		Model:   model,
		Total:   1,
	}
	rows := []ListRow{{Result: r, Current: true}}
	canvas := newFakeCanvas()
	DrawList(canvas, f, rows, 0, ">", "")

	found := false
	for _, r := range canvas.cells {
		if r == 'h' {
			found = true
		}
	}
	if !found {
		t.Error("expected the row's text to be painted onto the canvas")
	}
}

func TestDrawPromptPaintsPromptAndQuery(t *testing.T) {
	layout := ComputeLayout(40, 10, [4]int{}, 0, nil)
	f := Frame{Layout: layout, Theme: theme.Dark256Theme(), Tabstop: 8, Prompt: "> ", Query: []rune("go")}
	canvas := newFakeCanvas()
	DrawPrompt(canvas, f)
	if canvas.cells[[2]int{0, layout.List.Top}] != '>' {
		t.Error("expected the prompt's first rune to be painted at the list's top-left cell")
	}
}

func TestWithinOffsetsDetectsMatchRange(t *testing.T) {
	offsets := [][2]int32{{2, 5}}
	if withinOffsets(offsets, 1) {
		t.Error("expected index 1 to be outside the match range")
	}
	if !withinOffsets(offsets, 3) {
		t.Error("expected index 3 to be inside the match range")
	}
}
