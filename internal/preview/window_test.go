package preview

import "testing"

func TestParseWindowBasic(t *testing.T) {
	w, err := ParseWindow("up:40%:wrap:hidden")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Position != PosUp {
		t.Errorf("position = %v, want PosUp", w.Position)
	}
	if w.Size.Cells != 40 || !w.Size.Percent {
		t.Errorf("size = %+v, want {40 true}", w.Size)
	}
	if !w.Wrap || !w.Hidden {
		t.Errorf("expected wrap and hidden set, got %+v", w)
	}
}

func TestParseWindowAbsoluteSize(t *testing.T) {
	w, err := ParseWindow("left:20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Position != PosLeft {
		t.Errorf("position = %v, want PosLeft", w.Position)
	}
	if w.Size.Cells != 20 || w.Size.Percent {
		t.Errorf("size = %+v, want {20 false}", w.Size)
	}
}

func TestParseWindowConditionalAlternative(t *testing.T) {
	w, err := ParseWindow("right:70%,<80(up:40%)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Threshold != 80 {
		t.Fatalf("expected threshold 80, got %d", w.Threshold)
	}
	if w.Alternative == nil {
		t.Fatal("expected an alternative layout to be parsed")
	}
	if w.Alternative.Position != PosUp || w.Alternative.Size.Cells != 40 {
		t.Errorf("alternative = %+v, want up:40%%", w.Alternative)
	}
}

func TestParseWindowHeaderLines(t *testing.T) {
	w, err := ParseWindow("right:~3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.HeaderLines != 3 {
		t.Errorf("headerLines = %d, want 3", w.HeaderLines)
	}
}

func TestParseWindowInvalidToken(t *testing.T) {
	if _, err := ParseWindow("right:bogus-token!!"); err == nil {
		t.Fatal("expected an error for an unrecognized token")
	}
}

func TestParseWindowRejectsOverlargePercent(t *testing.T) {
	if _, err := ParseWindow("right:150%"); err == nil {
		t.Fatal("expected an error for a percentage over 99")
	}
}

func TestVisibleReflectsSize(t *testing.T) {
	w := Window{Size: Size{0, true}}
	if w.Visible() {
		t.Fatal("a zero-size window should not be visible")
	}
	w.Size.Cells = 50
	if !w.Visible() {
		t.Fatal("a non-zero size window should be visible")
	}
}

func TestToggleFlipsHidden(t *testing.T) {
	w := DefaultWindow()
	if w.Hidden {
		t.Fatal("expected default window to start visible")
	}
	w.Toggle()
	if !w.Hidden {
		t.Fatal("expected Toggle to hide the window")
	}
	w.Toggle()
	if w.Hidden {
		t.Fatal("expected a second Toggle to show it again")
	}
}

func TestResolveScrollCentersOnCurrentLine(t *testing.T) {
	pos := ResolveScroll("+{n}", 50, 100, 10)
	if pos < 0 || pos > 90 {
		t.Errorf("scroll position %d out of range", pos)
	}
	if pos != 45 {
		t.Errorf("expected centering offset 45, got %d", pos)
	}
}

func TestResolveScrollEmptyIsZero(t *testing.T) {
	if pos := ResolveScroll("", 50, 100, 10); pos != 0 {
		t.Errorf("expected 0 for an empty scroll expression, got %d", pos)
	}
}
