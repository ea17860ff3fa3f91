package render

import (
	"testing"

	"github.com/lotabout/skim/internal/preview"
	"github.com/lotabout/skim/internal/tui"
)

func TestComputeLayoutNoPreviewNoBorder(t *testing.T) {
	l := ComputeLayout(80, 24, [4]int{}, tui.BorderNone, nil)
	if l.List.Width != 80 || l.List.Height != 24 {
		t.Fatalf("expected full-screen list, got %+v", l.List)
	}
	if l.Border != nil {
		t.Errorf("expected no border rect, got %+v", l.Border)
	}
	if l.Preview != nil {
		t.Errorf("expected no preview rect, got %+v", l.Preview)
	}
}

func TestComputeLayoutRoundedBorderShrinksList(t *testing.T) {
	l := ComputeLayout(80, 24, [4]int{}, tui.BorderRounded, nil)
	if l.Border == nil {
		t.Fatal("expected a border rect")
	}
	if l.List.Width >= 80 {
		t.Errorf("expected the list to shrink inside the border, got width %d", l.List.Width)
	}
}

func TestComputeLayoutPreviewRightSplitsWidth(t *testing.T) {
	win := preview.DefaultWindow() // right, 50%
	l := ComputeLayout(80, 24, [4]int{}, tui.BorderNone, &win)
	if l.Preview == nil {
		t.Fatal("expected a preview rect")
	}
	if l.List.Width+l.PreviewBorder.Width != 80 {
		t.Errorf("expected list+preview border widths to cover the screen width, got %d+%d", l.List.Width, l.PreviewBorder.Width)
	}
	if l.Preview.Left <= l.List.Left {
		t.Errorf("expected the preview to sit to the right of the list, got list.Left=%d preview.Left=%d", l.List.Left, l.Preview.Left)
	}
}

func TestComputeLayoutPreviewHiddenBehavesLikeNoPreview(t *testing.T) {
	win := preview.DefaultWindow()
	win.Hidden = true
	l := ComputeLayout(80, 24, [4]int{}, tui.BorderNone, &win)
	if l.Preview != nil {
		t.Errorf("expected no preview rect when hidden, got %+v", l.Preview)
	}
	if l.List.Width != 80 {
		t.Errorf("expected the list to reclaim the full width, got %d", l.List.Width)
	}
}

func TestComputeLayoutMarginShrinksBothAreas(t *testing.T) {
	l := ComputeLayout(80, 24, [4]int{1, 2, 1, 2}, tui.BorderNone, nil)
	if l.List.Width != 76 || l.List.Height != 22 {
		t.Errorf("expected margin to shrink the list area, got %+v", l.List)
	}
}
