// Package render turns the current session state (query text, match
// view, selection model, preview window) into draw calls against an
// internal/tui.Screen. Grounded on terminal.go's resizeWindows/move/
// print* method family.
package render

import (
	"github.com/lotabout/skim/internal/preview"
	"github.com/lotabout/skim/internal/tui"
	"github.com/lotabout/skim/internal/util"
)

// Rect is a screen-relative rectangle: top/left corner, width and height
// in terminal cells.
type Rect struct {
	Top, Left, Width, Height int
}

// Layout is the set of rectangles the renderer paints into for one
// frame: the list/prompt/header/info area, its border (if any), and the
// optional preview pane with its own border.
type Layout struct {
	List          Rect
	Border        *Rect
	Preview       *Rect
	PreviewBorder *Rect
}

const (
	minWidth  = 16
	minHeight = 4
)

// calculateSize ports terminal.go's calculateSize: resolve a preview.Size
// against an available span, clamped to [minSize, base-margin].
func calculateSize(base int, size preview.Size, margin, minSize int) int {
	max := base - margin
	if size.Percent {
		return util.Constrain(int(float64(base)*0.01*size.Cells), minSize, max)
	}
	return util.Constrain(int(size.Cells), minSize, max)
}

// ComputeLayout lays out the list and, when win is visible, the preview
// pane within a screenWidth x screenHeight terminal, after subtracting
// margin (top, right, bottom, left, each in cells) and the outer border
// (if shape is not tui.BorderNone). Ports terminal.go's resizeWindows,
// dropping its ncurses auto-wrap width fudge (internal/tui's tcell
// backend doesn't auto-wrap).
func ComputeLayout(screenWidth, screenHeight int, margin [4]int, shape tui.Shape, win *preview.Window) Layout {
	top, right, bottom, left := margin[0], margin[1], margin[2], margin[3]

	switch shape {
	case tui.BorderHorizontal:
		top++
		bottom++
	case tui.BorderRounded, tui.BorderSharp:
		top++
		left += 2
		right += 2
		bottom++
	}

	width := screenWidth - left - right
	height := screenHeight - top - bottom

	var layout Layout
	if shape == tui.BorderHorizontal {
		layout.Border = &Rect{Top: top - 1, Left: left, Width: width, Height: height + 2}
	} else if shape == tui.BorderRounded || shape == tui.BorderSharp {
		layout.Border = &Rect{Top: top - 1, Left: left - 2, Width: width + 4, Height: height + 2}
	}

	previewVisible := win != nil && win.Visible() && win.Size.Cells > 0
	if !previewVisible {
		layout.List = Rect{Top: top, Left: left, Width: width, Height: height}
		return layout
	}

	makePreview := func(pTop, pLeft, pWidth, pHeight int) Rect {
		border := Rect{Top: pTop, Left: pLeft, Width: pWidth, Height: pHeight}
		layout.PreviewBorder = &border
		return Rect{Top: pTop + 1, Left: pLeft + 2, Width: pWidth - 4, Height: pHeight - 2}
	}

	var previewRect Rect
	switch win.Position {
	case preview.PosUp:
		pheight := calculateSize(height, win.Size, minHeight, 3)
		layout.List = Rect{Top: top + pheight, Left: left, Width: width, Height: height - pheight}
		previewRect = makePreview(top, left, width, pheight)
	case preview.PosDown:
		pheight := calculateSize(height, win.Size, minHeight, 3)
		layout.List = Rect{Top: top, Left: left, Width: width, Height: height - pheight}
		previewRect = makePreview(top+height-pheight, left, width, pheight)
	case preview.PosLeft:
		pwidth := calculateSize(width, win.Size, minWidth, 5)
		layout.List = Rect{Top: top, Left: left + pwidth, Width: width - pwidth, Height: height}
		previewRect = makePreview(top, left, pwidth, height)
	case preview.PosRight:
		pwidth := calculateSize(width, win.Size, minWidth, 5)
		layout.List = Rect{Top: top, Left: left, Width: width - pwidth, Height: height}
		previewRect = makePreview(top, left+width-pwidth, pwidth, height)
	}
	layout.Preview = &previewRect
	return layout
}
