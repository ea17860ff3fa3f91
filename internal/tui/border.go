package tui

import "github.com/lotabout/skim/internal/theme"

// Shape names which edges of a window's border are drawn. Grounded on
// tui.go's BorderShape/BorderStyle/MakeBorderStyle.
type Shape int

const (
	BorderNone Shape = iota
	BorderRounded
	BorderSharp
	BorderHorizontal
	BorderVertical
	BorderTop
	BorderBottom
	BorderLeft
	BorderRight
)

// Style is the set of box-drawing runes used to paint a Shape.
type Style struct {
	Shape                                      Shape
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

// MakeBorderStyle returns the box-drawing runes for shape, using Unicode
// line-drawing characters when unicode is true and plain ASCII
// otherwise (for terminals/fonts without box-drawing glyph support).
func MakeBorderStyle(shape Shape, unicode bool) Style {
	if !unicode {
		return Style{Shape: shape, Horizontal: '-', Vertical: '|',
			TopLeft: '+', TopRight: '+', BottomLeft: '+', BottomRight: '+'}
	}
	if shape == BorderRounded {
		return Style{Shape: shape, Horizontal: '─', Vertical: '│',
			TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯'}
	}
	return Style{Shape: shape, Horizontal: '─', Vertical: '│',
		TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘'}
}

// DrawBorder paints style's border around the rectangle (left, top,
// width, height) onto screen using sp for the line color/attributes.
// Grounded on tcell.go's TcellWindow.drawBorder, generalized from its
// fixed preview/list border-color globals to take the resolved
// theme.Spec as a parameter.
func DrawBorder(screen *Screen, left, top, width, height int, style Style, sp theme.Spec) {
	if style.Shape == BorderNone {
		return
	}
	right := left + width
	bottom := top + height

	switch style.Shape {
	case BorderRounded, BorderSharp, BorderHorizontal, BorderTop:
		for x := left; x < right; x++ {
			screen.SetCell(x, top, style.Horizontal, sp)
		}
	}
	switch style.Shape {
	case BorderRounded, BorderSharp, BorderHorizontal, BorderBottom:
		for x := left; x < right; x++ {
			screen.SetCell(x, bottom-1, style.Horizontal, sp)
		}
	}
	switch style.Shape {
	case BorderRounded, BorderSharp, BorderVertical, BorderLeft:
		for y := top; y < bottom; y++ {
			screen.SetCell(left, y, style.Vertical, sp)
		}
	}
	switch style.Shape {
	case BorderRounded, BorderSharp, BorderVertical, BorderRight:
		for y := top; y < bottom; y++ {
			screen.SetCell(right-1, y, style.Vertical, sp)
		}
	}
	if style.Shape == BorderRounded || style.Shape == BorderSharp {
		screen.SetCell(left, top, style.TopLeft, sp)
		screen.SetCell(right-1, top, style.TopRight, sp)
		screen.SetCell(left, bottom-1, style.BottomLeft, sp)
		screen.SetCell(right-1, bottom-1, style.BottomRight, sp)
	}
}
