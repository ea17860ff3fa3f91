package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/selection"
	"github.com/lotabout/skim/internal/theme"
)

// Canvas is the cell-painting surface the draw functions need.
// internal/tui.Screen satisfies it; tests substitute a fake so this
// package never has to open a real terminal to exercise its layout
// math.
type Canvas interface {
	SetCell(x, y int, r rune, sp theme.Spec)
}

// RuneWidth returns the display width of r at display column col,
// expanding a literal tab out to the next tabstop boundary. Grounded on
// the util.RuneWidth calls threaded through terminal.go's displayWidth/
// trimRight/displayWidthWithLimit, built here on
// github.com/mattn/go-runewidth rather than reproducing its East-Asian
// width tables by hand.
func RuneWidth(r rune, col, tabstop int) int {
	if r == '\t' {
		return tabstop - col%tabstop
	}
	return runewidth.RuneWidth(r)
}

// DisplayWidth sums RuneWidth over runes starting at display column 0.
func DisplayWidth(runes []rune, tabstop int) int {
	w := 0
	for _, r := range runes {
		w += RuneWidth(r, w, tabstop)
	}
	return w
}

// TrimRight trims runes to fit within width display columns, returning
// the kept prefix and the display-width overflow it cut off. Ports
// terminal.go's trimRight.
func TrimRight(runes []rune, width, tabstop int) ([]rune, int) {
	w := 0
	for idx, r := range runes {
		w += RuneWidth(r, w, tabstop)
		if w > width {
			return runes[:idx], DisplayWidth(runes[idx:], tabstop)
		}
	}
	return runes, 0
}

// ExpandTabs renders runes with literal tabs replaced by spaces padded
// out to the next tabstop column, returning the rendered string and its
// total display width. Ports terminal.go's processTabs.
func ExpandTabs(runes []rune, prefixWidth, tabstop int) (string, int) {
	var b strings.Builder
	col := prefixWidth
	for _, r := range runes {
		w := RuneWidth(r, col, tabstop)
		if r == '\t' {
			b.WriteString(strings.Repeat(" ", w))
		} else {
			b.WriteRune(r)
		}
		col += w
	}
	return b.String(), col - prefixWidth
}

// InfoStyle controls where and whether the match-count line is drawn.
type InfoStyle int

const (
	InfoDefault InfoStyle = iota
	InfoInline
	InfoHidden
)

// Frame is everything the renderer needs to draw one screen update: the
// resolved layout, theme, and the session state to paint.
type Frame struct {
	Layout    Layout
	Theme     theme.Theme
	Tabstop   int
	Prompt    string
	Query     []rune
	CursorPos int
	Reading   bool
	Spinner   []string
	SpinnerAt int
	Model     *selection.Model
	Total     int // number of items ingested so far, for "matched/total"
	InfoStyle InfoStyle
	NoHscroll bool // --no-hscroll: never scroll an overflowing line, always anchor at its left edge
	KeepRight bool // --keep-right: on overflow, anchor at the line's right edge instead of scrolling to the match
	SkipToPattern *regexp.Regexp // --skip-to-pattern: scroll an overflowing, otherwise-unmatched line to this pattern's first match
}

// DrawPrompt paints the prompt string and query text on the first row of
// the list rectangle.
func DrawPrompt(screen Canvas, f Frame) {
	rect := f.Layout.List
	promptRunes := []rune(f.Prompt)
	text, width := ExpandTabs(promptRunes, 0, f.Tabstop)
	for i, r := range []rune(text) {
		screen.SetCell(rect.Left+i, rect.Top, r, f.Theme.Prompt)
	}
	queryText, _ := ExpandTabs(f.Query, width, f.Tabstop)
	for i, r := range []rune(queryText) {
		screen.SetCell(rect.Left+width+i, rect.Top, r, f.Theme.Fg)
	}
}

// DrawInfo paints the match-count / spinner line beneath the prompt, in
// InfoDefault/InfoInline style. Ports terminal.go's printInfo, dropping
// the sort-toggle (+S/-S) and progress-percentage segments (this module
// doesn't implement --tac toggling mid-session or a progress meter).
func DrawInfo(screen Canvas, f Frame, found int) {
	if f.InfoStyle == InfoHidden {
		return
	}
	rect := f.Layout.List
	row := rect.Top + 1
	col := rect.Left
	if f.InfoStyle == InfoInline {
		row = rect.Top
		col = rect.Left + len(f.Prompt) + DisplayWidth(f.Query, f.Tabstop) + 1
	}
	if f.Reading && len(f.Spinner) > 0 {
		spin := f.Spinner[f.SpinnerAt%len(f.Spinner)]
		for i, r := range []rune(spin) {
			screen.SetCell(col+i, row, r, f.Theme.Spinner)
		}
	}
	col += 2
	total := f.Total
	if found > total {
		total = found
	}
	output := fmt.Sprintf("%d/%d", found, total)
	if f.Model != nil && f.Model.MarkedCount() > 0 {
		output += fmt.Sprintf(" (%d)", f.Model.MarkedCount())
	}
	for i, r := range []rune(output) {
		screen.SetCell(col+i, row, r, f.Theme.Info)
	}
}

// DrawHeader paints --header/--header-lines text starting two rows below
// the prompt. Ports terminal.go's printHeader, without its ANSI-state
// carry-over across lines (internal/ansi resolves color per entry, not
// per header line, so each header line is painted in the plain Header
// color/attribute slot).
func DrawHeader(screen Canvas, f Frame, lines []string) {
	rect := f.Layout.List
	for idx, line := range lines {
		row := rect.Top + 2 + idx
		if row >= rect.Top+rect.Height {
			return
		}
		text, _ := ExpandTabs([]rune(line), 0, f.Tabstop)
		trimmed, _ := TrimRight([]rune(text), rect.Width, f.Tabstop)
		for i, r := range trimmed {
			screen.SetCell(rect.Left+i, row, r, f.Theme.Header)
		}
	}
}

// ListRow is one line of the match list, pre-resolved by the caller from
// a match.Result plus the selection.Model's cursor/selection state.
type ListRow struct {
	Result   match.Result
	Current  bool
	Selected bool
}

// DrawList paints rows, newest-at-bottom (fzf's default layout), into
// the list rectangle below the prompt/info/header rows. headerRows is
// how many rows above the list are already occupied by header text, so
// the list starts right after them. Ports terminal.go's printList/
// printItem, minus the itemLine diffing cache (this renderer repaints
// the full frame each call, leaving damage-tracking to the caller if it
// wants it).
func DrawList(screen Canvas, f Frame, rows []ListRow, headerRows int, pointer, marker string) {
	rect := f.Layout.List
	top := rect.Top + 2 + headerRows
	maxRows := rect.Top + rect.Height - top
	if maxRows <= 0 {
		return
	}
	for j := 0; j < maxRows && j < len(rows); j++ {
		row := rows[j]
		y := top + (maxRows - 1 - j) // newest match nearest the prompt
		label := strings.Repeat(" ", runewidth.StringWidth(pointer))
		fg := f.Theme.Fg
		if row.Current {
			label = pointer
			fg = f.Theme.Current
		}
		col := rect.Left
		for _, r := range label {
			screen.SetCell(col, y, r, fg)
			col += runewidth.RuneWidth(r)
		}
		markText := strings.Repeat(" ", runewidth.StringWidth(marker))
		if row.Selected {
			markText = marker
		}
		for _, r := range markText {
			screen.SetCell(col, y, r, f.Theme.Selected)
			col += runewidth.RuneWidth(r)
		}
		text, _ := ExpandTabs([]rune(string(row.Result.Entry.Text)), col-rect.Left, f.Tabstop)
		skipTo := -1
		if f.SkipToPattern != nil {
			if loc := f.SkipToPattern.FindStringIndex(string(row.Result.Entry.Text)); loc != nil {
				skipTo = len([]rune(string(row.Result.Entry.Text)[:loc[0]]))
			}
		}
		avail := rect.Width - (col - rect.Left)
		trimmed, offsets := hscrollWindow([]rune(text), row.Result.Offsets, skipTo, avail, f.Tabstop, f.NoHscroll, f.KeepRight)
		matchColor := f.Theme.Match
		if row.Current {
			matchColor = f.Theme.CurrentMatch
		}
		for i, r := range trimmed {
			c := fg
			if withinOffsets(offsets, i) {
				c = matchColor
			}
			screen.SetCell(col+i, y, r, c)
		}
	}
}

// hscrollWindow picks which rune-index slice of an overflowing line to
// display: scroll-to-match by default (so the last match offset, or
// failing that the --skip-to-pattern match, stays visible), a fixed
// right anchor under --keep-right when the row has neither, or the plain
// left-anchored cut (hiding everything past width) when --no-hscroll
// disables scrolling entirely. Ported from terminal.go's
// printHighlighted overflow branch (trimLeft/trimRight/keepRight),
// simplified to whole-rune trimming since ExpandTabs has already turned
// tabs into literal spaces by the time text reaches here. The returned
// offsets are rebased so index 0 of the returned slice lines up with
// offset 0.
func hscrollWindow(text []rune, offsets [][2]int32, skipTo int, width, tabstop int, noHscroll, keepRight bool) ([]rune, [][2]int32) {
	if DisplayWidth(text, tabstop) <= width {
		return text, offsets
	}
	if noHscroll {
		trimmed, _ := TrimRight(text, width, tabstop)
		return trimmed, offsets
	}
	if keepRight && len(offsets) == 0 && skipTo < 0 {
		start := trimLeftStart(text, width, tabstop)
		return text[start:], rebaseOffsets(offsets, start)
	}

	maxe := 0
	for _, off := range offsets {
		if int(off[1]) > maxe {
			maxe = int(off[1])
		}
	}
	if maxe <= 0 && skipTo >= 0 {
		maxe = skipTo + 1
	}
	if maxe <= 0 || maxe > len(text) {
		maxe = len(text)
	}
	if DisplayWidth(text[:maxe], tabstop) <= width {
		trimmed, _ := TrimRight(text, width, tabstop)
		return trimmed, offsets
	}
	start := trimLeftStart(text[:maxe], width, tabstop)
	trimmed, _ := TrimRight(text[start:], width, tabstop)
	return trimmed, rebaseOffsets(offsets, start)
}

// trimLeftStart returns the smallest rune index i such that text[i:] fits
// within width display columns, scanning from the right.
func trimLeftStart(text []rune, width, tabstop int) int {
	w := 0
	for i := len(text) - 1; i >= 0; i-- {
		rw := RuneWidth(text[i], 0, tabstop)
		if w+rw > width {
			return i + 1
		}
		w += rw
	}
	return 0
}

func rebaseOffsets(offsets [][2]int32, start int) [][2]int32 {
	if start == 0 {
		return offsets
	}
	out := make([][2]int32, len(offsets))
	for i, off := range offsets {
		b := off[0] - int32(start)
		e := off[1] - int32(start)
		if b < 0 {
			b = 0
		}
		if e < b {
			e = b
		}
		out[i] = [2]int32{b, e}
	}
	return out
}

func withinOffsets(offsets [][2]int32, runeIdx int) bool {
	for _, off := range offsets {
		if int32(runeIdx) >= off[0] && int32(runeIdx) < off[1] {
			return true
		}
	}
	return false
}

// PreviewLine is one already-split, possibly-ANSI-colored preview line,
// ready to trim/wrap and paint.
type PreviewLine struct {
	Text string
}

// DrawPreview paints preview command output into rect, wrapping or
// truncating each line per wrap, starting at scroll (the first source
// line shown). Ports terminal.go's printPreview's trim/wrap branch,
// without its ANSI-state carry-over between preview lines (preview
// output here is treated as plain text; colorizing previews is left to
// the preview command itself, same as `--ansi`-less fzf previews).
func DrawPreview(screen Canvas, rect Rect, sp theme.Spec, lines []PreviewLine, scroll int, wrap bool, tabstop int) {
	row := rect.Top
	for i := scroll; i < len(lines) && row < rect.Top+rect.Height; i++ {
		text, _ := ExpandTabs([]rune(lines[i].Text), 0, tabstop)
		runes := []rune(text)
		if !wrap {
			trimmed, _ := TrimRight(runes, rect.Width, tabstop)
			paintRow(screen, rect.Left, row, rect.Width, trimmed, sp)
			row++
			continue
		}
		for len(runes) > 0 && row < rect.Top+rect.Height {
			head, overflow := TrimRight(runes, rect.Width, tabstop)
			paintRow(screen, rect.Left, row, rect.Width, head, sp)
			row++
			if overflow == 0 {
				break
			}
			runes = runes[len(head):]
		}
	}
}

func paintRow(screen Canvas, left, row, width int, runes []rune, sp theme.Spec) {
	col := left
	for _, r := range runes {
		screen.SetCell(col, row, r, sp)
		col += runewidth.RuneWidth(r)
	}
	for ; col < left+width; col++ {
		screen.SetCell(col, row, ' ', sp)
	}
}
