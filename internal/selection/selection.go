// Package selection holds the cursor, multi-select set and header lines
// over the current match view, decoupled from rendering. It is grounded
// on src/terminal.go's selectItem/deselectItem/toggleItem, UpdateHeader
// and cy/cx cursor fields, but reshaped into a standalone model the
// controller drives and the renderer only reads, instead of living
// inline in one large Terminal struct.
package selection

import (
	"regexp"
	"sort"
	"time"

	"github.com/lotabout/skim/internal/match"
)

// marked records when an item was selected, so multi-select output can be
// ordered by selection time the way terminal.go's sortSelected does.
type marked struct {
	at   time.Time
	item match.Result
}

// Model tracks the current match view, cursor position and multi-select
// set for one running session.
type Model struct {
	view     []match.Result
	cursor   int
	selected map[uint32]marked
	multi    int // 0 disables multi-select, negative means unlimited
	tac      bool
	header   []string
	header0  []string // --header-lines content, pinned above --header text
}

// NewModel returns an empty Model. multi is the maximum number of
// concurrently selected items (0 disables multi-select, a negative value
// means unlimited; config.Finalize never passes a negative value).
func NewModel(multi int, tac bool) *Model {
	return &Model{
		selected: make(map[uint32]marked),
		multi:    multi,
		tac:      tac,
	}
}

// Replace installs a brand new match view, discarding the previous one,
// and clamps the cursor into range. It does not touch the selection set:
// selections persist across query edits by item index the way
// terminal.go's `selected` map does.
func (m *Model) Replace(view []match.Result) {
	m.view = view
	m.clampCursor()
}

// Append adds more results to the tail of the current view (used for
// streamed partial results arriving before the source has drained).
// Re-sorting the combined view into final display order is the caller's
// responsibility; Append only appends.
func (m *Model) Append(more []match.Result) {
	m.view = append(m.view, more...)
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.view) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
}

// Len returns the number of items in the current view.
func (m *Model) Len() int { return len(m.view) }

// displayIndex maps a logical position (0 = top of the displayed list) to
// an index into m.view, honoring --tac (which reverses display order
// without re-sorting the underlying view).
func (m *Model) displayIndex(pos int) int {
	if m.tac {
		return len(m.view) - 1 - pos
	}
	return pos
}

// Cursor returns the current cursor's display position.
func (m *Model) Cursor() int { return m.cursor }

// MoveCursor shifts the cursor by delta positions, clamped to the view.
func (m *Model) MoveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// SetCursor jumps the cursor to an absolute display position.
func (m *Model) SetCursor(pos int) {
	m.cursor = pos
	m.clampCursor()
}

// Current returns the item under the cursor, or false if the view is
// empty.
func (m *Model) Current() (match.Result, bool) {
	if len(m.view) == 0 {
		return match.Result{}, false
	}
	return m.view[m.displayIndex(m.cursor)], true
}

// At returns the item at display position pos.
func (m *Model) At(pos int) (match.Result, bool) {
	if pos < 0 || pos >= len(m.view) {
		return match.Result{}, false
	}
	return m.view[m.displayIndex(pos)], true
}

// multiEnabled reports whether more than one item may be selected at
// once.
func (m *Model) multiEnabled() bool { return m.multi != 0 }

// IsSelected reports whether the given item index is currently marked.
func (m *Model) IsSelected(index uint32) bool {
	_, found := m.selected[index]
	return found
}

// Select marks r as selected, honoring the multi-select cap. It reports
// whether the item ended up selected (false only when the cap was
// already reached and r was not already selected).
func (m *Model) Select(r match.Result) bool {
	if !m.multiEnabled() {
		m.selected = map[uint32]marked{r.Entry.Index: {time.Now(), r}}
		return true
	}
	if _, found := m.selected[r.Entry.Index]; found {
		return true
	}
	if m.multi > 0 && len(m.selected) >= m.multi {
		return false
	}
	m.selected[r.Entry.Index] = marked{time.Now(), r}
	return true
}

// Deselect clears the selection mark on the given item index.
func (m *Model) Deselect(index uint32) {
	delete(m.selected, index)
}

// Toggle flips the selection state of r.
func (m *Model) Toggle(r match.Result) bool {
	if _, found := m.selected[r.Entry.Index]; found {
		m.Deselect(r.Entry.Index)
		return true
	}
	return m.Select(r)
}

// SelectAll marks every item in the current view as selected, subject to
// the multi-select cap.
func (m *Model) SelectAll() {
	if !m.multiEnabled() {
		return
	}
	for _, r := range m.view {
		if m.multi > 0 && len(m.selected) >= m.multi {
			break
		}
		if _, found := m.selected[r.Entry.Index]; !found {
			m.selected[r.Entry.Index] = marked{time.Now(), r}
		}
	}
}

// DeselectAll clears the entire selection set.
func (m *Model) DeselectAll() {
	m.selected = make(map[uint32]marked)
}

// Marked returns the selected items ordered by selection time (oldest
// first), matching terminal.go's output ordering.
func (m *Model) Marked() []match.Result {
	all := make([]marked, 0, len(m.selected))
	for _, mk := range m.selected {
		all = append(all, mk)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].at.Before(all[j].at) })
	out := make([]match.Result, len(all))
	for i, mk := range all {
		out[i] = mk.item
	}
	return out
}

// MarkedCount returns the number of currently selected items.
func (m *Model) MarkedCount() int { return len(m.selected) }

// SetHeaderLines sets the pinned, non-selectable header taken from the
// first --header-lines items of the source.
func (m *Model) SetHeaderLines(lines []string) { m.header0 = lines }

// SetHeaderText sets the literal --header text, displayed below the
// --header-lines content.
func (m *Model) SetHeaderText(lines []string) { m.header = lines }

// Header returns the full header block: --header-lines content followed
// by literal --header text.
func (m *Model) Header() []string {
	out := make([]string, 0, len(m.header0)+len(m.header))
	out = append(out, m.header0...)
	out = append(out, m.header...)
	return out
}

// PreSelectN marks the first n items of the view as selected (evaluated
// once, at arrival time, per --pre-select-n).
func (m *Model) PreSelectN(n int) {
	for i := 0; i < n && i < len(m.view); i++ {
		m.Select(m.view[i])
	}
}

// PreSelectPattern marks every item whose entry text matches re (per
// --pre-select-pat).
func (m *Model) PreSelectPattern(re *regexp.Regexp) {
	if re == nil {
		return
	}
	for _, r := range m.view {
		if re.Match(r.Entry.Text) {
			m.Select(r)
		}
	}
}

// PreSelectSet marks every item whose entry text is a literal member of
// set (per --pre-select-items/--pre-select-file).
func (m *Model) PreSelectSet(set map[string]struct{}) {
	if len(set) == 0 {
		return
	}
	for _, r := range m.view {
		if _, found := set[string(r.Entry.Text)]; found {
			m.Select(r)
		}
	}
}
