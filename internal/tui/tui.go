// Package tui wraps a tcell/v2 terminal screen behind a small,
// direction-agnostic surface: Screen owns the double-buffered display
// and turns raw input into a canonical KeyEvent the action package's
// string-keyed Keymap can look up directly. Grounded on tui/tui.go's
// Event/MouseEvent/BorderStyle types and tui/tcell.go's GetChar key
// switch and TcellWindow drawing methods, ported from the old
// github.com/gdamore/tcell onto github.com/gdamore/tcell/v2 (already
// the dependency internal/ansi standardized on).
package tui

import (
	"time"

	"github.com/gdamore/encoding"
	"github.com/gdamore/tcell/v2"

	"github.com/lotabout/skim/internal/theme"
)

// EventType names the category of an input event.
type EventType int

const (
	Invalid EventType = iota
	Resize
	Mouse
	Rune
	Key // a named key such as Enter, Tab, Up, CtrlA, AltUp, F1, ...
)

// Event is one input event read from the screen.
type Event struct {
	Type  EventType
	Rune  rune
	Name  string // canonical key-chord name when Type == Key, e.g. "ctrl-a", "alt-up", "f1"
	Mouse *MouseEvent
}

// MouseEvent mirrors tui.go's MouseEvent: a scroll, click or drag at a
// screen position.
type MouseEvent struct {
	Y, X   int
	S      int // wheel direction: +1 up, -1 down, 0 for clicks
	Left   bool
	Down   bool
	Double bool
	Mod    bool
}

const doubleClickDuration = 500 * time.Millisecond

// Screen owns the tcell.Screen and the double-click tracking state the
// raw tcell event stream doesn't give us for free.
type Screen struct {
	screen       tcell.Screen
	mouse        bool
	clickXs      []int
	prevDownTime time.Time
}

// NewScreen initializes a tcell screen. mouse enables mouse reporting.
func NewScreen(mouse bool) (*Screen, error) {
	encoding.Register()

	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	if mouse {
		s.EnableMouse()
	} else {
		s.DisableMouse()
	}
	return &Screen{screen: s, mouse: mouse}, nil
}

// Close tears down the terminal, restoring cooked mode.
func (s *Screen) Close() { s.screen.Fini() }

// Pause temporarily leaves alternate-screen mode, e.g. to run a
// foreground --bind execute() command that needs the real terminal.
func (s *Screen) Pause() { s.screen.Fini() }

// Resume re-initializes the screen after Pause.
func (s *Screen) Resume() error {
	ns, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := ns.Init(); err != nil {
		return err
	}
	if s.mouse {
		ns.EnableMouse()
	}
	s.screen = ns
	return nil
}

// Size returns the terminal's current column and row count.
func (s *Screen) Size() (cols, rows int) { return s.screen.Size() }

// Clear erases and forces a full redraw of the underlying terminal.
func (s *Screen) Clear() {
	s.screen.Sync()
	s.screen.Clear()
}

// Show flushes pending SetContent calls to the terminal.
func (s *Screen) Show() { s.screen.Show() }

// SetCell draws a single rune at (x, y) using the given color/attribute
// slot from a resolved theme.Theme.
func (s *Screen) SetCell(x, y int, r rune, sp theme.Spec) {
	s.screen.SetContent(x, y, r, nil, StyleOf(sp))
}

// ShowCursor positions (and implicitly reveals) the terminal cursor.
func (s *Screen) ShowCursor(x, y int) { s.screen.ShowCursor(x, y) }

// HideCursor removes the terminal cursor from the display.
func (s *Screen) HideCursor() { s.screen.HideCursor() }

// StyleOf converts a theme.Spec into the tcell.Style SetContent wants.
func StyleOf(sp theme.Spec) tcell.Style {
	style := tcell.StyleDefault.Foreground(sp.Color)
	return style.
		Bold(sp.Attr&tcell.AttrBold != 0).
		Dim(sp.Attr&tcell.AttrDim != 0).
		Italic(sp.Attr&tcell.AttrItalic != 0).
		Underline(sp.Attr&tcell.AttrUnderline != 0).
		Blink(sp.Attr&tcell.AttrBlink != 0).
		Reverse(sp.Attr&tcell.AttrReverse != 0).
		StrikeThrough(sp.Attr&tcell.AttrStrikeThrough != 0)
}

// PollEvent blocks for the next input event and normalizes it into an
// Event the controller's keymap lookup understands.
func (s *Screen) PollEvent() Event {
	switch ev := s.screen.PollEvent().(type) {
	case *tcell.EventResize:
		return Event{Type: Resize}
	case *tcell.EventMouse:
		return s.translateMouse(ev)
	case *tcell.EventKey:
		return translateKey(ev)
	default:
		return Event{Type: Invalid}
	}
}

func (s *Screen) translateMouse(ev *tcell.EventMouse) Event {
	x, y := ev.Position()
	buttons := ev.Buttons()
	mod := ev.Modifiers() != 0

	if buttons&tcell.WheelUp != 0 {
		return Event{Type: Mouse, Mouse: &MouseEvent{Y: y, X: x, S: 1, Mod: mod}}
	}
	if buttons&tcell.WheelDown != 0 {
		return Event{Type: Mouse, Mouse: &MouseEvent{Y: y, X: x, S: -1, Mod: mod}}
	}

	left := buttons&tcell.Button1 != 0
	down := left || buttons&tcell.Button3 != 0
	double := false
	if down {
		now := time.Now()
		if !left {
			s.clickXs = nil
		} else if now.Sub(s.prevDownTime) < doubleClickDuration {
			s.clickXs = append(s.clickXs, x)
		} else {
			s.clickXs = []int{x}
			s.prevDownTime = now
		}
	} else if len(s.clickXs) > 1 && s.clickXs[0] == s.clickXs[1] &&
		time.Since(s.prevDownTime) < doubleClickDuration {
		double = true
	}
	return Event{Type: Mouse, Mouse: &MouseEvent{Y: y, X: x, Left: left, Down: down, Double: double, Mod: mod}}
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyCtrlSpace:      "ctrl-space",
	tcell.KeyCtrlBackslash:  "ctrl-\\",
	tcell.KeyCtrlRightSq:    "ctrl-]",
	tcell.KeyCtrlUnderscore: "ctrl-/",
	tcell.KeyUp:             "up",
	tcell.KeyDown:           "down",
	tcell.KeyLeft:           "left",
	tcell.KeyRight:          "right",
	tcell.KeyInsert:         "insert",
	tcell.KeyHome:           "home",
	tcell.KeyDelete:         "del",
	tcell.KeyEnd:            "end",
	tcell.KeyPgUp:           "page-up",
	tcell.KeyPgDn:           "page-down",
	tcell.KeyBacktab:        "btab",
	tcell.KeyTab:            "tab",
	tcell.KeyEnter:          "enter",
	tcell.KeyEsc:            "esc",
	tcell.KeyBackspace2:     "bspace",
	tcell.KeyF1:             "f1",
	tcell.KeyF2:             "f2",
	tcell.KeyF3:             "f3",
	tcell.KeyF4:             "f4",
	tcell.KeyF5:             "f5",
	tcell.KeyF6:             "f6",
	tcell.KeyF7:             "f7",
	tcell.KeyF8:             "f8",
	tcell.KeyF9:             "f9",
	tcell.KeyF10:            "f10",
	tcell.KeyF11:            "f11",
	tcell.KeyF12:            "f12",
}

var ctrlLetters = map[tcell.Key]byte{
	tcell.KeyCtrlA: 'a', tcell.KeyCtrlB: 'b', tcell.KeyCtrlC: 'c', tcell.KeyCtrlD: 'd',
	tcell.KeyCtrlE: 'e', tcell.KeyCtrlF: 'f', tcell.KeyCtrlG: 'g', tcell.KeyCtrlH: 'h',
	tcell.KeyCtrlJ: 'j', tcell.KeyCtrlK: 'k', tcell.KeyCtrlL: 'l', tcell.KeyCtrlM: 'm',
	tcell.KeyCtrlN: 'n', tcell.KeyCtrlO: 'o', tcell.KeyCtrlP: 'p', tcell.KeyCtrlQ: 'q',
	tcell.KeyCtrlR: 'r', tcell.KeyCtrlS: 's', tcell.KeyCtrlT: 't', tcell.KeyCtrlU: 'u',
	tcell.KeyCtrlV: 'v', tcell.KeyCtrlW: 'w', tcell.KeyCtrlX: 'x', tcell.KeyCtrlY: 'y',
	tcell.KeyCtrlZ: 'z',
}

func translateKey(ev *tcell.EventKey) Event {
	mods := ev.Modifiers()
	alt := mods&tcell.ModAlt != 0
	shift := mods&tcell.ModShift != 0

	if letter, ok := ctrlLetters[ev.Key()]; ok {
		name := "ctrl-" + string(letter)
		if alt {
			name = "alt-" + name
		}
		return Event{Type: Key, Name: name}
	}

	arrowName := func(base string) string {
		name := base
		switch {
		case alt && shift:
			name = "alt-shift-" + base
		case shift:
			name = "shift-" + base
		case alt:
			name = "alt-" + base
		}
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return Event{Type: Key, Name: arrowName("up")}
	case tcell.KeyDown:
		return Event{Type: Key, Name: arrowName("down")}
	case tcell.KeyLeft:
		return Event{Type: Key, Name: arrowName("left")}
	case tcell.KeyRight:
		return Event{Type: Key, Name: arrowName("right")}
	case tcell.KeyBackspace2:
		if alt {
			return Event{Type: Key, Name: "alt-bspace"}
		}
		return Event{Type: Key, Name: "bspace"}
	case tcell.KeyRune:
		r := ev.Rune()
		if alt {
			return Event{Type: Key, Name: "alt-" + string(r)}
		}
		return Event{Type: Rune, Rune: r}
	}
	if name, ok := namedKeys[ev.Key()]; ok {
		return Event{Type: Key, Name: name}
	}
	return Event{Type: Invalid}
}
