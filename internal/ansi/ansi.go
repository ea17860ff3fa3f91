// Package ansi strips ANSI CSI/SGR escape sequences from ingested lines and
// records the foreground, background and text-attribute state that was in
// effect over each remaining run of characters. The side table it produces
// is expressed directly in tcell/v2 color and attribute types so the
// renderer can apply it without an intermediate translation step.
package ansi

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// State is the SGR state (colors + attributes) in effect at some point in
// the stream.
type State struct {
	Fg   tcell.Color
	Bg   tcell.Color
	Attr tcell.AttrMask
}

// Colored reports whether State carries anything a renderer needs to apply.
func (s *State) Colored() bool {
	return s.Fg != tcell.ColorDefault || s.Bg != tcell.ColorDefault || s.Attr != tcell.AttrNone
}

func (s *State) equals(t *State) bool {
	if t == nil {
		return !s.Colored()
	}
	return s.Fg == t.Fg && s.Bg == t.Bg && s.Attr == t.Attr
}

// Segment ties a [begin,end) rune-offset span of the trimmed output to the
// State that was active over it.
type Segment struct {
	Offset [2]int32
	State  State
}

var ansiRegex = regexp.MustCompile("(?:\x1b[\\[()][0-9;]*[a-zA-Z@]|\x1b.|[\x0e\x0f]|.\x08)")

func findAnsiStart(str string) int {
	idx := 0
	for ; idx < len(str); idx++ {
		b := str[idx]
		if b == 0x1b || b == 0x0e || b == 0x0f {
			return idx
		}
		if b == 0x08 && idx > 0 {
			return idx - 1
		}
	}
	return idx
}

// Extract strips ANSI escape sequences from str, returning the visible text
// plus the color/attribute segments that applied to it. prevState carries
// state left over from a previous call over the same logical stream (nil
// for a fresh one); proc, if non-nil, is invoked with each visible run and
// the state active over it as extraction proceeds, and extraction aborts
// early if it returns false. Multi-byte UTF-8 runes are never split: the
// regex only ever matches whole escape sequences or single trailing bytes,
// so scanning resumes strictly between codepoints.
func Extract(str string, prevState *State, proc func(string, *State) bool) (string, []Segment, *State) {
	var offsets []Segment
	var output bytes.Buffer

	state := prevState
	if state != nil {
		offsets = append(offsets, Segment{[2]int32{0, 0}, *state})
	}

	prevIdx := 0
	runeCount := 0
	for idx := 0; idx < len(str); {
		idx += findAnsiStart(str[idx:])
		if idx == len(str) {
			break
		}

		loc := ansiRegex.FindStringIndex(str[idx:])
		if len(loc) < 2 {
			idx++
			continue
		}
		loc[0] += idx
		loc[1] += idx
		idx = loc[1]

		prev := str[prevIdx:loc[0]]
		if proc != nil && !proc(prev, state) {
			return "", nil, nil
		}

		prevIdx = loc[1]
		runeCount += utf8.RuneCountInString(prev)
		output.WriteString(prev)

		newState := interpretCode(str[loc[0]:loc[1]], state)
		if !newState.equals(state) {
			if state != nil {
				offsets[len(offsets)-1].Offset[1] = int32(runeCount)
			}
			if newState.Colored() {
				state = newState
				offsets = append(offsets, Segment{[2]int32{int32(runeCount), int32(runeCount)}, *state})
			} else {
				state = nil
			}
		}
	}

	var rest, trimmed string
	if prevIdx == 0 {
		rest = str
		trimmed = str
	} else {
		rest = str[prevIdx:]
		output.WriteString(rest)
		trimmed = output.String()
	}
	if len(rest) > 0 && state != nil {
		runeCount += utf8.RuneCountInString(rest)
		offsets[len(offsets)-1].Offset[1] = int32(runeCount)
	}
	if proc != nil {
		proc(rest, state)
	}
	if len(offsets) == 0 {
		return trimmed, nil, state
	}
	return trimmed, offsets, state
}

func paletteColor(n int) tcell.Color {
	if n < 0 {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(n)
}

func interpretCode(code string, prev *State) *State {
	var state *State
	if prev == nil {
		state = &State{Fg: tcell.ColorDefault, Bg: tcell.ColorDefault, Attr: tcell.AttrNone}
	} else {
		state = &State{Fg: prev.Fg, Bg: prev.Bg, Attr: prev.Attr}
	}
	if code[0] != '\x1b' || code[1] != '[' || code[len(code)-1] != 'm' {
		return state
	}

	ptr := &state.Fg
	phase := 0
	var rgb struct{ r, g, b int }

	reset := func() {
		state.Fg = tcell.ColorDefault
		state.Bg = tcell.ColorDefault
		state.Attr = tcell.AttrNone
		phase = 0
	}

	body := code[2 : len(code)-1]
	if len(body) == 0 {
		reset()
	}
	for _, field := range strings.Split(body, ";") {
		num, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		switch phase {
		case 0:
			switch num {
			case 38:
				ptr = &state.Fg
				phase = 1
			case 48:
				ptr = &state.Bg
				phase = 1
			case 39:
				state.Fg = tcell.ColorDefault
			case 49:
				state.Bg = tcell.ColorDefault
			case 1:
				state.Attr |= tcell.AttrBold
			case 2:
				state.Attr |= tcell.AttrDim
			case 3:
				state.Attr |= tcell.AttrItalic
			case 4:
				state.Attr |= tcell.AttrUnderline
			case 5:
				state.Attr |= tcell.AttrBlink
			case 7:
				state.Attr |= tcell.AttrReverse
			case 0:
				reset()
			default:
				if num >= 30 && num <= 37 {
					state.Fg = paletteColor(num - 30)
				} else if num >= 40 && num <= 47 {
					state.Bg = paletteColor(num - 40)
				} else if num >= 90 && num <= 97 {
					state.Fg = paletteColor(num - 90 + 8)
				} else if num >= 100 && num <= 107 {
					state.Bg = paletteColor(num - 100 + 8)
				}
			}
		case 1:
			switch num {
			case 2:
				phase = 10 // truecolor: r;g;b follow
			case 5:
				phase = 2 // 256-color palette index follows
			default:
				phase = 0
			}
		case 2:
			*ptr = paletteColor(num)
			phase = 0
		case 10:
			rgb.r = num
			phase = 11
		case 11:
			rgb.g = num
			phase = 12
		case 12:
			rgb.b = num
			*ptr = tcell.NewRGBColor(int32(rgb.r), int32(rgb.g), int32(rgb.b))
			phase = 0
		}
	}
	if phase > 0 && phase != 10 {
		*ptr = tcell.ColorDefault
	}
	return state
}
