package ansi

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestExtractColor(t *testing.T) {
	assertSeg := func(seg Segment, b, e int32, fg, bg tcell.Color, bold bool) {
		var attr tcell.AttrMask
		if bold {
			attr = tcell.AttrBold
		}
		if seg.Offset[0] != b || seg.Offset[1] != e ||
			seg.State.Fg != fg || seg.State.Bg != bg || seg.State.Attr != attr {
			t.Errorf("unexpected segment %+v (want [%d,%d) fg=%v bg=%v bold=%v)", seg, b, e, fg, bg, bold)
		}
	}

	src := "hello world"
	var state *State
	check := func(assertion func(segs []Segment, state *State)) {
		output, segs, newState := Extract(src, state, nil)
		state = newState
		if output != "hello world" {
			t.Errorf("invalid output: %q", output)
		}
		assertion(segs, state)
	}

	check(func(segs []Segment, state *State) {
		if segs != nil {
			t.Fail()
		}
	})

	state = nil
	src = "\x1b[0mhello world"
	check(func(segs []Segment, state *State) {
		if segs != nil {
			t.Fail()
		}
	})

	state = nil
	src = "\x1b[1mhello world"
	check(func(segs []Segment, state *State) {
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segs))
		}
		assertSeg(segs[0], 0, 11, tcell.ColorDefault, tcell.ColorDefault, true)
	})

	state = nil
	src = "hello \x1b[34;45;1mworld"
	check(func(segs []Segment, state *State) {
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segs))
		}
		assertSeg(segs[0], 6, 11, tcell.PaletteColor(4), tcell.PaletteColor(5), true)
	})

	state = nil
	src = "hello \x1b[34;45;1mwor\x1b[0mld"
	check(func(segs []Segment, state *State) {
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segs))
		}
		assertSeg(segs[0], 6, 9, tcell.PaletteColor(4), tcell.PaletteColor(5), true)
	})

	state = nil
	src = "hello \x1b[34;48;5;233;1mwo\x1b[38;5;161mr\x1b[0ml\x1b[38;5;161md"
	check(func(segs []Segment, state *State) {
		if len(segs) != 3 {
			t.Fatalf("expected 3 segments, got %d", len(segs))
		}
		assertSeg(segs[0], 6, 8, tcell.PaletteColor(4), tcell.PaletteColor(233), true)
		assertSeg(segs[1], 8, 9, tcell.PaletteColor(161), tcell.PaletteColor(233), true)
		assertSeg(segs[2], 10, 11, tcell.PaletteColor(161), tcell.ColorDefault, false)
	})

	state = nil
	src = "hello \x1b[38;2;10;20;30mworld"
	check(func(segs []Segment, state *State) {
		if len(segs) != 1 {
			t.Fatalf("expected 1 segment, got %d", len(segs))
		}
		want := tcell.NewRGBColor(10, 20, 30)
		assertSeg(segs[0], 6, 11, want, tcell.ColorDefault, false)
	})
}

func TestExtractNoAnsi(t *testing.T) {
	trimmed, segs, state := Extract("plain text, no escapes", nil, nil)
	if trimmed != "plain text, no escapes" {
		t.Errorf("expected passthrough, got %q", trimmed)
	}
	if segs != nil || state != nil {
		t.Error("expected no segments and no trailing state")
	}
}
