package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lotabout/skim/internal/theme"
)

func TestStyleOfAppliesColorAndAttributes(t *testing.T) {
	sp := theme.Spec{Color: tcell.ColorRed, Attr: tcell.AttrBold | tcell.AttrUnderline}
	style := StyleOf(sp)
	fg, _, attrs := style.Decompose()
	if fg != tcell.ColorRed {
		t.Errorf("expected foreground red, got %v", fg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute to carry through")
	}
	if attrs&tcell.AttrUnderline == 0 {
		t.Error("expected underline attribute to carry through")
	}
}

func TestMakeBorderStyleAscii(t *testing.T) {
	s := MakeBorderStyle(BorderRounded, false)
	if s.Horizontal != '-' || s.TopLeft != '+' {
		t.Errorf("expected ASCII border runes, got %+v", s)
	}
}

func TestMakeBorderStyleRoundedUnicode(t *testing.T) {
	s := MakeBorderStyle(BorderRounded, true)
	if s.TopLeft != '╭' || s.TopRight != '╮' {
		t.Errorf("expected rounded corners, got %+v", s)
	}
}

func TestMakeBorderStyleSharpUnicode(t *testing.T) {
	s := MakeBorderStyle(BorderSharp, true)
	if s.TopLeft != '┌' {
		t.Errorf("expected sharp corner, got %q", s.TopLeft)
	}
}
