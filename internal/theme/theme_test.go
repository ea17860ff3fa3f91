package theme

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestParseBasePaletteKeyword(t *testing.T) {
	th, err := Parse(EmptyTheme(), "dark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Dark256Theme()
	if th.Prompt.Color != want.Prompt.Color {
		t.Errorf("expected dark preset prompt color %v, got %v", want.Prompt.Color, th.Prompt.Color)
	}
}

func TestParseNamedColorOverride(t *testing.T) {
	th, err := Parse(Dark256Theme(), "fg+:red")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Current.Color != tcell.PaletteColor(1) {
		t.Errorf("expected fg+ override to red, got %v", th.Current.Color)
	}
}

func TestParseHexColorOverride(t *testing.T) {
	th, err := Parse(EmptyTheme(), "bg:#112233")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := HexToColor("#112233")
	if th.Bg.Color != want {
		t.Errorf("expected hex color %v, got %v", want, th.Bg.Color)
	}
}

func TestParseNumericAnsi256Override(t *testing.T) {
	th, err := Parse(EmptyTheme(), "border:59")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Border.Color != tcell.PaletteColor(59) {
		t.Errorf("expected border color palette 59, got %v", th.Border.Color)
	}
}

func TestParseNumericNegativeOneIsDefault(t *testing.T) {
	th, err := Parse(Dark256Theme(), "fg:-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Fg.Color != tcell.ColorDefault {
		t.Errorf("expected fg -1 to resolve to the terminal default, got %v", th.Fg.Color)
	}
}

func TestParseAttributeModifiers(t *testing.T) {
	th, err := Parse(EmptyTheme(), "header:220:bold:underline")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Header.Color != tcell.PaletteColor(220) {
		t.Fatalf("expected header color palette 220, got %v", th.Header.Color)
	}
	if th.Header.Attr&tcell.AttrBold == 0 {
		t.Error("expected bold attribute to be set")
	}
	if th.Header.Attr&tcell.AttrUnderline == 0 {
		t.Error("expected underline attribute to be set")
	}
}

func TestParseMultipleComponentsCommaSeparated(t *testing.T) {
	th, err := Parse(EmptyTheme(), "dark,fg+:red,hl:green")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if th.Current.Color != tcell.PaletteColor(1) {
		t.Errorf("expected fg+ override, got %v", th.Current.Color)
	}
	if th.Match.Color != tcell.PaletteColor(2) {
		t.Errorf("expected hl override, got %v", th.Match.Color)
	}
}

func TestParseUnknownSlotIsError(t *testing.T) {
	if _, err := Parse(EmptyTheme(), "bogus:red"); err == nil {
		t.Fatal("expected an error for an unknown slot name")
	}
}

func TestParseOutOfRangeAnsiIsError(t *testing.T) {
	if _, err := Parse(EmptyTheme(), "fg:999"); err == nil {
		t.Fatal("expected an error for an out-of-range ANSI color index")
	}
}

func TestDownsamplePreservesDefault(t *testing.T) {
	if got := Downsample(tcell.ColorDefault); got != tcell.ColorDefault {
		t.Errorf("expected default color to pass through unchanged, got %v", got)
	}
}

func TestDownsampleFindsExactPaletteMatch(t *testing.T) {
	exact := tcell.PaletteColor(208)
	r, g, b := exact.RGB()
	truecolor := tcell.NewRGBColor(r, g, b)
	if got := Downsample(truecolor); got != exact {
		t.Errorf("expected downsampling an exact palette RGB to return palette index 208, got %v", got)
	}
}
