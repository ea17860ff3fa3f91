// Package theme parses a `--color` spec into a Theme: an optional base
// palette keyword (dark/light/16/bw) followed by comma-separated
// `field:value[:attr...]` overrides. Grounded on tui.go's ColorTheme
// struct and its Dark256/Light256/Default16/EmptyTheme presets for the
// sixteen color slots, and on options.go's parseTheme for the color
// grammar (base keyword detection, color-name/hex/ANSI-256-index
// parsing, and the text-attribute modifiers chained after a color with
// `:`) — options.go's ColorTheme there carries a color+attribute pair
// per slot rather than this snapshot's plain color, so Spec below keeps
// that richer pair without inventing fields ColorTheme never had.
package theme

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Undefined marks a slot that was never set and should fall back to
// whatever the terminal (or a less specific slot) already shows; tcell
// has no separate "unset" color so, like Color itself, it's represented
// as tcell.ColorDefault.
const Undefined = tcell.ColorDefault

// Spec is one theme slot: a color plus the text attributes chained onto
// it in the color string (e.g. "fg+:222:bold:underline").
type Spec struct {
	Color tcell.Color
	Attr  tcell.AttrMask
}

// Theme holds every themable color slot this renderer understands.
type Theme struct {
	Fg, Bg                 Spec
	PreviewFg, PreviewBg   Spec
	DarkBg                 Spec // current-bg / bg+
	Gutter                 Spec
	Prompt                 Spec
	Match                  Spec // hl
	Current                Spec // current-fg / fg+
	CurrentMatch           Spec // current-hl / hl+
	Spinner                Spec
	Info                   Spec
	Cursor                 Spec // pointer
	Selected               Spec
	Header                 Spec
	Border                 Spec
}

func undefinedTheme() Theme {
	u := Spec{Color: Undefined}
	return Theme{Fg: u, Bg: u, PreviewFg: u, PreviewBg: u, DarkBg: u, Gutter: u,
		Prompt: u, Match: u, Current: u, CurrentMatch: u, Spinner: u, Info: u,
		Cursor: u, Selected: u, Header: u, Border: u}
}

// EmptyTheme has every slot Undefined, for a terminal rendering with no
// forced color scheme.
func EmptyTheme() Theme { return undefinedTheme() }

// NoColorTheme has every slot tcell.ColorDefault — the `bw`/`no` base.
func NoColorTheme() Theme { return undefinedTheme() }

func p(n int) Spec { return Spec{Color: tcell.PaletteColor(n)} }

// Default16Theme is the `16`/`base16` preset: plain ANSI colors only.
func Default16Theme() Theme {
	return Theme{
		Fg: Spec{Color: tcell.ColorDefault}, Bg: Spec{Color: tcell.ColorDefault},
		PreviewFg: Spec{Color: Undefined}, PreviewBg: Spec{Color: Undefined},
		DarkBg: p(0), Gutter: Spec{Color: Undefined},
		Prompt: p(4), Match: p(2), Current: p(3), CurrentMatch: p(2),
		Spinner: p(2), Info: p(7), Cursor: p(1), Selected: p(5),
		Header: p(6), Border: p(0),
	}
}

// Dark256Theme is the `dark` preset: 256-color palette tuned for dark
// backgrounds.
func Dark256Theme() Theme {
	return Theme{
		Fg: Spec{Color: tcell.ColorDefault}, Bg: Spec{Color: tcell.ColorDefault},
		PreviewFg: Spec{Color: Undefined}, PreviewBg: Spec{Color: Undefined},
		DarkBg: p(236), Gutter: Spec{Color: Undefined},
		Prompt: p(110), Match: p(108), Current: p(254), CurrentMatch: p(151),
		Spinner: p(148), Info: p(144), Cursor: p(161), Selected: p(168),
		Header: p(109), Border: p(59),
	}
}

// Light256Theme is the `light` preset: 256-color palette tuned for
// light backgrounds.
func Light256Theme() Theme {
	return Theme{
		Fg: Spec{Color: tcell.ColorDefault}, Bg: Spec{Color: tcell.ColorDefault},
		PreviewFg: Spec{Color: Undefined}, PreviewBg: Spec{Color: Undefined},
		DarkBg: p(251), Gutter: Spec{Color: Undefined},
		Prompt: p(25), Match: p(66), Current: p(237), CurrentMatch: p(23),
		Spinner: p(65), Info: p(101), Cursor: p(161), Selected: p(168),
		Header: p(31), Border: p(145),
	}
}

var namedColors = map[string]int{
	"black": 0, "red": 1, "green": 2, "yellow": 3, "blue": 4, "magenta": 5,
	"cyan": 6, "white": 7,
	"bright-black": 8, "gray": 8, "grey": 8,
	"bright-red": 9, "bright-green": 10, "bright-yellow": 11,
	"bright-blue": 12, "bright-magenta": 13, "bright-cyan": 14, "bright-white": 15,
}

var attrKeywords = map[string]tcell.AttrMask{
	"bold": tcell.AttrBold, "strong": tcell.AttrBold,
	"dim":           tcell.AttrDim,
	"italic":        tcell.AttrItalic,
	"underline":     tcell.AttrUnderline,
	"blink":         tcell.AttrBlink,
	"reverse":       tcell.AttrReverse,
	"strikethrough": tcell.AttrStrikeThrough,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var slotNames = map[string]func(*Theme) *Spec{
	"fg":         func(t *Theme) *Spec { return &t.Fg },
	"bg":         func(t *Theme) *Spec { return &t.Bg },
	"preview-fg": func(t *Theme) *Spec { return &t.PreviewFg },
	"preview-bg": func(t *Theme) *Spec { return &t.PreviewBg },
	"bg+":        func(t *Theme) *Spec { return &t.DarkBg },
	"current-bg": func(t *Theme) *Spec { return &t.DarkBg },
	"gutter":     func(t *Theme) *Spec { return &t.Gutter },
	"prompt":     func(t *Theme) *Spec { return &t.Prompt },
	"hl":         func(t *Theme) *Spec { return &t.Match },
	"fg+":        func(t *Theme) *Spec { return &t.Current },
	"current-fg": func(t *Theme) *Spec { return &t.Current },
	"hl+":        func(t *Theme) *Spec { return &t.CurrentMatch },
	"current-hl": func(t *Theme) *Spec { return &t.CurrentMatch },
	"spinner":    func(t *Theme) *Spec { return &t.Spinner },
	"info":       func(t *Theme) *Spec { return &t.Info },
	"pointer":    func(t *Theme) *Spec { return &t.Cursor },
	"selected":   func(t *Theme) *Spec { return &t.Selected },
	"header":     func(t *Theme) *Spec { return &t.Header },
	"border":     func(t *Theme) *Spec { return &t.Border },
}

// Parse parses a --color spec string against base (the theme already in
// effect, e.g. from an earlier --color flag), returning the updated
// Theme.
func Parse(base Theme, spec string) (Theme, error) {
	theme := base
	splitter := regexp.MustCompile(`[\s,]+`)
	for _, token := range splitter.Split(strings.ToLower(spec), -1) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		switch token {
		case "dark":
			theme = Dark256Theme()
		case "light":
			theme = Light256Theme()
		case "base16", "16":
			theme = Default16Theme()
		case "bw", "no":
			theme = NoColorTheme()
		default:
			if err := applyOverride(&theme, token); err != nil {
				return base, err
			}
		}
	}
	return theme, nil
}

func applyOverride(theme *Theme, token string) error {
	parts := strings.Split(token, ":")
	if len(parts) < 2 {
		return errors.New("invalid color specification: " + token)
	}
	slotFn, ok := slotNames[parts[0]]
	if !ok {
		return errors.New("invalid color specification: " + token)
	}
	slot := slotFn(theme)
	for _, component := range parts[1:] {
		if component == "" {
			continue
		}
		if attr, ok := attrKeywords[component]; ok {
			slot.Attr |= attr
			continue
		}
		if n, ok := namedColors[component]; ok {
			slot.Color = tcell.PaletteColor(n)
			continue
		}
		if hexColor.MatchString(component) {
			slot.Color = HexToColor(component)
			continue
		}
		n, err := strconv.Atoi(component)
		if err != nil || n < -1 || n > 255 {
			return errors.New("invalid color specification: " + token)
		}
		if n == -1 {
			slot.Color = tcell.ColorDefault
		} else {
			slot.Color = tcell.PaletteColor(n)
		}
	}
	return nil
}

// HexToColor parses a "#rrggbb" string into a truecolor tcell.Color.
func HexToColor(rrggbb string) tcell.Color {
	r, _ := strconv.ParseInt(rrggbb[1:3], 16, 32)
	g, _ := strconv.ParseInt(rrggbb[3:5], 16, 32)
	b, _ := strconv.ParseInt(rrggbb[5:7], 16, 32)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Downsample finds the closest of the 256 xterm palette entries to a
// truecolor Color, for terminals reporting no truecolor support. Uses
// go-colorful's CIE94 perceptual distance rather than naive RGB
// Euclidean distance, since equal RGB deltas are not equally visible
// across the color space.
func Downsample(col tcell.Color) tcell.Color {
	if col == tcell.ColorDefault {
		return col
	}
	r, g, b := col.RGB()
	target, ok := colorful.MakeColor(rgbColor{r, g, b})
	if !ok {
		return col
	}
	best := 0
	bestDist := 1e9
	for i := 0; i < 256; i++ {
		pr, pg, pb := tcell.PaletteColor(i).RGB()
		candidate, ok := colorful.MakeColor(rgbColor{pr, pg, pb})
		if !ok {
			continue
		}
		if d := target.DistanceCIE94(candidate); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return tcell.PaletteColor(best)
}

// rgbColor adapts tcell's int32 RGB triple to color.Color so go-colorful
// can operate on it directly.
type rgbColor struct{ r, g, b int32 }

func (c rgbColor) RGBA() (r, g, b, a uint32) {
	r = uint32(c.r) * 0x101
	g = uint32(c.g) * 0x101
	b = uint32(c.b) * 0x101
	a = 0xffff
	return
}
