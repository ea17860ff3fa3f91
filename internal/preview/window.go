// Package preview manages the optional preview pane: parsing its window
// spec, substituting `{}`-style placeholders in the preview command, and
// running the resulting shell command as a debounced, cancellable
// subprocess. Grounded on options.go's previewOpts/parsePreviewWindowImpl
// for the window spec and terminal.go's quoteEntry/parsePlaceholder/
// replacePlaceholder/preview goroutine for everything downstream of it.
package preview

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lotabout/skim/internal/util"
)

// Position names which screen edge the preview pane is docked to.
type Position int

const (
	PosUp Position = iota
	PosDown
	PosLeft
	PosRight
)

// Size is a window dimension: either an absolute number of cells or a
// percentage of the available space.
type Size struct {
	Cells   float64
	Percent bool
}

// Window holds one parsed --preview-window spec, including the optional
// conditional "alternative" layout entered when Threshold lines don't fit
// (the `<N(...)` syntax).
type Window struct {
	Position    Position
	Size        Size
	Scroll      string // raw offset expression, evaluated against the preview content at render time
	Hidden      bool
	Wrap        bool
	Cycle       bool
	Follow      bool
	Info        bool
	HeaderLines int
	Threshold   int
	Alternative *Window
}

// Visible reports whether the preview pane (or its alternative layout)
// is currently toggled on and occupies any space at all.
func (w *Window) Visible() bool {
	if w.Hidden {
		return false
	}
	return w.Size.Cells > 0 || (w.Alternative != nil && w.Alternative.Size.Cells > 0)
}

// Toggle flips the pane's hidden state, as driven by the toggle-preview
// action.
func (w *Window) Toggle() {
	w.Hidden = !w.Hidden
}

// DefaultWindow is the preview pane's layout before any --preview-window
// spec has been applied.
func DefaultWindow() Window {
	return Window{Position: PosRight, Size: Size{50, true}, Info: true}
}

var (
	windowTokenRegex  = regexp.MustCompile(`[:,]*(<([1-9][0-9]*)\(([^)<]+)\)|[^,:]+)`)
	windowSizeRegex   = regexp.MustCompile(`^[0-9]+%?$`)
	windowScrollRegex = regexp.MustCompile(`^(\+\{(-?[0-9]+|n)\})?([+-][0-9]+)*(-?/[1-9][0-9]*)?$`)
	windowHeaderRegex = regexp.MustCompile(`^~(0|[1-9][0-9]*)$`)
)

// ParseWindow parses a --preview-window argument, e.g. "right:60%:wrap" or
// "up:40%:hidden" or "right:70%,<80(up:40%)" (the latter switches to the
// parenthesized layout once the pane is narrower than 80 columns).
func ParseWindow(input string) (Window, error) {
	w := DefaultWindow()
	err := parseWindowInto(&w, input)
	return w, err
}

func parseWindowInto(w *Window, input string) error {
	tokens := windowTokenRegex.FindAllStringSubmatch(input, -1)
	var alternative string
	for _, m := range tokens {
		if len(m[2]) > 0 {
			threshold, err := strconv.Atoi(m[2])
			if err != nil {
				return err
			}
			w.Threshold = threshold
			alternative = m[3]
			continue
		}
		token := m[1]
		switch token {
		case "":
		case "default":
			*w = DefaultWindow()
		case "hidden":
			w.Hidden = true
		case "nohidden":
			w.Hidden = false
		case "wrap":
			w.Wrap = true
		case "nowrap":
			w.Wrap = false
		case "cycle":
			w.Cycle = true
		case "nocycle":
			w.Cycle = false
		case "up", "top":
			w.Position = PosUp
		case "down", "bottom":
			w.Position = PosDown
		case "left":
			w.Position = PosLeft
		case "right":
			w.Position = PosRight
		case "follow":
			w.Follow = true
		case "nofollow":
			w.Follow = false
		case "info":
			w.Info = true
		case "noinfo":
			w.Info = false
		default:
			switch {
			case windowHeaderRegex.MatchString(token):
				n, err := strconv.Atoi(token[1:])
				if err != nil {
					return err
				}
				w.HeaderLines = n
			case windowSizeRegex.MatchString(token):
				size, err := parseWindowSize(token)
				if err != nil {
					return err
				}
				w.Size = size
			case windowScrollRegex.MatchString(token):
				w.Scroll = token
			default:
				return errors.New("invalid preview window option: " + token)
			}
		}
	}
	if len(alternative) > 0 {
		alt := *w
		w.Alternative = &alt
		w.Alternative.Hidden = false
		w.Alternative.Alternative = nil
		return parseWindowInto(w.Alternative, alternative)
	}
	return nil
}

func parseWindowSize(token string) (Size, error) {
	percent := strings.HasSuffix(token, "%")
	digits := token
	if percent {
		digits = token[:len(token)-1]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Size{}, err
	}
	if n < 0 {
		return Size{}, fmt.Errorf("window size must be non-negative")
	}
	if percent && n > 99 {
		return Size{}, fmt.Errorf("window size too large (max: 99%%)")
	}
	return Size{float64(n), percent}, nil
}

// ResolveScroll evaluates a parsed Scroll expression against the
// zero-based current line and the preview's total/visible line counts,
// returning the scroll offset to apply. Grounded on the `+{N}`, `+{n}`,
// trailing `+N`/`-N` and `/D` (divide remaining space) grammar accepted
// by windowScrollRegex.
func ResolveScroll(expr string, currentLine, total, visible int) int {
	if expr == "" {
		return 0
	}
	base := 0
	rest := expr
	if strings.HasPrefix(rest, "+{") {
		end := strings.IndexByte(rest, '}')
		if end > 0 {
			inner := rest[2:end]
			if inner == "n" {
				base = currentLine
			} else if v, err := strconv.Atoi(inner); err == nil {
				base = v
			}
			rest = rest[end+1:]
		}
	}
	divisor := 1
	if idx := strings.LastIndexByte(rest, '/'); idx >= 0 {
		if d, err := strconv.Atoi(rest[idx+1:]); err == nil && d > 0 {
			divisor = d
		}
		rest = rest[:idx]
	}
	offset := 0
	for _, tok := range splitSignedInts(rest) {
		offset += tok
	}
	pos := (base+offset)/divisor - visible/2
	return util.Constrain(pos, 0, util.Max(0, total-visible))
}

func splitSignedInts(s string) []int {
	var out []int
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '+' || c == '-' {
			if start >= 0 {
				if v, err := strconv.Atoi(s[start:i]); err == nil {
					out = append(out, v)
				}
			}
			start = i
		}
	}
	if start >= 0 {
		if v, err := strconv.Atoi(s[start:]); err == nil {
			out = append(out, v)
		}
	}
	return out
}
