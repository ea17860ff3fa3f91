package action

import "strings"

// splitOutsideParens splits s on sep, ignoring any sep byte nested inside
// a parenthesized action argument (so a --bind value's commas don't
// fracture an execute(...) argument that itself contains a comma).
func splitOutsideParens(s string, sep byte) []string {
	depth := 0
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// Keymap maps a canonical, lowercase key-chord name (as produced by the
// input layer: "ctrl-c", "alt-bs", "up", "btab", or a single printable
// rune) to the chain of Actions it triggers.
type Keymap map[string][]Action

// Clone returns a shallow copy, so a per-session keymap can start from
// DefaultKeymap and be mutated by --bind without aliasing the default.
func (k Keymap) Clone() Keymap {
	out := make(Keymap, len(k))
	for key, actions := range k {
		out[key] = actions
	}
	return out
}

// ParseBind applies one --bind argument's comma-separated
// `key:action[+action...]` pairs to keymap, in order (a later pair for
// the same key replaces the earlier one, matching repeated --bind flags
// and repeated keys within one flag alike).
func ParseBind(keymap Keymap, spec string) error {
	for _, pairStr := range splitOutsideParens(spec, ',') {
		if pairStr == "" {
			continue
		}
		colon := strings.IndexByte(pairStr, ':')
		if colon < 0 {
			return &InvalidBindError{Spec: pairStr}
		}
		keyName := strings.TrimSpace(pairStr[:colon])
		if keyName == "" {
			return &InvalidBindError{Spec: pairStr}
		}
		actions, err := ParseActionList(pairStr[colon+1:])
		if err != nil {
			return err
		}
		keymap[strings.ToLower(keyName)] = actions
	}
	return nil
}

// InvalidBindError reports a --bind pair missing its ':action' half.
type InvalidBindError struct{ Spec string }

func (e *InvalidBindError) Error() string { return "invalid bind: " + e.Spec }

// DefaultKeymap returns the built-in key bindings every session starts
// from, before any --bind overrides are applied. Grounded on
// terminal.go's defaultKeymap, adapted to canonical key-name strings
// since this package has no dependency on a concrete terminal/input
// layer.
func DefaultKeymap() Keymap {
	km := make(Keymap, 48)
	bind := func(key string, types ...Type) {
		actions := make([]Action, len(types))
		for i, t := range types {
			actions[i] = simple(t)
		}
		km[key] = actions
	}

	bind("ctrl-c", Abort)
	bind("ctrl-g", Abort)
	bind("ctrl-q", Abort)
	bind("esc", Abort)

	bind("ctrl-a", BeginningOfLine)
	bind("ctrl-e", EndOfLine)
	bind("ctrl-b", BackwardChar)
	bind("ctrl-f", ForwardChar)
	bind("ctrl-h", BackwardDeleteChar)
	bspace := "bspace"
	bind(bspace, BackwardDeleteChar)
	bind("ctrl-d", DeleteCharEOF)
	bind("ctrl-u", UnixLineDiscard)
	bind("ctrl-w", UnixWordRubout)
	bind("ctrl-l", ClearScreen)

	bind("tab", Toggle, Down)
	bind("btab", Toggle, Up)
	bind("ctrl-j", Down)
	bind("ctrl-n", Down)
	bind("down", Down)
	bind("ctrl-k", Up)
	bind("ctrl-p", Up)
	bind("up", Up)
	bind("ctrl-m", Accept)
	bind("enter", Accept)

	bind("alt-b", BackwardWord)
	bind("shift-left", BackwardWord)
	bind("alt-f", ForwardWord)
	bind("shift-right", ForwardWord)
	bind("alt-d", KillWord)
	bind("alt-bs", BackwardKillWord)

	bind("left", BackwardChar)
	bind("right", ForwardChar)
	bind("home", BeginningOfLine)
	bind("end", EndOfLine)
	bind("del", DeleteChar)
	bind("pgup", PageUp)
	bind("pgdn", PageDown)

	bind("double-click", Accept)
	bind("right-click", Toggle)

	return km
}
