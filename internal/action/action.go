// Package action names the dispatcher's vocabulary: the fixed set of
// actions a key or mouse event can trigger, how a `--bind` value's
// `action[+action...]` chain (and an action's own `(...)` argument, for
// the handful of actions that take one) parses into a slice of Action
// values, and the default keymap every binding starts from. Grounded on
// terminal.go's actionType enum, toActions/defaultKeymap and
// options.go's parseSingleActionList/parseActionList.
package action

import "strings"

// Type names one dispatchable action.
type Type int

const (
	// Ignore/Invalid/Rune/Mouse are not binding-expressible by name; they
	// carry a raw key/mouse event through the same Action pipeline a
	// named binding uses, so the controller has one dispatch path for
	// both.
	Ignore Type = iota
	Invalid
	Rune
	Mouse

	// Cursor & selection
	Up
	Down
	PageUp
	PageDown
	HalfPageUp
	HalfPageDown
	Toggle
	SelectAll
	DeselectAll
	ToggleAll

	// Query editing
	BeginningOfLine
	EndOfLine
	BackwardChar
	ForwardChar
	BackwardWord
	ForwardWord
	BackwardDeleteChar
	DeleteChar
	DeleteCharEOF
	KillLine
	KillWord
	BackwardKillWord
	UnixLineDiscard
	UnixWordRubout
	ClearScreen

	// Modes
	RotateMode
	ToggleSort
	ToggleInteractive
	TogglePreview
	TogglePreviewWrap
	IfQueryEmpty
	IfQueryNotEmpty
	IfNonMatched

	// External
	Execute
	ExecuteSilent
	Preview
	RefreshCmd
	RefreshPreview
	AppendAndSelect

	// Exit
	Accept
	Abort
)

// Action is one dispatchable step: a Type, its literal argument for the
// handful of types that take one (Execute/ExecuteSilent/Preview take a
// shell command template; RefreshCmd takes a replacement reload command),
// and a nested action chain for the three conditional types
// (IfQueryEmpty/IfQueryNotEmpty/IfNonMatched), which run Then when their
// condition holds and do nothing otherwise.
type Action struct {
	Type Type
	Arg  string
	Then []Action
}

func simple(t Type) Action { return Action{Type: t} }

// splitTopLevel splits spec on '+', except for '+' characters that occur
// inside a parenthesized argument (so "execute(echo a+b)+abort" splits
// into ["execute(echo a+b)", "abort"], not four pieces).
func splitTopLevel(spec string) []string {
	depth := 0
	var parts []string
	start := 0
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '+':
			if depth == 0 {
				parts = append(parts, spec[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, spec[start:])
	return parts
}

// ParseActionList parses one `--bind key:spec` value's right-hand side
// into the chain of Actions it names.
func ParseActionList(spec string) ([]Action, error) {
	parts := splitTopLevel(spec)
	actions := make([]Action, 0, len(parts))
	for _, part := range parts {
		a, err := parseOne(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func parseOne(part string) (Action, error) {
	name := part
	arg := ""
	hasArg := false
	if open := strings.IndexByte(part, '('); open >= 0 && strings.HasSuffix(part, ")") {
		name = part[:open]
		arg = part[open+1 : len(part)-1]
		hasArg = true
	}
	lname := strings.ToLower(name)

	switch lname {
	case "up":
		return simple(Up), nil
	case "down":
		return simple(Down), nil
	case "page-up":
		return simple(PageUp), nil
	case "page-down":
		return simple(PageDown), nil
	case "half-page-up":
		return simple(HalfPageUp), nil
	case "half-page-down":
		return simple(HalfPageDown), nil
	case "toggle":
		return simple(Toggle), nil
	case "select-all":
		return simple(SelectAll), nil
	case "deselect-all":
		return simple(DeselectAll), nil
	case "toggle-all":
		return simple(ToggleAll), nil
	case "beginning-of-line":
		return simple(BeginningOfLine), nil
	case "end-of-line":
		return simple(EndOfLine), nil
	case "backward-char":
		return simple(BackwardChar), nil
	case "forward-char":
		return simple(ForwardChar), nil
	case "backward-word":
		return simple(BackwardWord), nil
	case "forward-word":
		return simple(ForwardWord), nil
	case "backward-delete-char":
		return simple(BackwardDeleteChar), nil
	case "delete-char":
		return simple(DeleteChar), nil
	case "delete-chareof", "delete-char/eof":
		return simple(DeleteCharEOF), nil
	case "kill-line":
		return simple(KillLine), nil
	case "kill-word":
		return simple(KillWord), nil
	case "backward-kill-word":
		return simple(BackwardKillWord), nil
	case "unix-line-discard":
		return simple(UnixLineDiscard), nil
	case "unix-word-rubout":
		return simple(UnixWordRubout), nil
	case "clear-screen":
		return simple(ClearScreen), nil
	case "rotate-mode":
		return simple(RotateMode), nil
	case "toggle-sort":
		return simple(ToggleSort), nil
	case "toggle-interactive":
		return simple(ToggleInteractive), nil
	case "toggle-preview":
		return simple(TogglePreview), nil
	case "toggle-preview-wrap":
		return simple(TogglePreviewWrap), nil
	case "execute":
		return actionWithArg(Execute, arg, hasArg, "execute")
	case "execute-silent":
		return actionWithArg(ExecuteSilent, arg, hasArg, "execute-silent")
	case "preview":
		return actionWithArg(Preview, arg, hasArg, "preview")
	case "refresh-cmd":
		return simple(RefreshCmd), nil
	case "refresh-preview":
		return simple(RefreshPreview), nil
	case "append-and-select":
		return simple(AppendAndSelect), nil
	case "accept":
		return simple(Accept), nil
	case "abort":
		return simple(Abort), nil
	case "if-query-empty":
		return conditional(IfQueryEmpty, arg, hasArg, "if-query-empty")
	case "if-query-not-empty":
		return conditional(IfQueryNotEmpty, arg, hasArg, "if-query-not-empty")
	case "if-non-matched":
		return conditional(IfNonMatched, arg, hasArg, "if-non-matched")
	default:
		return Action{}, &UnknownActionError{Name: part}
	}
}

func actionWithArg(t Type, arg string, hasArg bool, name string) (Action, error) {
	if !hasArg {
		return Action{}, &MissingArgError{Name: name}
	}
	return Action{Type: t, Arg: arg}, nil
}

func conditional(t Type, arg string, hasArg bool, name string) (Action, error) {
	if !hasArg {
		return Action{}, &MissingArgError{Name: name}
	}
	then, err := ParseActionList(arg)
	if err != nil {
		return Action{}, err
	}
	return Action{Type: t, Then: then}, nil
}

// UnknownActionError reports a --bind action name with no known meaning.
type UnknownActionError struct{ Name string }

func (e *UnknownActionError) Error() string { return "unknown action: " + e.Name }

// MissingArgError reports an action that requires a "(...)" argument but
// was given none.
type MissingArgError struct{ Name string }

func (e *MissingArgError) Error() string { return "action requires an argument: " + e.Name }
