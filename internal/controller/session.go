// Package controller implements the single-threaded cooperative reactor
// that owns the session's mutable state: the compiled query, the
// selection model, the preview window, and the command-editing sub-state
// of interactive mode. Grounded on terminal.go's Terminal struct and its
// action switch inside Loop, and on core.go's Run for the overall wiring
// between reader, matcher and terminal.
//
// Session isolates the pure state-machine half of that (query editing,
// action application, mode toggles) from Controller, which adds the
// actual event sources (terminal, reader, matcher, preview) a real
// session needs. Session has no dependency on a terminal, so its
// behavior is directly testable.
package controller

import (
	"os"
	"regexp"
	"strings"

	"github.com/lotabout/skim/internal/action"
	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/config"
	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/query"
	"github.com/lotabout/skim/internal/selection"
	"github.com/lotabout/skim/internal/util"
)

// Phase names the top-level state machine position: a session moves
// from reading its source, to ready (interactively matching), to a
// terminal accepted or aborted state.
type Phase int

const (
	PhaseReading Phase = iota
	PhaseReady
	PhaseAccepted
	PhaseAborted
)

// Hooks are the side-effecting callbacks a Session defers to instead of
// doing subprocess/IO work itself, so Session stays synchronously
// testable. Controller supplies real implementations; tests supply fakes
// or leave them nil (nil hooks are no-ops).
type Hooks struct {
	Execute        func(cmdTemplate string, silent bool)
	ReloadCommand  func(newCommand string)
	RefreshPreview func()
	TogglePreview  func()
	Bell           func()
}

// Session holds every piece of mutable session state an Action can touch.
type Session struct {
	Config *config.Config
	Hooks  Hooks

	Query     []rune
	CursorPos int
	Mode      query.Mode

	CommandEditing bool
	CommandQuery   []rune
	CommandCursor  int

	Model *selection.Model

	Sort      bool
	Predicate *query.Predicate
	ParseErr  error

	PreviewHidden bool
	PreviewWrap   bool
	PreviewOutput []string

	Phase      Phase
	ExpectKey  string
	Yanked     []rune
	Revision   int
	Cancelled  *util.AtomicBool
	FuzzyAlgo  algo.Algo

	preSelected bool
}

// NewSession builds a Session from a resolved Config, ready to start
// processing events. The initial query is Config.Query (or CmdQuery, for
// interactive mode's command string), and the matcher mode/sort state
// mirror the flags that seeded them.
func NewSession(cfg *config.Config) *Session {
	s := &Session{
		Config:        cfg,
		Query:         []rune(cfg.Query),
		Mode:          cfg.Mode,
		Model:         selection.NewModel(cfg.Multi, cfg.Tac),
		Sort:          cfg.Sort,
		PreviewHidden: cfg.PreviewWindow.Hidden,
		PreviewWrap:   cfg.PreviewWindow.Wrap,
		Phase:         PhaseReading,
		FuzzyAlgo:     algo.FuzzyMatchV2,
		Cancelled:     util.NewAtomicBool(false),
	}
	s.CursorPos = len(s.Query)
	if cfg.Interactive {
		s.CommandEditing = false
		s.CommandQuery = []rune(cfg.CmdQuery)
		s.CommandCursor = len(s.CommandQuery)
	}
	return s
}

// CompilePredicate recompiles the search query (even while CommandEditing:
// a command string is never itself matched; see Dispatch's
// ToggleInteractive handling) into Predicate, recording any
// parse error (e.g. an invalid --regex pattern) in ParseErr without
// aborting the session: the prior Predicate, if any, stays in effect
// until the query becomes valid again.
func (s *Session) CompilePredicate() {
	pred, err := query.Compile(string(s.Query), s.Mode, s.Config.CasePolicy, true)
	if err != nil {
		s.ParseErr = err
		return
	}
	s.ParseErr = nil
	s.Predicate = pred
}

// activeBuffer returns the rune slice and cursor position an editing
// action should apply to: the command-query buffer during
// CommandEditing, the search-query buffer otherwise.
func (s *Session) activeBuffer() (*[]rune, *int) {
	if s.CommandEditing {
		return &s.CommandQuery, &s.CommandCursor
	}
	return &s.Query, &s.CursorPos
}

// wordStart finds the rune index of the start of the word immediately
// before pos, skipping any trailing whitespace first. Ports the intent of
// terminal.go's wordRubout-pattern reverse search without replicating its
// reversed-regex trick.
func wordStart(buf []rune, pos int) int {
	i := pos
	for i > 0 && isSpaceRune(buf[i-1]) {
		i--
	}
	for i > 0 && !isSpaceRune(buf[i-1]) {
		i--
	}
	return i
}

// wordEnd finds the rune index just past the word immediately after pos,
// skipping any leading whitespace first.
func wordEnd(buf []rune, pos int) int {
	i := pos
	for i < len(buf) && isSpaceRune(buf[i]) {
		i++
	}
	for i < len(buf) && !isSpaceRune(buf[i]) {
		i++
	}
	return i
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t'
}

// Dispatch runs one Action (and, for conditional actions, its nested
// chain) against the session. It returns true when the action ends the
// session (Accept/Abort), at which point the caller must stop processing
// the rest of the chain and exit the loop.
func (s *Session) Dispatch(act action.Action) bool {
	buf, cur := s.activeBuffer()

	switch act.Type {
	case action.Ignore, action.Invalid:
		// no-op

	case action.Rune:
		r := []rune(act.Arg)
		if len(r) == 1 {
			*buf = append((*buf)[:*cur], append([]rune{r[0]}, (*buf)[*cur:]...)...)
			*cur++
		}

	case action.Up:
		s.Model.MoveCursor(1)
	case action.Down:
		s.Model.MoveCursor(-1)
	case action.PageUp:
		s.Model.MoveCursor(10)
	case action.PageDown:
		s.Model.MoveCursor(-10)
	case action.HalfPageUp:
		s.Model.MoveCursor(5)
	case action.HalfPageDown:
		s.Model.MoveCursor(-5)

	case action.Toggle:
		if r, ok := s.Model.Current(); ok {
			s.Model.Toggle(r)
		}
	case action.SelectAll:
		s.Model.SelectAll()
	case action.DeselectAll:
		s.Model.DeselectAll()
	case action.ToggleAll:
		if s.Model.MarkedCount() > 0 {
			s.Model.DeselectAll()
		} else {
			s.Model.SelectAll()
		}

	case action.BeginningOfLine:
		*cur = 0
	case action.EndOfLine:
		*cur = len(*buf)
	case action.BackwardChar:
		if *cur > 0 {
			*cur--
		}
	case action.ForwardChar:
		if *cur < len(*buf) {
			*cur++
		}
	case action.BackwardWord:
		*cur = wordStart(*buf, *cur)
	case action.ForwardWord:
		*cur = wordEnd(*buf, *cur)
	case action.BackwardDeleteChar:
		if *cur > 0 {
			*buf = append((*buf)[:*cur-1], (*buf)[*cur:]...)
			*cur--
		}
	case action.DeleteChar:
		if *cur < len(*buf) {
			*buf = append((*buf)[:*cur], (*buf)[*cur+1:]...)
		}
	case action.DeleteCharEOF:
		if *cur < len(*buf) {
			*buf = append((*buf)[:*cur], (*buf)[*cur+1:]...)
		} else if len(*buf) == 0 {
			return true // EOF on an already-empty line aborts, like ctrl-d at a shell prompt
		}
	case action.KillLine:
		if *cur < len(*buf) {
			s.Yanked = append([]rune{}, (*buf)[*cur:]...)
			*buf = (*buf)[:*cur]
		}
	case action.KillWord:
		end := wordEnd(*buf, *cur)
		if end > *cur {
			s.Yanked = append([]rune{}, (*buf)[*cur:end]...)
			*buf = append((*buf)[:*cur], (*buf)[end:]...)
		}
	case action.BackwardKillWord:
		start := wordStart(*buf, *cur)
		if start < *cur {
			s.Yanked = append([]rune{}, (*buf)[start:*cur]...)
			*buf = append((*buf)[:start], (*buf)[*cur:]...)
			*cur = start
		}
	case action.UnixLineDiscard:
		if *cur > 0 {
			s.Yanked = append([]rune{}, (*buf)[:*cur]...)
			*buf = (*buf)[*cur:]
			*cur = 0
		}
	case action.UnixWordRubout:
		start := wordStart(*buf, *cur)
		if start < *cur {
			s.Yanked = append([]rune{}, (*buf)[start:*cur]...)
			*buf = append((*buf)[:start], (*buf)[*cur:]...)
			*cur = start
		}
	case action.ClearScreen:
		// handled by the renderer forcing a full repaint; no state change here

	case action.RotateMode:
		if s.Mode == query.ModeRegex {
			s.Mode = query.ModeFuzzy
		} else {
			s.Mode = query.ModeRegex
		}
	case action.ToggleSort:
		s.Sort = !s.Sort
	case action.ToggleInteractive:
		if s.Config.Interactive {
			s.CommandEditing = !s.CommandEditing
			if !s.CommandEditing && s.Hooks.ReloadCommand != nil {
				s.Hooks.ReloadCommand(string(s.CommandQuery))
			}
		}
	case action.TogglePreview:
		s.PreviewHidden = !s.PreviewHidden
		if s.Hooks.TogglePreview != nil {
			s.Hooks.TogglePreview()
		}
	case action.TogglePreviewWrap:
		s.PreviewWrap = !s.PreviewWrap

	case action.IfQueryEmpty:
		if len(s.Query) == 0 {
			return s.dispatchChain(act.Then)
		}
	case action.IfQueryNotEmpty:
		if len(s.Query) > 0 {
			return s.dispatchChain(act.Then)
		}
	case action.IfNonMatched:
		if s.Model.Len() == 0 {
			return s.dispatchChain(act.Then)
		}

	case action.Execute:
		if s.Hooks.Execute != nil {
			s.Hooks.Execute(act.Arg, false)
		}
	case action.ExecuteSilent:
		if s.Hooks.Execute != nil {
			s.Hooks.Execute(act.Arg, true)
		}
	case action.Preview:
		if s.Hooks.RefreshPreview != nil {
			s.Hooks.RefreshPreview()
		}
	case action.RefreshCmd:
		if s.Hooks.ReloadCommand != nil {
			s.Hooks.ReloadCommand(act.Arg)
		}
	case action.RefreshPreview:
		if s.Hooks.RefreshPreview != nil {
			s.Hooks.RefreshPreview()
		}
	case action.AppendAndSelect:
		if r, ok := s.Model.Current(); ok {
			s.Model.Select(r)
		}

	case action.Accept:
		s.Phase = PhaseAccepted
		return true
	case action.Abort:
		s.Phase = PhaseAborted
		return true
	}

	return false
}

func (s *Session) dispatchChain(chain []action.Action) bool {
	for _, a := range chain {
		if s.Dispatch(a) {
			return true
		}
	}
	return false
}

// DispatchAll runs a full --bind action chain (as produced by
// action.ParseActionList), stopping early if an action in the chain ends
// the session.
func (s *Session) DispatchAll(actions []action.Action) bool {
	return s.dispatchChain(actions)
}

// ApplyResults replaces the selection model's view with a freshly scanned
// result set, mirroring what the controller does each time a Scan
// completes and supersedes the previous one. --pre-select-n/-pat/-items/
// -file are applied once, against the first view the model ever sees,
// since they name positions/patterns in the initial unfiltered list, not
// a standing rule re-evaluated on every keystroke.
func (s *Session) ApplyResults(results []match.Result) {
	s.Model.Replace(results)
	if s.preSelected {
		return
	}
	s.preSelected = true
	s.applyPreSelect()
}

func (s *Session) applyPreSelect() {
	cfg := s.Config
	if cfg.PreSelectN > 0 {
		s.Model.PreSelectN(cfg.PreSelectN)
	}
	if cfg.PreSelectPat != "" {
		if re, err := regexp.Compile(cfg.PreSelectPat); err == nil {
			s.Model.PreSelectPattern(re)
		}
	}
	if len(cfg.PreSelectItems) > 0 || cfg.PreSelectFile != "" {
		set := make(map[string]struct{}, len(cfg.PreSelectItems))
		for _, item := range cfg.PreSelectItems {
			set[item] = struct{}{}
		}
		if cfg.PreSelectFile != "" {
			if data, err := os.ReadFile(cfg.PreSelectFile); err == nil {
				for _, line := range strings.Split(string(data), "\n") {
					line = strings.TrimSuffix(line, "\r")
					if line != "" {
						set[line] = struct{}{}
					}
				}
			}
		}
		s.Model.PreSelectSet(set)
	}
}

// FinalQuery and FinalCommandQuery render the session's editing buffers
// back to strings, for --print-query/--print-cmd output.
func (s *Session) FinalQuery() string        { return string(s.Query) }
func (s *Session) FinalCommandQuery() string { return string(s.CommandQuery) }

// trimQuery mirrors terminal.go's trimQuery: history entries and replayed
// queries are trimmed of a single trailing newline some shells leave on
// piped-in lines.
func trimQuery(s string) []rune {
	return []rune(strings.TrimSuffix(s, "\n"))
}
