// Controller wires a Session to its real event sources: the terminal, the
// item reader, the matcher pool, and the preview subprocess manager.
// Grounded on terminal.go's Loop (the multiplexed-event reactor) and
// core.go's Run (the reader/matcher/terminal wiring), using
// internal/util's EventBox the same way reference's eventBox/reqBox pairs
// do: producers Set an event, the single consumer Waits and drains
// everything pending before rendering once.
package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lotabout/skim/internal/action"
	"github.com/lotabout/skim/internal/config"
	"github.com/lotabout/skim/internal/executil"
	"github.com/lotabout/skim/internal/history"
	"github.com/lotabout/skim/internal/ingest"
	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/logging"
	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/preview"
	"github.com/lotabout/skim/internal/render"
	"github.com/lotabout/skim/internal/tui"
	"github.com/lotabout/skim/internal/util"
)

const (
	evtReadBatch util.EventType = iota
	evtReadFin
	evtSearchFin
	evtPreviewReady
	evtTerm
	evtTick
	evtInterrupt
)

const (
	previewDebounce = 100 * time.Millisecond
	previewGrace    = 500 * time.Millisecond
	tickInterval    = 200 * time.Millisecond
)

var spinnerFrames = []string{"-", "\\", "|", "/"}

// Result is everything cmd/fzfcore needs to decide what to print and
// which process exit code to use.
type Result struct {
	Accepted  bool
	NoMatch   bool
	ExpectKey string
	Query     string
	CmdQuery  string
	Selected  []*item.Entry
}

// Controller owns a Session plus the terminal, reader, matcher and
// preview handle a live run needs.
type Controller struct {
	Config  *config.Config
	Session *Session
	Screen  *tui.Screen
	Store   *item.Store
	Matcher *match.Matcher
	Preview *preview.Manager
	History *history.History
	CmdHist *history.History
	Reader  *ingest.Reader
	Logger  *logging.Logger

	events      *util.EventBox
	reading     bool
	revision    int
	scanCancel  *util.AtomicBool
	readCancel  context.CancelFunc
	spinnerAt   int
	autoDecided bool
	noMatch     bool
}

// New assembles a Controller ready to Run: opens the terminal screen,
// builds the item store/matcher/preview manager, and opens the history
// files named by Config.
func New(cfg *config.Config, logger *logging.Logger) (*Controller, error) {
	screen, err := tui.NewScreen(cfg.Mouse)
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = executil.Shell()
	}

	c := &Controller{
		Config:  cfg,
		Session: NewSession(cfg),
		Screen:  screen,
		Store:   item.NewStore(NewEntryBuilder(cfg)),
		Matcher: match.NewMatcher(),
		Preview: preview.NewManager(shell, previewDebounce, previewGrace),
		Reader:  ingest.NewReader(shell, cfg.Nul),
		Logger:  logger,
		events:  util.NewEventBox(),
	}

	if cfg.HistoryPath != "" {
		h, err := history.Open(cfg.HistoryPath, cfg.HistorySize)
		if err != nil {
			logger.Warn("opening history file", err)
		} else {
			c.History = h
		}
	}
	if cfg.CmdHistoryPath != "" {
		h, err := history.Open(cfg.CmdHistoryPath, cfg.HistorySize)
		if err != nil {
			logger.Warn("opening command history file", err)
		} else {
			c.CmdHist = h
		}
	}

	c.Session.Hooks = Hooks{
		Execute:        c.execute,
		ReloadCommand:  c.reloadCommand,
		RefreshPreview: c.refreshPreview,
		TogglePreview:  c.refreshPreview,
		Bell:           func() {},
	}
	c.Session.CompilePredicate()

	return c, nil
}

// Run drives the session to completion: reads the initial source,
// rescans on every query edit, and repaints after every batch of
// coalesced events, returning once the session is Accepted or Aborted.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	defer c.Screen.Close()
	defer c.Preview.Cancel()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			c.events.Set(evtInterrupt, nil)
		case <-ctx.Done():
		}
	}()

	go c.pollTerminal(ctx)
	go c.tick(ctx)
	c.startReading(ctx)
	c.rescan()

	for {
		var termEvent *tui.Event
		var searchMerger *match.Merger
		var previewHandle *executil.Handle
		interrupted := false
		gotBatch := false
		gotTick := false

		c.events.Wait(func(evs *util.Events) {
			for et, val := range *evs {
				switch et {
				case evtTerm:
					e := val.(tui.Event)
					termEvent = &e
				case evtReadBatch:
					gotBatch = true
				case evtReadFin:
					c.reading = false
					// rescan once more so the last snapshot is matched after reading ends
					gotBatch = true
				case evtSearchFin:
					searchMerger = val.(*match.Merger)
				case evtPreviewReady:
					previewHandle = val.(*executil.Handle)
				case evtTick:
					gotTick = true
				case evtInterrupt:
					interrupted = true
				}
			}
			evs.Clear()
		})

		if interrupted {
			c.Session.Phase = PhaseAborted
		}

		terminate := false
		if termEvent != nil {
			terminate = c.handleTermEvent(*termEvent)
		}

		if gotBatch && c.Session.Phase == PhaseReading {
			c.rescan()
		}

		if searchMerger != nil && searchMerger.Revision() == c.revision {
			// a rescan always follows evtReadFin, so once reading is over the
			// current revision's scan covers the complete item set
			searchMerger.SetFinal(!c.reading)
			results := materialize(searchMerger)
			c.Session.ApplyResults(results)
			c.refreshPreview()

			if !c.reading && searchMerger.Final() && !c.autoDecided {
				c.autoDecided = true
				switch {
				case c.Config.Select1 && len(results) == 1:
					c.Session.Model.SetCursor(0)
					c.Session.Phase = PhaseAccepted
				case c.Config.Exit0 && len(results) == 0:
					c.Session.Phase = PhaseAborted
					c.noMatch = true
				}
			}
		}

		if previewHandle != nil {
			lines := splitLines(previewHandle.Stdout())
			if c.Config.ShowCmdError {
				if stderr := previewHandle.Stderr(); stderr != "" {
					lines = append(lines, "--- stderr ---")
					lines = append(lines, splitLines(stderr)...)
				}
			}
			c.Session.PreviewOutput = lines
		}

		if gotTick {
			c.spinnerAt++
		}

		// --sync defers the very first paint until the initial source has
		// finished reading, so the list doesn't visibly grow item-by-item.
		if !c.Config.Sync || !c.reading {
			c.render()
		}

		if terminate || c.Session.Phase == PhaseAccepted || c.Session.Phase == PhaseAborted {
			break
		}
	}

	if c.readCancel != nil {
		c.readCancel()
	}

	// --no-clear/--no-clear-if-empty skip this final blanking pass, leaving
	// the last rendered frame on screen after Close restores cooked mode.
	if !c.Config.NoClear && !(c.Config.NoClearIfEmpty && c.noMatch) {
		c.Screen.Clear()
		c.Screen.Show()
	}

	return c.buildResult(), nil
}

func (c *Controller) handleTermEvent(ev tui.Event) bool {
	if ev.Type == tui.Resize {
		return false
	}

	keyName, isRune := keyLookup(ev)
	var actions []action.Action
	if acts, ok := c.Config.Keymap[keyName]; ok {
		actions = acts
	} else if isRune {
		actions = []action.Action{{Type: action.Rune, Arg: string(ev.Rune)}}
	} else {
		return false
	}

	prevQuery := string(c.Session.Query)
	prevMode := c.Session.Mode
	terminate := c.Session.DispatchAll(actions)

	if _, expect := c.Config.Expect[keyName]; expect && terminate && c.Session.Phase == PhaseAccepted {
		c.Session.ExpectKey = keyName
	}

	if string(c.Session.Query) != prevQuery || c.Session.Mode != prevMode {
		c.Session.CompilePredicate()
		c.rescan()
	}

	return terminate
}

// keyLookup derives the Keymap lookup key for an input event: a named
// key's canonical string, a printable rune (looked up by the rune itself
// so a --bind on a literal character still works), or one of the two
// mouse pseudo-keys the default keymap recognizes.
func keyLookup(ev tui.Event) (name string, isRune bool) {
	switch ev.Type {
	case tui.Key:
		return ev.Name, false
	case tui.Rune:
		return string(ev.Rune), true
	case tui.Mouse:
		m := ev.Mouse
		switch {
		case m.S > 0:
			return "up", false
		case m.S < 0:
			return "down", false
		case m.Double:
			return "double-click", false
		case m.Down && !m.Left:
			return "right-click", false
		}
	}
	return "", false
}

// rescan cancels the previous matcher run, bumps the revision, and
// issues a new one in the background; its result arrives as evtSearchFin
// once complete and is discarded if superseded.
func (c *Controller) rescan() {
	if c.scanCancel != nil {
		c.scanCancel.Set(true)
	}
	cancelled := util.NewAtomicBool(false)
	c.scanCancel = cancelled

	c.revision++
	rev := c.revision
	chunks, _ := c.Store.Snapshot()

	req := match.Request{
		Chunks:    chunks,
		Predicate: c.Session.Predicate,
		Nth:       c.Config.Nth,
		Delimiter: c.Config.Delimiter,
		FuzzyAlgo: c.Session.FuzzyAlgo,
		Sort:      c.Session.Sort,
		Tac:       c.Config.Tac,
		Criteria:  c.Config.Criteria,
		Revision:  rev,
	}
	go func() {
		merger, wasCancelled := c.Matcher.Scan(req, cancelled, nil)
		if wasCancelled || merger == nil {
			return
		}
		c.events.Set(evtSearchFin, merger)
	}()
}

func materialize(merger *match.Merger) []match.Result {
	out := make([]match.Result, merger.Length())
	for i := range out {
		out[i] = merger.Get(i)
	}
	return out
}

func (c *Controller) startReading(ctx context.Context) {
	c.reading = true
	rctx, cancel := context.WithCancel(ctx)
	c.readCancel = cancel
	command := c.Config.Command
	if command == "" {
		command = config.DefaultCommand()
	}
	source := ingest.ResolveSource(command)
	go func() {
		err := c.Reader.Read(rctx, source, command, func(data []byte) bool {
			c.Store.Push(data)
			c.events.Set(evtReadBatch, nil)
			return true
		})
		if err != nil && ctx.Err() == nil {
			c.Logger.Warn("ingestion command failed", err)
			if c.Config.ShowCmdError {
				c.Store.Push([]byte(fmt.Sprintf("[ingestion error: %s]", err)))
				c.events.Set(evtReadBatch, nil)
			}
		}
		c.events.Set(evtReadFin, nil)
	}()
}

// reloadCommand restarts ingestion under a replacement command, used by
// interactive mode's command-editing toggle and the refresh-cmd action.
func (c *Controller) reloadCommand(newCommand string) {
	if c.readCancel != nil {
		c.readCancel()
	}
	c.Store.Reset()
	c.Config.Command = newCommand
	ctx := context.Background()
	c.startReading(ctx)
	c.rescan()
}

// refreshPreview (re-)requests the preview command for whatever item is
// now current, or cancels any in-flight preview when the pane is hidden
// or there is no preview command configured.
func (c *Controller) refreshPreview() {
	if c.Session.PreviewHidden || c.Config.Preview == "" {
		c.Preview.Cancel()
		return
	}
	current, ok := c.Session.Model.Current()
	if !ok {
		c.Preview.Cancel()
		return
	}
	cmd := preview.Render(c.Config.Preview, c.Config.Delimiter, current.Entry, entriesOf(c.Session.Model.Marked()), string(c.Session.Query), false, nil)
	c.Preview.Request(cmd, nil, func(h *executil.Handle) {
		c.events.Set(evtPreviewReady, h)
	})
}

func entriesOf(results []match.Result) []*item.Entry {
	out := make([]*item.Entry, len(results))
	for i, r := range results {
		out[i] = r.Entry
	}
	return out
}

// execute runs a --bind execute()/execute-silent() command, pausing the
// alternate screen for a foreground command so its own output is visible.
func (c *Controller) execute(cmdTemplate string, silent bool) {
	current, _ := c.Session.Model.Current()
	var entry *item.Entry
	if current.Entry != nil {
		entry = current.Entry
	}
	cmd := preview.Render(cmdTemplate, c.Config.Delimiter, entry, entriesOf(c.Session.Model.Marked()), string(c.Session.Query), false, nil)

	if silent {
		h, err := executil.Start(c.Config.Shell, cmd, nil)
		if err == nil {
			go h.Wait()
		}
		return
	}

	c.Screen.Pause()
	h, err := executil.Start(c.Config.Shell, cmd, nil)
	if err == nil {
		h.Wait()
	}
	c.Screen.Resume()
}

func (c *Controller) pollTerminal(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ev := c.Screen.PollEvent()
		if ev.Type == tui.Invalid {
			continue
		}
		c.events.Set(evtTerm, ev)
	}
}

func (c *Controller) tick(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.reading {
				c.events.Set(evtTick, nil)
			}
		}
	}
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func (c *Controller) render() {
	cols, rows := c.Screen.Size()
	var previewWin *preview.Window
	if !c.Session.PreviewHidden {
		w := c.Config.PreviewWindow
		w.Wrap = c.Session.PreviewWrap
		previewWin = &w
	}
	layout := render.ComputeLayout(cols, rows, c.Config.Margin, c.Config.BorderShape, previewWin)

	c.Screen.Clear()

	if layout.Border != nil {
		style := tui.MakeBorderStyle(c.Config.BorderShape, true)
		tui.DrawBorder(c.Screen, layout.Border.Left, layout.Border.Top, layout.Border.Width, layout.Border.Height, style, c.Config.Theme.Border)
	}

	frame := render.Frame{
		Layout:    layout,
		Theme:     c.Config.Theme,
		Tabstop:   c.Config.Tabstop,
		Prompt:    c.Config.Prompt,
		Query:     c.Session.Query,
		CursorPos: c.Session.CursorPos,
		Reading:   c.reading,
		Spinner:   spinnerFrames,
		SpinnerAt: c.spinnerAt,
		Model:     c.Session.Model,
		Total:     c.Store.Len(),
		NoHscroll:     c.Config.NoHscroll,
		KeepRight:     c.Config.KeepRight,
		SkipToPattern: c.Config.SkipToPatternRe,
	}
	if c.Session.CommandEditing {
		frame.Prompt = c.Config.CmdPrompt
		frame.Query = c.Session.CommandQuery
		frame.CursorPos = c.Session.CommandCursor
	}

	render.DrawPrompt(c.Screen, frame)
	render.DrawInfo(c.Screen, frame, c.Session.Model.Len())
	render.DrawHeader(c.Screen, frame, c.Session.Model.Header())

	rows2 := make([]render.ListRow, 0, c.Session.Model.Len())
	for i := 0; i < c.Session.Model.Len(); i++ {
		r, _ := c.Session.Model.At(i)
		rows2 = append(rows2, render.ListRow{
			Result:   r,
			Current:  i == c.Session.Model.Cursor(),
			Selected: c.Session.Model.IsSelected(r.Index()),
		})
	}
	render.DrawList(c.Screen, frame, rows2, len(c.Session.Model.Header()), c.Config.Pointer, c.Config.Marker)

	if layout.Preview != nil {
		rect := *layout.Preview
		if layout.PreviewBorder != nil {
			style := tui.MakeBorderStyle(c.Config.BorderShape, true)
			tui.DrawBorder(c.Screen, layout.PreviewBorder.Left, layout.PreviewBorder.Top, layout.PreviewBorder.Width, layout.PreviewBorder.Height, style, c.Config.Theme.Border)
		}
		lines := make([]render.PreviewLine, len(c.Session.PreviewOutput))
		for i, l := range c.Session.PreviewOutput {
			lines[i] = render.PreviewLine{Text: l}
		}
		scroll := 0
		if previewWin != nil {
			scroll = preview.ResolveScroll(previewWin.Scroll, 0, len(lines), rect.Height)
		}
		render.DrawPreview(c.Screen, rect, c.Config.Theme.PreviewFg, lines, scroll, c.Session.PreviewWrap, c.Config.Tabstop)
	}

	c.Screen.Show()
}

func (c *Controller) buildResult() Result {
	res := Result{
		Accepted:  c.Session.Phase == PhaseAccepted,
		NoMatch:   c.noMatch,
		ExpectKey: c.Session.ExpectKey,
		Query:     c.Session.FinalQuery(),
		CmdQuery:  c.Session.FinalCommandQuery(),
	}
	if res.Accepted {
		marked := c.Session.Model.Marked()
		if len(marked) == 0 {
			if r, ok := c.Session.Model.Current(); ok {
				marked = []match.Result{r}
			}
		}
		res.Selected = entriesOf(marked)

		if c.History != nil && res.Query != "" {
			c.History.Append(res.Query)
		}
		if c.CmdHist != nil && res.CmdQuery != "" {
			c.CmdHist.Append(res.CmdQuery)
		}
	}
	return res
}
