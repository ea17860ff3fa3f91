// Command fzfcore is the terminal entrypoint: it parses the CLI flag
// surface into a config.Raw, expands FZFCORE_DEFAULT_OPTS ahead of the
// command line the way FZF_DEFAULT_OPTS/SKIM_DEFAULT_OPTIONS do, resolves
// it into a config.Config, and hands off to internal/core.Run. Grounded
// on vippsas-sqlcode's and opal-lang-opal's single-root-command cobra
// wiring (flags bound directly on the root command, no subcommands).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lotabout/skim/internal/config"
	"github.com/lotabout/skim/internal/core"
	"github.com/lotabout/skim/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	var raw config.Raw
	var filter string
	var header []string
	var bind []string
	var preSelectItems []string

	root := &cobra.Command{
		Use:           "fzfcore",
		Short:         "an interactive, fuzzy or regex, command-line list filter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw.HasFilter = cmd.Flags().Changed("filter")
			raw.Filter = filter
			raw.Header = header
			raw.Bind = bind
			raw.PreSelectItems = preSelectItems
			return nil
		},
	}

	flags := root.Flags()
	flags.StringVarP(&raw.Query, "query", "q", "", "start with this query")
	flags.StringVar(&raw.CmdQuery, "cmd-query", "", "start interactive-mode command editing with this query")
	flags.StringVarP(&filter, "filter", "f", "", "filter the input non-interactively and print matches")
	flags.BoolVarP(&raw.Interactive, "interactive", "i", false, "start in interactive command-editing mode")
	flags.StringVarP(&raw.Command, "cmd", "c", "", "command to produce candidate items")
	flags.BoolVar(&raw.Regex, "regex", false, "search by regular expression instead of fuzzy matching")
	// -i is already --interactive's shorthand in this mode set, so
	// case-insensitivity is long-flag only here.
	flags.BoolVar(&raw.IgnoreCase, "ignore-case", false, "case-insensitive match")
	flags.BoolVar(&raw.CaseSensitive, "no-ignore-case", false, "case-sensitive match")
	flags.StringVarP(&raw.Nth, "nth", "n", "", "fields to limit search scope to")
	flags.StringVar(&raw.WithNth, "with-nth", "", "fields to display and search, projected from the full line")
	flags.StringVarP(&raw.Delimiter, "delimiter", "d", "", "field delimiter for --nth/--with-nth")
	flags.StringVar(&raw.Tiebreak, "tiebreak", "", "comma-separated list of sort criteria")
	flags.BoolVar(&raw.Tac, "tac", false, "reverse the order of the input")
	flags.BoolVar(&raw.NoSort, "no-sort", false, "do not sort the matched items")
	flags.IntVarP(&raw.Multi, "multi", "m", 0, "enable multi-select up to this many items (a count is required; 0 leaves multi-select off)")
	flags.BoolVar(&raw.NoMulti, "no-multi", false, "disable multi-select")
	flags.BoolVar(&raw.Ansi, "ansi", false, "enable processing of ANSI color codes")
	flags.StringVar(&raw.Color, "color", "", "base color scheme and overrides")
	flags.IntVar(&raw.Tabstop, "tabstop", 8, "number of spaces a tab character occupies")
	flags.StringVar(&raw.Prompt, "prompt", "", "input prompt")
	flags.StringVar(&raw.CmdPrompt, "cmd-prompt", "", "prompt shown while editing the interactive-mode command")
	flags.StringVar(&raw.Pointer, "pointer", "", "pointer to the current line")
	flags.StringVar(&raw.Marker, "marker", "", "multi-select marker")
	flags.StringSliceVar(&header, "header", nil, "lines of fixed text shown above the list")
	flags.IntVar(&raw.HeaderLines, "header-lines", 0, "treat the first N lines of input as the header")
	flags.StringVar(&raw.Preview, "preview", "", "command to run for the preview window")
	flags.StringVar(&raw.PreviewWindow, "preview-window", "", "preview window layout spec")
	flags.StringVar(&raw.Height, "height", "", "display height relative to the screen or an absolute size")
	flags.StringVar(&raw.Layout, "layout", "", "choose the layout (default|reverse|reverse-list)")
	flags.StringArrayVar(&bind, "bind", nil, "custom key bindings")
	flags.StringVar(&raw.Expect, "expect", "", "comma-separated list of keys that end the session and report which was pressed")
	flags.StringVar(&raw.Margin, "margin", "", "screen margin")
	flags.StringVar(&raw.Border, "border", "", "draw a border around the finder")
	flags.BoolVar(&raw.Cycle, "cycle", false, "enable cyclic scroll")
	flags.StringVar(&raw.History, "history", "", "history file for the search query")
	flags.StringVar(&raw.CmdHistory, "cmd-history", "", "history file for the interactive-mode command")
	flags.IntVar(&raw.HistorySize, "history-size", 1000, "maximum number of history entries")
	flags.BoolVar(&raw.Read0, "read0", false, "read input delimited by NUL characters")
	flags.BoolVar(&raw.Print0, "print0", false, "print output delimited by NUL characters")
	flags.BoolVar(&raw.PrintQuery, "print-query", false, "print the query as the first line of output")
	flags.BoolVar(&raw.PrintCmd, "print-cmd", false, "print the interactive-mode command as a line of output")
	flags.BoolVar(&raw.Select1, "select-1", false, "automatically accept if there is only one match")
	flags.BoolVar(&raw.Exit0, "exit-0", false, "automatically exit if there is no match")
	flags.BoolVar(&raw.Sync, "sync", false, "wait for the initial source to finish reading before starting")
	flags.BoolVar(&raw.NoHscroll, "no-hscroll", false, "disable horizontal scroll")
	flags.BoolVar(&raw.KeepRight, "keep-right", false, "keep the right end of the line visible on overflow")
	flags.StringVar(&raw.SkipToPattern, "skip-to-pattern", "", "line-display scroll-to-match pattern")
	flags.IntVar(&raw.PreSelectN, "pre-select-n", 0, "pre-select the first N items")
	flags.StringVar(&raw.PreSelectPat, "pre-select-pat", "", "pre-select items matching this regular expression")
	flags.StringArrayVar(&preSelectItems, "pre-select-items", nil, "pre-select these exact items")
	flags.StringVar(&raw.PreSelectFile, "pre-select-file", "", "pre-select items listed in this file")
	flags.BoolVar(&raw.NoClear, "no-clear", false, "do not clear the finder on exit")
	flags.BoolVar(&raw.NoClearIfEmpty, "no-clear-if-empty", false, "do not clear the finder on exit if there was no match")
	flags.BoolVar(&raw.ShowCmdError, "show-cmd-error", false, "show command failures inline instead of silently ignoring them")
	flags.BoolVar(&raw.Mouse, "mouse", true, "enable mouse support")
	flags.StringVar(&raw.LogFile, "log-file", "", "write a diagnostic log to this file")
	flags.StringVar(&raw.Shell, "shell", "", "shell used to run commands (defaults to $SHELL)")

	args, err := config.ExpandFromEnvironment(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitSetupErr
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitSetupErr
	}

	cfg, err := config.Finalize(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return core.ExitSetupErr
	}

	logger := logging.New(cfg.LogFile)
	return core.Run(context.Background(), cfg, logger, os.Stdout)
}
