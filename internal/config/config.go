// Package config assembles the single immutable Config value the rest of
// the program is built from: the set of flags, environment variables, and
// defaults cmd/fzfcore parses a session out of. Grounded on options.go's
// Options struct and its parseOptions/postProcessOptions pipeline, split
// here into a Raw struct that mirrors the cobra flag surface and a
// Finalize step that resolves it into typed values the rest of the
// packages consume directly (query.Mode, fields.Range, theme.Theme, ...).
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/lotabout/skim/internal/action"
	"github.com/lotabout/skim/internal/fields"
	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/preview"
	"github.com/lotabout/skim/internal/query"
	"github.com/lotabout/skim/internal/theme"
	"github.com/lotabout/skim/internal/tui"
)

// DefaultCommandEnv and DefaultOptsEnv name the environment variables a
// session reads its implicit default command/options from, renamed
// analogues of SKIM_DEFAULT_COMMAND/SKIM_DEFAULT_OPTIONS.
const (
	DefaultCommandEnv = "FZFCORE_DEFAULT_COMMAND"
	DefaultOptsEnv     = "FZFCORE_DEFAULT_OPTS"
)

// Raw mirrors the cobra flag surface, one field per flag, entirely in
// string/bool/int form. cmd/fzfcore populates one of these from
// pflag.FlagSet and hands it to Finalize.
type Raw struct {
	Query       string
	CmdQuery    string
	Filter      string
	HasFilter   bool
	Interactive bool
	Command     string // --cmd
	Regex       bool
	IgnoreCase  bool // --ignore-case
	CaseSensitive bool // --no-ignore-case
	Nth         string
	WithNth     string
	Delimiter   string
	Tiebreak    string
	Tac         bool
	NoSort      bool
	Multi       int
	NoMulti     bool
	Ansi        bool
	Color       string
	Tabstop     int
	Prompt      string
	CmdPrompt   string
	Pointer     string
	Marker      string
	Header      []string
	HeaderLines int
	Preview     string
	PreviewWindow string
	Height      string
	Layout      string
	Bind        []string
	Expect      string
	Margin      string
	Border      string
	Cycle       bool
	History     string
	CmdHistory  string
	HistorySize int
	Read0       bool
	Print0      bool
	PrintQuery  bool
	PrintCmd    bool
	Select1     bool
	Exit0       bool
	Sync        bool
	NoHscroll   bool
	KeepRight   bool
	SkipToPattern string
	PreSelectN    int
	PreSelectPat  string
	PreSelectItems []string
	PreSelectFile  string
	NoClear        bool
	NoClearIfEmpty bool
	ShowCmdError   bool
	Mouse          bool
	LogFile        string
	Shell          string
}

// Config is the fully resolved, immutable session configuration every
// other package constructor takes by value or pointer instead of reading
// flags/environment itself.
type Config struct {
	Query          string
	CmdQuery       string
	Filter         *string
	Interactive    bool
	Command        string
	Mode           query.Mode
	CasePolicy     query.CasePolicy
	Nth            []fields.Range
	WithNth        []fields.Range
	Delimiter      fields.Delimiter
	Criteria       []match.Criterion
	Tac            bool
	Sort           bool
	Multi          int
	Ansi           bool
	Theme          theme.Theme
	Tabstop        int
	Prompt         string
	CmdPrompt      string
	Pointer        string
	Marker         string
	Header         []string
	HeaderLines    int
	Preview        string
	PreviewWindow  preview.Window
	Height         string
	Reverse        bool
	ReverseList    bool
	Keymap         action.Keymap
	Expect         map[string]struct{}
	Margin         [4]int
	BorderShape    tui.Shape
	Cycle          bool
	HistoryPath    string
	CmdHistoryPath string
	HistorySize    int
	Nul            bool
	Print0         bool
	PrintQuery     bool
	PrintCmd       bool
	Select1        bool
	Exit0          bool
	Sync           bool
	NoHscroll      bool
	KeepRight      bool
	SkipToPattern  string
	SkipToPatternRe *regexp.Regexp
	PreSelectN     int
	PreSelectPat   string
	PreSelectItems []string
	PreSelectFile  string
	NoClear        bool
	NoClearIfEmpty bool
	ShowCmdError   bool
	Mouse          bool
	LogFile        string
	Shell          string
}

// ExpandFromEnvironment applies FZFCORE_DEFAULT_OPTS ahead of the
// command-line-supplied arguments: it shellwords-splits the variable (so
// quoting inside it works the way it would on a shell command line) and
// prepends the result to args, the same precedence SKIM_DEFAULT_OPTIONS
// has relative to its argv.
func ExpandFromEnvironment(args []string) ([]string, error) {
	opts := os.Getenv(DefaultOptsEnv)
	if strings.TrimSpace(opts) == "" {
		return args, nil
	}
	parser := shellwords.NewParser()
	fields, err := parser.Parse(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", DefaultOptsEnv, err)
	}
	return append(fields, args...), nil
}

// DefaultCommand returns FZFCORE_DEFAULT_COMMAND, used as the source
// command when --cmd is not given; a non-empty value is run even when
// stdin is piped.
func DefaultCommand() string {
	return os.Getenv(DefaultCommandEnv)
}

// Finalize resolves a Raw flag set into a Config, parsing every
// string-encoded sub-grammar (nth ranges, delimiter, color spec, preview
// window, margin, border shape, bind list, tiebreak criteria) into the
// typed value the rest of the program consumes.
func Finalize(raw Raw) (*Config, error) {
	cfg := &Config{
		Query:          raw.Query,
		CmdQuery:       raw.CmdQuery,
		Interactive:    raw.Interactive,
		Command:        raw.Command,
		Tac:            raw.Tac,
		Sort:           !raw.NoSort,
		Ansi:           raw.Ansi,
		Tabstop:        raw.Tabstop,
		Prompt:         raw.Prompt,
		CmdPrompt:      raw.CmdPrompt,
		Pointer:        raw.Pointer,
		Marker:         raw.Marker,
		Header:         raw.Header,
		HeaderLines:    raw.HeaderLines,
		Preview:        raw.Preview,
		Height:         raw.Height,
		Cycle:          raw.Cycle,
		HistoryPath:    raw.History,
		CmdHistoryPath: raw.CmdHistory,
		HistorySize:    raw.HistorySize,
		Nul:            raw.Read0,
		Print0:         raw.Print0,
		PrintQuery:     raw.PrintQuery,
		PrintCmd:       raw.PrintCmd,
		Select1:        raw.Select1,
		Exit0:          raw.Exit0,
		Sync:           raw.Sync,
		NoHscroll:      raw.NoHscroll,
		KeepRight:      raw.KeepRight,
		SkipToPattern:  raw.SkipToPattern,
		PreSelectN:     raw.PreSelectN,
		PreSelectPat:   raw.PreSelectPat,
		PreSelectItems: raw.PreSelectItems,
		PreSelectFile:  raw.PreSelectFile,
		NoClear:        raw.NoClear,
		NoClearIfEmpty: raw.NoClearIfEmpty,
		ShowCmdError:   raw.ShowCmdError,
		Mouse:          raw.Mouse,
		LogFile:        raw.LogFile,
		Shell:          raw.Shell,
	}

	if raw.Regex {
		cfg.Mode = query.ModeRegex
	} else {
		cfg.Mode = query.ModeFuzzy
	}

	switch {
	case raw.IgnoreCase:
		cfg.CasePolicy = query.CaseIgnore
	case raw.CaseSensitive:
		cfg.CasePolicy = query.CaseRespect
	default:
		cfg.CasePolicy = query.CaseSmart
	}

	if raw.HasFilter {
		f := raw.Filter
		cfg.Filter = &f
	}

	switch {
	case raw.NoMulti:
		cfg.Multi = 0
	case raw.Multi > 0:
		cfg.Multi = raw.Multi
	default:
		cfg.Multi = 0
	}

	var err error
	if raw.Nth != "" {
		if cfg.Nth, err = fields.ParseRangeList(raw.Nth); err != nil {
			return nil, fmt.Errorf("--nth: %w", err)
		}
	}
	if raw.WithNth != "" {
		if cfg.WithNth, err = fields.ParseRangeList(raw.WithNth); err != nil {
			return nil, fmt.Errorf("--with-nth: %w", err)
		}
	}
	if cfg.Delimiter, err = parseDelimiter(raw.Delimiter); err != nil {
		return nil, err
	}
	if cfg.Criteria, err = parseTiebreak(raw.Tiebreak); err != nil {
		return nil, err
	}
	if raw.SkipToPattern != "" {
		if cfg.SkipToPatternRe, err = regexp.Compile(raw.SkipToPattern); err != nil {
			return nil, fmt.Errorf("--skip-to-pattern: %w", err)
		}
	}

	base := theme.Dark256Theme()
	if cfg.Theme, err = theme.Parse(base, raw.Color); err != nil {
		return nil, fmt.Errorf("--color: %w", err)
	}

	if raw.PreviewWindow != "" {
		win, err := preview.ParseWindow(raw.PreviewWindow)
		if err != nil {
			return nil, fmt.Errorf("--preview-window: %w", err)
		}
		cfg.PreviewWindow = win
	} else {
		cfg.PreviewWindow = preview.DefaultWindow()
	}
	if raw.Preview == "" {
		cfg.PreviewWindow.Hidden = true
	}

	switch raw.Layout {
	case "reverse":
		cfg.Reverse = true
	case "reverse-list":
		cfg.Reverse = true
		cfg.ReverseList = true
	}

	if cfg.Margin, err = parseMargin(raw.Margin); err != nil {
		return nil, err
	}
	cfg.BorderShape = parseBorderShape(raw.Border)

	cfg.Keymap = action.DefaultKeymap()
	for _, spec := range raw.Bind {
		if err := action.ParseBind(cfg.Keymap, spec); err != nil {
			return nil, fmt.Errorf("--bind: %w", err)
		}
	}

	cfg.Expect = make(map[string]struct{})
	for _, key := range strings.Split(raw.Expect, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			cfg.Expect[key] = struct{}{}
		}
	}

	if cfg.Tabstop <= 0 {
		cfg.Tabstop = 8
	}
	if cfg.Pointer == "" {
		cfg.Pointer = ">"
	}
	if cfg.Marker == "" {
		cfg.Marker = ">"
	}
	if cfg.Prompt == "" {
		cfg.Prompt = "> "
	}

	return cfg, nil
}

func parseDelimiter(spec string) (fields.Delimiter, error) {
	if spec == "" {
		return fields.Delimiter{}, nil
	}
	if len(spec) > 2 && strings.HasPrefix(spec, "/") && strings.HasSuffix(spec, "/") {
		re, err := regexp.Compile(spec[1 : len(spec)-1])
		if err != nil {
			return fields.Delimiter{}, fmt.Errorf("--delimiter: %w", err)
		}
		return fields.Delimiter{Regex: re}, nil
	}
	str := spec
	return fields.Delimiter{Str: &str}, nil
}

func parseTiebreak(spec string) ([]match.Criterion, error) {
	if spec == "" {
		return match.DefaultCriteria, nil
	}
	var criteria []match.Criterion
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		switch tok {
		case "length":
			criteria = append(criteria, match.ByLength)
		case "begin":
			criteria = append(criteria, match.ByBegin)
		case "end":
			criteria = append(criteria, match.ByEnd)
		case "score", "":
			criteria = append(criteria, match.ByScore)
		default:
			return nil, fmt.Errorf("--tiebreak: unknown criterion %q", tok)
		}
	}
	return criteria, nil
}

func parseMargin(spec string) ([4]int, error) {
	var margin [4]int
	if spec == "" {
		return margin, nil
	}
	parts := strings.Split(spec, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(p), "%"))
		if err != nil {
			return margin, fmt.Errorf("--margin: %w", err)
		}
		vals = append(vals, n)
	}
	switch len(vals) {
	case 1:
		margin = [4]int{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		margin = [4]int{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		margin = [4]int{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		margin = [4]int{vals[0], vals[1], vals[2], vals[3]}
	default:
		return margin, fmt.Errorf("--margin: expected 1-4 comma-separated values")
	}
	return margin, nil
}

func parseBorderShape(spec string) tui.Shape {
	switch spec {
	case "", "none":
		return tui.BorderNone
	case "rounded":
		return tui.BorderRounded
	case "sharp":
		return tui.BorderSharp
	case "horizontal":
		return tui.BorderHorizontal
	case "vertical":
		return tui.BorderVertical
	case "top":
		return tui.BorderTop
	case "bottom":
		return tui.BorderBottom
	case "left":
		return tui.BorderLeft
	case "right":
		return tui.BorderRight
	default:
		return tui.BorderNone
	}
}
