// Package core wires a resolved Config into either of the two ways a
// session can run: the interactive terminal UI, or a one-shot
// --filter pass that scores a fixed query against the source and
// prints matches without ever opening a screen. Grounded on core.go's
// Run, which performs the same filter-mode/interactive-mode branch
// ahead of handing off to the terminal event loop.
package core

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/config"
	"github.com/lotabout/skim/internal/controller"
	"github.com/lotabout/skim/internal/ingest"
	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/logging"
	"github.com/lotabout/skim/internal/match"
	"github.com/lotabout/skim/internal/query"
)

// Exit codes, per the external stdout/exit-code contract: 0 accepted or
// filter produced output, 1 no match, 130 aborted, 2 command-line/setup
// error.
const (
	ExitOK       = 0
	ExitNoMatch  = 1
	ExitAborted  = 130
	ExitSetupErr = 2
)

// Run executes one session against cfg and returns the process exit
// code, having already written whatever stdout format the session ended
// on (selection text, filtered lines, --print-query/--print-cmd
// prefixes) to out.
func Run(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) int {
	if cfg.Filter != nil {
		return runFilter(ctx, cfg, out)
	}
	return runInteractive(ctx, cfg, logger, out)
}

// runFilter ingests the source synchronously, scores it against the
// fixed --filter query, and prints every match's output text — the
// non-interactive counterpart to the terminal UI, used for scripting.
func runFilter(ctx context.Context, cfg *config.Config, out io.Writer) int {
	if cfg.PrintQuery {
		fmt.Fprintln(out, *cfg.Filter)
	}

	store := item.NewStore(controller.NewEntryBuilder(cfg))
	reader := ingest.NewReader(cfg.Shell, cfg.Nul)
	command := cfg.Command
	if command == "" {
		command = config.DefaultCommand()
	}
	if err := reader.Read(ctx, ingest.ResolveSource(command), command, func(data []byte) bool {
		store.Push(data)
		return true
	}); err != nil {
		fmt.Fprintln(out, err)
		return ExitSetupErr
	}

	pred, err := query.Compile(*cfg.Filter, cfg.Mode, cfg.CasePolicy, true)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitSetupErr
	}

	chunks, _ := store.Snapshot()
	matcher := match.NewMatcher()
	merger, _ := matcher.Scan(match.Request{
		Chunks:    chunks,
		Predicate: pred,
		Nth:       cfg.Nth,
		Delimiter: cfg.Delimiter,
		FuzzyAlgo: algo.FuzzyMatchV2,
		Sort:      cfg.Sort,
		Tac:       cfg.Tac,
		Criteria:  cfg.Criteria,
	}, nil, nil)

	w := bufio.NewWriter(out)
	sep := "\n"
	if cfg.Print0 {
		sep = "\x00"
	}
	for i := 0; i < merger.Length(); i++ {
		fmt.Fprintf(w, "%s%s", merger.Get(i).Entry.AsOutput(), sep)
	}
	w.Flush()

	if merger.Length() == 0 {
		return ExitNoMatch
	}
	return ExitOK
}

// runInteractive opens the terminal UI and prints the accepted
// selection's stdout format once the session ends.
func runInteractive(ctx context.Context, cfg *config.Config, logger *logging.Logger, out io.Writer) int {
	ctrl, err := controller.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitSetupErr
	}

	result, err := ctrl.Run(ctx)
	if err != nil {
		fmt.Fprintln(out, err)
		return ExitSetupErr
	}

	if !result.Accepted {
		if result.NoMatch {
			return ExitNoMatch
		}
		return ExitAborted
	}

	if cfg.Expect != nil && len(cfg.Expect) > 0 {
		fmt.Fprintln(out, result.ExpectKey)
	}
	if cfg.PrintQuery {
		fmt.Fprintln(out, result.Query)
	}
	if cfg.PrintCmd {
		fmt.Fprintln(out, result.CmdQuery)
	}

	sep := "\n"
	if cfg.Print0 {
		sep = "\x00"
	}
	w := bufio.NewWriter(out)
	for _, entry := range result.Selected {
		fmt.Fprintf(w, "%s%s", entry.AsOutput(), sep)
	}
	w.Flush()

	return ExitOK
}
