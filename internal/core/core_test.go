package core

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lotabout/skim/internal/config"
)

func finalize(t *testing.T, raw config.Raw) *config.Config {
	t.Helper()
	cfg, err := config.Finalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func TestRunFilterPrintsMatchingLines(t *testing.T) {
	filter := "banana"
	cfg := finalize(t, config.Raw{
		Command:   "printf 'apple\\nbanana\\ncherry\\n'",
		HasFilter: true,
		Filter:    filter,
	})

	var out bytes.Buffer
	code := Run(context.Background(), cfg, nil, &out)

	if code != ExitOK {
		t.Fatalf("expected exit code %d, got %d", ExitOK, code)
	}
	if strings.TrimSpace(out.String()) != "banana" {
		t.Errorf("expected output %q, got %q", "banana", out.String())
	}
}

func TestRunFilterNoMatchExitsOne(t *testing.T) {
	filter := "xyz-does-not-exist"
	cfg := finalize(t, config.Raw{
		Command:   "printf 'apple\\nbanana\\n'",
		HasFilter: true,
		Filter:    filter,
	})

	var out bytes.Buffer
	code := Run(context.Background(), cfg, nil, &out)

	if code != ExitNoMatch {
		t.Fatalf("expected exit code %d, got %d", ExitNoMatch, code)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestRunFilterPrintQueryPrefixesOutput(t *testing.T) {
	filter := "a"
	cfg := finalize(t, config.Raw{
		Command:    "printf 'apple\\nbanana\\n'",
		HasFilter:  true,
		Filter:     filter,
		PrintQuery: true,
	})

	var out bytes.Buffer
	Run(context.Background(), cfg, nil, &out)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if lines[0] != "a" {
		t.Errorf("expected first line to be the filter query %q, got %q", "a", lines[0])
	}
}

func TestRunFilterPrint0UsesNulSeparator(t *testing.T) {
	filter := "a"
	cfg := finalize(t, config.Raw{
		Command:   "printf 'apple\\nbanana\\n'",
		HasFilter: true,
		Filter:    filter,
		Print0:    true,
	})

	var out bytes.Buffer
	Run(context.Background(), cfg, nil, &out)

	if !strings.Contains(out.String(), "\x00") {
		t.Error("expected NUL-separated output under --print0")
	}
}
