package match

import (
	"testing"

	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/query"
	"github.com/lotabout/skim/internal/util"
)

func storeOf(lines ...string) *item.Store {
	s := item.NewStore(func(data []byte, index int) *item.Entry {
		return &item.Entry{Text: append([]byte(nil), data...), Index: uint32(index)}
	})
	for _, l := range lines {
		s.Push([]byte(l))
	}
	return s
}

func TestScanFuzzyFiltersAndScores(t *testing.T) {
	s := storeOf("foobar", "nomatch", "foo-bar", "barfoo")
	chunks, _ := s.Snapshot()

	predicate, err := query.Compile("fb", query.ModeFuzzy, query.CaseSmart, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewMatcher()
	req := Request{
		Chunks:    chunks,
		Predicate: predicate,
		FuzzyAlgo: algo.FuzzyMatchV2,
		Sort:      true,
		Criteria:  DefaultCriteria,
	}
	merger, cancelled := m.Scan(req, nil, nil)
	if cancelled {
		t.Fatal("scan unexpectedly cancelled")
	}
	// "foobar" and "foo-bar" both contain 'f' followed later by 'b'.
	// "nomatch" has neither letter; "barfoo" has 'b' before 'f', so no
	// forward subsequence "fb" exists in it.
	if merger.Length() != 2 {
		t.Fatalf("expected 2 matches (foobar, foo-bar), got %d", merger.Length())
	}
	for i := 0; i < merger.Length(); i++ {
		text := string(merger.Get(i).Entry.Text)
		if text != "foobar" && text != "foo-bar" {
			t.Fatalf("unexpected match: %q", text)
		}
	}
}

func TestScanEmptyPredicateIsPassThrough(t *testing.T) {
	s := storeOf("a", "b", "c")
	chunks, _ := s.Snapshot()

	predicate, _ := query.Compile("", query.ModeFuzzy, query.CaseSmart, false)
	m := NewMatcher()
	req := Request{Chunks: chunks, Predicate: predicate, FuzzyAlgo: algo.FuzzyMatchV2}
	merger, cancelled := m.Scan(req, nil, nil)
	if cancelled {
		t.Fatal("scan unexpectedly cancelled")
	}
	if merger.Length() != 3 {
		t.Fatalf("expected all 3 items to pass through, got %d", merger.Length())
	}
}

func TestScanCancellationStopsEarly(t *testing.T) {
	lines := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		lines = append(lines, "needle-haystack-line")
	}
	s := storeOf(lines...)
	chunks, _ := s.Snapshot()

	predicate, _ := query.Compile("needle", query.ModeFuzzy, query.CaseSmart, false)
	m := NewMatcher()
	m.Partitions = 1
	cancelled := util.NewAtomicBool(true)
	req := Request{Chunks: chunks, Predicate: predicate, FuzzyAlgo: algo.FuzzyMatchV2}
	_, wasCancelled := m.Scan(req, cancelled, nil)
	if !wasCancelled {
		t.Fatal("expected scan to report cancellation when the flag is set from the start")
	}
}

func TestMergerLazyMergeOrdersByPoints(t *testing.T) {
	e1 := &item.Entry{Text: []byte("aaa"), Index: 0}
	e2 := &item.Entry{Text: []byte("bb"), Index: 1}
	e3 := &item.Entry{Text: []byte("c"), Index: 2}

	r1 := buildResult(e1, nil, 10, DefaultCriteria)
	r2 := buildResult(e2, nil, 10, DefaultCriteria)
	r3 := buildResult(e3, nil, 5, DefaultCriteria)

	lists := [][]Result{{r1}, {r2, r3}}
	// Per-list order must already respect ByRelevance for lazy merge:
	// r2 (score 10) outranks r3 (score 5), so it sorts first.
	if !compareRanks(r2, r3, false) {
		t.Fatalf("expected r2 (higher score) to sort first within its list")
	}

	merger := NewMerger(lists, true, false, 1)
	if merger.Length() != 3 {
		t.Fatalf("expected 3 merged results, got %d", merger.Length())
	}
	first := merger.First()
	if first.Entry.Index != e2.Index && first.Entry.Index != e1.Index {
		t.Fatalf("expected one of the score-10 entries first, got index %d", first.Entry.Index)
	}
	if first.Entry.Index == e3.Index {
		t.Fatalf("expected the lower-scoring entry (index %d) not to be ranked first", e3.Index)
	}
}
