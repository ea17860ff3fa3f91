package match

import (
	"runtime"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/fields"
	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/query"
	"github.com/lotabout/skim/internal/util"
)

// Request describes one search pass: the item snapshot to scan, the
// compiled predicate, and the options controlling scoring and order.
type Request struct {
	Chunks    []*item.Chunk
	Predicate *query.Predicate
	Nth       []fields.Range
	Delimiter fields.Delimiter
	FuzzyAlgo algo.Algo
	Sort      bool
	Tac       bool
	Criteria  []Criterion
	Revision  int
}

// Matcher scans item chunks against a compiled predicate in parallel
// partitions, following matcher.go's Matcher/scan partitioning scheme.
// Unlike that reference it has no background Loop: Scan is synchronous and
// cancellable through the supplied atomic flag, since the controller here
// drives its own single event loop and issues one Scan per query edit,
// cancelling the previous one itself.
type Matcher struct {
	Partitions int
}

// NewMatcher returns a Matcher sized to the available CPUs.
func NewMatcher() *Matcher {
	return &Matcher{Partitions: runtime.NumCPU()}
}

func (m *Matcher) sliceChunks(chunks []*item.Chunk) [][]*item.Chunk {
	if m.Partitions < 1 {
		m.Partitions = 1
	}
	perSlice := len(chunks) / m.Partitions
	if perSlice == 0 {
		return [][]*item.Chunk{chunks}
	}
	slices := make([][]*item.Chunk, m.Partitions)
	for i := 0; i < m.Partitions; i++ {
		start := i * perSlice
		end := start + perSlice
		if i == m.Partitions-1 {
			end = len(chunks)
		}
		slices[i] = chunks[start:end]
	}
	return slices
}

// projection returns the view of entry's text that the predicate is
// evaluated against: the whole line by default, or the --nth-selected
// field slice when Nth is set.
func projection(entry *item.Entry, req *Request) *util.Chars {
	if len(req.Nth) == 0 {
		chars := util.ToChars(entry.Text)
		return &chars
	}
	tokens := fields.Tokenize(string(entry.Text), req.Delimiter)
	projected := fields.Transform(tokens, req.Nth)
	if len(projected) == 0 {
		empty := util.ToChars([]byte{})
		return &empty
	}
	if len(projected) == 1 {
		return projected[0].Text
	}
	var buf []byte
	for _, t := range projected {
		buf = append(buf, []byte(t.Text.ToString())...)
	}
	chars := util.ToChars(buf)
	return &chars
}

// matchEntry evaluates the predicate against one entry, returning the
// summed score of every satisfied AND-group and the matched-substring
// offsets gathered for highlighting. ok is false when any AND-group fails.
func matchEntry(req *Request, entry *item.Entry) (score int, offsets [][2]int32, ok bool) {
	candidate := projection(entry, req)
	if re := req.Predicate.Regex; re != nil {
		text := candidate.ToString()
		loc := re.FindStringIndex(text)
		if loc == nil {
			return 0, nil, false
		}
		begin := utf8.RuneCountInString(text[:loc[0]])
		end := begin + utf8.RuneCountInString(text[loc[0]:loc[1]])
		if end > begin {
			offsets = append(offsets, [2]int32{int32(begin), int32(end)})
		}
		return 0, offsets, true
	}
	for _, group := range req.Predicate.Groups {
		groupMatched := false
		best := query.LeafMatch{}
		for _, leaf := range group {
			lm := query.EvalLeaf(leaf, candidate, true, true, nil, req.FuzzyAlgo)
			if !lm.Matched {
				continue
			}
			if !groupMatched || lm.Score > best.Score {
				best = lm
				groupMatched = true
			}
		}
		if !groupMatched {
			return 0, nil, false
		}
		score += best.Score
		if best.Start >= 0 && best.End > best.Start {
			offsets = append(offsets, [2]int32{int32(best.Start), int32(best.End)})
		}
	}
	return score, offsets, true
}

// Scan runs req against its Chunks, returning the resulting Merger and
// whether the scan was cancelled before completion. Each worker checks
// cancelled between chunks and returns early so a superseding request can
// interrupt a long scan promptly; Scan itself waits for every worker to
// settle (via the countChan close) before checking the flag, so it never
// blocks forever even when cancellation is signalled before any chunk is
// processed.
func (m *Matcher) Scan(req Request, cancelled *util.AtomicBool, progress func(done, total int)) (*Merger, bool) {
	numChunks := len(req.Chunks)
	if numChunks == 0 {
		return EmptyMerger(req.Revision), false
	}

	if req.Predicate == nil || req.Predicate.IsEmpty() {
		return m.passThrough(req), false
	}

	slices := m.sliceChunks(req.Chunks)
	numSlices := len(slices)
	type partial struct {
		index   int
		matches []Result
	}
	resultChan := make(chan partial, numSlices)
	countChan := make(chan int, numChunks)
	wg := sync.WaitGroup{}

	for idx, chunks := range slices {
		wg.Add(1)
		go func(idx int, chunks []*item.Chunk) {
			defer wg.Done()
			var sliceMatches []Result
			for _, chunk := range chunks {
				if cancelled != nil && cancelled.Get() {
					return
				}
				for _, entry := range *chunk {
					score, offsets, ok := matchEntry(&req, entry)
					if ok {
						sliceMatches = append(sliceMatches, buildResult(entry, offsets, score, req.Criteria))
					}
				}
				countChan <- len(*chunk)
			}
			if req.Sort {
				if req.Tac {
					sort.Sort(ByRelevanceTac(sliceMatches))
				} else {
					sort.Sort(ByRelevance(sliceMatches))
				}
			}
			resultChan <- partial{idx, sliceMatches}
		}(idx, chunks)
	}

	go func() {
		wg.Wait()
		close(countChan)
	}()

	scannedChunks := 0
	for range countChan {
		scannedChunks++
		if progress != nil {
			progress(scannedChunks, numChunks)
		}
	}

	if cancelled != nil && cancelled.Get() {
		return nil, true
	}

	partials := make([][]Result, numSlices)
	for range slices {
		p := <-resultChan
		partials[p.index] = p.matches
	}
	merger := NewMerger(partials, req.Sort, req.Tac, req.Revision)
	return merger, false
}

// passThrough builds a Merger that yields every item unfiltered and
// unscored, used for an empty query, which matches every item with score
// zero per the term-classification contract in internal/query.
func (m *Matcher) passThrough(req Request) *Merger {
	var all []Result
	for _, chunk := range req.Chunks {
		for _, entry := range *chunk {
			all = append(all, Result{Entry: entry})
		}
	}
	return NewMerger([][]Result{all}, false, req.Tac, req.Revision)
}
