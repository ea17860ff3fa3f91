package match

import "fmt"

// Merger presents a single, globally-ordered view over one or more
// locally-sorted result lists, merging them lazily on read (src/merger.go).
type Merger struct {
	lists    [][]Result
	merged   []Result
	cursors  []int
	sorted   bool
	tac      bool
	final    bool
	count    int
	revision int
}

// EmptyMerger is a Merger with no data.
func EmptyMerger(revision int) *Merger {
	return NewMerger(nil, false, false, revision)
}

// NewMerger builds a Merger over per-partition result lists. When sorted is
// true each list is assumed already sorted by relevance and is merged
// lazily; otherwise Get concatenates the lists directly (used when no
// sorting was requested).
func NewMerger(lists [][]Result, sorted bool, tac bool, revision int) *Merger {
	mg := &Merger{
		lists:    lists,
		merged:   []Result{},
		cursors:  make([]int, len(lists)),
		sorted:   sorted,
		tac:      tac,
		revision: revision,
	}
	for _, list := range mg.lists {
		mg.count += len(list)
	}
	return mg
}

// Revision returns the revision number this Merger was built for, used by
// callers to detect a stale result set.
func (mg *Merger) Revision() int { return mg.revision }

// Length returns the number of matched items.
func (mg *Merger) Length() int { return mg.count }

// Final reports whether this Merger reflects the complete, final item set
// (as opposed to a partial snapshot taken mid-ingestion).
func (mg *Merger) Final() bool { return mg.final }

// SetFinal marks the Merger as reflecting the complete item set.
func (mg *Merger) SetFinal(final bool) { mg.final = final }

// First returns the top-ranked result.
func (mg *Merger) First() Result {
	if mg.tac && !mg.sorted {
		return mg.Get(mg.count - 1)
	}
	return mg.Get(0)
}

// Get returns the idx-th result in global order.
func (mg *Merger) Get(idx int) Result {
	if mg.sorted {
		return mg.mergedGet(idx)
	}

	if mg.tac {
		idx = mg.count - idx - 1
	}
	for _, list := range mg.lists {
		if idx < len(list) {
			return list[idx]
		}
		idx -= len(list)
	}
	panic(fmt.Sprintf("index out of bounds (unsorted, %d/%d)", idx, mg.count))
}

func (mg *Merger) mergedGet(idx int) Result {
	for i := len(mg.merged); i <= idx; i++ {
		minIdx := -1
		var minResult Result
		for listIdx, list := range mg.lists {
			cursor := mg.cursors[listIdx]
			if cursor < 0 || cursor == len(list) {
				mg.cursors[listIdx] = -1
				continue
			}
			candidate := list[cursor]
			if minIdx < 0 || compareRanks(candidate, minResult, mg.tac) {
				minResult = candidate
				minIdx = listIdx
			}
		}
		if minIdx < 0 {
			panic(fmt.Sprintf("index out of bounds (sorted, %d/%d)", i, mg.count))
		}
		mg.merged = append(mg.merged, minResult)
		mg.cursors[minIdx]++
	}
	return mg.merged[idx]
}
