// Package match runs a compiled query against an item store in parallel
// chunks and produces a lazily-merged, globally-ordered result list,
// following the partitioned-scan/lazy-merge design of matcher.go,
// merger.go and result.go.
package match

import (
	"bytes"
	"math"
	"unicode/utf8"

	"github.com/lotabout/skim/internal/item"
	"github.com/lotabout/skim/internal/util"
)

// Criterion names one dimension of the tiebreak sort order.
type Criterion int

const (
	ByScore Criterion = iota
	ByLength
	ByBegin
	ByEnd
)

// DefaultCriteria matches the "default" scoring scheme: score, then length.
var DefaultCriteria = []Criterion{ByScore, ByLength}

// Result is one matched item together with its tiebreak points, ready to
// be sorted or merged without recomputing the score.
type Result struct {
	Entry   *item.Entry
	Offsets [][2]int32
	Points  [4]uint16
}

// Index returns the item's ordinal position in the store.
func (r Result) Index() uint32 {
	return r.Entry.Index
}

func trimLength(text []byte) int {
	trimmed := bytes.TrimRight(text, " \t\n\r")
	return utf8.RuneCount(trimmed)
}

// buildResult computes the tiebreak point vector for one match: byScore
// inverts the score so that, combined with the ascending sort used
// everywhere else, higher scores win; byBegin and byEnd favor matches that
// start earlier / end relatively sooner, ignoring leading whitespace.
func buildResult(entry *item.Entry, offsets [][2]int32, score int, criteria []Criterion) Result {
	result := Result{Entry: entry, Offsets: offsets}

	minBegin := math.MaxUint16
	minEnd := math.MaxUint16
	maxEnd := 0
	validOffsetFound := false
	for _, off := range offsets {
		b, e := int(off[0]), int(off[1])
		if b < e {
			minBegin = util.Min(b, minBegin)
			minEnd = util.Min(e, minEnd)
			maxEnd = util.Max(e, maxEnd)
			validOffsetFound = true
		}
	}

	trimmed := trimLength(entry.Text)

	for idx, criterion := range criteria {
		val := uint16(math.MaxUint16)
		switch criterion {
		case ByScore:
			val = util.AsUint16(math.MaxUint16 - score)
		case ByLength:
			val = util.AsUint16(trimmed)
		case ByBegin, ByEnd:
			if validOffsetFound {
				whitePrefixLen := 0
				runes := []rune(string(entry.Text))
				for i, r := range runes {
					whitePrefixLen = i
					if i == minBegin || !isSpace(r) {
						break
					}
				}
				if criterion == ByBegin {
					val = util.AsUint16(minEnd - whitePrefixLen)
				} else if trimmed > 0 {
					val = util.AsUint16(math.MaxUint16 - math.MaxUint16*(maxEnd-whitePrefixLen)/trimmed)
				}
			}
		}
		if idx < len(result.Points) {
			result.Points[len(result.Points)-1-idx] = val
		}
	}
	return result
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// compareRanks reports whether irank should sort before jrank, comparing
// points from the most significant tiebreak to the least significant, then
// falling back to item index (ascending, or descending under tac).
func compareRanks(irank, jrank Result, tac bool) bool {
	for idx := len(irank.Points) - 1; idx >= 0; idx-- {
		left, right := irank.Points[idx], jrank.Points[idx]
		if left < right {
			return true
		} else if left > right {
			return false
		}
	}
	return (irank.Entry.Index <= jrank.Entry.Index) != tac
}

// ByRelevance sorts a slice of Results by the full tiebreak order.
type ByRelevance []Result

func (a ByRelevance) Len() int      { return len(a) }
func (a ByRelevance) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByRelevance) Less(i, j int) bool {
	return compareRanks(a[i], a[j], false)
}

// ByRelevanceTac is ByRelevance with the index tiebreak reversed, used
// under --tac.
type ByRelevanceTac []Result

func (a ByRelevanceTac) Len() int      { return len(a) }
func (a ByRelevanceTac) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByRelevanceTac) Less(i, j int) bool {
	return compareRanks(a[i], a[j], true)
}
