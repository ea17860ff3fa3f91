// Package item defines the ingested line (Entry) and its append-only,
// concurrently-read Store. Items are immutable once appended: the Store is
// the sole owner, and every other package (matcher, selection, renderer)
// only ever borrows an Entry by index.
package item

import (
	"sync"
	"sync/atomic"

	"github.com/lotabout/skim/internal/ansi"
)

// chunkSize bounds how many entries live in one Chunk. Matching work is
// partitioned along chunk boundaries, so this also doubles as the unit of
// parallelism handed to the matcher's worker pool.
const chunkSize = 4096

// Entry is one ingested, immutable line.
type Entry struct {
	// Text is the line as scored and displayed (ANSI escapes already
	// stripped when ansi parsing is enabled).
	Text []byte
	// Output, when non-nil, is printed on accept instead of Text — set
	// when the source line differed from what's shown (e.g. a
	// field-sliced display projection).
	Output []byte
	// Colors holds the ANSI color/attribute segments extracted from the
	// original line, in Text's rune offsets. Nil when ANSI parsing is
	// off or the line carried no escape sequences.
	Colors []ansi.Segment
	// Index is the insertion order, assigned once and never reused.
	Index uint32
}

// AsOutput returns the text that should be printed when this Entry is
// accepted.
func (e *Entry) AsOutput() string {
	if e.Output != nil {
		return string(e.Output)
	}
	return string(e.Text)
}

// Builder constructs an Entry from one raw ingested record (already split
// on the line/NUL delimiter) and its assigned index. It returns nil to
// silently drop a record (used by field-slice filtering).
type Builder func(data []byte, index int) *Entry

// Chunk is a fixed-capacity run of Entry pointers.
type Chunk []*Entry

func (c *Chunk) isFull() bool {
	return len(*c) == chunkSize
}

func (c *Chunk) dupe() *Chunk {
	dup := make(Chunk, len(*c))
	copy(dup, *c)
	return &dup
}

// Store is the append-only, growing sequence of Entries. Appends are
// serialized by mutex; Snapshot lets readers (the matcher) observe a
// consistent prefix without blocking further appends, by duplicating the
// one chunk still being written to.
type Store struct {
	mu     sync.Mutex
	chunks []*Chunk
	count  int
	build  Builder
	pubLen int64 // atomic: entries visible to Snapshot/Len callers
}

// NewStore returns an empty Store that builds Entries with build.
func NewStore(build Builder) *Store {
	return &Store{build: build}
}

// Push ingests one raw record, returning false if the builder dropped it.
func (s *Store) Push(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) == 0 || s.chunks[len(s.chunks)-1].isFull() {
		c := make(Chunk, 0, chunkSize)
		s.chunks = append(s.chunks, &c)
	}
	entry := s.build(data, s.count)
	if entry == nil {
		return false
	}
	last := s.chunks[len(s.chunks)-1]
	*last = append(*last, entry)
	s.count++
	atomic.StoreInt64(&s.pubLen, int64(s.count))
	return true
}

// Len returns the number of entries published so far.
func (s *Store) Len() int {
	return int(atomic.LoadInt64(&s.pubLen))
}

// Snapshot returns an immutable view of the chunks appended so far and
// their total entry count. The last chunk is duplicated so a concurrent
// Push extending it cannot mutate what the caller already holds.
func (s *Store) Snapshot() ([]*Chunk, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks := make([]*Chunk, len(s.chunks))
	copy(chunks, s.chunks)
	if n := len(chunks); n > 0 {
		chunks[n-1] = chunks[n-1].dupe()
	}
	return chunks, s.count
}

// Reset discards every entry and restarts indexing at 0. Used when the
// ingest source is restarted (e.g. the interactive reload command
// changed) so the matcher never observes a mix of old and new entries.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.count = 0
	atomic.StoreInt64(&s.pubLen, 0)
}

// CountOf returns the total entry count implied by a chunk slice, without
// needing the Store itself — used by matcher workers operating on a
// Snapshot.
func CountOf(chunks []*Chunk) int {
	if len(chunks) == 0 {
		return 0
	}
	return chunkSize*(len(chunks)-1) + len(*chunks[len(chunks)-1])
}
