package item

import "testing"

func buildAll(data []byte, index int) *Entry {
	return &Entry{Text: append([]byte(nil), data...), Index: uint32(index)}
}

func TestStorePushAndSnapshot(t *testing.T) {
	s := NewStore(buildAll)
	for i := 0; i < chunkSize+10; i++ {
		if !s.Push([]byte("line")) {
			t.Fatalf("push %d unexpectedly dropped", i)
		}
	}
	if s.Len() != chunkSize+10 {
		t.Fatalf("expected %d entries, got %d", chunkSize+10, s.Len())
	}
	chunks, count := s.Snapshot()
	if count != chunkSize+10 {
		t.Fatalf("expected snapshot count %d, got %d", chunkSize+10, count)
	}
	if CountOf(chunks) != count {
		t.Fatalf("CountOf(%d) != Snapshot count %d", CountOf(chunks), count)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
}

func TestStoreSnapshotIsolatesLastChunk(t *testing.T) {
	s := NewStore(buildAll)
	s.Push([]byte("a"))
	chunks, count := s.Snapshot()
	if count != 1 || len((*chunks[0])) != 1 {
		t.Fatalf("unexpected snapshot shape: count=%d len=%d", count, len(*chunks[0]))
	}
	s.Push([]byte("b"))
	// The snapshot taken before the second push must not observe it.
	if len(*chunks[0]) != 1 {
		t.Fatalf("snapshot chunk mutated by later push: len=%d", len(*chunks[0]))
	}
	if s.Len() != 2 {
		t.Fatalf("expected store to see 2 entries, got %d", s.Len())
	}
}

func TestStoreDroppedEntry(t *testing.T) {
	s := NewStore(func(data []byte, index int) *Entry {
		if len(data) == 0 {
			return nil
		}
		return &Entry{Text: data, Index: uint32(index)}
	})
	if s.Push(nil) {
		t.Fatal("expected empty record to be dropped")
	}
	if s.Len() != 0 {
		t.Fatalf("expected 0 entries after a dropped push, got %d", s.Len())
	}
}

func TestStoreReset(t *testing.T) {
	s := NewStore(buildAll)
	s.Push([]byte("a"))
	s.Push([]byte("b"))
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("expected 0 entries after reset, got %d", s.Len())
	}
	s.Push([]byte("c"))
	chunks, count := s.Snapshot()
	if count != 1 {
		t.Fatalf("expected 1 entry after reset+push, got %d", count)
	}
	if (*chunks[0])[0].Index != 0 {
		t.Fatalf("expected index to restart at 0 after reset, got %d", (*chunks[0])[0].Index)
	}
}

func TestEntryAsOutput(t *testing.T) {
	e := &Entry{Text: []byte("display")}
	if e.AsOutput() != "display" {
		t.Fatalf("expected AsOutput to fall back to Text, got %q", e.AsOutput())
	}
	e.Output = []byte("original")
	if e.AsOutput() != "original" {
		t.Fatalf("expected AsOutput to prefer Output, got %q", e.AsOutput())
	}
}
