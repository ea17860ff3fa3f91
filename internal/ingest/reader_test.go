package ingest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestReadStreamSplitsOnNewline(t *testing.T) {
	r := NewReader("sh", false)
	var got []string
	err := r.readStream(context.Background(), strings.NewReader("a\nb\nc\n"), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadStreamSplitsOnNul(t *testing.T) {
	r := NewReader("sh", true)
	var got []string
	err := r.readStream(context.Background(), bytes.NewReader([]byte("a\x00b\x00c")), func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReadStreamStopsWhenPushReturnsFalse(t *testing.T) {
	r := NewReader("sh", false)
	count := 0
	err := r.readStream(context.Background(), strings.NewReader("a\nb\nc\nd\n"), func(data []byte) bool {
		count++
		return count < 2
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected push to stop after 2 records, got %d", count)
	}
}

func TestReadCommandFeedsStdout(t *testing.T) {
	r := NewReader("sh", false)
	var got []string
	err := r.Read(context.Background(), SourceCommand, "printf 'x\\ny\\n'", func(data []byte) bool {
		got = append(got, string(data))
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("got %v", got)
	}
}

func TestReadCommandCancellationTerminatesProducer(t *testing.T) {
	r := NewReader("sh", false)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := r.Read(ctx, SourceCommand, "yes | head -c 100000000", func(data []byte) bool { return true })
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected cancellation to surface as an error")
	}
	if elapsed > 3*time.Second {
		t.Fatalf("expected the producer to be killed promptly, took %v", elapsed)
	}
}
