package util

import "testing"

func TestMinMaxConstrain(t *testing.T) {
	if Max(3, 5) != 5 || Max(5, 3) != 5 {
		t.Error("Max")
	}
	if Min(3, 5) != 3 || Min(5, 3) != 3 {
		t.Error("Min")
	}
	if Constrain(10, 0, 5) != 5 || Constrain(-1, 0, 5) != 0 || Constrain(3, 0, 5) != 3 {
		t.Error("Constrain")
	}
}

func TestAsUint16(t *testing.T) {
	if AsUint16(-1) != 0 {
		t.Error("negative should clamp to 0")
	}
	if AsUint16(1 << 20) != 65535 {
		t.Error("overflow should clamp to max")
	}
	if AsUint16(42) != 42 {
		t.Error("in range should pass through")
	}
}

func TestCharsAscii(t *testing.T) {
	c := ToChars([]byte("hello"))
	if !c.IsBytes() {
		t.Error("expected ascii fast path")
	}
	if c.Length() != 5 {
		t.Errorf("expected length 5, got %d", c.Length())
	}
	if c.Get(0) != 'h' || c.Get(4) != 'o' {
		t.Error("unexpected Get result")
	}
	if c.ToString() != "hello" {
		t.Error("ToString mismatch")
	}
}

func TestCharsUnicode(t *testing.T) {
	c := ToChars([]byte("héllo"))
	if c.IsBytes() {
		t.Error("expected rune path for non-ascii input")
	}
	if c.Length() != 5 {
		t.Errorf("expected length 5, got %d", c.Length())
	}
	if c.ToString() != "héllo" {
		t.Error("ToString mismatch")
	}
}

func TestCharsTrimLength(t *testing.T) {
	c := ToChars([]byte("  hi  "))
	if c.TrimLength() != 2 {
		t.Errorf("expected trim length 2, got %d", c.TrimLength())
	}
	empty := ToChars([]byte("   "))
	if empty.TrimLength() != 0 {
		t.Errorf("expected trim length 0 for all-whitespace, got %d", empty.TrimLength())
	}
}

func TestEventBoxLatestWins(t *testing.T) {
	b := NewEventBox()
	type evt = EventType
	const e evt = 1
	b.Set(e, 1)
	b.Set(e, 2)
	b.Wait(func(events *Events) {
		if (*events)[e] != 2 {
			t.Errorf("expected latest value to win, got %v", (*events)[e])
		}
		events.Clear()
	})
}

func TestEventBoxUnwatch(t *testing.T) {
	b := NewEventBox()
	const e EventType = 1
	b.Unwatch(e)
	done := make(chan struct{})
	go func() {
		b.Set(e, "ignored")
		close(done)
	}()
	<-done
	if !b.Peek(e) {
		t.Error("expected event to still be recorded even when ignored")
	}
}
