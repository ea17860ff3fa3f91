package fields

import (
	"regexp"
	"testing"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		in         string
		begin, end int
		ok         bool
	}{
		{"..", rangeEllipsis, rangeEllipsis, true},
		{"3..", 3, rangeEllipsis, true},
		{"3..5", 3, 5, true},
		{"-3..-5", -3, -5, true},
		{"2", 2, 2, true},
		{"abc", 0, 0, false},
		{"0", 0, 0, false},
	}
	for _, c := range cases {
		r, ok := ParseRange(c.in)
		if ok != c.ok {
			t.Fatalf("ParseRange(%q): ok=%v, want %v", c.in, ok, c.ok)
		}
		if !ok {
			continue
		}
		if r.Begin != c.begin || r.End != c.end {
			t.Errorf("ParseRange(%q) = %+v, want {%d %d}", c.in, r, c.begin, c.end)
		}
	}
}

func delimiterRegexp(pattern string) Delimiter {
	return Delimiter{Regex: regexp.MustCompile(pattern)}
}

func TestTokenizeAwk(t *testing.T) {
	tokens := Tokenize("  ab  cd", Delimiter{})
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Text.ToString() != "ab  " || tokens[0].PrefixLength != 2 {
		t.Errorf("unexpected token 0: %+v", tokens[0])
	}
	if tokens[1].Text.ToString() != "cd" || tokens[1].PrefixLength != 6 {
		t.Errorf("unexpected token 1: %+v", tokens[1])
	}
}

func TestTokenizeDelimiter(t *testing.T) {
	tokens := Tokenize("a:b:c:d", delimiterRegexp(":"))
	want := []string{"a:", "b:", "c:", "d"}
	wantPrefix := []int32{0, 2, 4, 6}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, w := range want {
		if tokens[i].Text.ToString() != w {
			t.Errorf("token %d = %q, want %q", i, tokens[i].Text.ToString(), w)
		}
		if tokens[i].PrefixLength != wantPrefix[i] {
			t.Errorf("token %d prefix = %d, want %d", i, tokens[i].PrefixLength, wantPrefix[i])
		}
	}
}

func TestTransformSingleAndRange(t *testing.T) {
	tokens := Tokenize("a:b:c:d", delimiterRegexp(":"))

	assertOne := func(spec, want string, wantPrefix int32) {
		r, ok := ParseRange(spec)
		if !ok {
			t.Fatalf("ParseRange(%q) failed", spec)
		}
		out := Transform(tokens, []Range{r})
		if len(out) != 1 {
			t.Fatalf("expected 1 output token for %q, got %d", spec, len(out))
		}
		if out[0].Text.ToString() != want {
			t.Errorf("Transform(%q) = %q, want %q", spec, out[0].Text.ToString(), want)
		}
		if out[0].PrefixLength != wantPrefix {
			t.Errorf("Transform(%q) prefix = %d, want %d", spec, out[0].PrefixLength, wantPrefix)
		}
	}

	assertOne("2", "b:", 2)
	assertOne("3", "c:", 4)
	assertOne("2..3", "b:c:", 2)
	assertOne("..", "a:b:c:d", 0)
	assertOne("-1", "d", 6)
}

func TestTransformPrefixLengthFromAwk(t *testing.T) {
	tokens := Tokenize("  ab  cd", Delimiter{})

	r1, _ := ParseRange("1")
	out := Transform(tokens, []Range{r1})
	if out[0].Text.ToString() != "ab  " || out[0].PrefixLength != 2 {
		t.Errorf("field 1 = %+v", out[0])
	}

	r2, _ := ParseRange("2")
	out = Transform(tokens, []Range{r2})
	if out[0].Text.ToString() != "cd" || out[0].PrefixLength != 6 {
		t.Errorf("field 2 = %+v", out[0])
	}
}

func TestParseRangeList(t *testing.T) {
	ranges, err := ParseRangeList("1,3..5,-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if _, err := ParseRangeList("1,bogus"); err == nil {
		t.Fatal("expected an error for an invalid range component")
	}
}
