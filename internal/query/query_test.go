package query

import (
	"testing"

	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/util"
)

func TestCompileFuzzyGrouping(t *testing.T) {
	p, err := Compile("foo bar | baz", ModeFuzzy, CaseSmart, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// "foo" AND ("bar" OR "baz")
	if len(p.Groups) != 2 {
		t.Fatalf("expected 2 AND-groups, got %d", len(p.Groups))
	}
	if len(p.Groups[0]) != 1 || string(p.Groups[0][0].Text) != "foo" {
		t.Errorf("unexpected first group: %+v", p.Groups[0])
	}
	if len(p.Groups[1]) != 2 || string(p.Groups[1][0].Text) != "bar" || string(p.Groups[1][1].Text) != "baz" {
		t.Errorf("unexpected second group: %+v", p.Groups[1])
	}
}

func TestCompileTokenClassification(t *testing.T) {
	cases := []struct {
		token string
		kind  LeafKind
		inv   bool
		text  string
	}{
		{"'exact", LeafExact, false, "exact"},
		{"^prefix", LeafPrefix, false, "prefix"},
		{"suffix$", LeafSuffix, false, "suffix"},
		{"^both$", LeafEqual, false, "both"},
		{"!neg", LeafExact, true, "neg"},
		{"!^negprefix", LeafPrefix, true, "negprefix"},
		{"!negsuffix$", LeafSuffix, true, "negsuffix"},
		{"plain", LeafFuzzy, false, "plain"},
	}
	for _, c := range cases {
		p, err := Compile(c.token, ModeFuzzy, CaseRespect, false)
		if err != nil {
			t.Fatalf("Compile(%q): %v", c.token, err)
		}
		if len(p.Groups) != 1 || len(p.Groups[0]) != 1 {
			t.Fatalf("Compile(%q): expected exactly one leaf, got %+v", c.token, p.Groups)
		}
		leaf := p.Groups[0][0]
		if leaf.Kind != c.kind || leaf.Inverse != c.inv || string(leaf.Text) != c.text {
			t.Errorf("Compile(%q) = %+v, want kind=%v inv=%v text=%q", c.token, leaf, c.kind, c.inv, c.text)
		}
	}
}

func TestCompileExactModeBareToken(t *testing.T) {
	p, _ := Compile("plain", ModeExact, CaseRespect, false)
	if p.Groups[0][0].Kind != LeafExact {
		t.Errorf("expected bare token to be exact in exact mode, got %v", p.Groups[0][0].Kind)
	}
}

func TestCaseSmartPolicy(t *testing.T) {
	p, _ := Compile("Foo", ModeFuzzy, CaseSmart, false)
	if !p.Groups[0][0].CaseSensitive {
		t.Error("expected smart case to be case-sensitive when the token has an uppercase letter")
	}
	p, _ = Compile("foo", ModeFuzzy, CaseSmart, false)
	if p.Groups[0][0].CaseSensitive {
		t.Error("expected smart case to be case-insensitive for an all-lowercase token")
	}
}

func TestCompileRegexMode(t *testing.T) {
	p, err := Compile("^foo.*bar$", ModeRegex, CaseRespect, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Regex == nil || !p.Regex.MatchString("foobazbar") {
		t.Error("expected compiled regex to match")
	}
}

func TestCompileRegexModeInvalid(t *testing.T) {
	p, err := Compile("(unterminated", ModeRegex, CaseRespect, false)
	if err == nil {
		t.Fatal("expected an error for a malformed regex")
	}
	if p == nil || p.Regex == nil {
		t.Fatal("expected a never-matching predicate even on error")
	}
	if p.Regex.MatchString("anything") {
		t.Error("expected the fallback predicate to match nothing")
	}
}

func TestEvalLeafFuzzyAndInverse(t *testing.T) {
	chars := util.ToChars([]byte("fooBarbaz"))
	leaf := Leaf{Kind: LeafFuzzy, Text: []rune("obz"), CaseSensitive: false}
	lm := EvalLeaf(leaf, &chars, true, true, nil, algo.FuzzyMatchV2)
	if !lm.Matched || lm.Score <= 0 {
		t.Errorf("expected a positive fuzzy match, got %+v", lm)
	}

	inv := Leaf{Kind: LeafExact, Text: []rune("nope"), Inverse: true, CaseSensitive: false}
	lm = EvalLeaf(inv, &chars, true, false, nil, algo.FuzzyMatchV2)
	if !lm.Matched {
		t.Error("expected inverse leaf to match when the inner exact search fails")
	}

	invFail := Leaf{Kind: LeafExact, Text: []rune("bar"), Inverse: true, CaseSensitive: false}
	lm = EvalLeaf(invFail, &chars, true, false, nil, algo.FuzzyMatchV2)
	if lm.Matched {
		t.Error("expected inverse leaf to fail when the inner exact search succeeds")
	}
}
