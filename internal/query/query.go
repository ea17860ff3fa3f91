// Package query compiles a raw query string into a Predicate tree: an
// explicit AND-of-ORs of typed leaves (fuzzy, exact-substring, prefix,
// suffix, equality, their inverses, and regex), using the same term
// classification as pattern.go's parseTerms/BuildPattern, but exposing the
// result as an explicit tree rather than a flat termSets slice, since the
// matcher here composes it with the DP scorer directly instead of going
// through a chunk-level result cache.
package query

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/lotabout/skim/internal/algo"
	"github.com/lotabout/skim/internal/fields"
	"github.com/lotabout/skim/internal/util"
)

// Mode selects the overall matching strategy.
type Mode int

const (
	ModeFuzzy Mode = iota
	ModeExact
	ModeRegex
)

// CasePolicy controls case sensitivity.
type CasePolicy int

const (
	CaseSmart CasePolicy = iota
	CaseRespect
	CaseIgnore
)

// LeafKind names the primitive comparison a Leaf performs.
type LeafKind int

const (
	LeafFuzzy LeafKind = iota
	LeafExact
	LeafPrefix
	LeafSuffix
	LeafEqual
)

// Leaf is one atomic predicate: match text (as runes, already case-folded
// per CaseSensitive) against a candidate, optionally inverted.
type Leaf struct {
	Kind          LeafKind
	Text          []rune
	Inverse       bool
	CaseSensitive bool
	Normalize     bool
}

// OrGroup is a set of leaves joined by OR: best (or only) match wins.
type OrGroup []Leaf

// Predicate is the compiled query: an AND of OrGroups. An empty Predicate
// (no groups) matches everything with a zero score.
type Predicate struct {
	Groups []OrGroup
	// Regex holds the single whole-string pattern used when Mode ==
	// ModeRegex; Groups is unused in that case.
	Regex *regexp.Regexp
}

// IsEmpty reports whether the compiled predicate imposes no constraint.
func (p *Predicate) IsEmpty() bool {
	if p.Regex != nil {
		return false
	}
	return len(p.Groups) == 0
}

// LeafMatch is the outcome of evaluating one Leaf against one candidate.
type LeafMatch struct {
	Matched   bool
	Score     int
	Start     int
	End       int
	Positions []int
}

// caseSensitiveFor applies the smart/respect/ignore policy to one raw
// token: smart is case-insensitive unless the token itself carries an
// uppercase letter.
func caseSensitiveFor(policy CasePolicy, raw string) bool {
	switch policy {
	case CaseRespect:
		return true
	case CaseIgnore:
		return false
	default: // CaseSmart
		return raw != strings.ToLower(raw)
	}
}

var splitSpaces = regexp.MustCompile(" +")

// Compile parses text into a Predicate under the given mode and case
// policy.
func Compile(text string, mode Mode, policy CasePolicy, normalize bool) (*Predicate, error) {
	if mode == ModeRegex {
		re, err := regexp.Compile(text)
		if err != nil {
			// A malformed regex is not fatal: it compiles to a predicate
			// that matches nothing, with the parse error returned
			// alongside it for the caller to surface.
			return &Predicate{Regex: regexp.MustCompile("$.^")}, errors.Wrap(err, "invalid regular expression")
		}
		return &Predicate{Regex: re}, nil
	}

	escaped := strings.ReplaceAll(text, "\\ ", "\t")
	tokens := splitSpaces.Split(escaped, -1)

	var groups []OrGroup
	var cur OrGroup
	startNewGroup := false
	afterBar := false

	flush := func() {
		if len(cur) > 0 {
			groups = append(groups, cur)
			cur = nil
		}
	}

	for _, tok := range tokens {
		raw := strings.ReplaceAll(tok, "\t", " ")
		if raw == "" {
			continue
		}

		if len(cur) > 0 && !afterBar && raw == "|" {
			startNewGroup = false
			afterBar = true
			continue
		}
		afterBar = false

		caseSensitive := caseSensitiveFor(policy, raw)
		text := raw
		if !caseSensitive {
			text = strings.ToLower(raw)
		}

		kind := LeafFuzzy
		if mode == ModeExact {
			kind = LeafExact
		}
		inverse := false

		if strings.HasPrefix(text, "!") {
			inverse = true
			kind = LeafExact
			text = text[1:]
		}
		if text != "$" && strings.HasSuffix(text, "$") {
			kind = LeafSuffix
			text = text[:len(text)-1]
		}
		if strings.HasPrefix(text, "'") {
			if mode == ModeFuzzy && !inverse {
				kind = LeafExact
			} else {
				kind = LeafFuzzy
			}
			text = text[1:]
		} else if strings.HasPrefix(text, "^") {
			if kind == LeafSuffix {
				kind = LeafEqual
			} else {
				kind = LeafPrefix
			}
			text = text[1:]
		}

		if text == "" {
			continue
		}

		normalizeTerm := normalize && text == string(algo.NormalizeRunes([]rune(text)))
		textRunes := []rune(text)
		if normalizeTerm {
			textRunes = algo.NormalizeRunes(textRunes)
		}

		if startNewGroup {
			flush()
		}
		cur = append(cur, Leaf{
			Kind:          kind,
			Text:          textRunes,
			Inverse:       inverse,
			CaseSensitive: caseSensitive,
			Normalize:     normalizeTerm,
		})
		startNewGroup = true
	}
	flush()

	return &Predicate{Groups: groups}, nil
}

// EvalLeaf runs one Leaf against a candidate, already projected to the
// match view (see internal/fields for projection).
func EvalLeaf(leaf Leaf, candidate *util.Chars, forward bool, withPos bool, slab *util.Slab, fuzzyAlgo algo.Algo) LeafMatch {
	var fn algo.Algo
	switch leaf.Kind {
	case LeafFuzzy:
		fn = fuzzyAlgo
	case LeafExact:
		fn = algo.ExactMatchNaive
	case LeafPrefix:
		fn = algo.PrefixMatch
	case LeafSuffix:
		fn = algo.SuffixMatch
	case LeafEqual:
		fn = algo.EqualMatch
	}

	res, pos := fn(leaf.CaseSensitive, leaf.Normalize, forward, candidate, leaf.Text, withPos, slab)
	matched := res.Start >= 0
	if leaf.Inverse {
		matched = !matched
		if matched {
			return LeafMatch{Matched: true}
		}
		return LeafMatch{Matched: false}
	}
	if !matched {
		return LeafMatch{}
	}
	lm := LeafMatch{Matched: true, Score: res.Score, Start: res.Start, End: res.End}
	if pos != nil {
		lm.Positions = *pos
	}
	return lm
}

// CompileFieldRanges parses a --nth/--with-nth style spec into a slice of
// field ranges using internal/fields' grammar.
func CompileFieldRanges(spec string) ([]fields.Range, error) {
	return fields.ParseRangeList(spec)
}
