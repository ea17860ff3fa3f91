// Package fields implements the field-slice projection used by --nth (the
// matcher's view of a line) and --with-nth (the displayed view): splitting
// a line into tokens by a delimiter, then selecting/joining a subset of
// them by 1-based range expressions.
package fields

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lotabout/skim/internal/util"
)

// rangeEllipsis marks an omitted end of a Range (".." on that side).
const rangeEllipsis = 0

// Range is a parsed nth-expression: 1-based, inclusive, negative counts
// from the end, rangeEllipsis on either side means "to the edge".
type Range struct {
	Begin int
	End   int
}

// Token is one field: its text and the prefix length (in runes) it was
// found at, needed to report match positions back in whole-line offsets.
type Token struct {
	Text         *util.Chars
	PrefixLength int32
}

func (t Token) String() string {
	return fmt.Sprintf("Token{text: %s, prefixLength: %d}", t.Text.ToString(), t.PrefixLength)
}

// Delimiter for tokenizing. Exactly one of Str or Regex is set; both nil
// means AWK-style whitespace-run splitting.
type Delimiter struct {
	Regex *regexp.Regexp
	Str   *string
}

func (d Delimiter) String() string {
	str := ""
	if d.Str != nil {
		str = *d.Str
	}
	return fmt.Sprintf("Delimiter{regex: %v, str: %q}", d.Regex, str)
}

func newRange(begin, end int) Range {
	if begin == 1 {
		begin = rangeEllipsis
	}
	if end == -1 {
		end = rangeEllipsis
	}
	return Range{begin, end}
}

// ParseRange parses one comma-separated nth-expression component, e.g.
// "2", "-1", "3..5", "..3", "2..".
func ParseRange(str string) (Range, bool) {
	if str == ".." {
		return newRange(rangeEllipsis, rangeEllipsis), true
	} else if strings.HasPrefix(str, "..") {
		end, err := strconv.Atoi(str[2:])
		if err != nil || end == 0 {
			return Range{}, false
		}
		return newRange(rangeEllipsis, end), true
	} else if strings.HasSuffix(str, "..") {
		begin, err := strconv.Atoi(str[:len(str)-2])
		if err != nil || begin == 0 {
			return Range{}, false
		}
		return newRange(begin, rangeEllipsis), true
	} else if strings.Contains(str, "..") {
		parts := strings.SplitN(str, "..", 2)
		begin, err1 := strconv.Atoi(parts[0])
		end, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || begin == 0 || end == 0 {
			return Range{}, false
		}
		return newRange(begin, end), true
	}

	n, err := strconv.Atoi(str)
	if err != nil || n == 0 {
		return Range{}, false
	}
	return newRange(n, n), true
}

func withPrefixLengths(tokens []string, begin int) []Token {
	ret := make([]Token, len(tokens))
	prefixLength := begin
	for idx := range tokens {
		chars := util.ToChars([]byte(tokens[idx]))
		ret[idx] = Token{&chars, int32(prefixLength)}
		prefixLength += chars.Length()
	}
	return ret
}

const (
	awkNil = iota
	awkBlack
	awkWhite
)

// awkTokenizer splits on runs of tab/space, keeping the trailing
// whitespace attached to each token the way AWK's $0 field split does.
func awkTokenizer(input string) ([]string, int) {
	var ret []string
	prefixLength := 0
	state := awkNil
	begin, end := 0, 0
	for idx := 0; idx < len(input); idx++ {
		r := input[idx]
		white := r == 9 || r == 32
		switch state {
		case awkNil:
			if white {
				prefixLength++
			} else {
				state, begin, end = awkBlack, idx, idx+1
			}
		case awkBlack:
			end = idx + 1
			if white {
				state = awkWhite
			}
		case awkWhite:
			if white {
				end = idx + 1
			} else {
				ret = append(ret, input[begin:end])
				state, begin, end = awkBlack, idx, idx+1
			}
		}
	}
	if begin < end {
		ret = append(ret, input[begin:end])
	}
	return ret, prefixLength
}

// Tokenize splits text per delimiter.
func Tokenize(text string, delimiter Delimiter) []Token {
	if delimiter.Str == nil && delimiter.Regex == nil {
		tokens, prefixLength := awkTokenizer(text)
		return withPrefixLengths(tokens, prefixLength)
	}

	if delimiter.Str != nil {
		return withPrefixLengths(strings.SplitAfter(text, *delimiter.Str), 0)
	}

	var tokens []string
	for len(text) > 0 {
		loc := delimiter.Regex.FindStringIndex(text)
		if len(loc) < 2 {
			loc = []int{0, len(text)}
		}
		last := util.Max(loc[1], 1)
		tokens = append(tokens, text[:last])
		text = text[last:]
	}
	return withPrefixLengths(tokens, 0)
}

func joinTokens(tokens []Token) string {
	var out bytes.Buffer
	for _, t := range tokens {
		out.WriteString(t.Text.ToString())
	}
	return out.String()
}

// Transform selects and concatenates the token ranges named by withNth,
// in order, one output Token per range (used for both --nth and
// --with-nth; the caller picks which projection it's building).
func Transform(tokens []Token, withNth []Range) []Token {
	out := make([]Token, len(withNth))
	numTokens := len(tokens)
	for outIdx, r := range withNth {
		var parts []*util.Chars
		minIdx := 0
		if r.Begin == r.End {
			idx := r.Begin
			if idx == rangeEllipsis {
				chars := util.ToChars([]byte(joinTokens(tokens)))
				parts = append(parts, &chars)
			} else {
				if idx < 0 {
					idx += numTokens + 1
				}
				if idx >= 1 && idx <= numTokens {
					minIdx = idx - 1
					parts = append(parts, tokens[idx-1].Text)
				}
			}
		} else {
			var begin, end int
			if r.Begin == rangeEllipsis {
				begin, end = 1, r.End
				if end < 0 {
					end += numTokens + 1
				}
			} else if r.End == rangeEllipsis {
				begin, end = r.Begin, numTokens
				if begin < 0 {
					begin += numTokens + 1
				}
			} else {
				begin, end = r.Begin, r.End
				if begin < 0 {
					begin += numTokens + 1
				}
				if end < 0 {
					end += numTokens + 1
				}
			}
			minIdx = util.Max(0, begin-1)
			for idx := begin; idx <= end; idx++ {
				if idx >= 1 && idx <= numTokens {
					parts = append(parts, tokens[idx-1].Text)
				}
			}
		}

		var merged util.Chars
		switch len(parts) {
		case 0:
			merged = util.ToChars([]byte{})
		case 1:
			merged = *parts[0]
		default:
			var buf bytes.Buffer
			for _, p := range parts {
				buf.WriteString(p.ToString())
			}
			merged = util.ToChars(buf.Bytes())
		}

		var prefixLength int32
		if minIdx < numTokens {
			prefixLength = tokens[minIdx].PrefixLength
		}
		out[outIdx] = Token{&merged, prefixLength}
	}
	return out
}

// ParseRangeList parses a comma-separated nth-expression list, e.g.
// "1,3..5,-1", as used by --nth and --with-nth.
func ParseRangeList(spec string) ([]Range, error) {
	var ranges []Range
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, ok := ParseRange(part)
		if !ok {
			return nil, fmt.Errorf("invalid field range: %q", part)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}
