// Package algo implements the dynamic-programming fuzzy scorer and the
// simpler exact/prefix/suffix/equal match primitives that sit underneath
// the query predicate tree (see internal/query). All Algo functions share
// one calling convention so internal/query can treat every leaf kind
// uniformly:
//
//	func(caseSensitive, normalize, forward bool, input *util.Chars,
//	     pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int)
//
// Two assumptions hold for every implementation here: pattern is already
// folded to lowercase when caseSensitive is false, and pattern is already
// run through NormalizeRunes when normalize is true.
//
// FuzzyMatchV2 runs a Smith-Waterman-style alignment in O(n*m): unlike the
// textbook algorithm it does not allow omitting a pattern character, only
// gaps in the candidate, which keeps every pattern character contributing
// to the final score. FuzzyMatchV1 is the older O(n) "find first, then
// trim" heuristic, kept as a fallback for inputs too large to afford the
// full O(n*m) table (see the slab-capacity check in FuzzyMatchV2).
package algo

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lotabout/skim/internal/util"
)

// Result is the outcome of a single match attempt: the matched span
// [Start, End) in rune offsets, and its score.
type Result struct {
	Start int
	End   int
	Score int
}

const (
	scoreMatch        = 16
	scoreGapStart     = -3
	scoreGapExtension = -1

	// Bonus for matching right after a separator (word boundary). Tuned so
	// that it's fully cancelled by the gap penalty once the gap between
	// acronym letters grows past ~8 characters — roughly the average word
	// length in English text and typical file system path segments.
	bonusBoundary = scoreMatch / 2

	// Bonus for a non-word character itself; needed to compute the bonus
	// of a consecutive chunk that starts on a non-word character.
	bonusNonWord = scoreMatch / 2

	// Edge-triggered bonus for a camelCase / letter-to-digit transition.
	// Slightly lower than bonusBoundary since camelCase matches don't come
	// with the single-character gap a real word boundary does.
	bonusCamel123 = bonusBoundary + scoreGapExtension

	// Minimum bonus awarded to every character in a consecutive match run.
	bonusConsecutive = -(scoreGapStart + scoreGapExtension)

	// The first pattern character matters more than the rest: if it lands
	// on a bonus position, multiply the bonus (still bounded by the gap
	// penalty so it can't dominate arbitrarily).
	bonusFirstCharMultiplier = 2
)

type charClass int

const (
	charNonWord charClass = iota
	charLower
	charUpper
	charLetter
	charNumber
)

func charClassOfAscii(r rune) charClass {
	switch {
	case r >= 'a' && r <= 'z':
		return charLower
	case r >= 'A' && r <= 'Z':
		return charUpper
	case r >= '0' && r <= '9':
		return charNumber
	}
	return charNonWord
}

func charClassOfNonAscii(r rune) charClass {
	switch {
	case unicode.IsLower(r):
		return charLower
	case unicode.IsUpper(r):
		return charUpper
	case unicode.IsNumber(r):
		return charNumber
	case unicode.IsLetter(r):
		return charLetter
	}
	return charNonWord
}

func charClassOf(r rune) charClass {
	if r <= unicode.MaxASCII {
		return charClassOfAscii(r)
	}
	return charClassOfNonAscii(r)
}

func bonusFor(prev, cur charClass) int16 {
	switch {
	case prev == charNonWord && cur != charNonWord:
		return bonusBoundary
	case prev == charLower && cur == charUpper,
		prev != charNumber && cur == charNumber:
		return bonusCamel123
	case cur == charNonWord:
		return bonusNonWord
	}
	return 0
}

func bonusAt(input *util.Chars, idx int) int16 {
	if idx == 0 {
		return bonusBoundary
	}
	return bonusFor(charClassOf(input.Get(idx-1)), charClassOf(input.Get(idx)))
}

func posArray(withPos bool, capHint int) *[]int {
	if withPos {
		pos := make([]int, 0, capHint)
		return &pos
	}
	return nil
}

func alloc16(offset int, slab *util.Slab, size int) (int, []int16) {
	if slab != nil && cap(slab.I16) > offset+size {
		return offset + size, slab.I16[offset : offset+size]
	}
	return offset, make([]int16, size)
}

func alloc32(offset int, slab *util.Slab, size int) (int, []int32) {
	if slab != nil && cap(slab.I32) > offset+size {
		return offset + size, slab.I32[offset : offset+size]
	}
	return offset, make([]int32, size)
}

func indexAt(index, max int, forward bool) int {
	if forward {
		return index
	}
	return max - index - 1
}

// Algo is the common signature implemented by every match primitive below.
type Algo func(caseSensitive, normalize, forward bool, input *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int)

func isAscii(runes []rune) bool {
	for _, r := range runes {
		if r >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func trySkip(input *util.Chars, caseSensitive bool, b byte, from int) int {
	ba := input.Bytes()[from:]
	idx := bytes.IndexByte(ba, b)
	if idx == 0 {
		return from
	}
	if !caseSensitive && b >= 'a' && b <= 'z' {
		scope := ba
		if idx > 0 {
			scope = ba[:idx]
		}
		if uidx := bytes.IndexByte(scope, b-32); uidx >= 0 {
			idx = uidx
		}
	}
	if idx < 0 {
		return -1
	}
	return from + idx
}

// asciiFuzzyIndex finds, for pure-ASCII inputs, the earliest byte offset
// from which all pattern characters could possibly still occur in order;
// it lets FuzzyMatchV2 skip a prefix of the candidate without running the
// full DP table over it. Returns -1 when the pattern provably can't match
// at all, and 0 when the input isn't ASCII bytes (no shortcut available).
func asciiFuzzyIndex(input *util.Chars, pattern []rune, caseSensitive bool) int {
	if !input.IsBytes() {
		return 0
	}
	if !isAscii(pattern) {
		return -1
	}

	firstIdx, idx := 0, 0
	for pidx := 0; pidx < len(pattern); pidx++ {
		idx = trySkip(input, caseSensitive, byte(pattern[pidx]), idx)
		if idx < 0 {
			return -1
		}
		if pidx == 0 && idx > 0 {
			firstIdx = idx - 1
		}
		idx++
	}
	return firstIdx
}

// FuzzyMatchV2 finds the highest-scoring alignment of pattern against
// input where every pattern character must match, in order, allowing
// gaps. See the package doc for the algorithm sketch.
func FuzzyMatchV2(caseSensitive, normalize, forward bool, input *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	M := len(pattern)
	if M == 0 {
		return Result{0, 0, 0}, posArray(withPos, 0)
	}
	N := input.Length()

	if slab != nil && N*M > cap(slab.I16) {
		return FuzzyMatchV1(caseSensitive, normalize, forward, input, pattern, withPos, slab)
	}

	idx := asciiFuzzyIndex(input, pattern, caseSensitive)
	if idx < 0 {
		return Result{-1, -1, 0}, nil
	}

	offset16, offset32 := 0, 0
	offset16, H0 := alloc16(offset16, slab, N)
	offset16, C0 := alloc16(offset16, slab, N)
	offset16, B := alloc16(offset16, slab, N)
	offset32, F := alloc32(offset32, slab, M)
	offset32, T := alloc32(offset32, slab, N)
	input.CopyRunes(T)

	maxScore, maxScorePos := int16(0), 0
	pidx, lastIdx := 0, 0
	pchar0, pchar, prevH0, prevClass, inGap := pattern[0], pattern[0], int16(0), charNonWord, false

	Tsub := T[idx:]
	H0sub, C0sub, Bsub := H0[idx:][:len(Tsub)], C0[idx:][:len(Tsub)], B[idx:][:len(Tsub)]
	for off := range Tsub {
		char := rune(Tsub[off])
		var class charClass
		if char <= unicode.MaxASCII {
			class = charClassOfAscii(char)
			if !caseSensitive && class == charUpper {
				char += 32
			}
		} else {
			class = charClassOfNonAscii(char)
			if !caseSensitive && class == charUpper {
				char = unicode.ToLower(char)
			}
			if normalize {
				char = normalizeRune(char)
			}
		}
		Tsub[off] = int32(char)
		bonus := bonusFor(prevClass, class)
		Bsub[off] = bonus
		prevClass = class

		if char == pchar {
			if pidx < M {
				F[pidx] = int32(idx + off)
				pidx++
				pchar = pattern[util.Min(pidx, M-1)]
			}
			lastIdx = idx + off
		}

		if char == pchar0 {
			score := int16(scoreMatch) + bonus*bonusFirstCharMultiplier
			H0sub[off] = score
			C0sub[off] = 1
			if M == 1 && (forward && score > maxScore || !forward && score >= maxScore) {
				maxScore, maxScorePos = score, idx+off
				if forward && bonus == bonusBoundary {
					break
				}
			}
			inGap = false
		} else {
			if inGap {
				H0sub[off] = util.Max16(prevH0+scoreGapExtension, 0)
			} else {
				H0sub[off] = util.Max16(prevH0+scoreGapStart, 0)
			}
			C0sub[off] = 0
			inGap = true
		}
		prevH0 = H0sub[off]
	}
	if pidx != M {
		return Result{-1, -1, 0}, nil
	}
	if M == 1 {
		if !withPos {
			return Result{maxScorePos, maxScorePos + 1, int(maxScore)}, nil
		}
		pos := []int{maxScorePos}
		return Result{maxScorePos, maxScorePos + 1, int(maxScore)}, &pos
	}

	f0 := int(F[0])
	width := lastIdx - f0 + 1
	offset16, H := alloc16(offset16, slab, width*M)
	copy(H, H0[f0:lastIdx+1])
	offset16, C := alloc16(offset16, slab, width*M)
	copy(C, C0[f0:lastIdx+1])

	Fsub := F[1:]
	Psub := pattern[1:][:len(Fsub)]
	for off, f32 := range Fsub {
		f := int(f32)
		pchar := Psub[off]
		pidx := off + 1
		row := pidx * width
		inGap := false
		Tsub := T[f : lastIdx+1]
		Bsub := B[f:][:len(Tsub)]
		Csub := C[row+f-f0:][:len(Tsub)]
		Cdiag := C[row+f-f0-1-width:][:len(Tsub)]
		Hsub := H[row+f-f0:][:len(Tsub)]
		Hdiag := H[row+f-f0-1-width:][:len(Tsub)]
		Hleft := H[row+f-f0-1:][:len(Tsub)]
		Hleft[0] = 0
		for off, char32 := range Tsub {
			char := rune(char32)
			col := off + f
			var s1, s2, consecutive int16

			if inGap {
				s2 = Hleft[off] + scoreGapExtension
			} else {
				s2 = Hleft[off] + scoreGapStart
			}

			if pchar == char {
				s1 = Hdiag[off] + scoreMatch
				b := Bsub[off]
				consecutive = Cdiag[off] + 1
				if b == bonusBoundary {
					consecutive = 1
				} else if consecutive > 1 {
					b = util.Max16(b, util.Max16(bonusConsecutive, B[col-int(consecutive)+1]))
				}
				if s1+b < s2 {
					s1 += Bsub[off]
					consecutive = 0
				} else {
					s1 += b
				}
			}
			Csub[off] = consecutive

			inGap = s1 < s2
			score := util.Max16(util.Max16(s1, s2), 0)
			if pidx == M-1 && (forward && score > maxScore || !forward && score >= maxScore) {
				maxScore, maxScorePos = score, col
			}
			Hsub[off] = score
		}
	}

	pos := posArray(withPos, M)
	j := f0
	if withPos {
		i := M - 1
		j = maxScorePos
		preferMatch := true
		for {
			I := i * width
			j0 := j - f0
			s := H[I+j0]

			var s1, s2 int16
			if i > 0 && j >= int(F[i]) {
				s1 = H[I-width+j0-1]
			}
			if j > int(F[i]) {
				s2 = H[I+j0-1]
			}

			if s > s1 && (s > s2 || s == s2 && preferMatch) {
				*pos = append(*pos, j)
				if i == 0 {
					break
				}
				i--
			}
			preferMatch = C[I+j0] > 1 || I+width+j0+1 < len(C) && C[I+width+j0+1] > 0
			j--
		}
	}
	return Result{j, maxScorePos + 1, int(maxScore)}, pos
}

func calculateScore(caseSensitive, normalize bool, text *util.Chars, pattern []rune, sidx, eidx int, withPos bool) (int, *[]int) {
	pidx, score, inGap, consecutive := 0, 0, false, 0
	var firstBonus int16
	pos := posArray(withPos, len(pattern))
	prevClass := charNonWord
	if sidx > 0 {
		prevClass = charClassOf(text.Get(sidx - 1))
	}
	for idx := sidx; idx < eidx; idx++ {
		char := text.Get(idx)
		class := charClassOf(char)
		if !caseSensitive {
			if char >= 'A' && char <= 'Z' {
				char += 32
			} else if char > unicode.MaxASCII {
				char = unicode.ToLower(char)
			}
		}
		if normalize {
			char = normalizeRune(char)
		}
		if char == pattern[pidx] {
			if withPos {
				*pos = append(*pos, idx)
			}
			score += scoreMatch
			bonus := bonusFor(prevClass, class)
			if consecutive == 0 {
				firstBonus = bonus
			} else {
				if bonus == bonusBoundary {
					firstBonus = bonus
				}
				bonus = util.Max16(util.Max16(bonus, firstBonus), bonusConsecutive)
			}
			if pidx == 0 {
				score += int(bonus * bonusFirstCharMultiplier)
			} else {
				score += int(bonus)
			}
			inGap = false
			consecutive++
			pidx++
		} else {
			if inGap {
				score += scoreGapExtension
			} else {
				score += scoreGapStart
			}
			inGap = true
			consecutive = 0
			firstBonus = 0
		}
		prevClass = class
	}
	return score, pos
}

// FuzzyMatchV1 is the O(n) "find the first match window, then trim it"
// heuristic: faster than V2 but not guaranteed to find the highest-scoring
// alignment when the pattern occurs more than once.
func FuzzyMatchV1(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	if len(pattern) == 0 {
		return Result{0, 0, 0}, nil
	}
	if asciiFuzzyIndex(text, pattern, caseSensitive) < 0 {
		return Result{-1, -1, 0}, nil
	}

	pidx, sidx, eidx := 0, -1, -1
	lenRunes := text.Length()
	lenPattern := len(pattern)

	for index := 0; index < lenRunes; index++ {
		char := text.Get(indexAt(index, lenRunes, forward))
		if !caseSensitive {
			if char >= 'A' && char <= 'Z' {
				char += 32
			} else if char > unicode.MaxASCII {
				char = unicode.ToLower(char)
			}
		}
		if normalize {
			char = normalizeRune(char)
		}
		pchar := pattern[indexAt(pidx, lenPattern, forward)]
		if char == pchar {
			if sidx < 0 {
				sidx = index
			}
			pidx++
			if pidx == lenPattern {
				eidx = index + 1
				break
			}
		}
	}

	if sidx < 0 || eidx < 0 {
		return Result{-1, -1, 0}, nil
	}

	pidx--
	for index := eidx - 1; index >= sidx; index-- {
		tidx := indexAt(index, lenRunes, forward)
		char := text.Get(tidx)
		if !caseSensitive {
			if char >= 'A' && char <= 'Z' {
				char += 32
			} else if char > unicode.MaxASCII {
				char = unicode.ToLower(char)
			}
		}
		pchar := pattern[indexAt(pidx, lenPattern, forward)]
		if char == pchar {
			pidx--
			if pidx < 0 {
				sidx = index
				break
			}
		}
	}

	if !forward {
		sidx, eidx = lenRunes-eidx, lenRunes-sidx
	}

	score, pos := calculateScore(caseSensitive, normalize, text, pattern, sidx, eidx, withPos)
	return Result{sidx, eidx, score}, pos
}

// ExactMatchNaive finds the substring occurrence of pattern with the
// highest bonus point (there being only one possible alignment once a
// start position is fixed, unlike fuzzy matching).
func ExactMatchNaive(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	if len(pattern) == 0 {
		return Result{0, 0, 0}, nil
	}
	lenRunes := text.Length()
	lenPattern := len(pattern)
	if lenRunes < lenPattern {
		return Result{-1, -1, 0}, nil
	}
	if asciiFuzzyIndex(text, pattern, caseSensitive) < 0 {
		return Result{-1, -1, 0}, nil
	}

	pidx := 0
	bestPos, bonus, bestBonus := -1, int16(0), int16(-1)
	for index := 0; index < lenRunes; index++ {
		index_ := indexAt(index, lenRunes, forward)
		char := text.Get(index_)
		if !caseSensitive {
			if char >= 'A' && char <= 'Z' {
				char += 32
			} else if char > unicode.MaxASCII {
				char = unicode.ToLower(char)
			}
		}
		if normalize {
			char = normalizeRune(char)
		}
		pidx_ := indexAt(pidx, lenPattern, forward)
		pchar := pattern[pidx_]
		if pchar == char {
			if pidx_ == 0 {
				bonus = bonusAt(text, index_)
			}
			pidx++
			if pidx == lenPattern {
				if bonus > bestBonus {
					bestPos, bestBonus = index, bonus
				}
				if bonus == bonusBoundary {
					break
				}
				index -= pidx - 1
				pidx, bonus = 0, 0
			}
		} else {
			index -= pidx
			pidx, bonus = 0, 0
		}
	}
	if bestPos < 0 {
		return Result{-1, -1, 0}, nil
	}
	var sidx, eidx int
	if forward {
		sidx, eidx = bestPos-lenPattern+1, bestPos+1
	} else {
		sidx, eidx = lenRunes-(bestPos+1), lenRunes-(bestPos-lenPattern+1)
	}
	score, _ := calculateScore(caseSensitive, normalize, text, pattern, sidx, eidx, false)
	return Result{sidx, eidx, score}, nil
}

// PrefixMatch matches pattern only at the start of text, after any leading
// whitespace (unless the pattern itself begins with whitespace).
func PrefixMatch(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	if len(pattern) == 0 {
		return Result{0, 0, 0}, nil
	}
	trimmedLen := 0
	if !unicode.IsSpace(pattern[0]) {
		for trimmedLen < text.Length() && unicode.IsSpace(text.Get(trimmedLen)) {
			trimmedLen++
		}
	}
	if text.Length()-trimmedLen < len(pattern) {
		return Result{-1, -1, 0}, nil
	}
	for index, r := range pattern {
		char := text.Get(trimmedLen + index)
		if !caseSensitive {
			char = unicode.ToLower(char)
		}
		if normalize {
			char = normalizeRune(char)
		}
		if char != r {
			return Result{-1, -1, 0}, nil
		}
	}
	score, _ := calculateScore(caseSensitive, normalize, text, pattern, trimmedLen, trimmedLen+len(pattern), false)
	return Result{trimmedLen, trimmedLen + len(pattern), score}, nil
}

// SuffixMatch matches pattern only at the very end of text, ignoring
// trailing whitespace unless the pattern itself ends with whitespace.
func SuffixMatch(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	lenRunes := text.Length()
	trimmedLen := lenRunes
	if len(pattern) == 0 || !unicode.IsSpace(pattern[len(pattern)-1]) {
		trimmedLen -= text.TrailingWhitespaces()
	}
	if len(pattern) == 0 {
		return Result{trimmedLen, trimmedLen, 0}, nil
	}
	diff := trimmedLen - len(pattern)
	if diff < 0 {
		return Result{-1, -1, 0}, nil
	}
	for index, r := range pattern {
		char := text.Get(index + diff)
		if !caseSensitive {
			char = unicode.ToLower(char)
		}
		if normalize {
			char = normalizeRune(char)
		}
		if char != r {
			return Result{-1, -1, 0}, nil
		}
	}
	sidx, eidx := trimmedLen-len(pattern), trimmedLen
	score, _ := calculateScore(caseSensitive, normalize, text, pattern, sidx, eidx, false)
	return Result{sidx, eidx, score}, nil
}

// EqualMatch requires the whole (trimmed) text to equal pattern exactly.
func EqualMatch(caseSensitive, normalize, forward bool, text *util.Chars, pattern []rune, withPos bool, slab *util.Slab) (Result, *[]int) {
	lenPattern := len(pattern)
	if text.Length() != lenPattern {
		return Result{-1, -1, 0}, nil
	}
	var match bool
	if normalize {
		runes := text.ToRunes()
		match = true
		for idx, pchar := range pattern {
			char := runes[idx]
			if !caseSensitive {
				char = unicode.ToLower(char)
			}
			if normalizeRune(pchar) != normalizeRune(char) {
				match = false
				break
			}
		}
	} else {
		s := text.ToString()
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		match = s == string(pattern)
	}
	if !match {
		return Result{-1, -1, 0}, nil
	}
	return Result{0, lenPattern, (scoreMatch+bonusBoundary)*lenPattern +
		(bonusFirstCharMultiplier-1)*bonusBoundary}, nil
}
