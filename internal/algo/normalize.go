package algo

import "golang.org/x/text/unicode/norm"

// normalizeRune strips a Latin diacritic by Unicode-NFD-decomposing the
// rune and keeping only its base letter, so that e.g. 'é' normalizes to
// 'e'. Applied to every query (there is no --literal switch to turn it
// off), so "resume" can match "résumé".
// The range check is a fast path: only the Latin-1 Supplement through
// Latin Extended-B/Greek Extended block (U+00C0-U+2184) can carry a
// combining diacritic worth stripping; everything else is returned as-is
// without paying for a decomposition.
func normalizeRune(r rune) rune {
	if r < 0x00C0 || r > 0x2184 {
		return r
	}
	decomposed := norm.NFD.String(string(r))
	for _, base := range decomposed {
		return base
	}
	return r
}

// NormalizeRunes applies normalizeRune to every rune in runes.
func NormalizeRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = normalizeRune(r)
	}
	return out
}
