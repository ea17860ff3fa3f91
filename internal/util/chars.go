package util

import (
	"unicode"
	"unicode/utf8"
	"unsafe"
)

const (
	overflow64 uint64 = 0x8080808080808080
	overflow32 uint32 = 0x80808080
)

// Chars is a dual-representation string: a pure-ASCII input is kept as its
// original []byte (so the scorer can index it without allocating), while
// any input containing multi-byte runes is decoded once into []rune and
// stored behind the same slice header. Algo functions branch on IsBytes to
// pick the right accessor; callers never need to know which form they hold.
type Chars struct {
	slice           []byte // raw bytes (ASCII) or reinterpreted []rune
	inBytes         bool
	trimLengthKnown bool
	trimLength      uint16
}

// checkAscii scans b and reports whether it is pure ASCII, and if not the
// byte offset of the first non-ASCII byte (so the caller can decode only
// the remaining tail).
func checkAscii(b []byte) (bool, int) {
	i := 0
	for ; i <= len(b)-8; i += 8 {
		if (overflow64 & *(*uint64)(unsafe.Pointer(&b[i]))) > 0 {
			return false, i
		}
	}
	for ; i <= len(b)-4; i += 4 {
		if (overflow32 & *(*uint32)(unsafe.Pointer(&b[i]))) > 0 {
			return false, i
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= utf8.RuneSelf {
			return false, i
		}
	}
	return true, 0
}

// ToChars converts a byte slice into a Chars, decoding UTF-8 lazily: pure
// ASCII input is kept as bytes with no allocation.
func ToChars(b []byte) Chars {
	inBytes, asciiUntil := checkAscii(b)
	if inBytes {
		return Chars{slice: b, inBytes: true}
	}

	runes := make([]rune, asciiUntil, len(b))
	for i := 0; i < asciiUntil; i++ {
		runes[i] = rune(b[i])
	}
	for i := asciiUntil; i < len(b); {
		r, sz := utf8.DecodeRune(b[i:])
		i += sz
		runes = append(runes, r)
	}
	return RunesToChars(runes)
}

// RunesToChars wraps an already-decoded []rune as a Chars.
func RunesToChars(runes []rune) Chars {
	return Chars{slice: *(*[]byte)(unsafe.Pointer(&runes)), inBytes: false}
}

// IsBytes reports whether the underlying representation is raw ASCII bytes.
func (c *Chars) IsBytes() bool { return c.inBytes }

// Bytes returns the raw byte slice. Only meaningful when IsBytes is true.
func (c *Chars) Bytes() []byte { return c.slice }

func (c *Chars) runes() []rune {
	if c.inBytes {
		return nil
	}
	return *(*[]rune)(unsafe.Pointer(&c.slice))
}

// Get returns the rune at position i.
func (c *Chars) Get(i int) rune {
	if rs := c.runes(); rs != nil {
		return rs[i]
	}
	return rune(c.slice[i])
}

// Length returns the number of runes (not bytes).
func (c *Chars) Length() int {
	if rs := c.runes(); rs != nil {
		return len(rs)
	}
	return len(c.slice)
}

// TrimLength returns the rune count after trimming leading/trailing
// whitespace, memoized after first computation.
func (c *Chars) TrimLength() uint16 {
	if c.trimLengthKnown {
		return c.trimLength
	}
	c.trimLengthKnown = true
	n := c.Length()
	last := n - 1
	for ; last >= 0; last-- {
		if !unicode.IsSpace(c.Get(last)) {
			break
		}
	}
	if last < 0 {
		c.trimLength = 0
		return 0
	}
	first := 0
	for ; first < n; first++ {
		if !unicode.IsSpace(c.Get(first)) {
			break
		}
	}
	c.trimLength = AsUint16(last - first + 1)
	return c.trimLength
}

// TrailingWhitespaces counts the whitespace runes at the end of the string.
func (c *Chars) TrailingWhitespaces() int {
	n := 0
	for i := c.Length() - 1; i >= 0; i-- {
		if !unicode.IsSpace(c.Get(i)) {
			break
		}
		n++
	}
	return n
}

// ToString materializes the full string.
func (c *Chars) ToString() string {
	if rs := c.runes(); rs != nil {
		return string(rs)
	}
	return string(c.slice)
}

// ToRunes returns the rune slice, decoding from bytes if necessary.
func (c *Chars) ToRunes() []rune {
	if rs := c.runes(); rs != nil {
		return rs
	}
	rs := make([]rune, len(c.slice))
	for i, b := range c.slice {
		rs[i] = rune(b)
	}
	return rs
}

// CopyRunes copies the full rune content of c into dest, which must be at
// least Length() long.
func (c *Chars) CopyRunes(dest []rune) {
	if rs := c.runes(); rs != nil {
		copy(dest, rs)
		return
	}
	for i, b := range c.slice {
		dest[i] = rune(b)
	}
}
