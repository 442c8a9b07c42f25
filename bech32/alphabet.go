package bech32

import (
	"fmt"
)

// Alphabet is the bech32 alphabet, indexed by 5-bit value.
const Alphabet = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

const (
	// minChar and maxChar bound the printable ASCII characters allowed
	// anywhere in an encoded string.
	minChar = 33
	maxChar = 126
)

// FiveBits is a sequence of 5-bit groups, each in the range [0, 32).
type FiveBits []byte

// NewFiveBits validates that every element of b fits in 5 bits.
// The result shares its backing array with b.
func NewFiveBits(b []byte) (FiveBits, error) {
	for i, v := range b {
		if v >= 32 {
			return nil, fmt.Errorf("bech32: %w: %d at position %d", ErrInvalidValue, v, i)
		}
	}
	return FiveBits(b), nil
}

// charIndex maps a lowercase bech32 character to its value, or -1.
var charIndex = func() [128]int8 {
	var tbl [128]int8
	for i := range tbl {
		tbl[i] = -1
	}
	for i := range len(Alphabet) {
		tbl[Alphabet[i]] = int8(i)
	}
	return tbl
}()

// appendChars appends the characters for the groups in src to dst.
func appendChars(dst []byte, src FiveBits) []byte {
	for _, v := range src {
		// Indexing is fine as v is in [0, 32) as an invariant.
		dst = append(dst, Alphabet[v])
	}
	return dst
}

// decodeChars looks up every character of s, writing the values to dst.
// dst must be at least len(s) long.
func decodeChars(dst FiveBits, s string) error {
	for i := range len(s) {
		c := s[i]
		if c >= 128 || charIndex[c] == -1 {
			return fmt.Errorf("bech32: %w in message: %q", ErrInvalidCharacter, c)
		}
		dst[i] = byte(charIndex[c])
	}
	return nil
}

type charCase int

const (
	noCase charCase = iota
	lowerCase
	upperCase
)

// detectCase reports the case of the letters in s. It fails if s contains
// characters outside printable ASCII or both lower and upper case letters.
// The context names the checked string in errors.
func detectCase(s, context string) (charCase, error) {
	hasLower, hasUpper := false, false
	for _, c := range s {
		if c < minChar || maxChar < c {
			return noCase, fmt.Errorf("bech32: %w in %s: %q", ErrInvalidCharacter, context, c)
		}
		switch {
		case 'a' <= c && c <= 'z':
			hasLower = true
		case 'A' <= c && c <= 'Z':
			hasUpper = true
		}
	}
	switch {
	case hasLower && hasUpper:
		return noCase, fmt.Errorf("bech32: %w %s", ErrMixedCase, context)
	case hasUpper:
		return upperCase, nil
	case hasLower:
		return lowerCase, nil
	}
	return noCase, nil
}
