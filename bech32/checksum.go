package bech32

import (
	"fmt"
	"strings"
)

// ChecksumLength is the number of 5-bit groups in a checksum.
const ChecksumLength = 6

// Checksum targets of the two encodings.
const (
	Bech32Const  = 1
	Bech32mConst = 0x2bc830a3
)

var generator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// polymod computes the BCH checksum residue of values.
func polymod(values FiveBits) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := range len(generator) {
			if (top>>i)&1 != 0 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

// expandedLen is the number of groups in the expansion of a prefix of
// length n.
func expandedLen(n int) int {
	return 2*n + 1
}

// expandPrefix writes the checksum expansion of a lowercase prefix to dst:
// the high 3 bits of every character, a zero, then the low 5 bits of
// every character.
func expandPrefix(dst FiveBits, prefix string) {
	n := len(prefix)
	for i := range n {
		c := prefix[i]
		dst[i] = c >> 5
		dst[i+n+1] = c & 31
	}
	dst[n] = 0
}

// createChecksum computes the checksum of buf, an expanded prefix followed
// by data and ChecksumLength trailing groups, and stores it in those
// trailing groups.
func createChecksum(buf FiveBits, enc Encoding) {
	sum := buf[len(buf)-ChecksumLength:]
	clear(sum)
	mod := polymod(buf) ^ enc.target()
	for i := range ChecksumLength {
		sum[i] = byte(mod>>(5*(5-i))) & 31
	}
}

// verifyChecksum reports the encoding whose target matches the residue of
// buf.
func verifyChecksum(buf FiveBits) (Encoding, bool) {
	switch polymod(buf) {
	case Bech32Const:
		return Bech32, true
	case Bech32mConst:
		return Bech32m, true
	}
	return 0, false
}

// VerifyChecksum verifies the checksum of data, a sequence of 5-bit groups
// ending in the checksum, under prefix. It returns the
// encoding the checksum was created with.
func VerifyChecksum(prefix string, data FiveBits) (Encoding, error) {
	if _, err := detectCase(prefix, "prefix"); err != nil {
		return 0, err
	}
	prefix = strings.ToLower(prefix)
	if _, err := NewFiveBits(data); err != nil {
		return 0, err
	}
	if len(data) < ChecksumLength {
		return 0, fmt.Errorf("bech32: %w (at least %d groups expected)", ErrTooShort, ChecksumLength)
	}
	pl := expandedLen(len(prefix))
	buf := make(FiveBits, pl+len(data))
	expandPrefix(buf[:pl], prefix)
	copy(buf[pl:], data)
	enc, ok := verifyChecksum(buf)
	if !ok {
		return 0, fmt.Errorf("bech32: %w", ErrInvalidChecksum)
	}
	return enc, nil
}
