// Package bech32 implements the bech32 and bech32m encodings specified
// in [BIP-173] and [BIP-350].
//
// An encoded string consists of a human-readable prefix, the separator
// '1', and data followed by a checksum, both written in the 32 character
// [Alphabet]. The checksum detects any error affecting up to 4 characters.
//
// [BIP-173]: https://bips.dev/173/
// [BIP-350]: https://bips.dev/350/
package bech32

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Separator separates the prefix from the data. The last occurrence in a
	// string is the separator, because it may also appear in the prefix.
	Separator = '1'
	// MaxLength is the maximum length of an encoded string.
	MaxLength = 90
)

var (
	ErrInvalidBits      = errors.New("invalid bits per element")
	ErrInvalidValue     = errors.New("invalid value")
	ErrShortBuffer      = errors.New("short buffer")
	ErrTooLong          = errors.New("too long")
	ErrTooShort         = errors.New("data part too short")
	ErrMixedCase        = errors.New("mixed-case")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrNoSeparator      = errors.New("no separator")
	ErrInvalidChecksum  = errors.New("invalid checksum")
	ErrExcessivePadding = errors.New("excessive padding")
	ErrNonZeroPadding   = errors.New("non-zero padding")
	ErrInvalidEncoding  = errors.New("invalid encoding")
)

// Encoding is a member of the bech32 family. The encodings differ only in
// their checksum target.
type Encoding int

const (
	// Bech32 is the encoding of BIP-173.
	Bech32 Encoding = iota
	// Bech32m is the modified encoding of BIP-350.
	Bech32m
)

// ParseEncoding returns the encoding with the given name. The empty name
// selects Bech32.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "", "bech32":
		return Bech32, nil
	case "bech32m":
		return Bech32m, nil
	}
	return 0, fmt.Errorf("bech32: %w: %q", ErrInvalidEncoding, name)
}

func (e Encoding) String() string {
	switch e {
	case Bech32:
		return "bech32"
	case Bech32m:
		return "bech32m"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

func (e Encoding) valid() bool {
	return e == Bech32 || e == Bech32m
}

func (e Encoding) target() uint32 {
	if e == Bech32m {
		return Bech32mConst
	}
	return Bech32Const
}

// Encode encodes data under prefix. The output is uppercase if the
// prefix is, and lowercase otherwise.
func Encode(prefix string, data []byte, enc Encoding) (string, error) {
	n := toBitsLen(len(data), 5)
	pcase, err := checkEncode(prefix, n, enc)
	if err != nil {
		return "", err
	}
	return encode(prefix, pcase, To5Bit(data), enc), nil
}

// Encode5Bit is like Encode, but for data already converted to 5-bit
// groups.
func Encode5Bit(prefix string, data FiveBits, enc Encoding) (string, error) {
	pcase, err := checkEncode(prefix, len(data), enc)
	if err != nil {
		return "", err
	}
	if _, err := NewFiveBits(data); err != nil {
		return "", err
	}
	return encode(prefix, pcase, data, enc), nil
}

// checkEncode validates the arguments of an encoding of n groups and
// returns the case of the prefix.
func checkEncode(prefix string, n int, enc Encoding) (charCase, error) {
	if !enc.valid() {
		return noCase, fmt.Errorf("bech32: %w: %v", ErrInvalidEncoding, enc)
	}
	pcase, err := detectCase(prefix, "prefix")
	if err != nil {
		return noCase, err
	}
	if l := len(prefix) + 1 + n + ChecksumLength; l > MaxLength {
		return noCase, fmt.Errorf("bech32: %w: %d characters (max %d)", ErrTooLong, l, MaxLength)
	}
	return pcase, nil
}

func encode(prefix string, pcase charCase, data FiveBits, enc Encoding) string {
	pl := expandedLen(len(prefix))
	buf := make(FiveBits, pl+len(data)+ChecksumLength)
	expandPrefix(buf[:pl], strings.ToLower(prefix))
	copy(buf[pl:], data)
	createChecksum(buf, enc)

	out := make([]byte, 0, len(prefix)+1+len(buf)-pl)
	out = append(out, prefix...)
	out = append(out, Separator)
	out = appendChars(out, buf[pl:])
	if pcase == upperCase {
		tail := out[len(prefix):]
		for i, c := range tail {
			if 'a' <= c && c <= 'z' {
				tail[i] = c - 'a' + 'A'
			}
		}
	}
	return string(out)
}

// DecodeTo5Bit decodes s and verifies its checksum. It returns the
// lowercase prefix, the data as 5-bit groups without the checksum, and the
// encoding matching the checksum.
func DecodeTo5Bit(s string) (prefix string, data FiveBits, enc Encoding, err error) {
	if n := utf8.RuneCountInString(s); n > MaxLength {
		return "", nil, 0, fmt.Errorf("bech32: %w: %d characters (max %d)", ErrTooLong, n, MaxLength)
	}
	if _, err := detectCase(s, "message"); err != nil {
		return "", nil, 0, err
	}
	s = strings.ToLower(s)
	sep := strings.LastIndexByte(s, Separator)
	if sep < 0 {
		return "", nil, 0, fmt.Errorf("bech32: %w (%q) found", ErrNoSeparator, Separator)
	}
	if sep > len(s)-ChecksumLength-1 {
		return "", nil, 0, fmt.Errorf("bech32: %w (at least %d characters expected)", ErrTooShort, ChecksumLength)
	}
	prefix = s[:sep]
	tail := s[sep+1:]

	pl := expandedLen(len(prefix))
	buf := make(FiveBits, pl+len(tail))
	expandPrefix(buf[:pl], prefix)
	if err := decodeChars(buf[pl:], tail); err != nil {
		return "", nil, 0, err
	}
	enc, ok := verifyChecksum(buf)
	if !ok {
		return "", nil, 0, fmt.Errorf("bech32: %w", ErrInvalidChecksum)
	}
	end := len(buf) - ChecksumLength
	return prefix, buf[pl:end:end], enc, nil
}

// Decode is like DecodeTo5Bit, but converts the data to bytes. Decoding
// fails if the data doesn't have valid padding.
func Decode(s string) (prefix string, data []byte, enc Encoding, err error) {
	prefix, groups, enc, err := DecodeTo5Bit(s)
	if err != nil {
		return "", nil, 0, err
	}
	data, err = From5Bit(groups)
	if err != nil {
		return "", nil, 0, err
	}
	return prefix, data, enc, nil
}
