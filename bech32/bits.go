package bech32

import (
	"fmt"
)

// ToBits converts bytes to groups of bits bits each, big-endian. The final
// group is padded with zero bits if the input doesn't divide evenly.
func ToBits(src []byte, bits int) ([]byte, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	dst := make([]byte, toBitsLen(len(src), bits))
	convert(dst, src, 8, bits, true)
	return dst, nil
}

// ToBitsInto is like ToBits but writes the groups into dst and returns the
// written prefix of dst. Elements of dst past the result are left untouched.
func ToBitsInto(dst, src []byte, bits int) ([]byte, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	n := toBitsLen(len(src), bits)
	if len(dst) < n {
		return nil, fmt.Errorf("bech32: %w: %d elements, need %d", ErrShortBuffer, len(dst), n)
	}
	convert(dst[:n], src, 8, bits, true)
	return dst[:n], nil
}

// FromBits converts groups of bits bits each back to bytes. Leftover bits
// must be fewer than bits and all zero.
func FromBits(src []byte, bits int) ([]byte, error) {
	if err := checkGroups(src, bits); err != nil {
		return nil, err
	}
	dst := make([]byte, fromBitsLen(len(src), bits))
	if err := convert(dst, src, bits, 8, false); err != nil {
		return nil, err
	}
	return dst, nil
}

// FromBitsInto is like FromBits but writes the bytes into dst and returns
// the written prefix of dst.
func FromBitsInto(dst, src []byte, bits int) ([]byte, error) {
	if err := checkGroups(src, bits); err != nil {
		return nil, err
	}
	n := fromBitsLen(len(src), bits)
	if len(dst) < n {
		return nil, fmt.Errorf("bech32: %w: %d bytes, need %d", ErrShortBuffer, len(dst), n)
	}
	if err := convert(dst[:n], src, bits, 8, false); err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// To5Bit converts bytes to 5-bit groups, padding the final group.
func To5Bit(src []byte) FiveBits {
	dst := make(FiveBits, toBitsLen(len(src), 5))
	convert(dst, src, 8, 5, true)
	return dst
}

// To5BitInto is the 5-bit specialization of ToBitsInto.
func To5BitInto(dst FiveBits, src []byte) (FiveBits, error) {
	return ToBitsInto(dst, src, 5)
}

// From5Bit converts 5-bit groups to bytes.
func From5Bit(src FiveBits) ([]byte, error) {
	return FromBits(src, 5)
}

// From5BitInto is the 5-bit specialization of FromBitsInto.
func From5BitInto(dst []byte, src FiveBits) ([]byte, error) {
	return FromBitsInto(dst, src, 5)
}

func toBitsLen(n, bits int) int {
	return (n*8 + bits - 1) / bits
}

func fromBitsLen(n, bits int) int {
	return n * bits / 8
}

func checkBits(bits int) error {
	if bits < 1 || 8 < bits {
		return fmt.Errorf("bech32: %w: %d (1 to 8 expected)", ErrInvalidBits, bits)
	}
	return nil
}

func checkGroups(src []byte, bits int) error {
	if err := checkBits(bits); err != nil {
		return err
	}
	for i, v := range src {
		if v>>bits != 0 {
			return fmt.Errorf("bech32: %w: %d at position %d exceeds %d bits", ErrInvalidValue, v, i, bits)
		}
	}
	return nil
}

// convert repacks src from srcBits to dstBits per element into dst, which
// must have the exact output length. With pad, leftover bits are emitted as
// a final zero-filled group; otherwise they must be padding.
func convert(dst, src []byte, srcBits, dstBits int, pad bool) error {
	// The accumulator never needs more than srcBits+dstBits-1 bits.
	mask := uint32(1)<<(srcBits+dstBits-1) - 1
	groupMask := uint32(1)<<dstBits - 1
	acc := uint32(0)
	bits := 0
	pos := 0
	for _, v := range src {
		acc = (acc<<srcBits | uint32(v)) & mask
		bits += srcBits
		for bits >= dstBits {
			bits -= dstBits
			dst[pos] = byte(acc >> bits & groupMask)
			pos++
		}
	}
	if pad {
		if bits > 0 {
			dst[pos] = byte(acc << (dstBits - bits) & groupMask)
		}
		return nil
	}
	if bits >= srcBits {
		return fmt.Errorf("bech32: %w: %d (max %d allowed)", ErrExcessivePadding, bits, srcBits-1)
	}
	if acc&(uint32(1)<<bits-1) != 0 {
		return fmt.Errorf("bech32: %w", ErrNonZeroPadding)
	}
	return nil
}
