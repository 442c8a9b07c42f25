// Package address maps Bitcoin segregated witness addresses to and from
// their bech32 encoding, as specified in [BIP-173] and [BIP-350].
//
// [BIP-173]: https://bips.dev/173/
// [BIP-350]: https://bips.dev/350/
package address

import (
	"errors"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/chaincfg"
	"seedhammer.com/bech32tool/bech32"
)

const (
	// MaxVersion is the highest witness version.
	MaxVersion = 16
	// MinProgramLength and MaxProgramLength bound the length of a
	// witness program.
	MinProgramLength = 2
	MaxProgramLength = 40
)

var (
	ErrInvalidPrefix      = errors.New("invalid prefix")
	ErrInvalidVersion     = errors.New("invalid script version")
	ErrInvalidLength      = errors.New("invalid script length")
	ErrInvalidV0Length    = errors.New("invalid v0 script length")
	ErrUnexpectedEncoding = errors.New("unexpected encoding for version")
	ErrInvalidScript      = errors.New("invalid witness script")
)

// networks lists the networks with a distinct segwit prefix.
var networks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
}

// Address is a witness program and the prefix of the network it is
// valid on. Use New or Decode to construct a valid Address.
type Address struct {
	// Prefix is the network prefix, "bc" or "tb".
	Prefix string
	// Version is the witness version, 0 through 16.
	Version int
	// Program is the witness program.
	Program []byte
}

// Type is the kind of output script a witness program pays to.
type Type int

const (
	UnknownType Type = iota
	P2WPKH
	P2WSH
	P2TR
)

func (t Type) String() string {
	switch t {
	case P2WPKH:
		return "p2wpkh"
	case P2WSH:
		return "p2wsh"
	case P2TR:
		return "p2tr"
	default:
		return "unknown"
	}
}

// New validates its arguments and returns an address with a copy of the
// program.
func New(prefix string, version int, program []byte) (*Address, error) {
	a := &Address{
		Prefix:  prefix,
		Version: version,
		Program: slices.Clone(program),
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// ForNetwork is like New, but takes the prefix from the network
// parameters.
func ForNetwork(net *chaincfg.Params, version int, program []byte) (*Address, error) {
	return New(net.Bech32HRPSegwit, version, program)
}

func (a *Address) validate() error {
	if !validPrefix(a.Prefix) {
		return fmt.Errorf("address: %w: %q", ErrInvalidPrefix, a.Prefix)
	}
	if a.Version < 0 || a.Version > MaxVersion {
		return fmt.Errorf("address: %w: %d (0 to %d expected)", ErrInvalidVersion, a.Version, MaxVersion)
	}
	n := len(a.Program)
	if n < MinProgramLength || n > MaxProgramLength {
		return fmt.Errorf("address: %w: %d (%d to %d expected)", ErrInvalidLength, n, MinProgramLength, MaxProgramLength)
	}
	if a.Version == 0 && n != 20 && n != 32 {
		return fmt.Errorf("address: %w: %d (20 or 32 expected)", ErrInvalidV0Length, n)
	}
	return nil
}

func validPrefix(prefix string) bool {
	for _, net := range networks {
		if prefix == net.Bech32HRPSegwit {
			return true
		}
	}
	return false
}

// encodingFor returns the encoding mandated for a witness version.
func encodingFor(version int) bech32.Encoding {
	if version == 0 {
		return bech32.Bech32
	}
	return bech32.Bech32m
}

// Decode decodes a segwit address. Addresses with version 0 must use the
// bech32 encoding, and addresses with higher versions bech32m.
func Decode(s string) (*Address, error) {
	prefix, data, enc, err := bech32.DecodeTo5Bit(s)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	if !validPrefix(prefix) {
		return nil, fmt.Errorf("address: %w: %q", ErrInvalidPrefix, prefix)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("address: %w: missing version", ErrInvalidVersion)
	}
	version := int(data[0])
	if want := encodingFor(version); enc != want {
		log.Debugf("Rejecting %s address with witness version %d", enc, version)
		return nil, fmt.Errorf("address: %w %d: %v (%v expected)", ErrUnexpectedEncoding, version, enc, want)
	}
	program, err := bech32.From5Bit(data[1:])
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	a := &Address{
		Prefix:  prefix,
		Version: version,
		Program: program,
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Encode returns the lowercase encoding of the address. It fails if the
// fields of the address are no longer valid.
func (a *Address) Encode() (string, error) {
	if err := a.validate(); err != nil {
		return "", err
	}
	data := append(bech32.FiveBits{byte(a.Version)}, bech32.To5Bit(a.Program)...)
	s, err := bech32.Encode5Bit(a.Prefix, data, encodingFor(a.Version))
	if err != nil {
		return "", fmt.Errorf("address: %w", err)
	}
	return s, nil
}

func (a *Address) String() string {
	s, err := a.Encode()
	if err != nil {
		return fmt.Sprintf("%%!address(%v)", err)
	}
	return s
}

// Type guesses the output type from the version and program length. It
// returns UnknownType for programs without a known meaning.
func (a *Address) Type() Type {
	switch {
	case a.Version == 0 && len(a.Program) == 20:
		return P2WPKH
	case a.Version == 0 && len(a.Program) == 32:
		return P2WSH
	case a.Version == 1 && len(a.Program) == 32:
		return P2TR
	}
	return UnknownType
}

// Network returns the parameters of the network matching the address
// prefix, or nil if the prefix is unknown. Test networks share a prefix,
// and the "tb" prefix maps to testnet3.
func (a *Address) Network() *chaincfg.Params {
	for _, net := range networks {
		if a.Prefix == net.Bech32HRPSegwit {
			return net
		}
	}
	return nil
}
