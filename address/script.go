package address

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Script returns the output script paying to the address: the version
// opcode followed by a push of the program.
func (a *Address) Script() ([]byte, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	script, err := txscript.NewScriptBuilder().
		AddInt64(int64(a.Version)).
		AddData(a.Program).
		Script()
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	return script, nil
}

// FromScript parses a witness output script.
func FromScript(net *chaincfg.Params, script []byte) (*Address, error) {
	if !txscript.IsWitnessProgram(script) {
		return nil, fmt.Errorf("address: %w: %x", ErrInvalidScript, script)
	}
	version, program, err := txscript.ExtractWitnessProgramInfo(script)
	if err != nil {
		return nil, fmt.Errorf("address: %w: %v", ErrInvalidScript, err)
	}
	return ForNetwork(net, version, program)
}

// FromPubKey returns the pay-to-witness-pubkey-hash address of a public
// key.
func FromPubKey(net *chaincfg.Params, pub *secp256k1.PublicKey) (*Address, error) {
	pkHash := btcutil.Hash160(pub.SerializeCompressed())
	return ForNetwork(net, 0, pkHash)
}

// FromWitnessScript returns the pay-to-witness-script-hash address of a
// witness script.
func FromWitnessScript(net *chaincfg.Params, script []byte) (*Address, error) {
	hash := sha256.Sum256(script)
	return ForNetwork(net, 0, hash[:])
}

// FromTaprootKey returns the taproot address of an internal key without
// a script path.
func FromTaprootKey(net *chaincfg.Params, internalKey *btcec.PublicKey) (*Address, error) {
	tkey := txscript.ComputeTaprootKeyNoScript(internalKey)
	return ForNetwork(net, 1, schnorr.SerializePubKey(tkey))
}
