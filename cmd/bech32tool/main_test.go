package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/kortschak/qr"
	"github.com/stretchr/testify/require"
	"seedhammer.com/bech32tool/address"
)

const generator = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func TestEncode(t *testing.T) {
	tests := []struct {
		stdin   string
		cmdline string
		output  string
	}{
		{"Test data", "encode -p customhrp!11111q", "customhrp!11111q123jhxapqv3shgcgkxpuhe"},
		{"", "encode -p a", "a12uel5l"},
		{"", "encode -p a -m", "a1lqfn3a"},
		{"", "encode --prefix A --bech32m", "A1LQFN3A"},
		{"hello", "encode -p test -m", "test1dpjkcmr0scqr9j"},
		{"hello\n", "encode -p test -m", "test1dpjkcmr0scqr9j"},
		{"hello\r\n", "encode -p test -m", "test1dpjkcmr0scqr9j"},
		{"", "encode -p test -m hello", "test1dpjkcmr0scqr9j"},
		{"751e76e8199196d454941c45d1b3a323f1433bd6\n", "encode -p bc -x", "bc1w508d6qejxtdg4y5r3zarvary0c5xw7kj7gz7z"},
		{"", "encode -p bc -x 751e76e8199196d454941c45d1b3a323f1433bd6", "bc1w508d6qejxtdg4y5r3zarvary0c5xw7kj7gz7z"},
	}
	for _, test := range tests {
		got := string(bytes.TrimSpace(exec(t, []byte(test.stdin), test.cmdline)))
		require.Equal(t, test.output, got, test.cmdline)
	}
}

func TestDecode(t *testing.T) {
	const s = "abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw"
	got := string(exec(t, nil, "decode %s", s))
	require.Equal(t, "prefix: abcdef\nencoding: bech32\ndata: 00443214c74254b635cf84653a56d7c675be77df\n", got)

	got = string(exec(t, []byte(s+"\n"), "decode -g"))
	require.Equal(t, "prefix: abcdef\nencoding: bech32\ndata: 000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f\n", got)

	got = string(exec(t, nil, "decode A1LQFN3A"))
	require.Equal(t, "prefix: a\nencoding: bech32m\ndata: \n", got)
}

func TestAddress(t *testing.T) {
	got := string(exec(t, nil, "address BC1QW508D6QEJXTDG4Y5R3ZARVARY0C5XW7KV8F3T4"))
	require.Equal(t, "network: mainnet\n"+
		"version: 0\n"+
		"type: p2wpkh\n"+
		"program: 751e76e8199196d454941c45d1b3a323f1433bd6\n"+
		"script: 0014751e76e8199196d454941c45d1b3a323f1433bd6\n", got)

	got = string(exec(t, nil, "address tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7"))
	require.Contains(t, got, "network: testnet3\n")
	require.Contains(t, got, "type: p2wsh\n")

	got = string(exec(t, nil, "address BC1SW50QGDZ25J"))
	require.Contains(t, got, "version: 16\n")
	require.Contains(t, got, "type: unknown\n")
	require.Contains(t, got, "script: 6002751e\n")
}

func TestScript(t *testing.T) {
	tests := []struct {
		cmdline string
		output  string
	}{
		{"script 0014751e76e8199196d454941c45d1b3a323f1433bd6", "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"},
		{"--testnet script 00201863143c14c5166804bd19203356da136c985678cd4d27a1b8c6329604903262", "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7"},
		{"script 5210751e76e8199196d454941c45d1b3a323", "bc1zw508d6qejxtdg4y5r3zarvaryvaxxpcs"},
		{"script 6002751e", "bc1sw50qgdz25j"},
	}
	for _, test := range tests {
		got := string(bytes.TrimSpace(exec(t, nil, test.cmdline)))
		require.Equal(t, test.output, got, test.cmdline)
	}
}

func TestPubKey(t *testing.T) {
	got := string(bytes.TrimSpace(exec(t, nil, "pubkey %s", generator)))
	require.Equal(t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", got)

	got = string(bytes.TrimSpace(exec(t, []byte(generator), "--testnet wsh 21%sac", generator)))
	require.Equal(t, "tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3q0sl5k7", got)

	b, err := hex.DecodeString(generator)
	require.NoError(t, err)
	pub, err := secp256k1.ParsePubKey(b)
	require.NoError(t, err)
	want, err := address.FromTaprootKey(&chaincfg.MainNetParams, pub)
	require.NoError(t, err)
	got = string(bytes.TrimSpace(exec(t, []byte(generator+"\n"), "pubkey -t")))
	require.Equal(t, want.String(), got)
	require.True(t, strings.HasPrefix(got, "bc1p"), got)
}

func TestQR(t *testing.T) {
	const addr = "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4"
	code, err := qr.Encode(strings.ToUpper(addr), qr.M)
	require.NoError(t, err)
	out := string(exec(t, nil, "qr %s", addr))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	dim := code.Size + 2*qrBorder
	require.Len(t, lines, dim)
	for y, line := range lines {
		modules := []rune(line)
		require.Len(t, modules, 2*dim)
		for x := range dim {
			black := modules[2*x] == '█'
			require.Equal(t, code.Black(x-qrBorder, y-qrBorder), black, "module (%d,%d)", x, y)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		stdin   string
		cmdline string
		err     string
	}{
		{"", "bogus", "Unknown command"},
		{"", "encode", "prefix"},
		{"", "encode -p Bc", "mixed-case"},
		{"", "encode -p bc -x zz", "hex"},
		{"", "decode bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t5", "invalid checksum"},
		{"", "decode tb1qrp33g0q5c5txsp9arysrx4k6zdkfs4nce4xj0gdcccefvpysxf3pjxtptv", "non-zero padding"},
		{"", "decode", "missing operand"},
		{"", "decode a b", "too many arguments"},
		{"", "address bc1pw508d6qejxtdg4y5r3zarvary0c5xw7kw508d6qejxtdg4y5r3zarvary0c5xw7k7grplx", "unexpected encoding"},
		{"", "address abcdef1qpzry9x8gf2tvdw0s3jn54khce6mua7lmqqqxw", "invalid prefix"},
		{"", "script 76a914751e76e8199196d454941c45d1b3a323f1433bd688ac", "invalid witness script"},
		{"", "pubkey 0279be", "pubkey"},
		{"", "qr bcfsj6c3", "no separator"},
		{"", "-d bogus decode A1LQFN3A", "invalid debug level"},
	}
	for _, test := range tests {
		_, err := execErr([]byte(test.stdin), test.cmdline)
		require.ErrorContains(t, err, test.err, test.cmdline)
	}
}

func TestHelp(t *testing.T) {
	out := string(exec(t, nil, "-h"))
	for _, cmd := range []string{encodeCmd, decodeCmd, addressCmd, scriptCmd, pubkeyCmd, wshCmd, qrCmd} {
		require.Contains(t, out, cmd)
	}
}

func TestEncodeHelp(t *testing.T) {
	out := string(exec(t, nil, "encode -h"))
	require.Contains(t, out, "trailing newline removed")
}

func exec(t *testing.T, stdin []byte, cmd string, args ...any) []byte {
	t.Helper()
	cmdline := fmt.Sprintf(cmd, args...)
	stdout, err := execErr(stdin, cmdline)
	if err != nil {
		t.Fatalf("'bech32tool %s' reported '%v'", cmdline, err)
	}
	return stdout
}

func execErr(stdin []byte, cmd string) ([]byte, error) {
	stdout := new(bytes.Buffer)
	err := run(stdout, bytes.NewReader(stdin), strings.Split(cmd, " "))
	return stdout.Bytes(), err
}
