// Command bech32tool encodes and decodes bech32 strings and Bitcoin
// segwit addresses. Commands read their operand from the command line,
// or from standard in if it is omitted.
package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	flags "github.com/jessevdk/go-flags"
	"github.com/kortschak/qr"
	"seedhammer.com/bech32tool/address"
	"seedhammer.com/bech32tool/bech32"
)

const (
	encodeCmd  = "encode"
	decodeCmd  = "decode"
	addressCmd = "address"
	scriptCmd  = "script"
	pubkeyCmd  = "pubkey"
	wshCmd     = "wsh"
	qrCmd      = "qr"
)

type config struct {
	TestNet    bool   `long:"testnet" description:"Use the test network"`
	DebugLevel string `short:"d" long:"debuglevel" default:"info" description:"Logging level {trace, debug, info, warn, error, critical, off}"`
}

type encodeConfig struct {
	Prefix  string `short:"p" long:"prefix" required:"true" description:"Human-readable prefix"`
	Bech32m bool   `short:"m" long:"bech32m" description:"Use the bech32m checksum"`
	Hex     bool   `short:"x" long:"hex" description:"Read the data as hex"`
}

type decodeConfig struct {
	Groups bool `short:"g" long:"groups" description:"Print the data as 5-bit groups"`
}

type pubkeyConfig struct {
	Taproot bool `short:"t" long:"taproot" description:"Derive a taproot address instead of a P2WPKH address"`
}

func main() {
	if err := run(os.Stdout, os.Stdin, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bech32tool: %v\n", err)
		os.Exit(2)
	}
}

func run(stdout io.Writer, stdin io.Reader, args []string) error {
	var (
		cfg       config
		encodeCfg encodeConfig
		decodeCfg decodeConfig
		pubkeyCfg pubkeyConfig
	)
	parser := flags.NewNamedParser("bech32tool", flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.AddGroup("Global Options", "", &cfg); err != nil {
		return err
	}
	commands := []struct {
		name  string
		short string
		long  string
		data  any
	}{
		{encodeCmd, "Encode data under a prefix",
			"Encode the argument, or standard in with one trailing newline removed. " +
				"Other whitespace is part of the data.", &encodeCfg},
		{decodeCmd, "Decode a bech32 or bech32m string", "", &decodeCfg},
		{addressCmd, "Describe a segwit address", "", &struct{}{}},
		{scriptCmd, "Convert an output script (hex) to an address", "", &struct{}{}},
		{pubkeyCmd, "Convert a compressed public key (hex) to an address", "", &pubkeyCfg},
		{wshCmd, "Convert a witness script (hex) to a P2WSH address", "", &struct{}{}},
		{qrCmd, "Print an address as a QR code", "", &struct{}{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			return err
		}
	}
	args, err := parser.ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			parser.WriteHelp(stdout)
			return nil
		}
		return err
	}
	if err := setLogLevels(cfg.DebugLevel); err != nil {
		return err
	}
	net := &chaincfg.MainNetParams
	if cfg.TestNet {
		net = &chaincfg.TestNet3Params
	}
	cmd := parser.Active.Name
	log.Debugf("Running %s on %s", cmd, net.Name)
	switch cmd {
	case encodeCmd:
		return encode(stdout, stdin, args, &encodeCfg)
	case decodeCmd:
		return decode(stdout, stdin, args, &decodeCfg)
	case addressCmd:
		return describe(stdout, stdin, args)
	case scriptCmd:
		return fromScript(stdout, stdin, args, net)
	case pubkeyCmd:
		return fromPubKey(stdout, stdin, args, net, &pubkeyCfg)
	case wshCmd:
		return fromWitnessScript(stdout, stdin, args, net)
	case qrCmd:
		return printQR(stdout, stdin, args)
	default:
		return fmt.Errorf("unknown command: %q", cmd)
	}
}

// operand returns the single command line argument, or the contents of
// stdin if there are no arguments.
func operand(stdin io.Reader, args []string) ([]byte, error) {
	switch len(args) {
	case 0:
		return io.ReadAll(stdin)
	case 1:
		return []byte(args[0]), nil
	}
	return nil, fmt.Errorf("too many arguments: %q", args)
}

func stringOperand(stdin io.Reader, args []string) (string, error) {
	b, err := operand(stdin, args)
	if err != nil {
		return "", err
	}
	s := string(bytes.TrimSpace(b))
	if s == "" {
		return "", errors.New("missing operand")
	}
	return s, nil
}

func hexOperand(stdin io.Reader, args []string) ([]byte, error) {
	s, err := stringOperand(stdin, args)
	if err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex: %w", err)
	}
	return b, nil
}

func encode(stdout io.Writer, stdin io.Reader, args []string, cfg *encodeConfig) error {
	var data []byte
	var err error
	if cfg.Hex {
		data, err = hexOperand(stdin, args)
	} else {
		data, err = operand(stdin, args)
		if len(args) == 0 {
			// Drop the line ending added by echo and shells.
			data = bytes.TrimSuffix(data, []byte("\n"))
			data = bytes.TrimSuffix(data, []byte("\r"))
		}
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	enc := bech32.Bech32
	if cfg.Bech32m {
		enc = bech32.Bech32m
	}
	s, err := bech32.Encode(cfg.Prefix, data, enc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, s)
	return err
}

func decode(stdout io.Writer, stdin io.Reader, args []string, cfg *decodeConfig) error {
	s, err := stringOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	var (
		prefix string
		data   []byte
		enc    bech32.Encoding
	)
	if cfg.Groups {
		prefix, data, enc, err = bech32.DecodeTo5Bit(s)
	} else {
		prefix, data, enc, err = bech32.Decode(s)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "prefix: %s\nencoding: %s\ndata: %x\n", prefix, enc, data)
	return err
}

func describe(stdout io.Writer, stdin io.Reader, args []string) error {
	s, err := stringOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	addr, err := address.Decode(s)
	if err != nil {
		return err
	}
	script, err := addr.Script()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "network: %s\nversion: %d\ntype: %s\nprogram: %x\nscript: %x\n",
		addr.Network().Name, addr.Version, addr.Type(), addr.Program, script)
	return err
}

func fromScript(stdout io.Writer, stdin io.Reader, args []string, net *chaincfg.Params) error {
	script, err := hexOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("script: %w", err)
	}
	addr, err := address.FromScript(net, script)
	if err != nil {
		return err
	}
	return printAddress(stdout, addr)
}

func fromPubKey(stdout io.Writer, stdin io.Reader, args []string, net *chaincfg.Params, cfg *pubkeyConfig) error {
	b, err := hexOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("pubkey: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return fmt.Errorf("pubkey: %w", err)
	}
	var addr *address.Address
	if cfg.Taproot {
		addr, err = address.FromTaprootKey(net, pub)
	} else {
		addr, err = address.FromPubKey(net, pub)
	}
	if err != nil {
		return err
	}
	return printAddress(stdout, addr)
}

func fromWitnessScript(stdout io.Writer, stdin io.Reader, args []string, net *chaincfg.Params) error {
	script, err := hexOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("wsh: %w", err)
	}
	addr, err := address.FromWitnessScript(net, script)
	if err != nil {
		return err
	}
	return printAddress(stdout, addr)
}

func printAddress(stdout io.Writer, addr *address.Address) error {
	s, err := addr.Encode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, s)
	return err
}

// qrBorder is the width of the quiet zone around a QR code, in modules.
const qrBorder = 4

// printQR prints the QR code of a bech32 string, two characters per
// module. The string is uppercased to fit the compact alphanumeric mode.
func printQR(stdout io.Writer, stdin io.Reader, args []string) error {
	s, err := stringOperand(stdin, args)
	if err != nil {
		return fmt.Errorf("qr: %w", err)
	}
	if _, _, _, err := bech32.DecodeTo5Bit(s); err != nil {
		return err
	}
	code, err := qr.Encode(strings.ToUpper(s), qr.M)
	if err != nil {
		return fmt.Errorf("qr: %w", err)
	}
	log.Debugf("Encoded %d characters in a %dx%d QR code", len(s), code.Size, code.Size)
	var buf bytes.Buffer
	for y := -qrBorder; y < code.Size+qrBorder; y++ {
		for x := -qrBorder; x < code.Size+qrBorder; x++ {
			if code.Black(x, y) {
				buf.WriteString("██")
			} else {
				buf.WriteString("  ")
			}
		}
		buf.WriteByte('\n')
	}
	_, err = stdout.Write(buf.Bytes())
	return err
}
