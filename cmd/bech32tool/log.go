package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"seedhammer.com/bech32tool/address"
)

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it write to stderr.
var (
	backendLog = btclog.NewBackend(os.Stderr)

	log     = backendLog.Logger("B32T")
	addrLog = backendLog.Logger("ADDR")
)

func init() {
	address.UseLogger(addrLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"B32T": log,
	"ADDR": addrLog,
}

// setLogLevels sets the log level of all subsystem loggers.
func setLogLevels(level string) error {
	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid debug level: %q", level)
	}
	for _, logger := range subsystemLoggers {
		logger.SetLevel(lvl)
	}
	return nil
}
