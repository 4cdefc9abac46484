package config

import (
	"flag"
	"os"
	"time"

	"github.com/apexai/draftkit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   path to the settings database
//	-d string   path to the draft history database
//	-t int      provider request timeout in seconds
//	-l string   log level (debug, info, warn, error)
//	-p string   path to the key store passphrase file
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-d", "-t", "-l", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path to settings database")
	fs.StringVar(&cfg.HistoryPath, "d", cfg.HistoryPath, "path to draft history database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "provider request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.PassphraseFile, "p", cfg.PassphraseFile, "path to key store passphrase file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
