// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

// ztpcbor builds, parses, and inspects zero-touch-provisioning payloads.
package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"
)

var (
	flags   = flag.NewFlagSet("root", flag.ContinueOnError)
	verbose bool
)

func init() {
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.SetInterspersed(false)
}

func usage() {
	fmt.Fprintf(os.Stderr, `
Usage:
  ztpcbor [--verbose] [encode|decode|inspect] [options]

Encode options:
%s
Decode options:
%s
Inspect options:
%s`, encodeFlags.FlagUsages(), decodeFlags.FlagUsages(), inspectFlags.FlagUsages())
}

func main() {
	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.StampMilli,
		}),
	))

	sub := flags.Arg(0)
	var args []string
	if flags.NArg() > 1 {
		args = flags.Args()[1:]
	}

	run := func(sf *flag.FlagSet, cmd func() error) {
		if err := sf.Parse(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			usage()
			os.Exit(1)
		}
		if err := cmd(); err != nil {
			fmt.Fprintf(os.Stderr, "%s error: %v\n", sf.Name(), err)
			os.Exit(2)
		}
	}

	switch sub {
	case "encode", "enc", "e":
		run(encodeFlags, encode)
	case "decode", "dec", "d":
		run(decodeFlags, decode)
	case "inspect", "i":
		run(inspectFlags, inspect)
	default:
		if sub != "" {
			fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", sub)
		}
		usage()
		os.Exit(1)
	}
}

// readPayload loads an encoded payload from a file or an inline hex string.
func readPayload(path, hexStr string) ([]byte, error) {
	switch {
	case path != "" && hexStr != "":
		return nil, fmt.Errorf("only one of --in and --hex may be given")
	case path != "":
		return os.ReadFile(path)
	case hexStr != "":
		return hex.DecodeString(strings.TrimSpace(hexStr))
	default:
		return nil, fmt.Errorf("either --in or --hex is required")
	}
}
