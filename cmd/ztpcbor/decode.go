// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/bluecherry-iot/ztpcbor"
	"github.com/bluecherry-iot/ztpcbor/cbor"
)

var decodeFlags = flag.NewFlagSet("decode", flag.ContinueOnError)

var (
	decodeInPath  string
	decodeHexStr  string
	certOutPath   string
	printDeviceID bool
)

func init() {
	decodeFlags.StringVar(&decodeInPath, "in", "", "File `path` of the encoded payload")
	decodeFlags.StringVar(&decodeHexStr, "hex", "", "Encoded payload as a hex string")
	decodeFlags.StringVar(&certOutPath, "cert-out", "", "File `path` to write the decoded certificate to")
	decodeFlags.BoolVar(&printDeviceID, "id-only", false, "Print only the device identifier")
}

func decode() error {
	payload, err := readPayload(decodeInPath, decodeHexStr)
	if err != nil {
		return err
	}
	slog.Debug("decoding payload", "bytes", len(payload))

	// Fixed buffers sized to the module limits, same as a device would
	// reserve statically.
	id := make([]byte, ztpcbor.MaxDeviceIDLen)
	n, err := cbor.DecodeDeviceID(payload, id)
	if err != nil {
		return fmt.Errorf("decoding device id: %w", err)
	}
	if printDeviceID {
		fmt.Println(string(id[:n]))
		return nil
	}

	cert := make([]byte, ztpcbor.MaxCertificateLen)
	m, err := cbor.DecodeCertificate(payload, cert)
	if err != nil {
		return fmt.Errorf("decoding certificate: %w", err)
	}

	fmt.Printf("device id:   %s\n", id[:n])
	fmt.Printf("certificate: %d bytes\n", m)
	if certOutPath != "" {
		if err := os.WriteFile(certOutPath, cert[:m], 0o600); err != nil {
			return err
		}
		slog.Info("certificate written", "path", certOutPath, "bytes", m)
	}
	return nil
}
