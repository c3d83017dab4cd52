// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/bluecherry-iot/ztpcbor"
)

var encodeFlags = flag.NewFlagSet("encode", flag.ContinueOnError)

var (
	deviceID string
	certPath string
	outPath  string
	asHex    bool
	bufSize  int
)

func init() {
	encodeFlags.StringVar(&deviceID, "id", "", "Device identifier (required)")
	encodeFlags.StringVar(&certPath, "cert", "", "File `path` of the DER certificate blob")
	encodeFlags.StringVar(&outPath, "out", "payload.cbor", "File `path` to write the encoded payload to")
	encodeFlags.BoolVar(&asHex, "hex", false, "Print the payload as hex to stdout instead of writing a file")
	encodeFlags.IntVar(&bufSize, "buf-size", 0, "Fixed encode buffer size; 0 sizes the buffer exactly")
}

func encode() error {
	record := ztpcbor.ProvisioningRecord{DeviceID: deviceID}
	if certPath != "" {
		cert, err := os.ReadFile(certPath)
		if err != nil {
			return err
		}
		record.Certificate = cert
	}
	if err := record.Validate(); err != nil {
		return err
	}

	size := bufSize
	if size == 0 {
		size = record.EncodedLen()
	}
	slog.Debug("encoding payload", "deviceID", record.DeviceID,
		"certBytes", len(record.Certificate), "bufSize", size)

	buf := make([]byte, size)
	n, err := record.Encode(buf)
	if err != nil {
		return err
	}
	slog.Debug("payload encoded", "bytes", n)

	if asHex {
		fmt.Println(hex.EncodeToString(buf[:n]))
		return nil
	}
	if err := os.WriteFile(outPath, buf[:n], 0o600); err != nil {
		return err
	}
	slog.Info("payload written", "path", outPath, "bytes", n)
	return nil
}
