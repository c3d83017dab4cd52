// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package main

import (
	"fmt"
	"log/slog"

	flag "github.com/spf13/pflag"

	"github.com/bluecherry-iot/ztpcbor/cbor"
	"github.com/bluecherry-iot/ztpcbor/cbor/cdn"
)

var inspectFlags = flag.NewFlagSet("inspect", flag.ContinueOnError)

var (
	inspectInPath string
	inspectHexStr string
)

func init() {
	inspectFlags.StringVar(&inspectInPath, "in", "", "File `path` of the encoded payload")
	inspectFlags.StringVar(&inspectHexStr, "hex", "", "Encoded payload as a hex string")
}

func inspect() error {
	payload, err := readPayload(inspectInPath, inspectHexStr)
	if err != nil {
		return err
	}
	if !cbor.Valid(payload) {
		slog.Warn("payload does not match the provisioning record schema")
	}

	s, err := cdn.FromCBOR(payload)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}
