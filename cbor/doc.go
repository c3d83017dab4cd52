// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

/*
Package cbor implements a fixed-buffer encoder and a schema decoder for RFC
8949 Concise Binary Object Representation (CBOR), sized for the
zero-touch-provisioning payload exchanged by constrained devices.

The encoder writes primitive items (unsigned and negative integers, byte
strings, text strings, array and map headers, bool, and null) directly into
a caller-owned buffer with strict capacity accounting. It never allocates
and never grows the buffer; an item that does not fit fails before a single
byte is written, so a failed call leaves the encoder reusable.

Not supported:

  - Indefinite length arrays, maps, byte strings, or text strings
  - Tags
  - Floats
  - Nested containers in decoded payloads
  - UTF-8 validation of strings

Argument encoding is always the minimal canonical form for the given
magnitude.

# Encoding

	buf := make([]byte, 256)
	enc, err := cbor.NewEncoder(buf)
	if err != nil { ... }

	_ = enc.StartMap(2)
	_ = enc.EncodeString(cbor.KeyDeviceID)
	_ = enc.EncodeString("dev-001")
	_ = enc.EncodeString(cbor.KeyCertificate)
	_ = enc.EncodeBytes(certDER)

	payload := enc.Bytes() // buf[:enc.Size()]

# Decoding

The decoders are pure functions over an immutable input slice. They extract
the two payload fields by structural position, validating every
length-prefixed read against the remaining input before copying into
caller-owned output buffers.

	id := make([]byte, 64)
	n, err := cbor.DecodeDeviceID(payload, id)
	if err != nil { ... }
	deviceID := string(id[:n])
*/
package cbor
