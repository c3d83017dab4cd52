// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

// Differential tests against github.com/fxamacker/cbor as an independent
// implementation of RFC 8949. Core-deterministic encoding mode produces the
// same minimal-length canonical form this package emits.
package cbor_test

import (
	"bytes"
	"testing"

	fxcbor "github.com/fxamacker/cbor/v2"

	"github.com/bluecherry-iot/ztpcbor/cbor"
)

var fxEncMode fxcbor.EncMode

func init() {
	em, err := fxcbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	fxEncMode = em
}

func TestUintAgainstReference(t *testing.T) {
	for _, v := range []uint64{
		0, 1, 10, 23, 24, 25, 100, 255, 256, 1000, 65535, 65536,
		1000000, 4294967295, 4294967296, 1000000000000, 18446744073709551615,
	} {
		expect, err := fxEncMode.Marshal(v)
		if err != nil {
			t.Fatalf("reference error marshaling %d: %v", v, err)
		}
		enc, err := cbor.NewEncoder(make([]byte, 16))
		if err != nil {
			t.Fatalf("error creating encoder: %v", err)
		}
		if err := enc.EncodeUint64(v); err != nil {
			t.Errorf("error encoding %d: %v", v, err)
		} else if !bytes.Equal(enc.Bytes(), expect) {
			t.Errorf("encoding %d; reference % x, got % x", v, expect, enc.Bytes())
		}
	}
}

func TestIntAgainstReference(t *testing.T) {
	for _, v := range []int64{
		0, 1, 23, 24, 100, -1, -2, -23, -24, -25, -100, -255, -256, -257,
		-65536, -65537, -4294967296, -4294967297, -9223372036854775808,
	} {
		expect, err := fxEncMode.Marshal(v)
		if err != nil {
			t.Fatalf("reference error marshaling %d: %v", v, err)
		}
		enc, err := cbor.NewEncoder(make([]byte, 16))
		if err != nil {
			t.Fatalf("error creating encoder: %v", err)
		}
		if err := enc.EncodeInt(v); err != nil {
			t.Errorf("error encoding %d: %v", v, err)
		} else if !bytes.Equal(enc.Bytes(), expect) {
			t.Errorf("encoding %d; reference % x, got % x", v, expect, enc.Bytes())
		}
	}
}

func TestStringsAgainstReference(t *testing.T) {
	for _, length := range []int{0, 1, 23, 24, 255, 256, 1000} {
		s := string(bytes.Repeat([]byte{'x'}, length))
		b := bytes.Repeat([]byte{0x5a}, length)

		expect, err := fxEncMode.Marshal(s)
		if err != nil {
			t.Fatalf("reference error marshaling %d-byte string: %v", length, err)
		}
		buf := make([]byte, 2048)
		enc, err := cbor.NewEncoder(buf)
		if err != nil {
			t.Fatalf("error creating encoder: %v", err)
		}
		if err := enc.EncodeString(s); err != nil {
			t.Errorf("error encoding %d-byte string: %v", length, err)
		} else if !bytes.Equal(enc.Bytes(), expect) {
			t.Errorf("encoding %d-byte string; reference and encoder output differ", length)
		}

		expect, err = fxEncMode.Marshal(b)
		if err != nil {
			t.Fatalf("reference error marshaling %d bytes: %v", length, err)
		}
		if err := enc.Reset(buf); err != nil {
			t.Fatalf("error resetting encoder: %v", err)
		}
		if err := enc.EncodeBytes(b); err != nil {
			t.Errorf("error encoding %d bytes: %v", length, err)
		} else if !bytes.Equal(enc.Bytes(), expect) {
			t.Errorf("encoding %d bytes; reference and encoder output differ", length)
		}
	}
}

func TestPayloadAgainstReference(t *testing.T) {
	deviceID := "dev-001"
	certDER := bytes.Repeat([]byte{0x30}, 300)

	enc, err := cbor.NewEncoder(make([]byte, 512))
	if err != nil {
		t.Fatalf("error creating encoder: %v", err)
	}
	if err := enc.StartMap(2); err != nil {
		t.Fatalf("error starting map: %v", err)
	}
	if err := enc.EncodeString(cbor.KeyDeviceID); err != nil {
		t.Fatalf("error encoding id key: %v", err)
	}
	if err := enc.EncodeString(deviceID); err != nil {
		t.Fatalf("error encoding id: %v", err)
	}
	if err := enc.EncodeString(cbor.KeyCertificate); err != nil {
		t.Fatalf("error encoding cert key: %v", err)
	}
	if err := enc.EncodeBytes(certDER); err != nil {
		t.Fatalf("error encoding cert: %v", err)
	}

	// Core-deterministic map key order is bytewise lexical over the encoded
	// keys, which puts the shorter "id" key first, same as the schema.
	expect, err := fxEncMode.Marshal(map[string]any{
		cbor.KeyDeviceID:    deviceID,
		cbor.KeyCertificate: certDER,
	})
	if err != nil {
		t.Fatalf("reference error marshaling payload: %v", err)
	}
	if !bytes.Equal(enc.Bytes(), expect) {
		t.Errorf("payload differs from reference:\nreference % x\n      got % x", expect, enc.Bytes())
	}

	// The reference decoder must recover both fields from our encoding.
	var decoded struct {
		DeviceID    string `cbor:"id"`
		Certificate []byte `cbor:"cert"`
	}
	if err := fxcbor.Unmarshal(enc.Bytes(), &decoded); err != nil {
		t.Fatalf("reference error unmarshaling payload: %v", err)
	}
	if decoded.DeviceID != deviceID {
		t.Errorf("reference decoded device id %q, expected %q", decoded.DeviceID, deviceID)
	}
	if !bytes.Equal(decoded.Certificate, certDER) {
		t.Errorf("reference decoded certificate differs")
	}

	// And our field decoders must recover a payload built by the reference.
	id := make([]byte, 64)
	n, err := cbor.DecodeDeviceID(expect, id)
	if err != nil {
		t.Fatalf("error decoding reference payload device id: %v", err)
	}
	if got := string(id[:n]); got != deviceID {
		t.Errorf("decoded device id %q from reference payload, expected %q", got, deviceID)
	}
	cert := make([]byte, 512)
	n, err = cbor.DecodeCertificate(expect, cert)
	if err != nil {
		t.Fatalf("error decoding reference payload certificate: %v", err)
	}
	if !bytes.Equal(cert[:n], certDER) {
		t.Errorf("decoded certificate from reference payload differs")
	}
}
