// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package ztpcbor

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bluecherry-iot/ztpcbor/cbor"
)

// Field limits for constrained devices. Records within these limits always
// fit the buffers a device statically reserves for provisioning.
const (
	// MaxDeviceIDLen is the longest accepted device identifier in bytes.
	MaxDeviceIDLen = 64

	// MaxCertificateLen is the longest accepted certificate blob in bytes.
	MaxCertificateLen = 4096
)

// ErrInvalidRecord is returned by Validate and wrapped by Encode when a
// record violates the field limits.
var ErrInvalidRecord = errors.New("invalid provisioning record")

// ProvisioningRecord is the identity payload exchanged during zero-touch
// provisioning: a device identifier and the device certificate. The
// certificate is treated as an opaque byte string; parsing and validating
// it is the enrolling service's concern.
//
// On the wire the record is a CBOR map:
//
//	record = {
//	    "id":   tstr,  ;; device identifier
//	    "cert": bstr   ;; X.509 certificate, DER
//	}
//
// The pairs appear in the order shown, which is also the bytewise-lexical
// order required by deterministic encoding.
type ProvisioningRecord struct {
	DeviceID    string
	Certificate []byte
}

// Validate checks the record against the field limits.
func (r ProvisioningRecord) Validate() error {
	if r.DeviceID == "" {
		return fmt.Errorf("%w: empty device id", ErrInvalidRecord)
	}
	if len(r.DeviceID) > MaxDeviceIDLen {
		return fmt.Errorf("%w: device id is %d bytes, limit %d", ErrInvalidRecord, len(r.DeviceID), MaxDeviceIDLen)
	}
	if len(r.Certificate) > MaxCertificateLen {
		return fmt.Errorf("%w: certificate is %d bytes, limit %d", ErrInvalidRecord, len(r.Certificate), MaxCertificateLen)
	}
	return nil
}

// EncodedLen returns the exact encoded size of the record in bytes, letting
// callers size a fixed buffer before encoding.
func (r ProvisioningRecord) EncodedLen() int {
	n := cbor.HeaderLen(2)
	n += cbor.HeaderLen(uint64(len(cbor.KeyDeviceID))) + len(cbor.KeyDeviceID)
	n += cbor.HeaderLen(uint64(len(r.DeviceID))) + len(r.DeviceID)
	n += cbor.HeaderLen(uint64(len(cbor.KeyCertificate))) + len(cbor.KeyCertificate)
	n += cbor.HeaderLen(uint64(len(r.Certificate))) + len(r.Certificate)
	return n
}

// Encode serializes the record into buf and returns the number of bytes
// written. The buffer must hold at least EncodedLen bytes or encoding fails
// with cbor.ErrCapacity. Contents of buf past the returned length are
// unspecified after a failed encode.
func (r ProvisioningRecord) Encode(buf []byte) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	enc, err := cbor.NewEncoder(buf)
	if err != nil {
		return 0, err
	}
	if err := enc.StartMap(2); err != nil {
		return 0, err
	}
	if err := enc.EncodeString(cbor.KeyDeviceID); err != nil {
		return 0, err
	}
	if err := enc.EncodeString(r.DeviceID); err != nil {
		return 0, err
	}
	if err := enc.EncodeString(cbor.KeyCertificate); err != nil {
		return 0, err
	}
	if err := enc.EncodeBytes(r.Certificate); err != nil {
		return 0, err
	}
	return enc.Size(), nil
}

// DecodeRecord extracts both record fields from an encoded payload. It
// allocates for the returned record; callers on the allocation-free path
// should use [cbor.DecodeDeviceID] and [cbor.DecodeCertificate] with their
// own buffers instead.
func DecodeRecord(data []byte) (ProvisioningRecord, error) {
	id := make([]byte, MaxDeviceIDLen)
	n, err := cbor.DecodeDeviceID(data, id)
	if err != nil {
		return ProvisioningRecord{}, fmt.Errorf("decoding device id: %w", err)
	}
	cert := make([]byte, MaxCertificateLen)
	m, err := cbor.DecodeCertificate(data, cert)
	if err != nil {
		return ProvisioningRecord{}, fmt.Errorf("decoding certificate: %w", err)
	}
	return ProvisioningRecord{
		DeviceID:    string(id[:n]),
		Certificate: bytes.Clone(cert[:m]),
	}, nil
}
