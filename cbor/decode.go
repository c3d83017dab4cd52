// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
)

// MajorType identifies the CBOR item category of a decoded header.
type MajorType byte

// Major types as returned by ReadHeader.
const (
	UnsignedIntType MajorType = iota
	NegativeIntType
	ByteStringType
	TextStringType
	ArrayType
	MapType
	TagType
	SimpleType
)

// ReadHeader decodes the item header at the start of data and returns its
// major type, argument (value, length, or count), and the number of header
// bytes consumed. Truncated headers and the reserved or indefinite-length
// additional-info values 28..31 fail with ErrMalformed.
func ReadHeader(data []byte) (MajorType, uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, 0, fmt.Errorf("%w: missing item header", ErrMalformed)
	}
	majorType := MajorType(data[0] >> 5)
	lowFiveBits := data[0] & fiveBitMask
	if lowFiveBits < oneByteAdditional {
		return majorType, uint64(lowFiveBits), 1, nil
	}
	if lowFiveBits > eightBytesAdditional {
		return 0, 0, 0, fmt.Errorf("%w: reserved or indefinite-length additional info %d", ErrMalformed, lowFiveBits)
	}
	n := 1 << (lowFiveBits - oneByteAdditional)
	if len(data) < 1+n {
		return 0, 0, 0, fmt.Errorf("%w: header declares %d argument bytes, input has %d", ErrMalformed, n, len(data)-1)
	}
	var arg uint64
	for _, b := range data[1 : 1+n] {
		arg = arg<<8 | uint64(b)
	}
	return majorType, arg, 1 + n, nil
}

// reader is a bounds-checked cursor over an immutable input buffer. All
// reads go through head and readN; neither ever advances past the end of
// the input.
type reader struct {
	data []byte
	off  int
}

func (r *reader) head() (MajorType, uint64, error) {
	majorType, arg, n, err := ReadHeader(r.data[r.off:])
	if err != nil {
		return 0, 0, err
	}
	r.off += n
	return majorType, arg, nil
}

func (r *reader) readN(n uint64) ([]byte, error) {
	if rem := uint64(len(r.data) - r.off); n > rem {
		return nil, fmt.Errorf("%w: item declares %d payload bytes, input has %d", ErrMalformed, n, rem)
	}
	b := r.data[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

// expectKey consumes one map key, which must be a text string matching name.
func (r *reader) expectKey(name string) error {
	majorType, arg, err := r.head()
	if err != nil {
		return err
	}
	if majorType != TextStringType {
		return fmt.Errorf("%w: expected text string key, got major type %d", ErrMalformed, majorType)
	}
	key, err := r.readN(arg)
	if err != nil {
		return err
	}
	if string(key) != name {
		return fmt.Errorf("%w: expected key %q, got %q", ErrMalformed, name, key)
	}
	return nil
}

// skip consumes one item. Only integers, strings, and simple values can be
// skipped; the payload schema has no nested containers, so an array or map
// in a skipped position is malformed.
func (r *reader) skip() error {
	majorType, arg, err := r.head()
	if err != nil {
		return err
	}
	switch majorType {
	case UnsignedIntType, NegativeIntType, SimpleType:
		return nil
	case ByteStringType, TextStringType:
		_, err := r.readN(arg)
		return err
	default:
		return fmt.Errorf("%w: unexpected nested item of major type %d", ErrMalformed, majorType)
	}
}

// enterMap consumes the top-level map header and checks it declares at
// least pairs key-value pairs.
func (r *reader) enterMap(pairs uint64) error {
	majorType, arg, err := r.head()
	if err != nil {
		return err
	}
	if majorType != MapType {
		return fmt.Errorf("%w: expected map at top level, got major type %d", ErrMalformed, majorType)
	}
	if arg < pairs {
		return fmt.Errorf("%w: map declares %d pairs, need at least %d", ErrMalformed, arg, pairs)
	}
	return nil
}

// copyField consumes one item of the wanted major type and copies its
// payload into out. The input bounds are validated before the output
// capacity so that a truncated buffer is always reported as malformed.
func (r *reader) copyField(want MajorType, out []byte) (int, error) {
	majorType, arg, err := r.head()
	if err != nil {
		return 0, err
	}
	if majorType != want {
		return 0, fmt.Errorf("%w: expected major type %d, got %d", ErrMalformed, want, majorType)
	}
	payload, err := r.readN(arg)
	if err != nil {
		return 0, err
	}
	if len(payload) > len(out) {
		return 0, fmt.Errorf("%w: field is %d bytes, output holds %d", ErrOutputTooSmall, len(payload), len(out))
	}
	return copy(out, payload), nil
}

// DecodeDeviceID extracts the device identifier from an encoded
// provisioning payload: the text string value of the map's first pair,
// keyed KeyDeviceID. The identifier is copied into out and its length in
// bytes returned. On any failure out is left untouched.
func DecodeDeviceID(data, out []byte) (int, error) {
	if data == nil || out == nil {
		return 0, ErrInvalidArgument
	}
	r := &reader{data: data}
	if err := r.enterMap(1); err != nil {
		return 0, err
	}
	if err := r.expectKey(KeyDeviceID); err != nil {
		return 0, err
	}
	return r.copyField(TextStringType, out)
}

// DecodeCertificate extracts the certificate blob from an encoded
// provisioning payload: the byte string value of the map's second pair,
// keyed KeyCertificate. The blob is copied into out and its length in bytes
// returned. On any failure out is left untouched.
func DecodeCertificate(data, out []byte) (int, error) {
	if data == nil || out == nil {
		return 0, ErrInvalidArgument
	}
	r := &reader{data: data}
	if err := r.enterMap(2); err != nil {
		return 0, err
	}
	// First pair is the device id; step over its key and value.
	if err := r.skip(); err != nil {
		return 0, err
	}
	if err := r.skip(); err != nil {
		return 0, err
	}
	if err := r.expectKey(KeyCertificate); err != nil {
		return 0, err
	}
	return r.copyField(ByteStringType, out)
}

// Valid reports whether data begins with a complete provisioning payload:
// a map whose first two pairs hold a device id text string and a
// certificate byte string under the schema keys.
func Valid(data []byte) bool {
	r := &reader{data: data}
	if err := r.enterMap(2); err != nil {
		return false
	}
	if err := r.expectKey(KeyDeviceID); err != nil {
		return false
	}
	if majorType, arg, err := r.head(); err != nil || majorType != TextStringType {
		return false
	} else if _, err := r.readN(arg); err != nil {
		return false
	}
	if err := r.expectKey(KeyCertificate); err != nil {
		return false
	}
	majorType, arg, err := r.head()
	if err != nil || majorType != ByteStringType {
		return false
	}
	_, err = r.readN(arg)
	return err == nil
}
