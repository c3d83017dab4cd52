// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"encoding/binary"
	"errors"
	"math"
)

// Major types (high 3 bits)
const (
	unsignedIntMajorType byte = 0x00
	negativeIntMajorType byte = 0x01
	byteStringMajorType  byte = 0x02
	textStringMajorType  byte = 0x03
	arrayMajorType       byte = 0x04
	mapMajorType         byte = 0x05
	tagMajorType         byte = 0x06
	simpleMajorType      byte = 0x07
)

// Additional info (low 5 bits)
const (
	oneByteAdditional    byte = 0x18
	twoBytesAdditional   byte = 0x19
	fourBytesAdditional  byte = 0x1a
	eightBytesAdditional byte = 0x1b
)

// Well-known simple values
const (
	falseVal byte = 0x14
	trueVal  byte = 0x15
	nullVal  byte = 0x16
)

// Bitmasks
const (
	threeBitMask byte = 0x07
	fiveBitMask  byte = 0x1f
)

// Payload schema map keys. The provisioning payload is a map of at least two
// pairs, the first keyed KeyDeviceID with a text string value and the second
// keyed KeyCertificate with a byte string value. Additional trailing pairs
// are permitted and ignored by the field decoders.
const (
	KeyDeviceID    = "id"
	KeyCertificate = "cert"
)

// Sentinel errors
var (
	// ErrCapacity is returned by an encode operation that would write past
	// the bound buffer. The operation commits nothing and the encoder remains
	// usable. It is returned unwrapped so that the encode path stays free of
	// allocation.
	ErrCapacity = errors.New("cbor: insufficient buffer capacity")

	// ErrInvalidArgument is returned for a nil or empty encode buffer and
	// for nil decode inputs or outputs.
	ErrInvalidArgument = errors.New("cbor: invalid argument")

	// ErrMalformed is returned when decode input is truncated, declares a
	// length past the end of the input, or has an unexpected major type at a
	// schema position.
	ErrMalformed = errors.New("cbor: malformed input")

	// ErrOutputTooSmall is returned when a decoded field does not fit the
	// caller-provided output buffer. The output is left untouched.
	ErrOutputTooSmall = errors.New("cbor: output buffer too small")
)

// Encoder serializes CBOR items into a fixed caller-owned buffer. It never
// allocates and never grows the buffer: an item that does not fit fails with
// ErrCapacity before any byte is written, leaving the encoder state
// unchanged.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	buf []byte
	pos int
}

// NewEncoder binds an Encoder to buf. The buffer must be non-nil and
// non-empty.
func NewEncoder(buf []byte) (*Encoder, error) {
	e := new(Encoder)
	if err := e.Reset(buf); err != nil {
		return nil, err
	}
	return e, nil
}

// Reset rebinds the encoder to buf and rewinds the write position to zero.
// Resetting to the same buffer discards any previously encoded items.
func (e *Encoder) Reset(buf []byte) error {
	if len(buf) == 0 {
		return ErrInvalidArgument
	}
	e.buf = buf
	e.pos = 0
	return nil
}

// Size returns the number of bytes committed so far. It is zero before the
// first successful encode operation and unchanged by failed ones.
func (e *Encoder) Size() int { return e.pos }

// Avail returns the remaining capacity in bytes.
func (e *Encoder) Avail() int { return len(e.buf) - e.pos }

// Bytes returns the encoded prefix of the bound buffer. The slice aliases
// the caller's buffer and remains valid until the next encode or Reset.
func (e *Encoder) Bytes() []byte { return e.buf[:e.pos] }

// EncodeBytes appends a byte string item.
func (e *Encoder) EncodeBytes(p []byte) error {
	if err := e.encodeHead(byteStringMajorType, uint64(len(p)), len(p)); err != nil {
		return err
	}
	e.pos += copy(e.buf[e.pos:], p)
	return nil
}

// EncodeString appends a text string item. The string is treated as an
// opaque byte sequence; UTF-8 validity is the caller's concern.
func (e *Encoder) EncodeString(s string) error {
	if err := e.encodeHead(textStringMajorType, uint64(len(s)), len(s)); err != nil {
		return err
	}
	e.pos += copy(e.buf[e.pos:], s)
	return nil
}

// EncodeUint64 appends an unsigned integer item.
func (e *Encoder) EncodeUint64(v uint64) error {
	return e.encodeHead(unsignedIntMajorType, v, 0)
}

// EncodeInt appends an unsigned integer item for v >= 0, or a negative
// integer item encoding -1-v otherwise.
func (e *Encoder) EncodeInt(v int64) error {
	if v >= 0 {
		return e.encodeHead(unsignedIntMajorType, uint64(v), 0)
	}
	// The wrapped negation converts exactly, including math.MinInt64
	abs := uint64(-v)
	return e.encodeHead(negativeIntMajorType, abs-1, 0)
}

// StartArray appends an array header declaring n items. The caller must
// encode exactly n subsequent items; the encoder trusts but does not verify
// this.
func (e *Encoder) StartArray(n uint64) error {
	return e.encodeHead(arrayMajorType, n, 0)
}

// StartMap appends a map header declaring n key-value pairs. The caller must
// encode exactly 2*n subsequent items, alternating keys and values.
func (e *Encoder) StartMap(n uint64) error {
	return e.encodeHead(mapMajorType, n, 0)
}

// EncodeBool appends a true or false simple value.
func (e *Encoder) EncodeBool(truthy bool) error {
	if e.Avail() < 1 {
		return ErrCapacity
	}
	b := simpleMajorType << 5
	if truthy {
		b |= trueVal
	} else {
		b |= falseVal
	}
	e.buf[e.pos] = b
	e.pos++
	return nil
}

// EncodeNull appends a null simple value.
func (e *Encoder) EncodeNull() error {
	if e.Avail() < 1 {
		return ErrCapacity
	}
	e.buf[e.pos] = simpleMajorType<<5 | nullVal
	e.pos++
	return nil
}

// Write the minimal-length header for an item with the given argument,
// checking that header plus payload bytes fit before committing anything.
func (e *Encoder) encodeHead(majorType byte, arg uint64, payload int) error {
	if payload > len(e.buf) || HeaderLen(arg)+payload > e.Avail() {
		return ErrCapacity
	}
	e.pos += putHead(e.buf[e.pos:], majorType, arg)
	return nil
}

// HeaderLen returns the encoded size in bytes of an item header whose
// argument (value, length, or count) is arg, using the minimal canonical
// form: 1 byte for arguments below 24, then 2, 3, 5, or 9 bytes as the
// argument crosses the 1-, 2-, 4-, and 8-byte thresholds.
func HeaderLen(arg uint64) int {
	switch {
	case arg < uint64(oneByteAdditional):
		return 1
	case arg <= math.MaxUint8:
		return 2
	case arg <= math.MaxUint16:
		return 3
	case arg <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// panics if dst is shorter than HeaderLen(arg)
func putHead(dst []byte, majorType byte, arg uint64) int {
	first := (majorType & threeBitMask) << 5
	switch {
	case arg < uint64(oneByteAdditional):
		dst[0] = first | byte(arg)
		return 1
	case arg <= math.MaxUint8:
		dst[0] = first | oneByteAdditional
		dst[1] = byte(arg)
		return 2
	case arg <= math.MaxUint16:
		dst[0] = first | twoBytesAdditional
		binary.BigEndian.PutUint16(dst[1:], uint16(arg))
		return 3
	case arg <= math.MaxUint32:
		dst[0] = first | fourBytesAdditional
		binary.BigEndian.PutUint32(dst[1:], uint32(arg))
		return 5
	default:
		dst[0] = first | eightBytesAdditional
		binary.BigEndian.PutUint64(dst[1:], arg)
		return 9
	}
}
