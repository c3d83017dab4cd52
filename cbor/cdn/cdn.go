// SPDX-FileCopyrightText: (C) 2025 DPTechnics bv
// SPDX-License-Identifier: Apache 2.0

// Package cdn renders CBOR data as RFC 8949 §8 diagnostic notation for
// debugging and logging. All actual interchange happens in the binary
// format; this package only produces the human-readable form.
//
// Only base16 notation is produced for binary values.
//
//	h'12345678'
//
// Example:
//
//	s, _ := cdn.FromCBOR(cborBytes)
package cdn

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/bluecherry-iot/ztpcbor/cbor"
)

// ErrInvalidInput is wrapped and returned when the input is not well-formed
// CBOR within the item set the codec emits.
var ErrInvalidInput = errors.New("cdn: unexpected input")

// Containers deeper than this fail rather than recurse further. The
// provisioning payload is flat; the margin is for inspecting foreign data.
const maxDepth = 16

// Simple values within the one-byte additional info range
const (
	falseVal     = 0x14
	trueVal      = 0x15
	nullVal      = 0x16
	undefinedVal = 0x17
)

// FromCBOR renders CBOR bytes as a diagnostic string. Exactly one item must
// be present; trailing data is an error.
func FromCBOR(c []byte) (string, error) {
	var b bytes.Buffer
	rest, err := encodeItem(&b, c, 0)
	if err != nil {
		return "", err
	}
	if len(rest) > 0 {
		return "", fmt.Errorf("%w: %d trailing bytes", ErrInvalidInput, len(rest))
	}
	return b.String(), nil
}

// encodeItem renders the first item of data and returns the remaining
// bytes.
func encodeItem(b *bytes.Buffer, data []byte, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting exceeds depth %d", ErrInvalidInput, maxDepth)
	}

	majorType, arg, n, err := cbor.ReadHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	rest := data[n:]

	switch majorType {
	case cbor.UnsignedIntType:
		_, _ = b.WriteString(strconv.FormatUint(arg, 10))
		return rest, nil

	case cbor.NegativeIntType:
		if arg == math.MaxUint64 {
			// arg+1 would wrap
			_, _ = b.WriteString("-18446744073709551616")
			return rest, nil
		}
		_, _ = b.WriteString("-")
		_, _ = b.WriteString(strconv.FormatUint(arg+1, 10))
		return rest, nil

	case cbor.ByteStringType:
		body, rest, err := splitPayload(rest, arg)
		if err != nil {
			return nil, err
		}
		_, _ = b.WriteString("h'")
		_, _ = hex.NewEncoder(b).Write(body)
		_, _ = b.WriteString("'")
		return rest, nil

	case cbor.TextStringType:
		body, rest, err := splitPayload(rest, arg)
		if err != nil {
			return nil, err
		}
		d, err := json.Marshal(string(body))
		if err != nil {
			return nil, err
		}
		_, _ = b.Write(d)
		return rest, nil

	case cbor.ArrayType:
		_, _ = b.WriteString("[")
		for i := uint64(0); i < arg; i++ {
			if i > 0 {
				_, _ = b.WriteString(", ")
			}
			if rest, err = encodeItem(b, rest, depth+1); err != nil {
				return nil, err
			}
		}
		_, _ = b.WriteString("]")
		return rest, nil

	case cbor.MapType:
		_, _ = b.WriteString("{")
		for i := uint64(0); i < arg; i++ {
			if i > 0 {
				_, _ = b.WriteString(", ")
			}
			if rest, err = encodeItem(b, rest, depth+1); err != nil {
				return nil, err
			}
			_, _ = b.WriteString(": ")
			if rest, err = encodeItem(b, rest, depth+1); err != nil {
				return nil, err
			}
		}
		_, _ = b.WriteString("}")
		return rest, nil

	case cbor.SimpleType:
		switch arg {
		case falseVal:
			_, _ = b.WriteString("false")
		case trueVal:
			_, _ = b.WriteString("true")
		case nullVal:
			_, _ = b.WriteString("null")
		case undefinedVal:
			_, _ = b.WriteString("undefined")
		default:
			_, _ = b.WriteString("simple(")
			_, _ = b.WriteString(strconv.FormatUint(arg, 10))
			_, _ = b.WriteString(")")
		}
		return rest, nil

	default:
		return nil, fmt.Errorf("%w: unsupported major type %d", ErrInvalidInput, majorType)
	}
}

func splitPayload(data []byte, length uint64) (body, rest []byte, _ error) {
	if length > uint64(len(data)) {
		return nil, nil, fmt.Errorf("%w: item declares %d payload bytes, input has %d", ErrInvalidInput, length, len(data))
	}
	return data[:length], data[length:], nil
}
