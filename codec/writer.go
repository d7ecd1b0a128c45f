// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/sixafter/redoubt"
)

// Writer encodes fields into a caller-supplied buffer in schema order. It
// performs no allocation of its own; the buffer must be sized in advance
// for everything that will be written (cipherbox sizes each field's buffer
// with Schema.FieldEncodedSize).
type Writer struct {
	buf []byte
	off int
}

// NewWriter wraps buf for sequential field encoding starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Len reports how many bytes have been written so far.
func (w *Writer) Len() int { return w.off }

// Remaining reports how many bytes of the backing buffer are unwritten.
func (w *Writer) Remaining() int { return len(w.buf) - w.off }

// Bytes returns the portion of the backing buffer written so far.
func (w *Writer) Bytes() []byte { return w.buf[:w.off] }

func (w *Writer) reserve(n int) ([]byte, error) {
	if w.Remaining() < n {
		return nil, fmt.Errorf("%w: writer needs %d bytes, has %d remaining", redoubt.ErrCodec, n, w.Remaining())
	}
	dst := w.buf[w.off : w.off+n]
	w.off += n
	return dst, nil
}

// PutFixed copies the fixed-length field b into the buffer verbatim.
func (w *Writer) PutFixed(b []byte) error {
	dst, err := w.reserve(len(b))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// PutUint8 encodes a single byte.
func (w *Writer) PutUint8(v uint8) error {
	dst, err := w.reserve(1)
	if err != nil {
		return err
	}
	dst[0] = v
	return nil
}

// PutBool encodes a boolean as one byte: 0 or 1.
func (w *Writer) PutBool(v bool) error {
	if v {
		return w.PutUint8(1)
	}
	return w.PutUint8(0)
}

// PutUint16 encodes v little-endian.
func (w *Writer) PutUint16(v uint16) error {
	dst, err := w.reserve(2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(dst, v)
	return nil
}

// PutUint32 encodes v little-endian.
func (w *Writer) PutUint32(v uint32) error {
	dst, err := w.reserve(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(dst, v)
	return nil
}

// PutUint64 encodes v little-endian.
func (w *Writer) PutUint64(v uint64) error {
	dst, err := w.reserve(8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(dst, v)
	return nil
}

// PutLenPrefixed writes a uint32 little-endian length prefix followed by
// b, for Vec/Str fields whose length is not fixed by the schema.
func (w *Writer) PutLenPrefixed(b []byte) error {
	if err := w.PutUint32(uint32(len(b))); err != nil {
		return err
	}
	return w.PutFixed(b)
}

// PutOptionalTag writes the one-byte presence tag an Optional field is
// preceded by; the caller encodes the payload itself only when present
// is true.
func (w *Writer) PutOptionalTag(present bool) error {
	return w.PutBool(present)
}
