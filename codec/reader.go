// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/zero"
)

// Reader decodes fields from a caller-supplied buffer in schema order.
// Every Get call zeroes the region it consumes before returning, so a
// field is never readable twice from the same Reader.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps buf for sequential, draining field decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining reports how many undrained bytes are left.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, fmt.Errorf("%w: reader needs %d bytes, has %d remaining", redoubt.ErrCodec, n, r.Remaining())
	}
	src := r.buf[r.off : r.off+n]
	r.off += n
	return src, nil
}

// GetFixedInto drains exactly len(dst) bytes into dst.
func (r *Reader) GetFixedInto(dst []byte) error {
	src, err := r.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, src)
	zero.Bytes(src)
	return nil
}

// GetUint8 drains one byte.
func (r *Reader) GetUint8() (uint8, error) {
	src, err := r.take(1)
	if err != nil {
		return 0, err
	}
	v := src[0]
	zero.Bytes(src)
	return v, nil
}

// GetBool drains one byte as a boolean; any nonzero byte decodes true.
func (r *Reader) GetBool() (bool, error) {
	v, err := r.GetUint8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// GetUint16 drains two bytes, little-endian.
func (r *Reader) GetUint16() (uint16, error) {
	src, err := r.take(2)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(src)
	zero.Bytes(src)
	return v, nil
}

// GetUint32 drains four bytes, little-endian.
func (r *Reader) GetUint32() (uint32, error) {
	src, err := r.take(4)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(src)
	zero.Bytes(src)
	return v, nil
}

// GetUint64 drains eight bytes, little-endian.
func (r *Reader) GetUint64() (uint64, error) {
	src, err := r.take(8)
	if err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(src)
	zero.Bytes(src)
	return v, nil
}

// GetLenPrefixedLen drains the uint32 length prefix written by
// Writer.PutLenPrefixed, without touching the payload that follows.
func (r *Reader) GetLenPrefixedLen() (int, error) {
	n, err := r.GetUint32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetOptionalTag drains the one-byte presence tag written by
// Writer.PutOptionalTag.
func (r *Reader) GetOptionalTag() (bool, error) {
	return r.GetBool()
}
