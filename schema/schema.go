// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package schema is redoubt's derive contract: the interface a struct of
// secret fields implements in place of a code-generated or macro-derived
// layout. Go has neither derive macros nor a reflection-free way to
// enumerate struct fields with their sizes at compile time, so the layout
// a generator would otherwise emit is instead hand-written once per
// secret type, in the shape schema.Validate checks and cipherbox.Box
// drives.
package schema

import (
	"fmt"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/codec"
)

// Schema is implemented by a struct describing how its own fields are
// encoded, decoded, and zeroized. Field indices are positional and must
// be encoded/decoded in the same order every time; codec has no
// self-describing tags to catch a schema that encodes out of order.
type Schema interface {
	// FieldCount returns the number of fields in the schema.
	FieldCount() int

	// FieldSize returns the fixed wire size, in bytes, of field idx, or
	// -1 if the field is variable-length (Vec, Str) and therefore
	// length-prefixed rather than fixed.
	FieldSize(idx int) int

	// FieldName returns a human-readable name for field idx, used only
	// in diagnostics and Validate errors — never encoded on the wire.
	FieldName(idx int) string

	// EncodeField writes field idx to w, in the schema's declared order.
	EncodeField(idx int, w *codec.Writer) error

	// DecodeField reads field idx from r into the schema's own storage,
	// in the schema's declared order.
	DecodeField(idx int, r *codec.Reader) error

	// EncodedSize returns the schema's current total wire size: the sum
	// of every fixed field's FieldSize plus, for each variable-length
	// field, its current length-prefix overhead and payload length.
	EncodedSize() int

	// FieldEncodedSize returns field idx's current wire size alone: its
	// FieldSize if fixed, or its length-prefix overhead plus current
	// payload length if variable. A Box seals each field into its own
	// slot and uses this to size that slot's plaintext scratch buffer,
	// since a variable-length field's contribution isn't knowable from
	// FieldSize alone.
	FieldEncodedSize(idx int) int

	// ZeroizeField clears field idx's live, decoded value in place.
	ZeroizeField(idx int)

	// Zeroize clears every field; equivalent to calling ZeroizeField for
	// idx in [0, FieldCount()).
	Zeroize()
}

// Validate checks that s presents a self-consistent field layout before
// cipherbox.New builds a Box around it: a negative/zero fixed size or an
// unnamed field is a programmer error that should fail at construction,
// not surface as a confusing codec error deep inside the first Open. A
// zero-field schema is a legitimate boundary case — it constructs and
// drops cleanly, with no slots to seal or open — so FieldCount()==0 is
// not itself rejected; only a negative count, which no schema should ever
// report, is.
func Validate(s Schema) error {
	n := s.FieldCount()
	if n < 0 {
		return fmt.Errorf("%w: schema reports a negative field count", redoubt.ErrCodec)
	}
	for i := 0; i < n; i++ {
		if s.FieldName(i) == "" {
			return fmt.Errorf("%w: field %d has no name", redoubt.ErrCodec, i)
		}
		size := s.FieldSize(i)
		if size == 0 {
			return fmt.Errorf("%w: field %q has zero fixed size", redoubt.ErrCodec, s.FieldName(i))
		}
		if size < -1 {
			return fmt.Errorf("%w: field %q has invalid size %d", redoubt.ErrCodec, s.FieldName(i), size)
		}
	}
	return nil
}

// WireSize returns the total fixed-size footprint of s's fixed-size
// fields (FieldSize >= 0); variable-length fields (FieldSize == -1)
// contribute nothing, since their on-wire footprint isn't known until
// encode time. It is the lower bound a cipherbox.Box must budget for its
// plaintext scratch buffer before accounting for length prefixes and
// variable payloads.
func WireSize(s Schema) int {
	total := 0
	for i := 0; i < s.FieldCount(); i++ {
		if sz := s.FieldSize(i); sz > 0 {
			total += sz
		}
	}
	return total
}
