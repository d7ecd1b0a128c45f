// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package codec implements redoubt's fixed-layout, length-prefixed,
// allocation-free field encoding: the deterministic byte format a
// schema.Schema uses to move its fields into and out of a CipherBox's
// plaintext scratch buffer.
//
// Encoding is positional, not self-describing beyond per-field length
// prefixes for variable-length fields (Vec, Str): a Schema's
// EncodeField/DecodeField methods call Writer/Reader primitives in a
// fixed, schema-defined order, and decoding must use that same order.
// There is no type tag, version byte, or checksum; schema.Validate is
// the layer responsible for catching schema mistakes before they reach
// the wire.
//
// Reader decoding is "draining": every Get call zeroes the bytes it
// consumes from the underlying buffer before returning, so a decrypted
// scratch buffer never retains a second copy of a field once the caller
// has taken ownership of it. This mirrors cipherbox's Draining state,
// which walks a Schema's fields out of freshly decrypted bytes.
package codec
