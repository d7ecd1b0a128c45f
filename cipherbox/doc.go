// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package cipherbox is redoubt's core access protocol: a Box[T] keeps a
// schema.Schema's fields sealed as AEGIS-128L ciphertext at rest, and
// decrypts only for the duration of a single Open/OpenField callback
// before re-encrypting under a fresh nonce.
//
// A Box moves through Sealed, Draining, Plaintext, Re-encoding, and
// Resealing on every successful Open, landing back on Sealed. A failure to
// open or decode a slot, or to re-encode or reseal one, lands it on Failed
// instead, which is terminal: a Failed box refuses further Opens with
// redoubt.ErrCodec. An error returned by the caller's callback, or an
// out-of-range field index, is reported to the caller but leaves the box
// Sealed and usable, since its slots were resealed (or never opened). A
// Box is not safe for concurrent Open calls: an atomic
// reentrancy flag rejects (by panicking) a call that arrives while
// another is already in flight on the same Box, rather than silently
// queuing or racing two decryptions of the same ciphertext.
package cipherbox
