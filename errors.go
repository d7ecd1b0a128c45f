// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package redoubt stores sensitive in-memory data ("secrets") in an
// authenticated-encrypted form at rest, decrypting only the smallest needed
// slice for the smallest possible time. See the subpackages: container for
// trace-free containers, random for entropy sources, aegis128l for the AEAD
// primitive, codec for the field wire format, vault for the master-key
// holder, and cipherbox for the per-field encrypted wrapper.
package redoubt

import "errors"

var (
	// ErrAuthFail is returned when an AEAD tag fails to verify. No plaintext
	// is produced; the caller must treat the slot as inaccessible.
	ErrAuthFail = errors.New("redoubt: authentication failed")

	// ErrCodec is returned when a decoded byte run is malformed: short
	// input, an over-length prefix, an invalid optional tag, or invalid
	// UTF-8 where a string was expected.
	ErrCodec = errors.New("redoubt: malformed field encoding")

	// ErrRand is returned when the entropy facility failed. Non-recoverable.
	ErrRand = errors.New("redoubt: entropy source failed")
)

// Observer receives non-fatal diagnostic notices from components that would
// otherwise have no way to surface them (a denied mlock request, a DRBG
// rekey). NopObserver is the no-op implementation. Callers may wire Notice to any
// structured logger; redoubt itself takes no logging dependency.
type Observer interface {
	Notice(event string, kv ...any)
}

// NopObserver discards every notice. It is the default used whenever a
// caller does not supply one.
type NopObserver struct{}

// Notice implements Observer by discarding the event.
func (NopObserver) Notice(string, ...any) {}
