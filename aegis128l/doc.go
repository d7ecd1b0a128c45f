// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package aegis128l implements the AEGIS-128L authenticated cipher: a
// 128-bit-key, 128-bit-nonce AEAD built from an 8-word (1024-bit) state
// advanced by the AES round function, used as redoubt's master-key and
// per-slot seal. It has no third-party grounding in the retrieved example
// pack — no corpus repo implements AEGIS — so the state update, absorb,
// encrypt/decrypt, and finalization steps here follow the public AEGIS-128L
// construction directly rather than an adapted teacher file (see
// DESIGN.md). The AES round itself is a plain byte-oriented software
// implementation (S-box, ShiftRows, MixColumns); no cgo or assembly is
// used, so unlike a hardware AES-NI path this package cannot promise the
// round's intermediate state never touches a spilled register, only that
// no Go-level temporary survives past the call that produced it.
package aegis128l
