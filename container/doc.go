// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package container provides the trace-free container types redoubt builds
// its CipherBox payloads from: Array, Vec, Str, Secret, and Optional. None
// of these types support value-copy or value-clone; they are always held
// and passed by pointer, and their drop path is always a zeroizer
// invocation. Their %v/%s representation is always "REDACTED".
package container

// Zeroizable is implemented by every container type in this package. It is
// the building block Optional uses to clear whatever it holds on an
// absent transition, and the building block the codec and cipherbox
// packages use to drain scratch values without knowing their concrete type.
type Zeroizable interface {
	Zeroize()
}
