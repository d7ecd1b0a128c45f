// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build !unix

package galloc

// ProtectNone is advisory and unavailable on this platform; it is a no-op.
func ProtectNone(b []byte) error { return nil }

// ProtectReadWrite is advisory and unavailable on this platform; it is a no-op.
func ProtectReadWrite(b []byte) error { return nil }

func pageSize() int { return 4096 }
