// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build unix

package galloc

import "golang.org/x/sys/unix"

// munlock releases a region locked via mlock(2).
func munlock(b []byte) error {
	return unix.Munlock(b)
}
