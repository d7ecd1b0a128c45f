// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build unix

package galloc

import "golang.org/x/sys/unix"

// ProtectNone marks b as inaccessible: no read, no write. Used by the vault
// to keep the master key's page unreadable between operations. b must be
// page-aligned and page-sized for this to have any effect on most kernels;
// Page provides that allocation.
func ProtectNone(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mprotect(b, unix.PROT_NONE)
}

// ProtectReadWrite restores read/write access to a region previously passed
// to ProtectNone.
func ProtectReadWrite(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE)
}

// pageSize returns the host's memory page size.
func pageSize() int {
	return unix.Getpagesize()
}
