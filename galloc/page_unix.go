// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

//go:build unix

package galloc

import "golang.org/x/sys/unix"

// Page allocates a single anonymous, page-aligned mapping at least n bytes
// long via mmap(2). A page-aligned mapping is a precondition for mprotect(2)
// to have any effect on most kernels, which is why the vault's key lives in
// a Page rather than a plain make([]byte, n) slice (grounded on the
// mmap+mprotect pattern in other_examples/78112b20_stouset-go.secrets).
// Page returns the whole page-aligned mapping (its length may exceed n,
// rounded up to the host page size); callers that need exactly n bytes keep
// their own length and slice b[:n] for logical use, but must pass the full
// Page-returned slice back to FreePage and ProtectNone/ProtectReadWrite so
// the mprotect/munmap addr+length matches the original mmap call.
func Page(n int) ([]byte, error) {
	if n <= 0 {
		n = 1
	}
	size := roundUpToPage(n)
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// FreePage releases a mapping obtained from Page. The caller must zeroize b
// before calling FreePage; FreePage does not zeroize on the caller's behalf
// because the caller may need to distinguish "zeroized, still mapped" from
// "unmapped" states around a page-protection toggle.
func FreePage(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}

func roundUpToPage(n int) int {
	ps := pageSize()
	if ps <= 0 {
		ps = 4096
	}
	return ((n + ps - 1) / ps) * ps
}
