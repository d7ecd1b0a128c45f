// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package galloc is the guarded allocator substrate for redoubt's
// trace-free containers and the master-key vault: raw allocation that
// zeroizes-on-free and, best-effort, locks its pages against swap.
package galloc

import (
	"github.com/hashicorp/go-secure-stdlib/mlock"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/zero"
)

// Alloc returns a region of n bytes, or nil when n is 0. The region comes
// from make and is therefore zero-filled; container constructors such as
// NewArray rely on that.
func Alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	return make([]byte, n)
}

// Dealloc zeroizes the entire region. It performs no explicit release: the
// memory returns to the system when the garbage collector reclaims it after
// the caller drops its last reference.
func Dealloc(b []byte) {
	zero.Bytes(b)
}

// Realloc performs a safe reallocation: (a) allocate the new region, (b)
// copy bytes from old to new, (c) zeroize the old region completely, (d)
// release the old region. No in-place reuse by the system allocator is
// permitted — the old backing array is always abandoned only after being
// zeroed, never reused as the new one.
func Realloc(old []byte, newLen int) []byte {
	next := Alloc(newLen)
	copy(next, old)
	Dealloc(old)
	return next
}

// LockRegion requests that the OS keep b resident in physical memory,
// never paged to swap. Failure to lock is non-fatal: the caller degrades to
// an ordinary, unlocked allocation and keeps operating correctly, per
// spec.md §4.2/§6. obs may be nil, in which case the notice is discarded.
func LockRegion(b []byte, obs redoubt.Observer) {
	if len(b) == 0 {
		return
	}
	if obs == nil {
		obs = redoubt.NopObserver{}
	}
	if err := mlock.LockMemory(b); err != nil {
		obs.Notice("galloc: mlock denied", "error", err, "bytes", len(b))
	}
}

// UnlockRegion releases a region previously locked with LockRegion. It is
// safe to call even if LockRegion failed or was never called. go-secure-stdlib/mlock
// deliberately has no Unlock (HashiCorp Vault locks for the process lifetime
// and relies on process exit); redoubt's slots are shorter-lived than a
// process, so unlocking is handled directly in unlock_unix.go / unlock_other.go.
func UnlockRegion(b []byte, obs redoubt.Observer) {
	if len(b) == 0 {
		return
	}
	if obs == nil {
		obs = redoubt.NopObserver{}
	}
	if err := munlock(b); err != nil {
		obs.Notice("galloc: munlock failed", "error", err, "bytes", len(b))
	}
}
