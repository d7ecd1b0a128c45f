// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package container

import (
	"fmt"

	"github.com/sixafter/redoubt/galloc"
)

// Array owns a contiguous, fixed-length region of bytes. Its length is set
// once at construction and never changes; it is the realization of
// spec.md's "Fixed array of T with compile-time length N" for the one T
// redoubt actually needs at the field-codec boundary, a byte.
//
// Array is never copyable and never cloneable: it is always held and used
// through a pointer, and the zero value is not independently useful
// (NewArray is the only constructor).
type Array struct {
	buf []byte
}

// NewArray returns a zero-initialized Array of exactly n bytes.
func NewArray(n int) *Array {
	return &Array{buf: galloc.Alloc(n)}
}

// Len returns the array's fixed length.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.buf)
}

// Slice returns an immutable view of the array's contents. Callers must not
// retain the returned slice past the access scope that produced a.
func (a *Array) Slice() []byte {
	return a.buf
}

// SliceMut returns a mutable view of the array's contents.
func (a *Array) SliceMut() []byte {
	return a.buf
}

// ReplaceFrom overwrites a's contents from donor element-wise, then
// zeroizes donor. len(donor) must equal a.Len().
func (a *Array) ReplaceFrom(donor []byte) {
	if len(donor) != len(a.buf) {
		panic(fmt.Sprintf("container: Array.ReplaceFrom length mismatch: have %d, want %d", len(donor), len(a.buf)))
	}
	for i := range a.buf {
		a.buf[i], donor[i] = donor[i], 0
	}
}

// Zeroize clears the array's contents. It does not release the backing
// allocation; callers that are done with an Array entirely should let it be
// garbage collected after calling Zeroize, or use Free for guarded-allocator
// backed instances that need deterministic release.
func (a *Array) Zeroize() {
	if a == nil {
		return
	}
	galloc.Dealloc(a.buf)
}

// Free zeroizes and releases a's backing allocation back to the guarded
// allocator.
func (a *Array) Free() {
	if a == nil {
		return
	}
	galloc.Dealloc(a.buf)
	a.buf = nil
}

// GoString implements fmt.GoStringer, hiding the array's contents.
func (a *Array) GoString() string { return "container.Array(REDACTED)" }

// String implements fmt.Stringer, hiding the array's contents.
func (a *Array) String() string { return "REDACTED" }
