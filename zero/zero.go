// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package zero provides the compiler-barrier-protected clearing primitive
// every other component of redoubt is built on. It never fails: given any
// contiguous mutable byte region, it overwrites every byte with zero in a
// way the optimizer cannot remove.
package zero

import (
	"runtime"
	"unsafe"
)

// Bytes overwrites b with zero bytes. This is the "fast" form: a plain
// byte-wise write followed by an opaque fence (runtime.KeepAlive) so the
// compiler cannot prove the write is dead and elide it.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Volatile overwrites b with zero bytes one byte at a time through an
// unsafe.Pointer, the "volatile" fallback used when the fast form cannot be
// proven retained by the surrounding code (for example, a buffer about to
// be discarded with no further read in the same function, which the
// compiler is otherwise free to treat as dead on entry to the store loop).
func Volatile(b []byte) {
	if len(b) == 0 {
		return
	}
	p := unsafe.Pointer(&b[0])
	for i := 0; i < len(b); i++ {
		*(*byte)(unsafe.Add(p, i)) = 0
	}
	runtime.KeepAlive(b)
}

// Value zeroizes an arbitrary fixed-size value in place given a pointer to
// it. It is used for types that aren't naturally a []byte (a [16]byte key,
// a struct of trace-free containers) without requiring an intermediate
// slice conversion at every call site.
func Value[T any](v *T) {
	if v == nil {
		return
	}
	size := unsafe.Sizeof(*v)
	if size == 0 {
		return
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
	Bytes(b)
}
