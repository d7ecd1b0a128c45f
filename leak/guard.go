// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package leak implements the scoped, owning handle cipherbox.LeakField
// returns: a deliberate, named escape hatch for the rare caller that
// needs a field's plaintext to outlive a single Open/OpenField callback,
// in exchange for taking on the obligation to Close it.
package leak

import "runtime"

// Guard owns a decrypted value of type T outside of any CipherBox
// callback. The zero function passed to NewGuard is called exactly once,
// on the first Close, whether that Close is explicit or driven by the
// finalizer backstop.
type Guard[T any] struct {
	value  *T
	zero   func(*T)
	closed bool
}

// NewGuard wraps value, to be cleared by zero when the guard is closed.
func NewGuard[T any](value *T, zero func(*T)) *Guard[T] {
	g := &Guard[T]{value: value, zero: zero}
	runtime.SetFinalizer(g, (*Guard[T]).Close)
	return g
}

// Value returns the guarded value, or nil if the guard has been closed.
func (g *Guard[T]) Value() *T {
	if g.closed {
		return nil
	}
	return g.value
}

// Close zeroizes the guarded value. It is idempotent and safe to call
// more than once; callers should call it as soon as the leaked value is
// no longer needed rather than relying on the finalizer, which runs at an
// unspecified, possibly much later, time.
func (g *Guard[T]) Close() {
	if g.closed {
		return
	}
	g.closed = true
	if g.zero != nil {
		g.zero(g.value)
	}
	runtime.SetFinalizer(g, nil)
}
