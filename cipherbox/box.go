// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cipherbox

import (
	"fmt"
	"sync/atomic"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/codec"
	"github.com/sixafter/redoubt/leak"
	"github.com/sixafter/redoubt/schema"
	"github.com/sixafter/redoubt/vault"
	"github.com/sixafter/redoubt/zero"
)

type boxState int32

const (
	stateSealed boxState = iota
	stateDraining
	statePlaintext
	stateReencoding
	stateResealing
	stateFailed
)

// schemaPtr constrains a type parameter PT to "pointer to T that
// implements schema.Schema" — the idiomatic stand-in, in a generics-based
// language with no derive macros, for "T's generated accessor methods are
// defined on *T". Every cipherbox function takes both T and PT so it can
// construct a *T at a call site and immediately use it as a schema.Schema
// without a runtime type assertion.
type schemaPtr[T any] interface {
	*T
	schema.Schema
}

// slot is one field's independently-sealed ciphertext run: its own
// ciphertext (including the AEGIS-128L tag) and the nonce used to produce
// it. A Box owns exactly FieldCount() of these, never one ciphertext for
// the whole record, so that a single-field access opens and reseals only
// the bytes that field actually occupies.
type slot struct {
	ciphertext []byte
	nonce      []byte
}

// Box holds one schema.Schema's fields, each sealed into its own
// ciphertext slot under a Vault's master key. Every slot's associated
// data combines the box's own caller-supplied label (e.g. a record name)
// with that slot's index, so neither a slot's ciphertext can be
// substituted for another slot's within the same box, nor can a box
// sealed under one label have its ciphertext substituted into a box
// sealed under another.
type Box[T any, PT schemaPtr[T]] struct {
	state atomic.Int32
	vault *vault.Vault
	aad   []byte
	slots []slot
}

// New constructs a Box by encoding an initial, zero-valued T under
// schema's own defaults, sealing each field into its own slot. aad
// authenticates the box's identity without being encrypted itself; it is
// combined with each slot's index and reused, unmodified, on every
// subsequent reseal of that slot. A schema reporting zero fields is a
// legitimate degenerate case: the returned Box simply owns no slots.
func New[T any, PT schemaPtr[T]](v *vault.Vault, aad []byte) (*Box[T, PT], error) {
	var value T
	s := PT(&value)
	if err := schema.Validate(s); err != nil {
		return nil, err
	}

	box := &Box[T, PT]{vault: v, aad: aad, slots: make([]slot, s.FieldCount())}
	for i := 0; i < s.FieldCount(); i++ {
		if err := box.encodeAndResealField(&value, i); err != nil {
			return nil, err
		}
	}
	s.Zeroize()
	return box, nil
}

// slotAAD returns the associated data bound to slot idx: the box's own
// label followed by the one-byte encoding of idx, so slot i's ciphertext
// authenticates to exactly that position and that box.
func (b *Box[T, PT]) slotAAD(idx int) []byte {
	aad := make([]byte, len(b.aad)+1)
	copy(aad, b.aad)
	aad[len(b.aad)] = byte(idx)
	return aad
}

// Open decrypts every slot, hands the live fields to fn, re-encrypts
// whatever fn left behind (whether or not fn returned an error). If the
// reseal fails, that error is returned (with fn's error, if any, named in
// its text); otherwise fn's error, if any, is returned.
func (b *Box[T, PT]) Open(fn func(*T) error) error {
	_, err := OpenMutE(b, func(v *T) (struct{}, error) {
		return struct{}{}, fn(v)
	})
	return err
}

// OpenMutE is Open's free-function sibling for callbacks that also need
// to return a value: a Box method cannot introduce the additional type
// parameter R, so this lives outside the Box[T, PT] method set. It
// brackets all N slots at once: every slot is decrypted before fn runs
// and every slot is resealed afterward, matching the whole-record access
// the derive contract describes for open/open_mut.
func OpenMutE[T any, PT schemaPtr[T], R any](box *Box[T, PT], fn func(*T) (R, error)) (R, error) {
	var zeroR R

	if !box.state.CompareAndSwap(int32(stateSealed), int32(stateDraining)) {
		if box.state.Load() == int32(stateFailed) {
			return zeroR, fmt.Errorf("%w: box is in a failed state and refuses further Opens", redoubt.ErrCodec)
		}
		panic("cipherbox: reentrant Open on a box that is already open")
	}

	value, derr := box.decodeAll()
	if derr != nil {
		box.state.Store(int32(stateFailed))
		return zeroR, derr
	}
	s := PT(&value)

	box.state.Store(int32(statePlaintext))
	result, ferr := fn(&value)

	box.state.Store(int32(stateReencoding))
	encErr := box.encodeAndResealAll(&value)
	s.Zeroize()

	// A callback error does not, on its own, invalidate the box: fn's
	// fields were re-encoded and resealed exactly as it left them, so the
	// box remains consistent and usable. Only a failure to re-encode or
	// reseal leaves the box's ciphertext out of sync with its fields,
	// which is the one condition that must be terminal.
	if encErr != nil {
		box.state.Store(int32(stateFailed))
		if ferr != nil {
			return zeroR, fmt.Errorf("%w (callback error was: %v)", encErr, ferr)
		}
		return zeroR, encErr
	}
	if ferr != nil {
		box.state.Store(int32(stateSealed))
		return zeroR, ferr
	}

	box.state.Store(int32(stateSealed))
	return result, nil
}

// OpenField decrypts only slot idx and hands fn the single field get
// selects, via OpenFieldE.
func OpenField[T any, PT schemaPtr[T], F any](box *Box[T, PT], idx int, get func(*T) *F, fn func(*F) error) error {
	_, err := OpenFieldE(box, idx, get, func(f *F) (struct{}, error) {
		return struct{}{}, fn(f)
	})
	return err
}

// OpenFieldE is OpenField's value-returning sibling. It decrypts and
// reseals only slot idx — the other N-1 slots are never touched — so a
// single-field access costs one AEAD open and one AEAD seal regardless of
// how many other fields the schema declares.
func OpenFieldE[T any, PT schemaPtr[T], F any, R any](box *Box[T, PT], idx int, get func(*T) *F, fn func(*F) (R, error)) (R, error) {
	var zeroR R

	if !box.state.CompareAndSwap(int32(stateSealed), int32(stateDraining)) {
		if box.state.Load() == int32(stateFailed) {
			return zeroR, fmt.Errorf("%w: box is in a failed state and refuses further Opens", redoubt.ErrCodec)
		}
		panic("cipherbox: reentrant Open on a box that is already open")
	}

	var value T
	s := PT(&value)
	if idx < 0 || idx >= len(box.slots) {
		box.state.Store(int32(stateSealed))
		return zeroR, fmt.Errorf("%w: field index %d out of range", redoubt.ErrCodec, idx)
	}

	if err := box.decodeField(&value, idx); err != nil {
		box.state.Store(int32(stateFailed))
		return zeroR, err
	}

	box.state.Store(int32(statePlaintext))
	result, ferr := fn(get(&value))

	box.state.Store(int32(stateReencoding))
	encErr := box.encodeAndResealField(&value, idx)
	s.ZeroizeField(idx)

	if encErr != nil {
		box.state.Store(int32(stateFailed))
		if ferr != nil {
			return zeroR, fmt.Errorf("%w (callback error was: %v)", encErr, ferr)
		}
		return zeroR, encErr
	}
	if ferr != nil {
		box.state.Store(int32(stateSealed))
		return zeroR, ferr
	}

	box.state.Store(int32(stateSealed))
	return result, nil
}

// zeroizer is satisfied by every container type's pointer receiver.
type zeroizer interface {
	Zeroize()
}

// LeakField decrypts only slot idx, reseals that slot exactly as it
// currently stands under a fresh nonce, then hands the caller an owning
// leak.Guard over an independent copy of the single field get selects —
// the escape hatch for a caller that needs a field's plaintext to
// outlive one callback. The slot's ciphertext is never left unavailable:
// it is resealed from the same value that was just decoded, never from a
// zero-initial placeholder, before the leaked copy is handed back. The
// leaked field's memory is the guard's responsibility from this call
// onward, cleared only when the caller closes the guard.
func LeakField[T any, PT schemaPtr[T], F any](box *Box[T, PT], idx int, get func(*T) *F) (*leak.Guard[F], error) {
	if !box.state.CompareAndSwap(int32(stateSealed), int32(stateDraining)) {
		if box.state.Load() == int32(stateFailed) {
			return nil, fmt.Errorf("%w: box is in a failed state and refuses further Opens", redoubt.ErrCodec)
		}
		panic("cipherbox: reentrant Open on a box that is already open")
	}

	if idx < 0 || idx >= len(box.slots) {
		box.state.Store(int32(stateSealed))
		return nil, fmt.Errorf("%w: field index %d out of range", redoubt.ErrCodec, idx)
	}

	var value T
	s := PT(&value)
	if err := box.decodeField(&value, idx); err != nil {
		box.state.Store(int32(stateFailed))
		return nil, err
	}

	box.state.Store(int32(statePlaintext))
	box.state.Store(int32(stateReencoding))

	if err := box.encodeAndResealField(&value, idx); err != nil {
		s.ZeroizeField(idx)
		box.state.Store(int32(stateFailed))
		return nil, err
	}

	leaked := *get(&value)

	guard := leak.NewGuard(&leaked, func(f *F) {
		if z, ok := any(f).(zeroizer); ok {
			z.Zeroize()
		}
	})

	box.state.Store(int32(stateSealed))
	return guard, nil
}

// decodeField unseals slot idx and drains it into value's field idx.
func (b *Box[T, PT]) decodeField(value *T, idx int) error {
	s := PT(value)
	plaintext, err := b.vault.OpenSlot(b.slots[idx].ciphertext, b.slots[idx].nonce, b.slotAAD(idx))
	if err != nil {
		return err
	}

	r := codec.NewReader(plaintext)
	if err := s.DecodeField(idx, r); err != nil {
		zero.Bytes(plaintext)
		return err
	}
	zero.Bytes(plaintext)
	return nil
}

// decodeAll unseals every slot and drains each into a fresh T, in field
// order.
func (b *Box[T, PT]) decodeAll() (T, error) {
	var value T
	s := PT(&value)
	for i := 0; i < len(b.slots); i++ {
		if err := b.decodeField(&value, i); err != nil {
			s.Zeroize()
			return value, err
		}
	}
	return value, nil
}

// encodeAndResealField writes value's field idx into a freshly sized
// scratch buffer and seals it, replacing slot idx's ciphertext and nonce.
// The other slots are untouched.
func (b *Box[T, PT]) encodeAndResealField(value *T, idx int) error {
	s := PT(value)
	buf := make([]byte, s.FieldEncodedSize(idx))
	w := codec.NewWriter(buf)
	if err := s.EncodeField(idx, w); err != nil {
		zero.Bytes(buf)
		return err
	}

	ct, nonce, err := b.vault.SealSlot(w.Bytes(), b.slotAAD(idx))
	zero.Bytes(buf)
	if err != nil {
		return err
	}
	b.slots[idx] = slot{ciphertext: ct, nonce: nonce}
	return nil
}

// encodeAndResealAll reseals every slot from value's current fields, in
// field order.
func (b *Box[T, PT]) encodeAndResealAll(value *T) error {
	for i := 0; i < len(b.slots); i++ {
		if err := b.encodeAndResealField(value, i); err != nil {
			return err
		}
	}
	return nil
}
