// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package container

import (
	"fmt"
	"unicode/utf8"
)

// Str is a growable byte vector with the additional invariant that its
// contents are valid UTF-8 at every observation point. It never accepts a
// Go string as a donor: Go strings are immutable, so their backing bytes
// cannot be zeroized after the contents are moved in, which would violate
// every other container's drain contract. Callers append from a mutable
// []byte instead (see AppendBytes).
type Str struct {
	bytes Vec[byte]
}

// NewStr returns an empty Str.
func NewStr() *Str {
	return &Str{}
}

// Len returns the length of the string in bytes.
func (s *Str) Len() int {
	if s == nil {
		return 0
	}
	return s.bytes.Len()
}

// Bytes returns an immutable view of the string's UTF-8 bytes.
func (s *Str) Bytes() []byte {
	return s.bytes.AsSlice()
}

// String returns the string's contents. Unlike the container's Debug/Format
// path, this is the one place the plaintext bytes are deliberately exposed
// as a Go string, since that's the whole point of a Str; callers that want
// the redacted form for logging use GoString/Format instead of fmt.Stringer.
func (s *Str) String() string {
	return string(s.bytes.AsSlice())
}

// AppendBytes validates that appending donor to the string's existing
// content would remain valid UTF-8 as a whole, and if so drains donor
// (zeroizing it) into the string. On a validation failure, donor is left
// untouched and ErrCodec-flavored behavior is the caller's responsibility
// (Str itself has no knowledge of redoubt's error kinds).
func (s *Str) AppendBytes(donor []byte) error {
	if !utf8.Valid(donor) {
		return fmt.Errorf("container: Str.AppendBytes: invalid UTF-8")
	}
	// Validate the boundary: donor itself is valid UTF-8 in isolation, and
	// since s.bytes is already a complete, valid UTF-8 string, concatenation
	// of two independently valid UTF-8 byte runs is itself valid UTF-8 (no
	// multi-byte sequence can span the join point unless one half were
	// already truncated, which Valid above already rejects).
	s.bytes.Extend(donor)
	return nil
}

// Zeroize clears the string's contents in place.
func (s *Str) Zeroize() {
	if s == nil {
		return
	}
	s.bytes.Zeroize()
}

// GoString implements fmt.GoStringer, hiding the string's contents.
func (s *Str) GoString() string { return vecRedacted(s.Len()) }

// Format implements fmt.Formatter so that %v and %s never leak the
// string's contents, even though String() deliberately returns them.
func (s *Str) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(vecRedacted(s.Len())))
}
