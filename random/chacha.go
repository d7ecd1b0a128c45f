// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package random

import (
	prngchacha "github.com/sixafter/prng-chacha"
)

// NewChaChaSource returns a Source backed by github.com/sixafter/prng-chacha,
// the teacher's ChaCha20-based companion CSPRNG module. No local source for
// that module was present in the retrieved example pack (see DESIGN.md), so
// this is a thin adapter onto the real published package rather than an
// in-tree reimplementation of it — it is exercised the same way Default and
// ctrdrbg.NewSource are, as an interchangeable random.Source.
func NewChaChaSource() (Source, error) {
	r, err := prngchacha.NewReader()
	if err != nil {
		return nil, err
	}
	return FromReader(r), nil
}
