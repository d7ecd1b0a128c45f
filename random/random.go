// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package random is the uniform entropy source behind redoubt's master keys
// and AEGIS-128L nonces. Failures are fatal and surface as redoubt.ErrRand;
// no fallback is ever attempted.
package random

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/sixafter/redoubt"
)

// Source fills dst with uniform random bytes suitable for cryptographic
// nonces and keys.
type Source interface {
	Fill(dst []byte) error
}

// Default returns a Source backed by the host's cryptographic random
// facility (crypto/rand.Reader).
func Default() Source {
	return readerSource{r: rand.Reader}
}

// FromReader adapts any io.Reader into a Source. NewChaChaSource uses it to
// expose prng-chacha's reader as a Source.
func FromReader(r io.Reader) Source {
	return readerSource{r: r}
}

type readerSource struct {
	r io.Reader
}

// Fill implements Source.
func (s readerSource) Fill(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	if _, err := io.ReadFull(s.r, dst); err != nil {
		return fmt.Errorf("%w: %v", redoubt.ErrRand, err)
	}
	return nil
}
