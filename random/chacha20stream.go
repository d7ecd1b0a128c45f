// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package random

import (
	"crypto/rand"
	"fmt"
	"sync"

	"golang.org/x/crypto/chacha20"

	"github.com/sixafter/redoubt"
)

// chacha20Source is a Source backed directly by golang.org/x/crypto/chacha20:
// a ChaCha20 keystream generator, reseeded from crypto/rand before its
// 32-bit block counter would wrap. It is distinct from NewChaChaSource,
// which wraps the teacher's separate github.com/sixafter/prng-chacha
// module; this one exercises x/crypto's stream cipher directly as an
// in-tree CSPRNG with no external CSPRNG dependency.
type chacha20Source struct {
	mu       sync.Mutex
	cipher   *chacha20.Cipher
	consumed uint64
}

// rekeyThreshold bounds how many keystream bytes a single ChaCha20 key/nonce
// pair produces before Fill reseeds. chacha20's internal counter is a
// uint32 of 64-byte blocks, so one key/nonce pair can produce at most
// 2^32 * 64 = 2^38 bytes; the threshold is exactly that limit.
const rekeyThreshold = 1 << 38

// NewChaCha20StreamSource returns a Source that derives its output by
// encrypting zeros with golang.org/x/crypto/chacha20, keyed and nonced from
// crypto/rand at construction time and automatically rekeyed when the
// stream's block counter approaches exhaustion.
func NewChaCha20StreamSource() (Source, error) {
	s := &chacha20Source{}
	if err := s.reseed(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *chacha20Source) reseed() error {
	var key [chacha20.KeySize]byte
	var nonce [chacha20.NonceSize]byte
	if _, err := rand.Read(key[:]); err != nil {
		return fmt.Errorf("%w: %v", redoubt.ErrRand, err)
	}
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("%w: %v", redoubt.ErrRand, err)
	}
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce[:])
	if err != nil {
		return fmt.Errorf("%w: %v", redoubt.ErrRand, err)
	}
	s.cipher = c
	s.consumed = 0
	return nil
}

// Fill implements Source.
func (s *chacha20Source) Fill(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumed+uint64(len(dst)) > rekeyThreshold {
		if err := s.reseed(); err != nil {
			return err
		}
	}

	for i := range dst {
		dst[i] = 0
	}
	s.cipher.XORKeyStream(dst, dst)
	s.consumed += uint64(len(dst))
	return nil
}
