// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package aegis128l

import (
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/sixafter/redoubt"
)

const (
	// KeySize is the AEGIS-128L key length in bytes.
	KeySize = 16
	// NonceSize is the AEGIS-128L nonce length in bytes.
	NonceSize = 16
	// TagSize is the AEGIS-128L authentication tag length in bytes.
	TagSize = 16

	blockSize = 32 // two 16-byte state words absorbed/emitted per Update
)

// c0 and c1 are the AEGIS domain constants, XOR-ed into the initial state.
var (
	c0 = [16]byte{0x00, 0x01, 0x01, 0x02, 0x03, 0x05, 0x08, 0x0d, 0x15, 0x22, 0x37, 0x59, 0x90, 0xe9, 0x79, 0x62}
	c1 = [16]byte{0xdb, 0x3d, 0x18, 0x55, 0x6d, 0xc2, 0x2f, 0xf1, 0x20, 0x11, 0x31, 0x42, 0x73, 0xb5, 0x28, 0xdd}
)

// state is the 1024-bit AEGIS-128L state: eight 128-bit words.
type state [8][16]byte

func xor16(a, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func and16(a, b [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = a[i] & b[i]
	}
	return out
}

// update advances the state by one AEGIS round, absorbing message words m0
// and m1.
func (s *state) update(m0, m1 [16]byte) {
	s0 := aesRound(s[7], xor16(s[0], m0))
	s1 := aesRound(s[0], s[1])
	s2 := aesRound(s[1], s[2])
	s3 := aesRound(s[2], s[3])
	s4 := aesRound(s[3], xor16(s[4], m1))
	s5 := aesRound(s[4], s[5])
	s6 := aesRound(s[5], s[6])
	s7 := aesRound(s[6], s[7])
	s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7] = s0, s1, s2, s3, s4, s5, s6, s7
}

// initState initializes the AEGIS-128L state from a key and nonce and runs
// the 10 warm-up rounds.
func initState(key, nonce [16]byte) *state {
	s := &state{}
	s[0] = xor16(key, nonce)
	s[1] = c1
	s[2] = c0
	s[3] = c1
	s[4] = xor16(key, nonce)
	s[5] = xor16(key, c0)
	s[6] = xor16(key, c1)
	s[7] = xor16(key, c0)

	for i := 0; i < 10; i++ {
		s.update(nonce, key)
	}
	return s
}

// z computes the keystream word pair for the current state, used by both
// encryption and decryption before the state is advanced.
func (s *state) z() (z0, z1 [16]byte) {
	z0 = xor16(xor16(s[6], s[1]), and16(s[2], s[3]))
	z1 = xor16(xor16(s[2], s[5]), and16(s[6], s[7]))
	return z0, z1
}

// absorb mixes one 32-byte block of associated data into the state.
func (s *state) absorb(block [32]byte) {
	var t0, t1 [16]byte
	copy(t0[:], block[:16])
	copy(t1[:], block[16:])
	s.update(t0, t1)
}

// encryptBlock produces one 32-byte ciphertext block from plaintext and
// advances the state.
func (s *state) encryptBlock(p [32]byte) (c [32]byte) {
	var p0, p1 [16]byte
	copy(p0[:], p[:16])
	copy(p1[:], p[16:])

	z0, z1 := s.z()
	c0 := xor16(p0, z0)
	c1 := xor16(p1, z1)
	copy(c[:16], c0[:])
	copy(c[16:], c1[:])

	s.update(p0, p1)
	return c
}

// decryptBlock recovers one 32-byte plaintext block from ciphertext and
// advances the state. validLen is the number of genuine ciphertext bytes in
// c (32 for every block but the last, fewer for a trailing partial block).
// Per AEGIS-128L, the last block's state update must use
// Pad(Truncate(xn, validLen)) rather than the raw recovered bytes: beyond
// validLen, c is zero-padding, not real ciphertext, so the recovered
// "plaintext" there is just keystream (0 ^ z) and must be zeroed before it
// feeds the state update — otherwise the update sees different words than
// Seal's genuine zero padding did, and decrypt's state trajectory diverges
// from encrypt's for any message whose length isn't a multiple of 32.
func (s *state) decryptBlock(c [32]byte, validLen int) (p [32]byte) {
	var c0, c1 [16]byte
	copy(c0[:], c[:16])
	copy(c1[:], c[16:])

	z0, z1 := s.z()
	p0 := xor16(c0, z0)
	p1 := xor16(c1, z1)
	copy(p[:16], p0[:])
	copy(p[16:], p1[:])

	u0, u1 := p0, p1
	if validLen < blockSize {
		var padded [32]byte
		copy(padded[:], p[:])
		for i := validLen; i < blockSize; i++ {
			padded[i] = 0
		}
		copy(u0[:], padded[:16])
		copy(u1[:], padded[16:])
	}

	s.update(u0, u1)
	return p
}

// finalize runs the 7 finalization rounds and returns the 128-bit tag.
func (s *state) finalize(adLenBits, msgLenBits uint64) [16]byte {
	var lenBlock [16]byte
	binary.LittleEndian.PutUint64(lenBlock[:8], adLenBits)
	binary.LittleEndian.PutUint64(lenBlock[8:], msgLenBits)

	t := xor16(s[2], lenBlock)
	for i := 0; i < 7; i++ {
		s.update(t, t)
	}

	tag := xor16(s[0], s[1])
	tag = xor16(tag, s[2])
	tag = xor16(tag, s[3])
	tag = xor16(tag, s[4])
	tag = xor16(tag, s[5])
	tag = xor16(tag, s[6])
	return tag
}

// padTo32 returns in padded with trailing zeros to a multiple of 32 bytes,
// copying rather than mutating the caller's slice.
func padTo32(in []byte) []byte {
	rem := len(in) % blockSize
	if rem == 0 {
		return in
	}
	out := make([]byte, len(in)+(blockSize-rem))
	copy(out, in)
	return out
}

type aead struct {
	key [16]byte
}

// New constructs a cipher.AEAD backed by AEGIS-128L for the given 16-byte
// key.
func New(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: aegis128l key must be %d bytes, got %d", redoubt.ErrAuthFail, KeySize, len(key))
	}
	a := &aead{}
	copy(a.key[:], key)
	return a, nil
}

func (a *aead) NonceSize() int { return NonceSize }
func (a *aead) Overhead() int  { return TagSize }

// Seal encrypts and authenticates plaintext, appending the result to dst.
// nonce must be NonceSize bytes; additionalData is authenticated but not
// encrypted.
func (a *aead) Seal(dst, nonce, plaintext, additionalData []byte) []byte {
	if len(nonce) != NonceSize {
		panic("aegis128l: bad nonce length")
	}
	var nb [16]byte
	copy(nb[:], nonce)

	s := initState(a.key, nb)

	padded := padTo32(additionalData)
	for i := 0; i < len(padded); i += blockSize {
		var block [32]byte
		copy(block[:], padded[i:i+blockSize])
		s.absorb(block)
	}

	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	ciphertext := out[:len(plaintext)]

	paddedPt := padTo32(plaintext)
	for i := 0; i < len(paddedPt); i += blockSize {
		var block [32]byte
		copy(block[:], paddedPt[i:i+blockSize])
		c := s.encryptBlock(block)
		n := copy(ciphertext[i:], c[:])
		_ = n
	}

	tag := s.finalize(uint64(len(additionalData))*8, uint64(len(plaintext))*8)
	copy(out[len(plaintext):], tag[:])

	return ret
}

// Open decrypts and verifies ciphertext (which must include the trailing
// tag), appending the recovered plaintext to dst. It returns
// redoubt.ErrAuthFail, wrapped, if authentication fails; no partial
// plaintext is returned on failure.
func (a *aead) Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: bad nonce length", redoubt.ErrAuthFail)
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", redoubt.ErrAuthFail)
	}
	var nb [16]byte
	copy(nb[:], nonce)

	ct := ciphertext[:len(ciphertext)-TagSize]
	wantTag := ciphertext[len(ciphertext)-TagSize:]

	s := initState(a.key, nb)

	padded := padTo32(additionalData)
	for i := 0; i < len(padded); i += blockSize {
		var block [32]byte
		copy(block[:], padded[i:i+blockSize])
		s.absorb(block)
	}

	ret, out := sliceForAppend(dst, len(ct))
	paddedCt := padTo32(ct)
	plain := make([]byte, len(paddedCt))
	for i := 0; i < len(paddedCt); i += blockSize {
		var block [32]byte
		copy(block[:], paddedCt[i:i+blockSize])
		validLen := blockSize
		if rem := len(ct) - i; rem < blockSize {
			validLen = rem
		}
		p := s.decryptBlock(block, validLen)
		copy(plain[i:], p[:])
	}

	tag := s.finalize(uint64(len(additionalData))*8, uint64(len(ct))*8)
	if subtle.ConstantTimeCompare(tag[:], wantTag) != 1 {
		for i := range plain {
			plain[i] = 0
		}
		return nil, fmt.Errorf("%w: tag mismatch", redoubt.ErrAuthFail)
	}

	copy(out, plain[:len(ct)])
	return ret, nil
}

// sliceForAppend mirrors the helper used throughout golang.org/x/crypto's
// AEAD implementations: it extends dst by n bytes, reusing spare capacity
// when available, and returns both the full result and the newly
// appended region.
func sliceForAppend(dst []byte, n int) (head, tail []byte) {
	total := len(dst) + n
	if cap(dst) >= total {
		head = dst[:total]
	} else {
		head = make([]byte, total)
		copy(head, dst)
	}
	tail = head[len(dst):]
	return head, tail
}
