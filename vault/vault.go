// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package vault holds redoubt's single AEGIS-128L master key and performs
// every slot seal/open through it. The key lives in a guarded, mlocked
// page that is mprotect'd to PROT_NONE except for the brief window a
// Seal/Open call actually needs it, guarded by a single mutex so no two
// operations can overlap the unprotected window.
package vault

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/aegis128l"
	"github.com/sixafter/redoubt/galloc"
	"github.com/sixafter/redoubt/random"
)

// Vault owns a single master key and brokers every encryption/decryption
// against it.
type Vault struct {
	mu     sync.Mutex
	key    *key
	src    random.Source
	obs    redoubt.Observer
	closed bool
}

// New constructs a Vault with a freshly generated master key. By default
// the key and per-slot nonces come from random.Default(); use WithSource
// to plug in random/ctrdrbg or another Source.
func New(opts ...Option) (*Vault, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	k, err := newKey(cfg.source)
	if err != nil {
		return nil, err
	}

	galloc.LockRegion(k.page, cfg.observer)
	if err := galloc.ProtectNone(k.page); err != nil {
		cfg.observer.Notice("vault: protect none failed", "error", err)
	}

	v := &Vault{key: k, src: cfg.source, obs: cfg.observer}
	runtime.SetFinalizer(v, func(v *Vault) { _ = v.Close() })
	return v, nil
}

// SealSlot encrypts plaintext under a freshly generated nonce and the
// vault's master key, authenticating aad alongside it. It returns the
// ciphertext (including the AEGIS-128L tag) and the nonce used, which the
// caller must store alongside the ciphertext for OpenSlot.
func (v *Vault) SealSlot(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, nil, fmt.Errorf("%w: vault is closed", redoubt.ErrAuthFail)
	}

	// Per the nonce policy, a fresh nonce is 12 bytes of entropy padded to
	// AEGIS-128L's 16-byte NonceSize with the high 4 bytes left zero,
	// rather than filling the full 16 bytes from the source.
	nonce = make([]byte, aegis128l.NonceSize)
	if err := v.src.Fill(nonce[:12]); err != nil {
		return nil, nil, err
	}

	if err := v.unprotect(); err != nil {
		return nil, nil, err
	}
	defer v.protect()

	aead, err := aegis128l.New(v.key.bytes())
	if err != nil {
		return nil, nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nonce, nil
}

// OpenSlot decrypts and verifies ciphertext produced by SealSlot, under
// the same nonce and aad.
func (v *Vault) OpenSlot(ciphertext, nonce, aad []byte) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, fmt.Errorf("%w: vault is closed", redoubt.ErrAuthFail)
	}

	if err := v.unprotect(); err != nil {
		return nil, err
	}
	defer v.protect()

	aead, err := aegis128l.New(v.key.bytes())
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, aad)
}

// unprotect makes the key page readable/writable for the duration of one
// operation. Failure is non-fatal — platforms without mprotect support
// (protect_other.go) always succeed here, trading the page-protection
// guarantee for continued operation.
func (v *Vault) unprotect() error {
	if err := galloc.ProtectReadWrite(v.key.page); err != nil {
		v.obs.Notice("vault: unprotect failed", "error", err)
	}
	return nil
}

// protect returns the key page to PROT_NONE after an operation completes.
func (v *Vault) protect() {
	if err := galloc.ProtectNone(v.key.page); err != nil {
		v.obs.Notice("vault: protect failed", "error", err)
	}
}

// Close zeroizes and releases the master key. It is idempotent and safe
// to call more than once. A runtime.SetFinalizer registered in New calls
// Close as a belt-and-suspenders backstop if the caller forgets to.
func (v *Vault) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true

	if err := galloc.ProtectReadWrite(v.key.page); err != nil {
		v.obs.Notice("vault: unprotect before close failed", "error", err)
	}
	v.key.zeroize()
	galloc.UnlockRegion(v.key.page, v.obs)
	if err := galloc.FreePage(v.key.page); err != nil {
		v.obs.Notice("vault: free page failed", "error", err)
	}

	runtime.SetFinalizer(v, nil)
	return nil
}
