// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package ctrdrbg

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/random"
)

// NewSource constructs a pooled AES-CTR-DRBG random.Source. Each shard is
// seeded independently from crypto/rand at construction time; if any
// shard fails to initialize after MaxInitRetries attempts, NewSource
// returns an error wrapping redoubt.ErrRand rather than leaving a caller
// to discover it on first Fill.
func NewSource(opts ...Option) (random.Source, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.KeySize {
	case KeySize128, KeySize192, KeySize256:
	default:
		return nil, fmt.Errorf("%w: ctrdrbg key size must be 16, 24, or 32 bytes, got %d", redoubt.ErrRand, cfg.KeySize)
	}
	if cfg.Shards <= 0 {
		cfg.Shards = 1
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		shardCfg := cfg
		pools[i] = &sync.Pool{
			New: func() interface{} {
				var (
					d   *drbg
					err error
				)
				for r := 0; r < shardCfg.MaxInitRetries; r++ {
					if d, err = newDRBG(&shardCfg); err == nil {
						return d
					}
				}
				panic(fmt.Sprintf("ctrdrbg: shard init failed after %d retries: %v", shardCfg.MaxInitRetries, err))
			},
		}

		var panicErr error
		func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = fmt.Errorf("%w: %v", redoubt.ErrRand, r)
				}
			}()
			item := pools[i].Get()
			pools[i].Put(item)
		}()
		if panicErr != nil {
			return nil, panicErr
		}
	}

	return redoubtSource{pools: pools}, nil
}

// redoubtSource is a random.Source backed by a sharded pool of AES-CTR-DRBG
// instances, used where a single mutex-protected counter would serialize
// concurrent master-key and nonce generation.
type redoubtSource struct {
	pools []*sync.Pool
}

// Fill implements random.Source.
func (s redoubtSource) Fill(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	n := len(s.pools)
	shard := 0
	if n > 1 {
		shard = mrand.IntN(n)
	}

	d := s.pools[shard].Get().(*drbg)
	defer s.pools[shard].Put(d)

	d.fill(dst)

	if d.config.EnableKeyRotation {
		atomic.AddUint64(&d.usage, uint64(len(dst)))
		if atomic.LoadUint64(&d.usage) >= d.config.MaxBytesPerKey {
			if atomic.CompareAndSwapUint32(&d.rekeying, 0, 1) {
				// Synchronous, in-line rekey: no background goroutine, per
				// the library-wide no-background-work rule. The caller
				// whose Fill crosses MaxBytesPerKey pays the reseed cost
				// directly; every other caller keeps using the prior key
				// until their own Fill call crosses the threshold.
				d.rekey()
				atomic.StoreUint32(&d.rekeying, 0)
			}
		}
	}
	return nil
}

// state is the immutable cryptographic state of a drbg, swapped atomically on rekey.
type state struct {
	block cipher.Block
	key   [32]byte
	v     [16]byte
}

// drbg is a single AES-CTR-DRBG instance. It is pool-managed: the public
// surface is redoubtSource, never drbg itself.
type drbg struct {
	config   *Config
	state    atomic.Pointer[state]
	vMu      sync.Mutex
	v        [16]byte
	usage    uint64
	rekeying uint32
}

func newDRBG(cfg *Config) (*drbg, error) {
	seedLen := cfg.KeySize + 16
	seed := make([]byte, seedLen)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, err
	}
	if cfg.Personalization != nil {
		for i := range cfg.Personalization {
			seed[i%len(seed)] ^= cfg.Personalization[i]
		}
	}

	var key [32]byte
	copy(key[:], seed[:cfg.KeySize])
	var v [16]byte
	copy(v[:], seed[cfg.KeySize:])

	block, err := aes.NewCipher(key[:cfg.KeySize])
	if err != nil {
		return nil, err
	}

	d := &drbg{config: cfg}
	d.state.Store(&state{block: block, key: key, v: v})
	copy(d.v[:], v[:])
	return d, nil
}

// fill writes len(b) bytes of AES-CTR keystream into b, advancing the
// instance's persistent counter under vMu so consecutive Fill calls never
// repeat a counter value.
func (d *drbg) fill(b []byte) {
	n := len(b)
	if n == 0 {
		return
	}

	st := d.state.Load()

	d.vMu.Lock()
	var v [16]byte
	copy(v[:], d.v[:])

	offset := 0
	for ; offset+16 <= n; offset += 16 {
		incV(&v)
		st.block.Encrypt(b[offset:offset+16], v[:])
	}
	if tail := n - offset; tail > 0 {
		var tmp [16]byte
		incV(&v)
		st.block.Encrypt(tmp[:], v[:])
		copy(b[offset:], tmp[:tail])
	}

	copy(d.v[:], v[:])
	d.vMu.Unlock()
}

// rekey reseeds and installs a fresh key/counter synchronously, on the
// calling goroutine, retrying with backoff up to MaxRekeyAttempts times and
// leaving the prior state in place if every attempt fails; a failed rekey
// degrades forward secrecy, it never blocks output on a future Fill.
func (d *drbg) rekey() {
	base := d.config.RekeyBackoff
	maxBackoff := d.config.MaxRekeyBackoff
	if maxBackoff == 0 {
		maxBackoff = defaultMaxBackoff
	}

	for i := 0; i < d.config.MaxRekeyAttempts; i++ {
		seedLen := d.config.KeySize + 16
		seed := make([]byte, seedLen)
		if _, err := io.ReadFull(rand.Reader, seed); err == nil {
			if d.config.Personalization != nil {
				for j := range d.config.Personalization {
					seed[j%len(seed)] ^= d.config.Personalization[j]
				}
			}

			var key [32]byte
			copy(key[:], seed[:d.config.KeySize])
			var v [16]byte
			copy(v[:], seed[d.config.KeySize:])

			if block, err := aes.NewCipher(key[:d.config.KeySize]); err == nil {
				d.state.Store(&state{block: block, key: key, v: v})
				atomic.StoreUint64(&d.usage, 0)

				d.vMu.Lock()
				copy(d.v[:], v[:])
				d.vMu.Unlock()
				return
			}
		}

		time.Sleep(base)
		base *= 2
		if base > maxBackoff {
			base = maxBackoff
		}
	}
}

// incV increments the 128-bit big-endian counter V, wrapping on overflow.
// Not concurrency safe; callers hold vMu.
func incV(v *[16]byte) {
	for i := 15; i >= 0; i-- {
		v[i]++
		if v[i] != 0 {
			break
		}
	}
}
