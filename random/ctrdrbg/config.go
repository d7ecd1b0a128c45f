// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package ctrdrbg is redoubt's pooled AES-CTR-DRBG random.Source, the
// high-concurrency alternative to crypto/rand for master-key material and
// AEGIS-128L nonces. It follows the NIST SP 800-90A AES-CTR-DRBG
// construction: an AES block cipher run in counter mode, reseeded from
// crypto/rand on construction and on a forward-secrecy schedule thereafter.
package ctrdrbg

import "time"

// Key sizes accepted by Config.KeySize.
const (
	KeySize128 = 16
	KeySize192 = 24
	KeySize256 = 32
)

// Config tunes a DRBG pool's key size, rekey policy, and shard count.
//
// Shards controls how many independent DRBG instances back a single
// Source, so that concurrent callers generating nonces for distinct
// CipherBox operations don't serialize on one mutex-protected counter.
type Config struct {
	// Personalization is XOR-ed into each instance's initial seed for
	// domain separation between independently constructed Sources.
	Personalization []byte

	// RekeyBackoff is the initial delay before retrying a failed rekey.
	RekeyBackoff time.Duration

	// MaxRekeyBackoff caps the exponential backoff between rekey retries.
	MaxRekeyBackoff time.Duration

	// MaxBytesPerKey is the output budget per key before automatic
	// rekeying, enforcing forward secrecy on the nonce/key stream.
	MaxBytesPerKey uint64

	// KeySize is the AES key length in bytes: 16, 24, or 32.
	KeySize int

	// MaxRekeyAttempts bounds how many reseed attempts rekey makes
	// before giving up and continuing on the prior key.
	MaxRekeyAttempts int

	// MaxInitRetries bounds how many times pool construction retries a
	// failed shard initialization before panicking.
	MaxInitRetries int

	// Shards is the number of independent DRBG instances in the pool.
	Shards int

	// EnableKeyRotation turns on the MaxBytesPerKey rekey schedule.
	EnableKeyRotation bool
}

const (
	defaultKeySize      = KeySize256
	defaultMaxBytes      = 1 << 30
	defaultInitRetries   = 3
	defaultRekeyRetries  = 5
	defaultMaxBackoff    = 2 * time.Second
	defaultRekeyBackoff  = 100 * time.Millisecond
	defaultShards        = 4
)

// DefaultConfig returns production-safe defaults: AES-256, 1 GiB per key,
// 4 shards, key rotation enabled.
func DefaultConfig() Config {
	return Config{
		KeySize:           defaultKeySize,
		MaxBytesPerKey:    defaultMaxBytes,
		MaxInitRetries:    defaultInitRetries,
		MaxRekeyAttempts:  defaultRekeyRetries,
		MaxRekeyBackoff:   defaultMaxBackoff,
		RekeyBackoff:      defaultRekeyBackoff,
		EnableKeyRotation: true,
		Shards:            defaultShards,
	}
}

// Option customizes a Config passed to NewSource.
type Option func(*Config)

// WithKeySize sets the AES key length: 16, 24, or 32 bytes.
func WithKeySize(n int) Option { return func(cfg *Config) { cfg.KeySize = n } }

// WithMaxBytesPerKey sets the output budget per key before rekeying.
func WithMaxBytesPerKey(n uint64) Option { return func(cfg *Config) { cfg.MaxBytesPerKey = n } }

// WithMaxInitRetries sets how many times pool initialization retries before panicking.
func WithMaxInitRetries(n int) Option { return func(cfg *Config) { cfg.MaxInitRetries = n } }

// WithMaxRekeyAttempts sets how many rekey attempts are made before giving up.
func WithMaxRekeyAttempts(n int) Option { return func(cfg *Config) { cfg.MaxRekeyAttempts = n } }

// WithMaxRekeyBackoff caps the exponential backoff between rekey attempts.
func WithMaxRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaxRekeyBackoff = d }
}

// WithRekeyBackoff sets the initial backoff before the first rekey retry.
func WithRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.RekeyBackoff = d }
}

// WithEnableKeyRotation enables or disables the MaxBytesPerKey rekey schedule.
func WithEnableKeyRotation(enable bool) Option {
	return func(cfg *Config) { cfg.EnableKeyRotation = enable }
}

// WithPersonalization sets a per-instance domain-separation string, XOR-ed
// into the initial seed.
func WithPersonalization(p []byte) Option {
	return func(cfg *Config) { cfg.Personalization = p }
}

// WithShards sets the number of independent DRBG instances in the pool.
func WithShards(n int) Option { return func(cfg *Config) { cfg.Shards = n } }
