// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cipherbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixafter/redoubt/cipherbox"
	"github.com/sixafter/redoubt/examples/credentials"
	"github.com/sixafter/redoubt/vault"
)

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestOpen_SetAndReadFieldsRoundTrip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:alice"))
	require.NoError(t, err)

	err = box.Open(func(c *credentials.Credentials) error {
		userID := uint32(42)
		c.SetUserID(&userID)
		require.NoError(t, c.SetUsername([]byte("alice")))
		c.SetAPIKey(make([]byte, 32))
		return nil
	})
	require.NoError(t, err)

	err = box.Open(func(c *credentials.Credentials) error {
		is.Equal(uint32(42), c.UserID())
		is.Equal("alice", c.Username().String())
		return nil
	})
	require.NoError(t, err)
}

func TestOpenField_ThenLeak(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:bob"))
	require.NoError(t, err)

	require.NoError(t, box.Open(func(c *credentials.Credentials) error {
		return c.SetUsername([]byte("bob"))
	}))

	err = cipherbox.OpenField(box, 1,
		func(c *credentials.Credentials) *credentials.Credentials { return c },
		func(c *credentials.Credentials) error {
			is.Equal("bob", c.Username().String())
			return nil
		},
	)
	require.NoError(t, err)

	guard, err := cipherbox.LeakField(box, 1, func(c *credentials.Credentials) *credentials.Credentials { return c })
	require.NoError(t, err)
	defer guard.Close()

	is.Equal("bob", guard.Value().Username().String())

	// After closing, the guard's field must no longer be readable.
	guard.Close()
	is.Nil(guard.Value())
}

func TestReseal_RepeatedOpensKeepLatestValue(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:carol"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, box.Open(func(c *credentials.Credentials) error {
			userID := uint32(i)
			c.SetUserID(&userID)
			return nil
		}))
	}
	require.NoError(t, box.Open(func(c *credentials.Credentials) error {
		is.Equal(uint32(2), c.UserID())
		return nil
	}))
}

func TestLeakOperateCommit(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:dave"))
	require.NoError(t, err)

	require.NoError(t, box.Open(func(c *credentials.Credentials) error {
		c.SetAPIKey([]byte("01234567890123456789012345678901"[:32]))
		return nil
	}))

	guard, err := cipherbox.LeakField(box, 2, func(c *credentials.Credentials) *credentials.Credentials { return c })
	require.NoError(t, err)

	leakedKey := append([]byte(nil), guard.Value().APIKey().Slice()...)
	is.Len(leakedKey, 32)
	guard.Close()

	require.NoError(t, box.Open(func(c *credentials.Credentials) error {
		is.Equal(leakedKey, c.APIKey().Slice())
		return nil
	}))
}

func TestOpen_CallbackErrorStillReseals(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:erin"))
	require.NoError(t, err)

	boom := assert.AnError
	err = box.Open(func(c *credentials.Credentials) error {
		userID := uint32(99)
		c.SetUserID(&userID)
		return boom
	})
	is.ErrorIs(err, boom)

	require.NoError(t, box.Open(func(c *credentials.Credentials) error {
		is.Equal(uint32(99), c.UserID())
		return nil
	}))
}

func TestOpen_ReentrantCallPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := newTestVault(t)
	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:frank"))
	require.NoError(t, err)

	is.Panics(func() {
		_ = box.Open(func(c *credentials.Credentials) error {
			return box.Open(func(*credentials.Credentials) error { return nil })
		})
	})
}

func TestOpen_FailedBoxRejectsFurtherOpensWithoutPanicking(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v, err := vault.New()
	require.NoError(t, err)

	box, err := cipherbox.New[credentials.Credentials](v, []byte("creds:grace"))
	require.NoError(t, err)

	// Close the vault out from under the box mid-operation: the reseal at
	// the end of Open can no longer succeed, which is the one condition
	// that must leave the box permanently unusable.
	err = box.Open(func(c *credentials.Credentials) error {
		require.NoError(t, v.Close())
		return nil
	})
	require.Error(t, err)

	err = box.Open(func(*credentials.Credentials) error { return nil })
	is.Error(err)
	is.NotPanics(func() {
		_ = box.Open(func(*credentials.Credentials) error { return nil })
	})
}
