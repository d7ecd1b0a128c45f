// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package random

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChaCha20StreamSource_FillProducesNonZeroOutput(t *testing.T) {
	is := assert.New(t)

	s, err := NewChaCha20StreamSource()
	require.NoError(t, err)

	buf := make([]byte, 64)
	require.NoError(t, s.Fill(buf))
	is.False(bytes.Equal(buf, make([]byte, 64)))
}

func TestNewChaCha20StreamSource_ConsecutiveFillsDiffer(t *testing.T) {
	is := assert.New(t)

	s, err := NewChaCha20StreamSource()
	require.NoError(t, err)

	a := make([]byte, 32)
	b := make([]byte, 32)
	require.NoError(t, s.Fill(a))
	require.NoError(t, s.Fill(b))
	is.False(bytes.Equal(a, b))
}

func TestNewChaCha20StreamSource_EmptyFillIsNoop(t *testing.T) {
	s, err := NewChaCha20StreamSource()
	require.NoError(t, err)
	require.NoError(t, s.Fill(nil))
}
