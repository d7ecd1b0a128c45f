// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package leak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_ValueAccessibleUntilClose(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := []byte("secret")
	g := NewGuard(&v, func(b *[]byte) {
		for i := range *b {
			(*b)[i] = 0
		}
	})

	is.Equal(&v, g.Value())
	is.Equal("secret", string(*g.Value()))

	g.Close()
	is.Nil(g.Value())
	is.Equal([]byte{0, 0, 0, 0, 0, 0}, v)
}

func TestGuard_CloseIsIdempotent(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	calls := 0
	v := 7
	g := NewGuard(&v, func(n *int) {
		calls++
		*n = 0
	})

	g.Close()
	g.Close()

	is.Equal(1, calls)
	is.Equal(0, v)
}

func TestGuard_NilZeroFuncIsSafe(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := 1
	g := NewGuard(&v, nil)
	is.NotPanics(func() { g.Close() })
}
