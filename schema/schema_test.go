// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixafter/redoubt/codec"
)

type stubSchema struct {
	count int
	sizes []int
	names []string
}

func (s stubSchema) FieldCount() int                            { return s.count }
func (s stubSchema) FieldSize(idx int) int                      { return s.sizes[idx] }
func (s stubSchema) FieldName(idx int) string                   { return s.names[idx] }
func (s stubSchema) EncodeField(idx int, w *codec.Writer) error { return nil }
func (s stubSchema) DecodeField(idx int, r *codec.Reader) error { return nil }
func (s stubSchema) EncodedSize() int                           { return WireSize(s) }
func (s stubSchema) FieldEncodedSize(idx int) int                { return s.sizes[idx] }
func (s stubSchema) ZeroizeField(idx int)                       {}
func (s stubSchema) Zeroize()                                   {}

func TestValidate_AcceptsEmptySchema(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.NoError(Validate(stubSchema{count: 0}))
}

func TestValidate_RejectsNegativeFieldCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Error(Validate(stubSchema{count: -1}))
}

func TestValidate_RejectsUnnamedField(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := stubSchema{count: 1, sizes: []int{4}, names: []string{""}}
	is.Error(Validate(s))
}

func TestValidate_RejectsZeroSizeField(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := stubSchema{count: 1, sizes: []int{0}, names: []string{"x"}}
	is.Error(Validate(s))
}

func TestValidate_AcceptsVariableLengthField(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := stubSchema{count: 1, sizes: []int{-1}, names: []string{"username"}}
	is.NoError(Validate(s))
}

func TestValidate_AcceptsWellFormedSchema(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := stubSchema{
		count: 3,
		sizes: []int{4, -1, 16},
		names: []string{"id", "username", "token"},
	}
	is.NoError(Validate(s))
}

func TestWireSize_SumsOnlyFixedFields(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := stubSchema{
		count: 3,
		sizes: []int{4, -1, 16},
		names: []string{"id", "username", "token"},
	}
	is.Equal(20, WireSize(s))
}
