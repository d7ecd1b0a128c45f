// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package container

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArray_ReplaceFrom_SwapsAndZeroizesDonor(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := NewArray(4)
	donor := []byte{0xAA, 0xBB, 0xCC, 0xDD}

	a.ReplaceFrom(donor)

	is.Equal([]byte{0xAA, 0xBB, 0xCC, 0xDD}, a.Slice())
	is.Equal([]byte{0, 0, 0, 0}, donor)
}

func TestArray_ReplaceFrom_LengthMismatchPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := NewArray(4)
	is.Panics(func() { a.ReplaceFrom([]byte{1, 2, 3}) })
}

func TestArray_Zeroize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := NewArray(4)
	a.ReplaceFrom([]byte{1, 2, 3, 4})
	a.Zeroize()

	for _, b := range a.Slice() {
		is.Equal(byte(0), b)
	}
}

func TestArray_String_IsRedacted(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	a := NewArray(4)
	a.ReplaceFrom([]byte{1, 2, 3, 4})
	is.Equal("REDACTED", a.String())
}

func TestVec_PushGrowsAndDrainsDonor(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVec[byte]()
	for i := byte(0); i < 10; i++ {
		donor := i
		v.Push(&donor)
		is.Equal(byte(0), donor)
	}

	is.Equal(10, v.Len())
	is.Equal([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, v.AsSlice())
}

func TestVec_ExtendDrainsDonor(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVec[byte]()
	donor := []byte{1, 2, 3}
	v.Extend(donor)

	is.Equal([]byte{1, 2, 3}, v.AsSlice())
	is.Equal([]byte{0, 0, 0}, donor)
}

func TestVec_TruncateZeroizesTail(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVec[byte]()
	v.Extend([]byte{1, 2, 3, 4, 5})
	tail := v.AsMutSlice()[3:5]

	v.Truncate(3)

	is.Equal(3, v.Len())
	is.Equal([]byte{0, 0}, tail)
}

func TestVec_ClearZeroizesEverything(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVec[byte]()
	v.Extend([]byte{1, 2, 3})
	live := v.AsMutSlice()

	v.Clear()

	is.Equal(0, v.Len())
	is.Equal([]byte{0, 0, 0}, live)
}

func TestVec_GrowthZeroizesAbandonedRegion(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVecWithCapacity[byte](2)
	v.Extend([]byte{1, 2})
	abandoned := v.AsMutSlice()

	v.Extend([]byte{3}) // forces reallocation

	is.Equal([]byte{0, 0}, abandoned)
	is.Equal([]byte{1, 2, 3}, v.AsSlice())
}

func TestVec_GoString_NeverLeaksContents(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	v := NewVec[byte]()
	v.Extend([]byte{1, 2, 3})

	is.NotContains(v.GoString(), "1")
	is.Contains(v.GoString(), "3") // length is reported
}

func TestStr_AppendBytes_ValidatesUTF8(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := NewStr()
	is.NoError(s.AppendBytes([]byte("hello ")))
	is.NoError(s.AppendBytes([]byte("world")))
	is.Equal("hello world", s.String())
}

func TestStr_AppendBytes_RejectsInvalidUTF8(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := NewStr()
	err := s.AppendBytes([]byte{0xff, 0xfe})
	is.Error(err)
	is.Equal(0, s.Len())
}

func TestStr_AppendBytes_DrainsDonor(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := NewStr()
	donor := []byte("secret")
	is.NoError(s.AppendBytes(donor))

	for _, b := range donor {
		is.Equal(byte(0), b)
	}
}

func TestStr_Format_IsRedacted(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := NewStr()
	is.NoError(s.AppendBytes([]byte("password")))

	is.NotContains(fmt.Sprintf("%v", s), "password")
	is.NotContains(fmt.Sprintf("%s", s), "password")
}

func TestSecret_ReplaceFrom_SwapsAndZeroizesDonor(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	donor := uint32(0xDEADBEEF)
	s := NewSecretFrom(&donor)

	is.Equal(uint32(0xDEADBEEF), s.Borrow())
	is.Equal(uint32(0), donor)
}

func TestSecret_BorrowMut_MutatesInPlace(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	donor := uint32(1)
	s := NewSecretFrom(&donor)
	*s.BorrowMut() = 42

	is.Equal(uint32(42), s.Borrow())
}

func TestSecret_Zeroize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	donor := uint32(7)
	s := NewSecretFrom(&donor)
	s.Zeroize()

	is.Equal(uint32(0), s.Borrow())
}

func TestOptional_SetPresentThenAbsent_ZeroizesPayload(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	opt := NewOptional[Array](func(a *Array) { a.Zeroize() })
	is.False(opt.IsPresent())

	donor := *NewArray(4)
	donor.ReplaceFrom([]byte{1, 2, 3, 4})
	opt.SetPresent(&donor)

	is.True(opt.IsPresent())
	v, ok := opt.Borrow()
	is.True(ok)
	is.Equal([]byte{1, 2, 3, 4}, v.Slice())
	payload := v.Slice()

	opt.SetAbsent()
	is.False(opt.IsPresent())
	is.Equal([]byte{0, 0, 0, 0}, payload)
}

func TestOptional_SetPresent_ZeroizesPriorPayload(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	opt := NewOptional[Array](func(a *Array) { a.Zeroize() })

	first := *NewArray(2)
	first.ReplaceFrom([]byte{1, 2})
	opt.SetPresent(&first)
	firstPtr, _ := opt.Borrow()
	firstSlice := firstPtr.Slice()

	second := *NewArray(2)
	second.ReplaceFrom([]byte{3, 4})
	opt.SetPresent(&second)

	is.Equal([]byte{0, 0}, firstSlice)
}
