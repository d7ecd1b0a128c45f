// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package vault

import (
	"github.com/sixafter/redoubt/aegis128l"
	"github.com/sixafter/redoubt/galloc"
	"github.com/sixafter/redoubt/random"
	"github.com/sixafter/redoubt/zero"
)

// key holds the vault's AEGIS-128L master key in a page-aligned, mlocked
// allocation so it can be mprotect'd away between uses.
type key struct {
	page []byte
}

// newKey allocates a guarded page and fills its first aegis128l.KeySize
// bytes from src.
func newKey(src random.Source) (*key, error) {
	page, err := galloc.Page(aegis128l.KeySize)
	if err != nil {
		return nil, err
	}
	if err := src.Fill(page[:aegis128l.KeySize]); err != nil {
		galloc.FreePage(page)
		return nil, err
	}
	return &key{page: page}, nil
}

func (k *key) bytes() []byte { return k.page[:aegis128l.KeySize] }

func (k *key) zeroize() { zero.Bytes(k.page) }
