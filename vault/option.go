// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package vault

import (
	"github.com/sixafter/redoubt"
	"github.com/sixafter/redoubt/random"
)

type config struct {
	source   random.Source
	observer redoubt.Observer
}

// Option customizes a Vault at construction time.
type Option func(*config)

// WithSource overrides the entropy source used for the master key and
// per-slot nonces. The default is random.Default().
func WithSource(src random.Source) Option {
	return func(c *config) { c.source = src }
}

// WithObserver attaches a diagnostic Observer. The default is
// redoubt.NopObserver{}.
func WithObserver(obs redoubt.Observer) Option {
	return func(c *config) { c.observer = obs }
}

func defaultConfig() config {
	return config{
		source:   random.Default(),
		observer: redoubt.NopObserver{},
	}
}
