// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package rebaser implements C4, the rebasing algebra at the heart of the
// optional-field core: compose, invert, rebase, replaceRevisions, and
// isEmpty, each a pure function of its changeset inputs plus a scoped id
// allocator and the two collaborator contracts (crossfield.Manager,
// revision.MetadataSource) spec.md §6 names.
package rebaser

import (
	"github.com/erigontech/treecrdt-lib/crossfield"
	"github.com/erigontech/treecrdt-lib/logutil"
	"github.com/erigontech/treecrdt-lib/revision"

	"github.com/erigontech/treecrdt/optional"
)

// Config collects the ambient, rarely-changed behavior every Rebaser
// operation shares: where to log invariant violations, and the debug-freeze
// flag set by WithDebugFreezeChecks (spec.md §5, §9). Functional
// options keep this extensible without breaking New's call sites as more
// ambient knobs are added later.
type Config struct {
	logger      logutil.Logger
	debugFreeze bool
}

// Option configures a Rebaser at construction time.
type Option func(*Config)

// WithLogger overrides the default no-op logger.
func WithLogger(l logutil.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithDebugFreezeChecks records the debug-freeze flag in the Config. No
// operation reads the flag: no build of this package, with or without a
// treecrdt_debug tag, copies or compares inputs to detect mutation.
func WithDebugFreezeChecks(enabled bool) Option {
	return func(c *Config) { c.debugFreeze = enabled }
}

func newConfig(opts []Option) Config {
	cfg := Config{logger: logutil.Noop}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Rebaser wires the C4 algebra to one cross-field manager and one revision
// metadata source. Both are held by the Rebaser value for its lifetime;
// an operation that needs fresh ids (Invert) seeds its own
// idalloc.Allocator from its own inputs rather than sharing one across
// calls.
type Rebaser[TChild any] struct {
	cfg        Config
	crossField crossfield.Manager
	metadata   revision.MetadataSource
}

// New builds a Rebaser for fields whose child edits have type TChild.
// crossField may be crossfield.FailingManager{} for a field kind that never
// crosses into a sibling field during a move — the optional-field core
// itself only consults it when a move endpoint names a counterpart in
// another field, which its own data model never directly produces (spec.md
// §9), so FailingManager{} is the correct default for most callers.
// metadata must cover every revision any changeset passed to this Rebaser
// references.
func New[TChild any](crossField crossfield.Manager, metadata revision.MetadataSource, opts ...Option) *Rebaser[TChild] {
	return &Rebaser[TChild]{
		cfg:        newConfig(opts),
		crossField: crossField,
		metadata:   metadata,
	}
}

// IsEmpty re-exports optional.Changeset.IsEmpty for API symmetry with
// spec.md §6's "Rebaser: compose, invert, rebase, replaceRevisions,
// isEmpty" — it needs no collaborators, so callers may equally call
// c.IsEmpty() directly.
func (r *Rebaser[TChild]) IsEmpty(c optional.Changeset[TChild]) bool {
	return c.IsEmpty()
}
