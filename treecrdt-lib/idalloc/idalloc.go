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

// Package idalloc mints fresh LocalIds within the scope of one algebra
// operation (C1 of the rebasing core). It is not safe for concurrent use —
// per spec.md §5, each top-level operation owns a fresh Allocator and never
// retains it past return.
package idalloc

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/erigontech/treecrdt-lib/atom"
)

// Allocator mints LocalIds from a counter seeded at max(existing)+1, per
// spec.md §4.1. It also tracks every id it has minted or been seeded with in
// a roaring bitmap, so Taken can answer "would this collide" in O(1) without
// keeping a Go map alive for the lifetime of a long-running compose/rebase
// chain.
type Allocator struct {
	seen *roaring64.Bitmap
	next atom.LocalId
}

// New creates an allocator seeded from the union of ids mentioned by every
// input changeset to the operation about to run. Per spec.md §4.1, an
// operation that composes or rebases N changesets must seed from the ids of
// all N, not just one, so that freshly minted ids in the output never
// collide with any input.
func New(seed ...atom.LocalId) *Allocator {
	a := &Allocator{seen: roaring64.New()}
	for _, id := range seed {
		a.seen.Add(uint64(id))
		a.next = atom.Max(a.next, id)
	}
	if len(seed) > 0 {
		next, overflow := atom.SafeNext(a.next)
		if overflow {
			panic("idalloc: seed id space already exhausts uint64")
		}
		a.next = next
	}
	return a
}

// Mint returns a fresh LocalId guaranteed not to collide with anything this
// allocator was seeded with or has minted before.
func (a *Allocator) Mint() atom.LocalId {
	for a.seen.Contains(uint64(a.next)) {
		next, overflow := atom.SafeNext(a.next)
		if overflow {
			panic("idalloc: local id space exhausted")
		}
		a.next = next
	}
	id := a.next
	a.seen.Add(uint64(id))
	next, overflow := atom.SafeNext(a.next)
	if overflow {
		panic("idalloc: local id space exhausted")
	}
	a.next = next
	return id
}

// Taken reports whether id has already been seeded or minted by this
// allocator. Used by invariant checks (spec.md §3 "unique ids per
// changeset") to detect a caller accidentally re-using an id this operation
// already produced.
func (a *Allocator) Taken(id atom.LocalId) bool {
	return a.seen.Contains(uint64(id))
}

// Count returns the number of distinct ids this allocator has seen, for
// diagnostics only.
func (a *Allocator) Count() uint64 {
	return a.seen.GetCardinality()
}
