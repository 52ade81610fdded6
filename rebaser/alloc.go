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

package rebaser

import (
	"github.com/erigontech/treecrdt-lib/atom"
	"github.com/erigontech/treecrdt-lib/idalloc"

	"github.com/erigontech/treecrdt/optional"
)

// seedAllocator builds a fresh idalloc.Allocator seeded from the union of
// ids mentioned by every input changeset to the operation about to run
// (spec.md §4.1), so a freshly minted id in the output never collides with
// an id either input already mentions.
func seedAllocator[TChild any](changesets ...optional.Changeset[TChild]) *idalloc.Allocator {
	var seed []atom.LocalId
	for _, c := range changesets {
		for _, id := range optional.AllAtomIds(c) {
			seed = append(seed, id.Local)
		}
	}
	return idalloc.New(seed...)
}
