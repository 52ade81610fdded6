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

package rebaser_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/erigontech/treecrdt-lib/atom"
	"github.com/erigontech/treecrdt-lib/crossfield"
	"github.com/erigontech/treecrdt-lib/revision"

	"github.com/erigontech/treecrdt/optional"
	"github.com/erigontech/treecrdt/rebaser"
)

// genSetChangeset draws a random "set" changeset authored under rev, its
// input emptiness chosen arbitrarily by rapid.
func genSetChangeset(t *rapid.T, rev atom.RevisionTag, local *atom.LocalId) optional.Changeset[string] {
	wasEmpty := rapid.Bool().Draw(t, "wasEmpty")
	fill := atom.Explicit(rev, *local)
	*local++
	detach := atom.Explicit(rev, *local)
	*local++
	return optional.NewEditor[string]().Set(wasEmpty, fill, detach)
}

// Law 1/2: compose with the empty changeset is the identity.
func TestLaw_ComposeIdentity(t *testing.T) {
	r1, r2 := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, r2)
	rb := rebaser.New[string](crossfield.FailingManager{}, md)

	rapid.Check(t, func(t *rapid.T) {
		local := atom.LocalId(1)
		a := genSetChangeset(t, r1, &local)
		empty := optional.Changeset[string]{InputEmpty: a.OutputEmpty, OutputEmpty: a.OutputEmpty}

		left, err := rb.Compose(empty2(a), a, concatChild)
		require.NoError(t, err)
		require.True(t, optional.Equal(left, atom.Zero, false, a, atom.Zero, false, strEq))

		right, err := rb.Compose(a, empty, concatChild)
		require.NoError(t, err)
		require.True(t, optional.Equal(right, atom.Zero, false, a, atom.Zero, false, strEq))
	})
}

// Law 6: rebasing over the empty changeset is the identity.
func TestLaw_RebaseIdentity(t *testing.T) {
	r1, r2 := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, r2)
	rb := rebaser.New[string](crossfield.FailingManager{}, md)

	rapid.Check(t, func(t *rapid.T) {
		local := atom.LocalId(1)
		a := genSetChangeset(t, r1, &local)
		empty := optional.Changeset[string]{InputEmpty: a.InputEmpty, OutputEmpty: a.InputEmpty}

		out, err := rb.Rebase(a, empty, keepChildOnRebase)
		require.NoError(t, err)
		require.True(t, optional.Equal(out, atom.Zero, false, a, atom.Zero, false, strEq))
	})
}

// Law 4, context chain only: A^-1 starts where A ends and ends where A
// starts, and compose(A, A^-1) starts and ends in A's input context. The
// delta of compose(A, A^-1) is not checked here; it still carries an
// attach or replace mark for the re-attached id (see DESIGN.md).
func TestLaw_InverseRollbackAnnihilatesContext(t *testing.T) {
	r1, rInv := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, rInv)
	rb := rebaser.New[string](crossfield.FailingManager{}, md)

	rapid.Check(t, func(t *rapid.T) {
		local := atom.LocalId(1)
		a := genSetChangeset(t, r1, &local)

		inv, err := rb.Invert(a, true, rInv, keepChildOnInvert)
		require.NoError(t, err)
		require.Equal(t, a.OutputEmpty, inv.InputEmpty)
		require.Equal(t, a.InputEmpty, inv.OutputEmpty)

		composed, err := rb.Compose(a, inv, concatChild)
		require.NoError(t, err)
		require.Equal(t, a.InputEmpty, composed.InputEmpty)
		require.Equal(t, a.InputEmpty, composed.OutputEmpty)
	})
}

func strEq(a, b string) bool { return a == b }

// empty2 exists only so TestLaw_ComposeIdentity's left-identity case can be written
// point-free above without shadowing the outer empty changeset literal.
func empty2(a optional.Changeset[string]) optional.Changeset[string] {
	return optional.Changeset[string]{InputEmpty: a.InputEmpty, OutputEmpty: a.InputEmpty}
}
