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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/treecrdt-lib/atom"
	"github.com/erigontech/treecrdt-lib/crossfield"
	"github.com/erigontech/treecrdt-lib/revision"

	"github.com/erigontech/treecrdt/optional"
	"github.com/erigontech/treecrdt/rebaser"
)

// child edits in these tests are plain strings; compose concatenates,
// invert/rebase are no-ops since no scenario below exercises real child
// mutation content, and toDelta is the identity.
func concatChild(a, b string) string               { return a + b }
func keepChildOnRebase(child, _ string) string      { return child }
func keepChildOnInvert(child string, _ bool) string { return child }
func identityDelta(child string) string             { return child }

func newRebaser(md revision.MetadataSource) *rebaser.Rebaser[string] {
	return rebaser.New[string](crossfield.FailingManager{}, md)
}

func atomID(rev atom.RevisionTag, local atom.LocalId) atom.ChangeAtomId {
	return atom.Explicit(rev, local)
}

// S1. Compose set-then-clear.
func TestScenarioS1_ComposeSetThenClear(t *testing.T) {
	r1, r2 := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, r2)
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	f := atomID(r1, 1)
	d := atomID(r1, 2)
	dp := atomID(r2, 1)

	a := editor.Set(true, f, d)
	b := editor.Clear(false, dp)

	ab, err := rb.Compose(a, b, concatChild)
	require.NoError(t, err)

	require.Len(t, ab.Moves, 1)
	assert.True(t, ab.Moves[0].Src.Equal(f))
	assert.True(t, ab.Moves[0].Dst.Equal(dp))

	require.NotNil(t, ab.ValueReplace)
	assert.True(t, ab.ValueReplace.IsEmpty)
	assert.True(t, ab.ValueReplace.Dst.Equal(dp))
	assert.True(t, ab.ValueReplace.Src.IsAbsent())
}

// S2. Invert a set (rollback).
func TestScenarioS2_InvertSetRollback(t *testing.T) {
	r1 := atom.NewRevisionTag()
	rInv := atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, rInv)
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	f := atomID(r1, 1)
	d := atomID(r1, 2)
	a := editor.Set(true, f, d)

	inv, err := rb.Invert(a, true, rInv, keepChildOnInvert)
	require.NoError(t, err)

	assert.Empty(t, inv.Moves)
	assert.Empty(t, inv.ChildChanges)
	require.NotNil(t, inv.ValueReplace)
	assert.False(t, inv.ValueReplace.IsEmpty)
	id, ok := inv.ValueReplace.Src.Atom()
	require.True(t, ok)
	assert.True(t, id.Equal(d))
	assert.Equal(t, a.OutputEmpty, inv.InputEmpty)
	assert.Equal(t, a.InputEmpty, inv.OutputEmpty)
}

// S3. Concurrent set, last-writer-wins.
func TestScenarioS3_ConcurrentSetLWW(t *testing.T) {
	r1, r2 := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, r2) // r2 ranks later
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	fA, dA := atomID(r1, 1), atomID(r1, 2)
	fB, dB := atomID(r2, 1), atomID(r2, 2)

	a := editor.Set(true, fA, dA)
	b := editor.Set(true, fB, dB)

	rebased, err := rb.Rebase(a, b, keepChildOnRebase)
	require.NoError(t, err)

	require.NotNil(t, rebased.ValueReplace)
	assert.True(t, rebased.ValueReplace.Src.IsSelf())
	assert.True(t, rebased.ValueReplace.Dst.Equal(dA))

	composed, err := rb.Compose(b, rebased, concatChild)
	require.NoError(t, err)
	delta := optional.IntoDelta(composed, identityDelta)
	require.Len(t, delta.Local, 1)
	assert.Equal(t, optional.MarkAttach, delta.Local[0].Kind)
	assert.True(t, delta.Local[0].AttachID.Equal(fB))
}

// S4. Child change under concurrent clear relocates onto the detached root.
func TestScenarioS4_ChildChangeUnderConcurrentClear(t *testing.T) {
	r1, r2 := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, r2)
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	d := atomID(r2, 1)

	a := editor.BuildChildChange("edit")
	b := editor.Clear(false, d)

	rebased, err := rb.Rebase(a, b, keepChildOnRebase)
	require.NoError(t, err)

	require.Len(t, rebased.ChildChanges, 1)
	id, ok := rebased.ChildChanges[0].Location.Atom()
	require.True(t, ok)
	assert.True(t, id.Equal(d))
	assert.Equal(t, "edit", rebased.ChildChanges[0].Change)

	delta := optional.IntoDelta(rebased, identityDelta)
	require.Len(t, delta.Global, 1)
	assert.True(t, delta.Global[0].ID.Equal(d))
}

// S5. Sandwich rebase: (A ↷ B) ↷ [B⁻¹, B] ≡ A ↷ B.
func TestScenarioS5_SandwichRebase(t *testing.T) {
	r1, r2, rInv := atom.NewRevisionTag(), atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, rInv, r2) // B (r2) ranks later than A (r1)
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	fA, dA := atomID(r1, 1), atomID(r1, 2)
	fB, dB := atomID(r2, 1), atomID(r2, 2)

	a := editor.Set(true, fA, dA)
	b := editor.Set(true, fB, dB)

	x, err := rb.Rebase(a, b, keepChildOnRebase)
	require.NoError(t, err)

	bInv, err := rb.Invert(b, true, rInv, keepChildOnInvert)
	require.NoError(t, err)

	y, err := rb.Rebase(x, bInv, keepChildOnRebase)
	require.NoError(t, err)

	z, err := rb.Rebase(y, b, keepChildOnRebase)
	require.NoError(t, err)

	assert.True(t, optional.Equal(z, atom.Zero, false, x, atom.Zero, false, func(a, b string) bool { return a == b }),
		"sandwich rebase mismatch:\nz = %s\nx = %s", z.Dump(), x.Dump())
}

// S6. Relevant removed roots.
func TestScenarioS6_RelevantRemovedRoots(t *testing.T) {
	r1, rInv := atom.NewRevisionTag(), atom.NewRevisionTag()
	md := revision.NewStaticMetadata(r1, rInv)
	rb := newRebaser(md)

	editor := optional.NewEditor[string]()
	d := atomID(r1, 1)
	cleared := editor.Clear(false, d)

	inv, err := rb.Invert(cleared, true, rInv, keepChildOnInvert)
	require.NoError(t, err)

	roots := optional.RelevantRemovedRoots(inv, identityDelta, func(string) []atom.ChangeAtomId { return nil })
	require.Len(t, roots, 1)
	assert.True(t, roots[0].Equal(d))
}
