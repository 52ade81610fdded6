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

package optional

import (
	"github.com/google/btree"

	"github.com/erigontech/treecrdt-lib/atom"
)

// SortMoves returns moves sorted by Src, the canonical order spec.md §4.2
// assigns a changeset's move set for semantic-equality comparison. Each
// call builds a fresh google/btree ordered map from moves and walks it in
// order; moves with equal Src collapse to the last one given. Compose,
// Invert and Rebase pass their output moves through it.
func SortMoves(moves []Move) []Move {
	if len(moves) < 2 {
		return moves
	}
	tr := btree.NewG(32, func(a, b Move) bool { return a.Src.Less(b.Src) })
	for _, m := range moves {
		tr.ReplaceOrInsert(m)
	}
	out := make([]Move, 0, tr.Len())
	tr.Ascend(func(m Move) bool {
		out = append(out, m)
		return true
	})
	return out
}

// SortChildChanges returns child changes sorted by Location, the canonical
// order spec.md §4.2 assigns for comparison.
func SortChildChanges[TChild any](ccs []ChildChangePair[TChild]) []ChildChangePair[TChild] {
	if len(ccs) < 2 {
		return ccs
	}
	tr := btree.NewG(32, func(a, b ChildChangePair[TChild]) bool { return a.Location.Less(b.Location) })
	for _, cc := range ccs {
		tr.ReplaceOrInsert(cc)
	}
	out := make([]ChildChangePair[TChild], 0, tr.Len())
	tr.Ascend(func(cc ChildChangePair[TChild]) bool {
		out = append(out, cc)
		return true
	})
	return out
}

// Canonicalize returns c with its moves and child changes sorted into
// canonical order and every elided atom id inlined against own (spec.md
// §4.2: "two changesets are equal iff their deltas are equal after
// canonical normalization"). own is the revision elided atoms in c
// implicitly refer to; pass atom.Zero, false when c carries no elided
// atoms (e.g. it was built entirely from Explicit ids, which is the case
// for every changeset this repository's Editor and Rebaser produce).
func Canonicalize[TChild any](c Changeset[TChild], own atom.RevisionTag, hasOwn bool) Changeset[TChild] {
	inline := func(a atom.ChangeAtomId) atom.ChangeAtomId {
		if hasOwn {
			return a.Inline(own)
		}
		return a
	}
	inlineLoc := func(l EndpointLocation) EndpointLocation {
		if id, ok := l.Atom(); ok {
			return AtomLocation(inline(id))
		}
		return l
	}

	moves := make([]Move, len(c.Moves))
	for i, m := range c.Moves {
		moves[i] = Move{Src: inline(m.Src), Dst: inline(m.Dst)}
	}
	ccs := make([]ChildChangePair[TChild], len(c.ChildChanges))
	for i, cc := range c.ChildChanges {
		ccs[i] = ChildChangePair[TChild]{Location: inlineLoc(cc.Location), Change: cc.Change}
	}
	var vr *ValueReplace
	if c.ValueReplace != nil {
		v := *c.ValueReplace
		v.Dst = inline(v.Dst)
		if id, ok := v.Src.Atom(); ok {
			v.Src = AttachSource(inline(id))
		}
		vr = &v
	}

	return Changeset[TChild]{
		InputEmpty:   c.InputEmpty,
		OutputEmpty:  c.OutputEmpty,
		Moves:        SortMoves(moves),
		ChildChanges: SortChildChanges(ccs),
		ValueReplace: vr,
	}
}

// Equal reports whether a and b are semantically the same changeset per
// spec.md §4.2: structural equality after both are canonicalized, with
// every elided atom inlined against its owning changeset's own revision.
// childEqual compares two TChild values for equality; ownA/ownB name the
// revision each side's elided atoms implicitly refer to (pass atom.Zero,
// false when a side carries none).
func Equal[TChild any](
	a Changeset[TChild], ownA atom.RevisionTag, hasOwnA bool,
	b Changeset[TChild], ownB atom.RevisionTag, hasOwnB bool,
	childEqual func(x, y TChild) bool,
) bool {
	ca := Canonicalize(a, ownA, hasOwnA)
	cb := Canonicalize(b, ownB, hasOwnB)

	if ca.InputEmpty != cb.InputEmpty || ca.OutputEmpty != cb.OutputEmpty {
		return false
	}
	if len(ca.Moves) != len(cb.Moves) || len(ca.ChildChanges) != len(cb.ChildChanges) {
		return false
	}
	for i := range ca.Moves {
		if !ca.Moves[i].Src.Equal(cb.Moves[i].Src) || !ca.Moves[i].Dst.Equal(cb.Moves[i].Dst) {
			return false
		}
	}
	for i := range ca.ChildChanges {
		if !ca.ChildChanges[i].Location.Equal(cb.ChildChanges[i].Location) {
			return false
		}
		if !childEqual(ca.ChildChanges[i].Change, cb.ChildChanges[i].Change) {
			return false
		}
	}

	switch {
	case ca.ValueReplace == nil && cb.ValueReplace == nil:
		return true
	case ca.ValueReplace == nil || cb.ValueReplace == nil:
		return false
	default:
		va, vb := ca.ValueReplace, cb.ValueReplace
		if va.IsEmpty != vb.IsEmpty || !va.Dst.Equal(vb.Dst) {
			return false
		}
		if va.Src.IsAbsent() != vb.Src.IsAbsent() || va.Src.IsSelf() != vb.Src.IsSelf() {
			return false
		}
		if xa, ok := va.Src.Atom(); ok {
			xb, _ := vb.Src.Atom()
			return xa.Equal(xb)
		}
		return true
	}
}
