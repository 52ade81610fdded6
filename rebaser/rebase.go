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

	"github.com/erigontech/treecrdt/optional"
)

// Rebase carries c forward over a concurrent b so that both can compose
// against a common tip in either order (C4.4.3, spec.md §4.4.3). c and b
// must share the same input context; conflicting value replaces resolve
// by last-writer-wins via the Rebaser's revision.MetadataSource.
func (r *Rebaser[TChild]) Rebase(
	c, b optional.Changeset[TChild],
	rebaseChild optional.NodeChangeRebaser[TChild],
) (optional.Changeset[TChild], error) {
	if b.IsEmpty() {
		return c, nil
	}
	if c.IsEmpty() {
		return c, nil
	}
	if err := optional.Validate(c); err != nil {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, err)
	}
	if err := optional.Validate(b); err != nil {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, err)
	}
	if c.InputEmpty != b.InputEmpty {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, newContextChainError("rebase", c.InputEmpty, b.InputEmpty))
	}

	bMoveSrcToDst := make(map[atom.ChangeAtomId]atom.ChangeAtomId, len(b.Moves))
	for _, m := range b.Moves {
		bMoveSrcToDst[m.Src] = m.Dst
	}
	// translate carries an atom named in the shared input context forward
	// into b's output context by applying b's moves. translateLoc does the
	// same for a location, and also maps self to b's Dst when b's replace
	// consumed the field's resident value (anything but a pin).
	translate := func(id atom.ChangeAtomId) atom.ChangeAtomId {
		if dst, ok := bMoveSrcToDst[id]; ok {
			return dst
		}
		return id
	}
	translateLoc := func(loc optional.EndpointLocation) optional.EndpointLocation {
		if loc.IsSelf() {
			if b.ValueReplace != nil && !b.ValueReplace.Src.IsSelf() {
				return optional.AtomLocation(b.ValueReplace.Dst)
			}
			return loc
		}
		id, _ := loc.Atom()
		return optional.AtomLocation(translate(id))
	}

	moves := make([]optional.Move, 0, len(c.Moves))
	for _, m := range c.Moves {
		src, dst := translate(m.Src), translate(m.Dst)
		if !src.Equal(dst) {
			moves = append(moves, optional.Move{Src: src, Dst: dst})
		}
	}

	vr := r.rebaseValueReplace(c.ValueReplace, b.ValueReplace, b.OutputEmpty)

	bChildAt := make(map[optional.EndpointLocation]TChild, len(b.ChildChanges))
	for _, cc := range b.ChildChanges {
		bChildAt[cc.Location] = cc.Change
	}

	childChanges := make([]optional.ChildChangePair[TChild], 0, len(c.ChildChanges))
	for _, cc := range c.ChildChanges {
		loc := translateLoc(cc.Location)
		change := cc.Change
		if baseChange, ok := bChildAt[cc.Location]; ok {
			change = rebaseChild(change, baseChange)
		}
		childChanges = append(childChanges, optional.ChildChangePair[TChild]{Location: loc, Change: change})
	}

	out := optional.Changeset[TChild]{
		InputEmpty:   b.OutputEmpty,
		OutputEmpty:  deriveOutputEmpty(b.OutputEmpty, vr),
		Moves:        optional.SortMoves(moves),
		ChildChanges: optional.SortChildChanges(childChanges),
		ValueReplace: vr,
	}
	return out, nil
}

// rebaseValueReplace resolves c's and b's concurrent edits to the same
// optional slot (spec.md §4.4.3, the LWW branch). If only one side touched
// the value the other passes through unchanged, reprojected onto b's
// output context; if both sides attached content, the later revision (per
// r.metadata.IsLaterThan) wins outright and the loser downgrades to a pin
// on its own destination atom — it reserves the detach id its own inverse
// would need, but no longer detaches the occupant b's write leaves behind.
// When either side is a clear or a pin, no revision order is consulted and
// c's replace passes through, reprojected.
func (r *Rebaser[TChild]) rebaseValueReplace(c, b *optional.ValueReplace, bOutputEmpty bool) *optional.ValueReplace {
	switch {
	case c == nil:
		return nil
	case b == nil:
		return &optional.ValueReplace{IsEmpty: bOutputEmpty, Dst: c.Dst, Src: c.Src}
	}

	cRev, cHasRev := revisionOf(c)
	bRev, bHasRev := revisionOf(b)
	if !cHasRev || !bHasRev {
		// One or both sides never attached real content (a pure pin or an
		// absent source carries no revision of its own) so there is
		// nothing to arbitrate; c's edit survives untouched, reprojected
		// onto b's output context, whichever side lacked content.
		return &optional.ValueReplace{IsEmpty: bOutputEmpty, Dst: c.Dst, Src: c.Src}
	}

	if r.metadata.IsLaterThan(cRev, bRev) {
		return &optional.ValueReplace{IsEmpty: bOutputEmpty, Dst: c.Dst, Src: c.Src}
	}

	// c loses: its destination atom is kept as a reservation (so later
	// operations can still address the slot it would have occupied), but
	// it must not detach whatever the field actually holds going forward —
	// that's b's content, not c's. Downgrading to a pin rather than an
	// absent source keeps b's occupant resident through this changeset
	// instead of detaching it out from under b (spec.md §8 Law 10).
	return &optional.ValueReplace{IsEmpty: bOutputEmpty, Dst: c.Dst, Src: optional.SelfSource()}
}

// revisionOf reports the revision that authored vr's attached content, if
// it attached any (a pin or an absent source has no content of its own to
// attribute to a revision).
func revisionOf(vr *optional.ValueReplace) (atom.RevisionTag, bool) {
	if vr == nil || vr.Src.IsAbsent() || vr.Src.IsSelf() {
		return atom.Zero, false
	}
	id, _ := vr.Src.Atom()
	if !id.HasRevision {
		return atom.Zero, false
	}
	return id.Revision, true
}

// deriveOutputEmpty reports whether a changeset whose input context has
// the given emptiness and whose value replace is vr leaves the field empty
// on output: absent leaves it empty, a pin never changes emptiness, and an
// attach always leaves it populated.
func deriveOutputEmpty(inputEmpty bool, vr *optional.ValueReplace) bool {
	if vr == nil {
		return inputEmpty
	}
	switch {
	case vr.Src.IsAbsent():
		return true
	case vr.Src.IsSelf():
		return inputEmpty
	default:
		return false
	}
}
