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

// Invert builds the changeset that cancels c (spec.md §4.4.2). isRollback
// selects which of the two inverse forms spec.md §4.4.2 names: a rollback
// inverse is meant to be composed right after c to erase its effect from
// the same timeline, while an undo inverse is meant to be rebased forward
// over everything that has happened since and composed at the tip. rev
// names the revision the inverse itself is authored under, used to tag any
// atom this call mints.
func (r *Rebaser[TChild]) Invert(
	c optional.Changeset[TChild],
	isRollback bool,
	rev atom.RevisionTag,
	invertChild optional.NodeChangeInverter[TChild],
) (optional.Changeset[TChild], error) {
	if c.IsEmpty() {
		return c, nil
	}
	if err := optional.Validate(c); err != nil {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, err)
	}

	alloc := seedAllocator(c)

	moves := make([]optional.Move, len(c.Moves))
	for i, m := range c.Moves {
		moves[i] = optional.Move{Src: m.Dst, Dst: m.Src}
	}

	var vr *optional.ValueReplace
	if c.ValueReplace != nil {
		vr = invertValueReplace(c.ValueReplace, c.OutputEmpty, rev, alloc)
	}

	childChanges := make([]optional.ChildChangePair[TChild], 0, len(c.ChildChanges))
	for _, cc := range c.ChildChanges {
		childChanges = append(childChanges, optional.ChildChangePair[TChild]{
			Location: relocateInverted(cc.Location, c.ValueReplace),
			Change:   invertChild(cc.Change, isRollback),
		})
	}

	out := optional.Changeset[TChild]{
		InputEmpty:   c.OutputEmpty,
		OutputEmpty:  c.InputEmpty,
		Moves:        optional.SortMoves(moves),
		ChildChanges: optional.SortChildChanges(childChanges),
		ValueReplace: vr,
	}
	return out, nil
}

// invertValueReplace builds the inverse of a single ValueReplace so that
// composing c with its inverse returns the field to c's original input
// context (the context-chain side of Law 4, spec.md §8): a pin inverts to a pin;
// anything else — whether fwd attached real content (a set) or attached
// nothing (a clear) — detached whatever previously occupied the field to
// fwd.Dst, so the inverse always re-attaches from fwd.Dst to bring it back,
// regardless of whether fwd.IsEmpty means that id names real content or
// just a reserved placeholder.
func invertValueReplace(fwd *optional.ValueReplace, cOutputEmpty bool, rev atom.RevisionTag, alloc *idalloc.Allocator) *optional.ValueReplace {
	out := &optional.ValueReplace{IsEmpty: cOutputEmpty, Dst: atom.Explicit(rev, alloc.Mint())}

	if fwd.Src.IsSelf() {
		out.Src = optional.SelfSource()
	} else {
		out.Src = optional.AttachSource(fwd.Dst)
	}
	return out
}

// relocateInverted carries a child-change location from c's own naming
// into the inverse's naming: a change that targeted the pre-replace
// occupant (self, under the projection rule of spec.md §3) now targets
// that occupant by the name c's own replace gave it, c.ValueReplace.Dst.
func relocateInverted(loc optional.EndpointLocation, fwd *optional.ValueReplace) optional.EndpointLocation {
	if loc.IsSelf() && fwd != nil && !fwd.Src.IsSelf() {
		return optional.AtomLocation(fwd.Dst)
	}
	return loc
}
