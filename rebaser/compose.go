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

// Compose forms "first apply A, then B" into one changeset with the same
// net effect (C4.4.1, spec.md §4.4.1). Degenerate inputs short-circuit
// before any merge work, per spec.md §7 kind 3.
func (r *Rebaser[TChild]) Compose(
	a, b optional.Changeset[TChild],
	composeChild optional.NodeChangeComposer[TChild],
) (optional.Changeset[TChild], error) {
	if a.IsEmpty() {
		return b, nil
	}
	if b.IsEmpty() {
		return a, nil
	}
	if err := optional.Validate(a); err != nil {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, err)
	}
	if err := optional.Validate(b); err != nil {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, err)
	}
	if a.OutputEmpty != b.InputEmpty {
		return optional.Changeset[TChild]{}, logViolation(r.cfg.logger, newContextChainError("compose", a.OutputEmpty, b.InputEmpty))
	}

	moves := composeMoves(a.Moves, b.Moves)
	vr, replaceMoves := composeValueReplace(a.ValueReplace, b.ValueReplace)
	moves = append(moves, replaceMoves...)
	childChanges := composeChildChanges(a, b, composeChild)

	out := optional.Changeset[TChild]{
		InputEmpty:   a.InputEmpty,
		OutputEmpty:  b.OutputEmpty,
		Moves:        optional.SortMoves(moves),
		ChildChanges: optional.SortChildChanges(childChanges),
		ValueReplace: vr,
	}
	return out, nil
}

// composeMoves merges two move sets per spec.md §4.4.1 step 2: a move in B
// whose source is a destination A already produced collapses into one move
// carrying A's original source; moves that become identity are dropped.
func composeMoves(aMoves, bMoves []optional.Move) []optional.Move {
	aDstToSrc := make(map[atom.ChangeAtomId]atom.ChangeAtomId, len(aMoves))
	for _, m := range aMoves {
		aDstToSrc[m.Dst] = m.Src
	}
	consumed := make(map[atom.ChangeAtomId]bool, len(aMoves))

	var out []optional.Move
	for _, mb := range bMoves {
		if origSrc, ok := aDstToSrc[mb.Src]; ok {
			consumed[mb.Src] = true
			if !origSrc.Equal(mb.Dst) {
				out = append(out, optional.Move{Src: origSrc, Dst: mb.Dst})
			}
			continue
		}
		out = append(out, mb)
	}
	for _, ma := range aMoves {
		if consumed[ma.Dst] {
			continue
		}
		if !ma.Src.Equal(ma.Dst) {
			out = append(out, ma)
		}
	}
	return out
}

// composeValueReplace implements the compose table of spec.md §4.4.1:
// composed.IsEmpty is always A's IsEmpty and composed.Dst is always B's
// Dst; Src and any move this merge implies follow from what A's replace
// left resident in the field ("cur") and what B's replace then does to it.
func composeValueReplace(a, b *optional.ValueReplace) (*optional.ValueReplace, []optional.Move) {
	switch {
	case a == nil && b == nil:
		return nil, nil
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	}

	out := &optional.ValueReplace{IsEmpty: a.IsEmpty, Dst: b.Dst}
	var moves []optional.Move

	switch {
	case a.Src.IsAbsent():
		// cur = nothing.
		switch {
		case b.Src.IsAbsent(), b.Src.IsSelf():
			out.Src = optional.AbsentSource()
		default:
			x, _ := b.Src.Atom()
			out.Src = optional.AttachSource(x)
		}
	case a.Src.IsSelf():
		// cur = whatever A pinned, named by A's own reserved Dst.
		switch {
		case b.Src.IsAbsent():
			out.Src = optional.AbsentSource()
			if !a.Dst.Equal(b.Dst) {
				moves = append(moves, optional.Move{Src: a.Dst, Dst: b.Dst})
			}
		case b.Src.IsSelf():
			out.Src = optional.SelfSource()
		default:
			x, _ := b.Src.Atom()
			out.Src = optional.AttachSource(x)
			if !a.Dst.Equal(x) {
				moves = append(moves, optional.Move{Src: a.Dst, Dst: x})
			}
		}
	default:
		// cur = Y, the content A attached.
		y, _ := a.Src.Atom()
		switch {
		case b.Src.IsAbsent():
			out.Src = optional.AbsentSource()
			if !y.Equal(b.Dst) {
				moves = append(moves, optional.Move{Src: y, Dst: b.Dst})
			}
		case b.Src.IsSelf():
			out.Src = optional.AttachSource(y)
		default:
			x, _ := b.Src.Atom()
			out.Src = optional.AttachSource(x)
			if !y.Equal(x) {
				moves = append(moves, optional.Move{Src: y, Dst: x})
			}
		}
	}

	return out, moves
}

// composeChildChanges groups A's and B's child changes by the location
// they target in the composed changeset's own output-context naming,
// merging colocated pairs with composeChild (spec.md §4.4.1 step 4).
func composeChildChanges[TChild any](
	a, b optional.Changeset[TChild],
	composeChild optional.NodeChangeComposer[TChild],
) []optional.ChildChangePair[TChild] {
	bMoveSrcToDst := make(map[atom.ChangeAtomId]atom.ChangeAtomId, len(b.Moves))
	for _, m := range b.Moves {
		bMoveSrcToDst[m.Src] = m.Dst
	}

	// relabelAfterB carries a location expressed in A's output naming
	// (= B's input naming) forward into B's output naming: B's moves
	// relabel atoms directly, and B's own replace (unless a pin) detaches
	// whatever self denoted going in.
	relabelAfterB := func(loc optional.EndpointLocation) optional.EndpointLocation {
		if loc.IsSelf() {
			if b.ValueReplace != nil && !b.ValueReplace.Src.IsSelf() {
				return optional.AtomLocation(b.ValueReplace.Dst)
			}
			return loc
		}
		id, _ := loc.Atom()
		if dst, ok := bMoveSrcToDst[id]; ok {
			return optional.AtomLocation(dst)
		}
		return loc
	}
	// projectOwn resolves a changeset's own self-targeted child change
	// against its own replace, per the invariant in spec.md §3: self
	// denotes the post-replace occupant only for a pin, otherwise the
	// pre-replace occupant (now named by the replace's own Dst).
	projectOwn := func(loc optional.EndpointLocation, vr *optional.ValueReplace) optional.EndpointLocation {
		if loc.IsSelf() && vr != nil && !vr.Src.IsSelf() {
			return optional.AtomLocation(vr.Dst)
		}
		return loc
	}

	order := make([]optional.EndpointLocation, 0, len(a.ChildChanges)+len(b.ChildChanges))
	merged := make(map[optional.EndpointLocation]TChild, len(a.ChildChanges)+len(b.ChildChanges))
	put := func(loc optional.EndpointLocation, val TChild) {
		if existing, ok := merged[loc]; ok {
			merged[loc] = composeChild(existing, val)
			return
		}
		merged[loc] = val
		order = append(order, loc)
	}

	for _, cc := range a.ChildChanges {
		put(relabelAfterB(projectOwn(cc.Location, a.ValueReplace)), cc.Change)
	}
	for _, cc := range b.ChildChanges {
		put(projectOwn(cc.Location, b.ValueReplace), cc.Change)
	}

	out := make([]optional.ChildChangePair[TChild], 0, len(order))
	for _, loc := range order {
		out = append(out, optional.ChildChangePair[TChild]{Location: loc, Change: merged[loc]})
	}
	return out
}
